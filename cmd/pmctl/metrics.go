package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/telemetry"
)

func metricsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics [file|-]",
		Short: "Summarise request and error counters by endpoint",
		Long: `Reads Prometheus text exposition (http_requests_total and http_errors_total)
from a file or stdin and prints per-endpoint totals. Lines that do not parse
are skipped.

Examples:
  curl -s http://localhost:8000/metrics | pmctl metrics
  pmctl metrics scrape.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			samples, err := telemetry.ParseReader(in)
			if err != nil {
				return fmt.Errorf("failed to read exposition: %w", err)
			}
			summaries := telemetry.Aggregate(samples)
			sorted := telemetry.Sorted(summaries)

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, sorted)
			}
			if len(sorted) == 0 {
				fmt.Fprintln(out, "No request metrics found")
				return nil
			}
			return renderSummaries(out, sorted, summaries)
		},
	}
}

func renderSummaries(w io.Writer, sorted []telemetry.Summary, summaries map[string]telemetry.Summary) error {
	rows := []string{"ENDPOINT\tREQUESTS\tERRORS\t"}
	for _, s := range sorted {
		rows = append(rows, s.Endpoint+"\t"+formatCount(s.Requests)+"\t"+formatCount(s.Errors)+"\t")
	}
	requests, errs := telemetry.Totals(summaries)
	rows = append(rows, "total\t"+formatCount(requests)+"\t"+formatCount(errs)+"\t")

	return writeTable(w, tabwriter.AlignRight, rows, func(i int, line string) string {
		switch {
		case i == 0:
			return color.CyanString(line)
		case i == len(rows)-1:
			return strings.Replace(line, "total", color.HiBlackString("total"), 1)
		}
		s := sorted[i-1]
		if s.Errors == 0 {
			return line
		}
		trimmed := strings.TrimRight(line, " ")
		cell := formatCount(s.Errors)
		if !strings.HasSuffix(trimmed, cell) {
			return line
		}
		return trimmed[:len(trimmed)-len(cell)] + color.RedString(cell)
	})
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
