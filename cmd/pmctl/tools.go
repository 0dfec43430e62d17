package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/catalog"
)

func toolsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tools [id]",
		Short: "List catalog tools, or show one tool's parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				t, err := cat.Lookup(args[0])
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(out, t)
				}
				return renderTool(out, t)
			}

			tools := cat.All()
			if opts.jsonOutput {
				return writeJSON(out, tools)
			}
			return renderToolList(out, tools)
		},
	}
}

func renderToolList(w io.Writer, tools []catalog.Tool) error {
	rows := []string{"ID\tMETHOD\tPATH"}
	for _, t := range tools {
		rows = append(rows, t.ID+"\t"+t.Method+"\t"+t.Path)
	}
	return writeTable(w, 0, rows, func(i int, line string) string {
		if i == 0 {
			return color.CyanString(line)
		}
		return line
	})
}

func renderTool(w io.Writer, t catalog.Tool) error {
	fmt.Fprintf(w, "%s  %s %s\n", color.CyanString(t.ID), t.Method, t.Path)
	if t.Description != "" {
		fmt.Fprintf(w, "  %s\n", t.Description)
	}
	if len(t.Params) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	rows := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		req := ""
		if p.Required {
			req = "required"
		}
		rows = append(rows, strings.Join([]string{"  " + p.Name, string(p.Kind), p.In.String(), req, p.Description}, "\t"))
	}
	return writeTable(w, 0, rows, func(i int, line string) string {
		p := t.Params[i]
		if !p.Required {
			return line
		}
		// Skip the name cell; the marker column follows kind and location.
		off := 2 + len(p.Name)
		j := strings.Index(line[off:], "required")
		if j < 0 {
			return line
		}
		j += off
		return line[:j] + color.YellowString("required") + line[j+len("required"):]
	})
}

func buildCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "build <id> [key=value...]",
		Short: "Print the HTTP request descriptor for a tool call",
		Long: `Build resolves a tool and its arguments into the method, URL and JSON body
that would be sent to the backend. Nothing is sent.

Values are passed as text and converted to the parameter's kind.

Examples:
  pmctl build get_task project_id=p1 task_number=5
  pmctl build update_task project_id=p1 task_number=5 'task_data={"status":"Done"}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			values, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			req, err := cat.Build(args[0], values)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), req)
		},
	}
}

// parseAssignments turns key=value arguments into builder values.
func parseAssignments(args []string) (map[string]any, error) {
	values := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q is not key=value", arg)
		}
		if _, dup := values[key]; dup {
			return nil, fmt.Errorf("parameter %q given more than once", key)
		}
		values[key] = value
	}
	return values, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
