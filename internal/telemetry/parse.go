// Package telemetry turns request-counter exposition text into per-endpoint
// summaries, and records the same counters for this process.
//
// Parsing is deliberately lenient: lines that are blank, comments, of an
// unknown metric family, or malformed are dropped and never abort the rest
// of the input.
package telemetry

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"
)

// Metric names of the two recognised counter families.
const (
	RequestsMetric = "http_requests_total"
	ErrorsMetric   = "http_errors_total"
)

// Family identifies which counter a sample belongs to.
type Family string

const (
	FamilyRequests Family = "requests"
	FamilyErrors   Family = "errors"
)

var families = map[string]Family{
	RequestsMetric: FamilyRequests,
	ErrorsMetric:   FamilyErrors,
}

// Sample is one counter line.
type Sample struct {
	Family   Family  `json:"family"`
	Endpoint string  `json:"endpoint"`
	Method   string  `json:"method"`
	Status   string  `json:"status"`
	Value    float64 `json:"value"`
}

// Parse extracts request and error counter samples from exposition text.
// Sample order is unspecified.
func Parse(text string) []Sample {
	var samples []Sample
	for _, line := range strings.Split(text, "\n") {
		if s, ok := ParseLine(line); ok {
			samples = append(samples, s)
		}
	}
	return samples
}

// maxLineLength bounds a single exposition line read by ParseReader.
const maxLineLength = 64 << 10

// ParseReader is Parse over a stream. Lines longer than 64KiB are skipped.
// The returned error is only ever a read error from r; samples parsed before
// the error are still returned.
func ParseReader(r io.Reader) ([]Sample, error) {
	br := bufio.NewReaderSize(r, 4096)
	var samples []Sample
	var line []byte
	oversized := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if err == io.EOF {
				return samples, nil
			}
			return samples, err
		}
		if !oversized {
			line = append(line, chunk...)
			if len(line) > maxLineLength {
				oversized = true
			}
		}
		if isPrefix {
			continue
		}
		if !oversized {
			if s, ok := ParseLine(string(line)); ok {
				samples = append(samples, s)
			}
		}
		line = line[:0]
		oversized = false
	}
}

// ParseLine parses one line of the form
//
//	name{label="value",...} value [timestamp]
//
// It reports false for anything that is not a well-formed sample of a known
// family carrying method, endpoint and status labels.
func ParseLine(line string) (Sample, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return Sample{}, false
	}

	open := strings.IndexByte(line, '{')
	if open < 0 {
		return Sample{}, false
	}
	family, ok := families[strings.TrimSpace(line[:open])]
	if !ok {
		return Sample{}, false
	}

	labels, rest, ok := scanLabels(line[open+1:])
	if !ok {
		return Sample{}, false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 || len(fields) > 2 {
		return Sample{}, false
	}
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return Sample{}, false
	}

	method, okMethod := labels["method"]
	endpoint, okEndpoint := labels["endpoint"]
	status, okStatus := labels["status"]
	if !okMethod || !okEndpoint || !okStatus {
		return Sample{}, false
	}

	return Sample{
		Family:   family,
		Endpoint: endpoint,
		Method:   method,
		Status:   status,
		Value:    value,
	}, true
}

// scanLabels reads key="value" pairs up to the closing brace and returns the
// text after it.
func scanLabels(s string) (map[string]string, string, bool) {
	labels := make(map[string]string, 3)
	i := 0
	for {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) {
			return nil, "", false
		}
		if s[i] == '}' {
			return labels, s[i+1:], true
		}

		eq := strings.IndexByte(s[i:], '=')
		if eq < 0 {
			return nil, "", false
		}
		key := strings.TrimSpace(s[i : i+eq])
		if key == "" {
			return nil, "", false
		}
		i += eq + 1
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) || s[i] != '"' {
			return nil, "", false
		}
		i++

		var b strings.Builder
		closed := false
		for i < len(s) {
			c := s[i]
			if c == '\\' && i+1 < len(s) {
				switch s[i+1] {
				case 'n':
					b.WriteByte('\n')
				default:
					b.WriteByte(s[i+1])
				}
				i += 2
				continue
			}
			if c == '"' {
				closed = true
				i++
				break
			}
			b.WriteByte(c)
			i++
		}
		if !closed {
			return nil, "", false
		}
		labels[key] = b.String()

		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i < len(s) && s[i] == ',' {
			i++
		}
	}
}
