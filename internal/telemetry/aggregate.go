package telemetry

import "sort"

// Summary is the per-endpoint total across every method and status.
type Summary struct {
	Endpoint string  `json:"endpoint"`
	Requests float64 `json:"requests"`
	Errors   float64 `json:"errors"`
}

// Aggregate sums samples by endpoint. The result does not depend on sample
// order. An empty input yields an empty, non-nil map.
func Aggregate(samples []Sample) map[string]Summary {
	out := make(map[string]Summary)
	for _, s := range samples {
		sum, ok := out[s.Endpoint]
		if !ok {
			sum.Endpoint = s.Endpoint
		}
		switch s.Family {
		case FamilyRequests:
			sum.Requests += s.Value
		case FamilyErrors:
			sum.Errors += s.Value
		}
		out[s.Endpoint] = sum
	}
	return out
}

// Sorted returns the summaries ordered by endpoint, for table rendering.
func Sorted(summaries map[string]Summary) []Summary {
	out := make([]Summary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Endpoint < out[j].Endpoint })
	return out
}

// Totals sums requests and errors over every endpoint.
func Totals(summaries map[string]Summary) (requests, errors float64) {
	for _, s := range summaries {
		requests += s.Requests
		errors += s.Errors
	}
	return requests, errors
}
