package report

import (
	"github.com/atikulmunna/loglens/internal/aggregator"
)

// Report is the immutable view of an aggregation run handed to renderers.
type Report struct {
	Requests        []aggregator.Entry `json:"requests_per_ip"`
	MostAccessed    aggregator.Entry   `json:"most_accessed_endpoint"`
	HasMostAccessed bool               `json:"has_most_accessed"`
	Endpoints       []aggregator.Entry `json:"endpoints"`
	Suspicious      []aggregator.Entry `json:"suspicious_activity"`
	Parsed          int                `json:"parsed_lines"`
	Skipped         int                `json:"skipped_lines"`
	Threshold       int                `json:"threshold"`
	Marker          string             `json:"marker"`
	Sources         []string           `json:"sources,omitempty"`
}

// Options carries the run settings echoed into a Report.
type Options struct {
	Threshold int
	Marker    string
	Sources   []string
}

// Build ranks the tallies of res into a Report. Keys are passed through
// EscapeKey after ranking.
func Build(res aggregator.Result, opts Options) Report {
	r := Report{
		Requests:   escapeEntries(res.Requests.Ranked()),
		Endpoints:  escapeEntries(res.Endpoints.Ranked()),
		Suspicious: escapeEntries(res.Suspicious(opts.Threshold)),
		Parsed:     res.Parsed,
		Skipped:    res.Skipped,
		Threshold:  opts.Threshold,
		Marker:     opts.Marker,
		Sources:    opts.Sources,
	}
	if r.Marker == "" {
		r.Marker = aggregator.DefaultMarker
	}
	if r.Suspicious == nil {
		r.Suspicious = []aggregator.Entry{}
	}
	r.MostAccessed, r.HasMostAccessed = res.MostAccessed()
	r.MostAccessed.Key = EscapeKey(r.MostAccessed.Key)
	return r
}
