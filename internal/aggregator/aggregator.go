package aggregator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/atikulmunna/loglens/internal/model"
	"github.com/atikulmunna/loglens/internal/parser"
)

// DefaultMarker is the status code that denotes a failed authentication attempt.
const DefaultMarker = "401"

// MaxMalformedSamples caps how many malformed line errors a Result keeps.
const MaxMalformedSamples = 10

// maxSampleText bounds the raw text kept on a sample of an overlong line.
const maxSampleText = 256

// Result holds the tallies of one aggregation run.
type Result struct {
	Requests  Tally `json:"requests"`  // address -> requests
	Endpoints Tally `json:"endpoints"` // endpoint -> requests
	Failures  Tally `json:"failures"`  // address -> failed authentication attempts
	Parsed    int   `json:"parsed"`
	Skipped   int   `json:"skipped"`

	Malformed []*parser.MalformedLineError `json:"-"`
}

// MostAccessed returns the endpoint with the highest request count.
func (r Result) MostAccessed() (Entry, bool) {
	return r.Endpoints.Max()
}

// Suspicious returns addresses whose failure count exceeds threshold, ranked.
func (r Result) Suspicious(threshold int) []Entry {
	var out []Entry
	for _, e := range r.Failures.Ranked() {
		if e.Count > threshold {
			out = append(out, e)
		}
	}
	return out
}

// Aggregator accumulates tallies over a single pass of log lines.
// It is not safe for concurrent use; Consume is the channel-fed entry point.
type Aggregator struct {
	parser parser.Parser
	marker string
	logger *zap.Logger
	result Result
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithParser replaces the default positional parser.
func WithParser(p parser.Parser) Option {
	return func(a *Aggregator) { a.parser = p }
}

// WithMarker sets the status code counted as a failed authentication.
func WithMarker(marker string) Option {
	return func(a *Aggregator) { a.marker = marker }
}

// WithLogger sets the logger used for skipped lines.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// New creates an Aggregator with empty tallies.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		parser: parser.NewFieldsParser(),
		marker: DefaultMarker,
		logger: zap.NewNop(),
		result: Result{
			Requests:  make(Tally),
			Endpoints: make(Tally),
			Failures:  make(Tally),
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(zap.String("mod", "aggregator"))
	return a
}

// Aggregate runs a fresh aggregation over lines and returns its result.
func Aggregate(lines []string, opts ...Option) Result {
	a := New(opts...)
	for i, text := range lines {
		_ = a.Add(model.RawLine{Text: text, Number: i + 1})
	}
	return a.Result()
}

// Add parses one line and records it. A malformed line is counted as skipped
// and its *parser.MalformedLineError is returned; the tallies are untouched.
// A truncated line is always malformed.
func (a *Aggregator) Add(raw model.RawLine) error {
	if raw.Truncated {
		text := raw.Text
		if len(text) > maxSampleText {
			text = text[:maxSampleText]
		}
		mErr := &parser.MalformedLineError{
			Source: raw.Source,
			Number: raw.Number,
			Reason: fmt.Sprintf("line exceeds %d bytes", len(raw.Text)),
			Raw:    text,
		}
		a.skip(mErr)
		return mErr
	}

	line, err := a.parser.Parse(raw.Text)
	if err != nil {
		var mErr *parser.MalformedLineError
		if !errors.As(err, &mErr) {
			mErr = &parser.MalformedLineError{Reason: err.Error(), Raw: raw.Text}
		}
		mErr.Source = raw.Source
		mErr.Number = raw.Number
		a.skip(mErr)
		return mErr
	}

	a.record(line)
	return nil
}

// Consume records lines from the channel until it is closed or ctx is cancelled.
func (a *Aggregator) Consume(ctx context.Context, lines <-chan model.RawLine) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-lines:
			if !ok {
				return nil
			}
			_ = a.Add(raw)
		}
	}
}

// Result returns a copy of the current tallies.
func (a *Aggregator) Result() Result {
	r := a.result
	r.Requests = a.result.Requests.Clone()
	r.Endpoints = a.result.Endpoints.Clone()
	r.Failures = a.result.Failures.Clone()
	r.Malformed = append([]*parser.MalformedLineError(nil), a.result.Malformed...)
	return r
}

// record adds a parsed line to the tallies.
func (a *Aggregator) record(line model.LogLine) {
	a.result.Parsed++
	a.result.Requests[line.Address]++
	a.result.Endpoints[line.Endpoint]++
	if line.Status == a.marker {
		a.result.Failures[line.Address]++
	}
}

// skip counts a malformed line and keeps the first few for reporting.
func (a *Aggregator) skip(err *parser.MalformedLineError) {
	a.result.Skipped++
	if len(a.result.Malformed) < MaxMalformedSamples {
		a.result.Malformed = append(a.result.Malformed, err)
	}
	a.logger.Debug("skipping malformed line",
		zap.String("source", err.Source),
		zap.Int("line", err.Number),
		zap.String("reason", err.Reason),
	)
}
