package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/atikulmunna/loglens/internal/aggregator"
	"github.com/atikulmunna/loglens/internal/model"
	"github.com/atikulmunna/loglens/internal/source"
)

// DefaultBuffer is the channel capacity between the reader and the aggregator.
const DefaultBuffer = 512

// Run reads paths on one goroutine and feeds agg on another through a bounded
// channel. The first error from either side cancels the other.
func Run(ctx context.Context, paths []string, agg *aggregator.Aggregator, buffer int) error {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	lines := make(chan model.RawLine, buffer)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return source.Stream(ctx, paths, lines)
	})
	g.Go(func() error {
		return agg.Consume(ctx, lines)
	})
	return g.Wait()
}

// Sequential reads paths one line at a time on the calling goroutine.
func Sequential(ctx context.Context, paths []string, agg *aggregator.Aggregator) error {
	for _, p := range paths {
		err := source.Each(ctx, p, func(line model.RawLine) error {
			_ = agg.Add(line)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
