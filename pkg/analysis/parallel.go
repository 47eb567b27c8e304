// Package analysis runs the metrics over a conversation read from disk.
package analysis

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/raesene/messenger-stats/pkg/metrics"
	"github.com/raesene/messenger-stats/pkg/models"
)

// FileSource is the part of export.Reader the parallel aggregation needs
type FileSource interface {
	Files(title string) ([]string, error)
	FileMessages(file, title string) iter.Seq2[models.Message, error]
}

// ParallelStats aggregates each message file of a conversation in its own
// goroutine, at most workers at a time, and merges the partial results.
// The counters are order independent, so the result equals a sequential
// ComputeBasicStats over the same files. The first failing file cancels
// the remaining work and its error is returned.
func ParallelStats(ctx context.Context, src FileSource, title, userName, otherName string, workers int) (*models.ConversationStats, error) {
	files, err := src.Files(title)
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	partials := make([]*metrics.Aggregator, len(files))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			agg := metrics.NewAggregator(userName, otherName)
			for msg, err := range src.FileMessages(file, title) {
				if err != nil {
					return err
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				agg.Add(msg)
			}
			partials[i] = agg
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := metrics.NewAggregator(userName, otherName)
	for _, p := range partials {
		total.Merge(p)
	}
	return total.Stats(), nil
}
