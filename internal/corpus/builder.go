package corpus

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"slicevec/internal/slice"
)

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	workers int
	logger  *zap.Logger
}

// WithWorkers sets how many goroutines compute entries. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(o *buildOptions) { o.workers = n }
}

// WithLogger attaches a logger. Build logs at debug level only.
func WithLogger(l *zap.Logger) Option {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Build resolves every Spec of grid against values and returns the corpus.
//
// Ordering guarantee: entries appear in Grid.Specs order regardless of the
// number of workers. Each worker owns a contiguous range of the output slice,
// so no result is ever moved after it is computed.
func Build(ctx context.Context, grid Grid, values []int, opts ...Option) (Corpus, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := buildOptions{workers: 1, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	if err := grid.Validate(); err != nil {
		return Corpus{}, err
	}

	specs := grid.Specs()
	entries := make([]Entry, len(specs))
	chunk := (len(specs) + o.workers - 1) / o.workers

	o.logger.Debug("building corpus",
		zap.Int("specs", len(specs)),
		zap.Int("workers", o.workers),
		zap.Int("reference_len", len(values)),
	)

	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(specs); lo += chunk {
		hi := min(lo+chunk, len(specs))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if i%4096 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				res, err := slice.Apply(values, specs[i])
				if err != nil {
					return fmt.Errorf("resolve %s: %w", specs[i], err)
				}
				entries[i] = Entry{Spec: specs[i], Result: res}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Corpus{}, err
		}
		return Corpus{}, fmt.Errorf("build corpus: %w", err)
	}

	o.logger.Debug("corpus built", zap.Int("entries", len(entries)))
	return Corpus{Entries: entries}, nil
}
