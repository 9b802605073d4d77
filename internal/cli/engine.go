package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/go-spatial/tilestyle/pkg/config"
	"github.com/go-spatial/tilestyle/pkg/feature"
	"github.com/go-spatial/tilestyle/pkg/icon"
	"github.com/go-spatial/tilestyle/pkg/log"
	"github.com/go-spatial/tilestyle/pkg/resolver"
	"github.com/go-spatial/tilestyle/pkg/streets"
)

// engine resolves batches of features with a pool of resolvers sharing one
// icon cache.
type engine struct {
	tracer trace.Tracer
	icons  *icon.SharedCache
	opts   []resolver.Option
}

func newEngine(cfg *config.Config) (*engine, error) {
	opts, err := cfg.ResolverOptions()
	if err != nil {
		return nil, err
	}

	icons := icon.NewSharedCache(*cfg.Icons)

	return &engine{
		tracer: otel.Tracer("tilestyle"),
		icons:  icons,
		opts:   append(opts, resolver.WithIconSource(icons)),
	}, nil
}

// resolveAll resolves features at res with up to workers goroutines. Results
// are in input order and do not alias resolver state.
func (e *engine) resolveAll(ctx context.Context, features []*feature.Feature, res float64, workers int) ([]Result, error) {
	ctx, span := e.tracer.Start(ctx, "resolve", trace.WithAttributes(
		attribute.Int("features", len(features)),
		attribute.Float64("resolution", res),
		attribute.Int("workers", workers),
	))
	defer span.End()

	workers = max(1, min(workers, len(features)))
	results := make([]Result, len(features))
	jobs := make(chan int)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)

		for i := range features {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		return nil
	})

	for range workers {
		r := resolver.New(e.opts...)

		g.Go(func() error {
			for i := range jobs {
				results[i] = explain(r, i, features[i], res)
			}

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, fmt.Errorf("resolve features: %w", err)
	}

	return results, nil
}

func explain(r *resolver.Resolver, i int, f *feature.Feature, res float64) Result {
	out, debug, thematic := r.Explain(f, res)

	layer, _ := f.String(feature.AttrLayer)
	result := Result{
		Index:      i,
		Layer:      layer,
		Geometry:   f.Geometry,
		Directives: make([]Directive, 0, len(out)),
	}

	for j, d := range out {
		group, name := streets.ThematicGroup, ""
		if j == 0 && debug != nil {
			group, name = streets.DebugGroup, debug.Name
		} else if thematic != nil {
			name = thematic.Name
		}

		result.Directives = append(result.Directives, Directive{
			Style: d.Clone(),
			Kind:  d.Kind().String(),
			Group: group,
			Rule:  name,
		})
	}

	return result
}

// readFeatures decodes the feature stream at path, or stdin for "" and "-".
func readFeatures(cmd *cobra.Command, path string) ([]*feature.Feature, error) {
	var (
		data []byte
		err  error
	)

	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	} else {
		data, err = config.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	start := time.Now()

	features, err := feature.NewDecoder(bytes.NewReader(data)).DecodeAll()
	if err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}

	log.WithContext(cmd.Context()).DebugContext(cmd.Context(), "decoded features",
		slog.String("input", humanize.Bytes(uint64(len(data)))),
		slog.String("features", humanize.Comma(int64(len(features)))),
		slog.Duration("took", time.Since(start)),
	)

	return features, nil
}
