package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/go-spatial/tilestyle/pkg/log"
	"github.com/go-spatial/tilestyle/pkg/watch"
	"github.com/go-spatial/tilestyle/pkg/zoom"
)

var (
	ErrNoResolution      = errors.New("one of --resolution or --zoom is required")
	ErrConflictingScale  = errors.New("--resolution and --zoom are mutually exclusive")
	ErrInvalidResolution = errors.New("resolution must be positive")
	ErrWatchStdin        = errors.New("--watch requires a file path")
)

// ScaleArgs selects the resolution to resolve at.
type ScaleArgs struct {
	Resolution float64
	Zoom       int
}

func (sa *ScaleArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&sa.Resolution, "resolution", "r", 0, "Map resolution in meters per pixel")
	cmd.Flags().IntVarP(&sa.Zoom, "zoom", "z", -1, fmt.Sprintf("Zoom level, 0 to %d", zoom.MaxLevel))
}

// resolution returns the resolution selected by the flags.
func (sa *ScaleArgs) resolution() (float64, error) {
	switch {
	case sa.Resolution != 0 && sa.Zoom >= 0:
		return 0, ErrConflictingScale
	case sa.Zoom >= 0:
		if sa.Zoom > zoom.MaxLevel {
			return 0, fmt.Errorf("zoom %d: must be between 0 and %d", sa.Zoom, zoom.MaxLevel)
		}

		return zoom.Resolution(sa.Zoom), nil
	case sa.Resolution > 0:
		return sa.Resolution, nil
	case sa.Resolution != 0:
		return 0, fmt.Errorf("%w: %g", ErrInvalidResolution, sa.Resolution)
	}

	return 0, ErrNoResolution
}

type ResolveArgs struct {
	*RootArgs
	ScaleArgs

	Path    string
	Output  string
	Workers int
	Watch   bool
}

func NewResolveArgs(rootArgs *RootArgs) *ResolveArgs {
	return &ResolveArgs{RootArgs: rootArgs}
}

func (ra *ResolveArgs) AddFlags(cmd *cobra.Command) {
	ra.ScaleArgs.AddFlags(cmd)

	cmd.Flags().StringVarP(&ra.Output, "output", "o", "",
		fmt.Sprintf("Output format, one of: %s (default table on a terminal, else yaml)", AllOutputs))
	cmd.Flags().IntVarP(&ra.Workers, "workers", "j", runtime.GOMAXPROCS(0), "Number of resolver workers")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Watch the input file and resolve again on change")

	must(cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(AllOutputs, cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewResolveCmd(ra *ResolveArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [file|-]",
		Short: "Resolve directives for a stream of features",
		Long: `Resolve reads YAML or JSON feature documents and prints the directives the
debug and thematic rule groups assign to each of them.

Each document has a geometry type and an attribute map:

  geometry: Point
  attrs: {layer: poi_label, maki: cafe, scalerank: 1}`,
		Example: `  tilestyle resolve features.yaml --zoom 14
  cat features.yaml | tilestyle resolve -r 4.777314267823516 -o json`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cobra.FixedCompletions(nil, cobra.ShellCompDirectiveDefault),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				ra.Path = args[0]
			}

			return runResolve(cmd, ra)
		},
	}

	ra.AddFlags(cmd)

	return cmd
}

func runResolve(cmd *cobra.Command, ra *ResolveArgs) error {
	res, err := ra.resolution()
	if err != nil {
		return err
	}

	format, err := outputFormat(ra.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if ra.Watch && (ra.Path == "" || ra.Path == "-") {
		return ErrWatchStdin
	}

	cfg, err := ra.Config(cmd)
	if err != nil {
		return err
	}

	e, err := newEngine(cfg)
	if err != nil {
		return err
	}

	run := func(ctx context.Context) error {
		features, err := readFeatures(cmd, ra.Path)
		if err != nil {
			return err
		}

		start := time.Now()

		results, err := e.resolveAll(ctx, features, res, ra.Workers)
		if err != nil {
			return err
		}

		directives := 0
		for _, r := range results {
			directives += len(r.Directives)
		}

		log.WithContext(ctx).InfoContext(ctx, "resolved features",
			slog.String("features", humanize.Comma(int64(len(features)))),
			slog.String("directives", humanize.Comma(int64(directives))),
			slog.Int("icons", e.icons.Len()),
			slog.Int("zoom", zoom.Level(res)),
			slog.Duration("took", time.Since(start)),
		)

		return writeResults(cmd.OutOrStdout(), format, results)
	}

	ctx := cmd.Context()

	err = run(ctx)
	if err != nil || !ra.Watch {
		return err
	}

	w, err := watch.New(ra.Path)
	if err != nil {
		return fmt.Errorf("watch %q: %w", ra.Path, err)
	}
	defer func() {
		err := w.Close()
		if err != nil {
			slog.Debug("close watcher", slog.Any("error", err))
		}
	}()

	slog.Info("watching for changes", slog.String("path", ra.Path))

	return w.Run(ctx, func(ctx context.Context, _ string) error {
		err := run(ctx)
		if err != nil {
			// Errors in the input do not stop the watcher.
			log.WithContext(ctx).ErrorContext(ctx, "resolve", slog.Any("error", err))
		}

		return nil
	})
}
