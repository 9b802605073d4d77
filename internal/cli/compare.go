package cli

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/go-spatial/tilestyle/pkg/zoom"
)

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

type CompareArgs struct {
	*RootArgs

	Path     string
	FromZoom int
	ToZoom   int
}

func NewCompareArgs(rootArgs *RootArgs) *CompareArgs {
	return &CompareArgs{RootArgs: rootArgs}
}

func (ca *CompareArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&ca.FromZoom, "from-zoom", 0, "Zoom level to compare from")
	cmd.Flags().IntVar(&ca.ToZoom, "to-zoom", zoom.MaxLevel, "Zoom level to compare to")
}

func NewCompareCmd(ca *CompareArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "compare [file|-]",
		Short:   "Show how resolved directives change between two zoom levels",
		Example: `  tilestyle compare features.yaml --from-zoom 12 --to-zoom 16`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				ca.Path = args[0]
			}

			return runCompare(cmd, ca)
		},
	}

	ca.AddFlags(cmd)

	return cmd
}

func runCompare(cmd *cobra.Command, ca *CompareArgs) error {
	for _, z := range []int{ca.FromZoom, ca.ToZoom} {
		if z < 0 || z > zoom.MaxLevel {
			return fmt.Errorf("zoom %d: must be between 0 and %d", z, zoom.MaxLevel)
		}
	}

	cfg, err := ca.Config(cmd)
	if err != nil {
		return err
	}

	e, err := newEngine(cfg)
	if err != nil {
		return err
	}

	features, err := readFeatures(cmd, ca.Path)
	if err != nil {
		return err
	}

	texts := make([]string, 0, 2)

	for _, z := range []int{ca.FromZoom, ca.ToZoom} {
		results, err := e.resolveAll(cmd.Context(), features, zoom.Resolution(z), 1)
		if err != nil {
			return err
		}

		var b strings.Builder
		for _, r := range results {
			b.WriteString(r.String())
		}

		texts = append(texts, b.String())
	}

	diff := udiff.Unified(
		fmt.Sprintf("zoom %d", ca.FromZoom),
		fmt.Sprintf("zoom %d", ca.ToZoom),
		texts[0], texts[1],
	)

	if isTerminal(cmd.OutOrStdout()) {
		diff = colorDiff(diff)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), diff)
	if err != nil {
		return fmt.Errorf("write diff: %w", err)
	}

	return nil
}

func colorDiff(diff string) string {
	lines := strings.SplitAfter(diff, "\n")

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = headerStyle.UnsetPadding().Render(strings.TrimSuffix(line, "\n")) + "\n"
		case strings.HasPrefix(line, "@@"):
			lines[i] = hunkStyle.Render(strings.TrimSuffix(line, "\n")) + "\n"
		case strings.HasPrefix(line, "+"):
			lines[i] = addedStyle.Render(strings.TrimSuffix(line, "\n")) + "\n"
		case strings.HasPrefix(line, "-"):
			lines[i] = removedStyle.Render(strings.TrimSuffix(line, "\n")) + "\n"
		}
	}

	return strings.Join(lines, "")
}
