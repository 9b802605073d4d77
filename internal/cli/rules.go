package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/go-spatial/tilestyle/pkg/rule"
	"github.com/go-spatial/tilestyle/pkg/streets"
)

// ErrNoRules is returned when a layer filter selects no rules.
var ErrNoRules = errors.New("no rules")

type RulesArgs struct {
	*RootArgs

	Layer string
}

func NewRulesArgs(rootArgs *RootArgs) *RulesArgs {
	return &RulesArgs{RootArgs: rootArgs}
}

func (ra *RulesArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&ra.Layer, "layer", "l", "", "Only list rules for this layer")

	must(cmd.RegisterFlagCompletionFunc("layer",
		cobra.FixedCompletions(streets.Layers(), cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewRulesCmd(ra *RulesArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd, ra)
		},
	}

	ra.AddFlags(cmd)

	return cmd
}

func runRules(cmd *cobra.Command, ra *RulesArgs) error {
	cfg, err := ra.Config(cmd)
	if err != nil {
		return err
	}

	debug, thematic, err := cfg.Groups()
	if err != nil {
		return err
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("GROUP", "#", "RULE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})

	n := 0

	for _, g := range []*rule.Group{debug, thematic} {
		for i, r := range g.Rules {
			if !ruleForLayer(r, ra.Layer) {
				continue
			}

			t.Row(g.Name, strconv.Itoa(i+1), r.Name)
			n++
		}
	}

	if n == 0 {
		return noRulesError(ra.Layer, append(ruleNames(debug), ruleNames(thematic)...))
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), t.String())
	if err != nil {
		return fmt.Errorf("write rules: %w", err)
	}

	return nil
}

// ruleForLayer reports whether r is named after layer. Rule names start with
// the layer they style, like "poi_label_3".
func ruleForLayer(r *rule.Rule, layer string) bool {
	return layer == "" || r.Name == layer || strings.HasPrefix(r.Name, layer+"_")
}

func ruleNames(g *rule.Group) []string {
	names := make([]string, 0, g.Len())
	for _, r := range g.Rules {
		names = append(names, r.Name)
	}

	return names
}

// noRulesError suggests known layers and rule names close to layer.
func noRulesError(layer string, names []string) error {
	candidates := append(streets.Layers(), names...)

	seen := map[string]struct{}{}
	suggestions := []string{}

	for _, m := range fuzzy.Find(layer, candidates) {
		if _, ok := seen[m.Str]; ok {
			continue
		}

		seen[m.Str] = struct{}{}
		suggestions = append(suggestions, m.Str)

		if len(suggestions) == 3 {
			break
		}
	}

	if len(suggestions) == 0 {
		return fmt.Errorf("%w for layer %q", ErrNoRules, layer)
	}

	return fmt.Errorf("%w for layer %q, did you mean %s?", ErrNoRules, layer, strings.Join(suggestions, ", "))
}
