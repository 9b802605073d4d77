package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/go-spatial/tilestyle/pkg/feature"
	"github.com/go-spatial/tilestyle/pkg/style"
	"github.com/go-spatial/tilestyle/pkg/yaml"
)

// Output formats.
const (
	OutputYAML  = "yaml"
	OutputJSON  = "json"
	OutputTable = "table"
)

var (
	ErrUnknownOutput = errors.New("unknown output format")

	AllOutputs = []string{OutputYAML, OutputJSON, OutputTable}

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// Result holds the directives resolved for one input feature.
type Result struct {
	Layer      string               `json:"layer,omitempty"`
	Directives []Directive          `json:"directives"`
	Index      int                  `json:"index"`
	Geometry   feature.GeometryType `json:"geometry"`
}

// Directive is a resolved directive together with the rule that produced it.
type Directive struct {
	Style style.Directive `json:"style"`
	Kind  string          `json:"kind"`
	Group string          `json:"group"`
	Rule  string          `json:"rule,omitempty"`
}

func (r Result) String() string {
	var b strings.Builder

	for _, d := range r.Directives {
		fmt.Fprintf(&b, "#%d %s %s [%s/%s]: %s\n", r.Index, r.Layer, r.Geometry, d.Group, d.Rule, d.Style)
	}

	return b.String()
}

// outputFormat returns the format to write to w. An empty format selects a
// table on terminals and YAML otherwise.
func outputFormat(format string, w io.Writer) (string, error) {
	if format == "" {
		if isTerminal(w) {
			return OutputTable, nil
		}

		return OutputYAML, nil
	}

	for _, f := range AllOutputs {
		if strings.EqualFold(f, format) {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownOutput, format)
}

func writeResults(w io.Writer, format string, results []Result) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(results)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil

	case OutputTable:
		_, err := fmt.Fprintln(w, resultTable(results))
		if err != nil {
			return fmt.Errorf("write table: %w", err)
		}

		return nil
	}

	b, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return writeYAML(w, b, isTerminal(w))
}

func resultTable(results []Result) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("#", "LAYER", "GEOMETRY", "GROUP", "RULE", "DIRECTIVE", "COLORS").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})

	for _, r := range results {
		if len(r.Directives) == 0 {
			t.Row(strconv.Itoa(r.Index), r.Layer, r.Geometry.String(), "", "", dimStyle.Render("none"), "")

			continue
		}

		for _, d := range r.Directives {
			t.Row(strconv.Itoa(r.Index), r.Layer, r.Geometry.String(), d.Group, d.Rule, d.Style.String(), swatches(d.Style))
		}
	}

	return t.String()
}

// swatches renders the colors used by a directive as colored blocks.
func swatches(d style.Directive) string {
	var colors []string

	switch d := d.(type) {
	case *style.Fill:
		colors = append(colors, d.Color)
	case *style.Stroke:
		colors = append(colors, d.Color)
	case *style.Polygon:
		colors = append(colors, d.Fill.Color)
		if d.Stroke != nil {
			colors = append(colors, d.Stroke.Color)
		}
	case *style.Line:
		colors = append(colors, d.Stroke.Color)
	case *style.Text:
		colors = append(colors, d.Fill.Color, d.Stroke.Color)
	}

	parts := make([]string, 0, len(colors))

	for _, c := range colors {
		parts = append(parts, swatch(c))
	}

	return strings.Join(parts, " ")
}

func swatch(css string) string {
	c, err := parseColor(css)
	if err != nil {
		return "??"
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("██")
}

// parseColor parses the CSS color notations used by rule tables: #rgb,
// #rrggbb, rgb(r,g,b) and rgba(r,g,b,a). Translucent colors are blended over
// white.
func parseColor(css string) (colorful.Color, error) {
	css = strings.TrimSpace(css)

	if strings.HasPrefix(css, "#") {
		c, err := colorful.Hex(css)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("parse color %q: %w", css, err)
		}

		return c, nil
	}

	var args string

	switch {
	case strings.HasPrefix(css, "rgba(") && strings.HasSuffix(css, ")"):
		args = css[len("rgba(") : len(css)-1]
	case strings.HasPrefix(css, "rgb(") && strings.HasSuffix(css, ")"):
		args = css[len("rgb(") : len(css)-1]
	default:
		return colorful.Color{}, fmt.Errorf("parse color %q: unsupported notation", css)
	}

	fields := strings.Split(args, ",")
	if len(fields) != 3 && len(fields) != 4 {
		return colorful.Color{}, fmt.Errorf("parse color %q: want 3 or 4 components", css)
	}

	v := make([]float64, 4)
	v[3] = 1

	for i, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("parse color %q: %w", css, err)
		}

		v[i] = n
	}

	c := colorful.Color{R: v[0] / 255, G: v[1] / 255, B: v[2] / 255}.Clamped()
	if v[3] < 1 {
		white := colorful.Color{R: 1, G: 1, B: 1}
		c = white.BlendRgb(c, max(v[3], 0))
	}

	return c, nil
}

// writeYAML writes YAML, highlighted when color is set.
func writeYAML(w io.Writer, b []byte, color bool) error {
	if color {
		highlighted, err := highlightYAML(string(b))
		if err == nil {
			b = []byte(highlighted)
		}
	}

	_, err := w.Write(b)
	if err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}

	return nil
}

func highlightYAML(src string) (string, error) {
	formatterName := "noop"
	switch termenv.ColorProfile() {
	case termenv.TrueColor:
		formatterName = "terminal16m"

	case termenv.ANSI256:
		formatterName = "terminal256"

	case termenv.ANSI:
		formatterName = "terminal8"
	}

	lexer := chroma.Coalesce(lexers.Get("YAML"))

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return "", fmt.Errorf("lexer tokenize: %w", err)
	}

	buf := &bytes.Buffer{}

	err = formatters.Get(formatterName).Format(buf, styles.Get("github-dark"), iterator)
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	return buf.String(), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
