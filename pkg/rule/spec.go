package rule

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"

	"github.com/go-spatial/tilestyle/pkg/expr"
	"github.com/go-spatial/tilestyle/pkg/feature"
	"github.com/go-spatial/tilestyle/pkg/style"
)

// ErrInvalidRule indicates a [Spec] that cannot be compiled.
var ErrInvalidRule = errors.New("invalid rule")

// DefaultWidth is used for strokes whose width is unset.
const DefaultWidth = 1.0

// Spec is a declarative rule, typically loaded from configuration.
//
// Match is a CEL expression which must return a bool, for example:
//   - layer == "building"
//   - layer == "aeroway" && geom == "LineString" && resolution <= zoom(11)
//   - layer == "poi_label" && scalerank >= 5 && maki != "marker"
//   - layer == "place_label" && feature_type == "city"
//
// An expression that fails to evaluate, for instance because it references
// an attribute the feature does not have, does not match.
type Spec struct {
	// Name identifies the rule in logs and listings.
	Name string `json:"name,omitempty" jsonschema:"title=Name"`
	// Match is a CEL expression selecting the features the rule applies to.
	Match string `json:"match" jsonschema:"title=Match Expression"`
	// Style describes the directive produced for matching features.
	Style Template `json:"style" jsonschema:"title=Style"`
}

// Template describes the directive a [Spec] produces.
type Template struct {
	// Kind is the directive kind: fill, stroke, polygon, line, text or icon.
	Kind string `json:"kind" jsonschema:"title=Kind,enum=fill,enum=stroke,enum=polygon,enum=line,enum=text,enum=icon"`
	// Fill is the fill color, used by fill, polygon and text.
	Fill string `json:"fill,omitempty" jsonschema:"title=Fill Color"`
	// Stroke is the stroke color, used by stroke, polygon, line and as the
	// halo of text.
	Stroke string `json:"stroke,omitempty" jsonschema:"title=Stroke Color"`
	// Font is the CSS font of a text label.
	Font string `json:"font,omitempty" jsonschema:"title=Font"`
	// Text is the attribute holding the label content. Defaults to name_en.
	Text string `json:"text,omitempty" jsonschema:"title=Text Attribute"`
	// Icon is the attribute holding the icon identifier. Defaults to maki.
	Icon string `json:"icon,omitempty" jsonschema:"title=Icon Attribute"`
	// Width is the stroke width. Defaults to 1.
	Width float64 `json:"width,omitempty" jsonschema:"title=Stroke Width,minimum=0"`
}

// Compile builds a [Rule] from a [Spec] using the given environment.
func Compile(env *expr.Environment, spec Spec) (*Rule, error) {
	name := spec.Name
	if name == "" {
		name = spec.Match
	}

	apply, err := spec.Style.action()
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidRule, name, err)
	}

	program, err := env.Compile(spec.Match)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidRule, name, err)
	}

	return &Rule{
		Name:  name,
		Match: celPredicate(name, program),
		Apply: apply,
	}, nil
}

// CompileAll compiles specs in order.
func CompileAll(env *expr.Environment, specs []Spec) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(specs))

	var errs []error

	for i, spec := range specs {
		r, err := Compile(env, spec)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, err))

			continue
		}

		rules = append(rules, r)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return rules, nil
}

// MustCompile compiles a [Spec] with a new environment and panics on error.
func MustCompile(spec Spec) *Rule {
	env, err := expr.NewEnvironment()
	if err != nil {
		panic(err)
	}

	r, err := Compile(env, spec)
	if err != nil {
		panic(err)
	}

	return r
}

func celPredicate(name string, program cel.Program) Predicate {
	return func(f *feature.Feature, res float64) bool {
		ok, err := expr.Match(program, &expr.Activation{Feature: f, Resolution: res})
		if err != nil {
			slog.Debug("rule did not evaluate, treating as no match",
				slog.String("rule", name),
				slog.Any("err", err),
			)

			return false
		}

		return ok
	}
}

func (t Template) action() (Action, error) {
	kind, err := style.ParseKind(t.Kind)
	if err != nil {
		return nil, err //nolint:wrapcheck // Wrapped by the caller.
	}

	width := t.Width
	if width == 0 {
		width = DefaultWidth
	}

	if t.Width < 0 {
		return nil, fmt.Errorf("negative width %g", t.Width)
	}

	switch kind {
	case style.KindFill:
		if t.Fill == "" {
			return nil, errors.New("fill requires a fill color")
		}

		return func(env *Env) style.Directive {
			return env.Pool.Fill(t.Fill)
		}, nil

	case style.KindStroke, style.KindLine:
		if t.Stroke == "" {
			return nil, fmt.Errorf("%s requires a stroke color", kind)
		}

		if kind == style.KindStroke {
			return func(env *Env) style.Directive {
				return env.Pool.Stroke(t.Stroke, width)
			}, nil
		}

		return func(env *Env) style.Directive {
			return env.Pool.Line(t.Stroke, width)
		}, nil

	case style.KindPolygon:
		if t.Fill == "" {
			return nil, errors.New("polygon requires a fill color")
		}

		if t.Stroke == "" {
			return func(env *Env) style.Directive {
				return env.Pool.Polygon(t.Fill)
			}, nil
		}

		return func(env *Env) style.Directive {
			return env.Pool.StrokedPolygon(t.Fill, t.Stroke, width)
		}, nil

	case style.KindText:
		if t.Fill == "" || t.Font == "" {
			return nil, errors.New("text requires a fill color and a font")
		}

		attr := t.Text
		if attr == "" {
			attr = feature.AttrNameEN
		}

		return func(env *Env) style.Directive {
			return env.Pool.Text(env.Feature.Text(attr), t.Font, t.Fill, t.Stroke, width)
		}, nil

	case style.KindIcon:
		attr := t.Icon
		if attr == "" {
			attr = feature.AttrMaki
		}

		return func(env *Env) style.Directive {
			id, ok := env.Feature.String(attr)
			if !ok {
				return nil
			}

			return env.Icons.Get(id)
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", style.ErrUnknownKind, kind)
}
