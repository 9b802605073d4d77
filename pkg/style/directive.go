package style

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownKind is returned when a directive kind name cannot be parsed.
var ErrUnknownKind = errors.New("unknown directive kind")

// Kind identifies the concrete type of a [Directive].
type Kind uint8

const (
	KindFill Kind = iota + 1
	KindStroke
	KindPolygon
	KindLine
	KindText
	KindIcon
)

// AllKinds lists every kind name accepted by [ParseKind].
var AllKinds = []string{"fill", "stroke", "polygon", "line", "text", "icon"}

func (k Kind) String() string {
	if k >= KindFill && int(k) <= len(AllKinds) {
		return AllKinds[k-1]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind parses a kind name such as "polygon".
func ParseKind(s string) (Kind, error) {
	for i, name := range AllKinds {
		if strings.EqualFold(name, s) {
			return Kind(i + 1), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Directive describes how to paint a feature.
type Directive interface {
	Kind() Kind
	// Clone returns a deep copy that is not shared with any [Pool].
	Clone() Directive
	fmt.Stringer
}

// Fill paints the interior of a shape.
type Fill struct {
	Color string `json:"color" yaml:"color"`
}

// Stroke paints an outline.
type Stroke struct {
	Color string  `json:"color" yaml:"color"`
	Width float64 `json:"width" yaml:"width"`
}

// Polygon paints an area. Stroke is nil for unstroked polygons.
type Polygon struct {
	Fill   *Fill   `json:"fill"             yaml:"fill"`
	Stroke *Stroke `json:"stroke,omitempty" yaml:"stroke,omitempty"`
}

// Line paints a linear feature.
type Line struct {
	Stroke *Stroke `json:"stroke" yaml:"stroke"`
}

// Text paints a label. Stroke is the halo drawn behind the glyphs.
type Text struct {
	Fill    *Fill   `json:"fill"    yaml:"fill"`
	Stroke  *Stroke `json:"stroke"  yaml:"stroke"`
	Content string  `json:"content" yaml:"content"`
	Font    string  `json:"font"    yaml:"font"`
}

// Icon references an image resource. Icons are immutable once created.
type Icon struct {
	ID   string `json:"id"   yaml:"id"`
	Src  string `json:"src"  yaml:"src"`
	Size [2]int `json:"size" yaml:"size,flow"`
}

func (*Fill) Kind() Kind    { return KindFill }
func (*Stroke) Kind() Kind  { return KindStroke }
func (*Polygon) Kind() Kind { return KindPolygon }
func (*Line) Kind() Kind    { return KindLine }
func (*Text) Kind() Kind    { return KindText }
func (*Icon) Kind() Kind    { return KindIcon }

//nolint:ireturn // Clone returns the sum type.
func (f *Fill) Clone() Directive { return f.clone() }

//nolint:ireturn // Clone returns the sum type.
func (s *Stroke) Clone() Directive { return s.clone() }

//nolint:ireturn // Clone returns the sum type.
func (p *Polygon) Clone() Directive {
	return &Polygon{Fill: p.Fill.clone(), Stroke: p.Stroke.clone()}
}

//nolint:ireturn // Clone returns the sum type.
func (l *Line) Clone() Directive {
	return &Line{Stroke: l.Stroke.clone()}
}

//nolint:ireturn // Clone returns the sum type.
func (t *Text) Clone() Directive {
	return &Text{
		Content: t.Content,
		Font:    t.Font,
		Fill:    t.Fill.clone(),
		Stroke:  t.Stroke.clone(),
	}
}

// Clone returns the icon itself. Icons are never mutated, so sharing them
// keeps identity comparisons meaningful.
//
//nolint:ireturn // Clone returns the sum type.
func (i *Icon) Clone() Directive { return i }

func (f *Fill) clone() *Fill {
	if f == nil {
		return nil
	}

	c := *f

	return &c
}

func (s *Stroke) clone() *Stroke {
	if s == nil {
		return nil
	}

	c := *s

	return &c
}

func (f *Fill) String() string {
	return "fill " + f.Color
}

func (s *Stroke) String() string {
	return "stroke " + s.stroke()
}

func (p *Polygon) String() string {
	if p.Stroke == nil {
		return "polygon fill=" + p.Fill.Color
	}

	return "polygon fill=" + p.Fill.Color + " stroke=" + p.Stroke.stroke()
}

func (l *Line) String() string {
	return "line stroke=" + l.Stroke.stroke()
}

func (t *Text) String() string {
	return fmt.Sprintf("text %q font=%q fill=%s halo=%s",
		t.Content, t.Font, t.Fill.Color, t.Stroke.stroke())
}

func (i *Icon) String() string {
	return "icon " + i.Src
}

func (s *Stroke) stroke() string {
	return s.Color + "/" + strconv.FormatFloat(s.Width, 'g', -1, 64)
}
