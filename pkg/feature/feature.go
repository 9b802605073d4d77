package feature

import (
	"errors"
	"fmt"
	"strings"
)

// Attribute names read by the built-in rule tables.
const (
	AttrLayer      = "layer"
	AttrClass      = "class"
	AttrType       = "type"
	AttrScalerank  = "scalerank"
	AttrLabelrank  = "labelrank"
	AttrAdminLevel = "admin_level"
	AttrMaritime   = "maritime"
	AttrDisputed   = "disputed"
	AttrMaki       = "maki"
	AttrNameEN     = "name_en"
)

// ErrUnknownGeometry is returned when a geometry type name cannot be parsed.
var ErrUnknownGeometry = errors.New("unknown geometry type")

// GeometryType is the geometry type of a [Feature].
type GeometryType uint8

const (
	Unknown GeometryType = iota
	Point
	LineString
	Polygon
)

var geometryNames = [...]string{
	Unknown:    "Unknown",
	Point:      "Point",
	LineString: "LineString",
	Polygon:    "Polygon",
}

func (g GeometryType) String() string {
	if int(g) < len(geometryNames) {
		return geometryNames[g]
	}

	return fmt.Sprintf("GeometryType(%d)", g)
}

// ParseGeometryType parses a geometry type name. Names are matched case
// insensitively, and the Multi* variants map to their base type.
func ParseGeometryType(s string) (GeometryType, error) {
	name := strings.TrimPrefix(strings.ToLower(s), "multi")
	switch name {
	case "point":
		return Point, nil
	case "linestring":
		return LineString, nil
	case "polygon":
		return Polygon, nil
	case "", "unknown":
		return Unknown, nil
	}

	return Unknown, fmt.Errorf("%w: %q", ErrUnknownGeometry, s)
}

// MarshalText implements [encoding.TextMarshaler].
func (g GeometryType) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (g *GeometryType) UnmarshalText(b []byte) error {
	parsed, err := ParseGeometryType(string(b))
	if err != nil {
		return err
	}

	*g = parsed

	return nil
}

// Feature is one decoded vector tile record. It is owned by the caller and
// read-only to the resolver.
type Feature struct {
	Attrs    map[string]any `json:"attrs,omitempty"    yaml:"attrs,omitempty"`
	Geometry GeometryType   `json:"geometry,omitempty" yaml:"geometry,omitempty"`
}

// New creates a [Feature] with the given geometry type and attributes.
func New(geom GeometryType, attrs map[string]any) *Feature {
	return &Feature{Attrs: attrs, Geometry: geom}
}

// Get returns the raw attribute value.
func (f *Feature) Get(key string) (any, bool) {
	if f == nil || f.Attrs == nil {
		return nil, false
	}

	v, ok := f.Attrs[key]
	if !ok || v == nil {
		return nil, false
	}

	return v, true
}

// String returns the attribute value if it is a string.
func (f *Feature) String(key string) (string, bool) {
	v, ok := f.Get(key)
	if !ok {
		return "", false
	}

	s, ok := v.(string)

	return s, ok
}

// Number returns the attribute value if it is numeric. Strings are never
// coerced.
func (f *Feature) Number(key string) (float64, bool) {
	v, ok := f.Get(key)
	if !ok {
		return 0, false
	}

	return toFloat(v)
}

// Is reports whether the string attribute key equals want.
func (f *Feature) Is(key, want string) bool {
	s, ok := f.String(key)

	return ok && s == want
}

// IsNumber reports whether the numeric attribute key equals want.
func (f *Feature) IsNumber(key string, want float64) bool {
	n, ok := f.Number(key)

	return ok && n == want
}

// Text returns the attribute formatted for display, or "" if absent.
func (f *Feature) Text(key string) string {
	v, ok := f.Get(key)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}

	return 0, false
}
