package expr

import (
	"math"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"

	"github.com/go-spatial/tilestyle/pkg/zoom"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		// Attribute values are often decoded as unsigned or floating point
		// numbers, so allow `scalerank >= 5` regardless of the numeric type.
		cel.CrossTypeNumericComparisons(true),

		// `zoom` returns the resolution at a zoom level.
		// Example: resolution <= zoom(11).
		cel.Function("zoom",
			cel.Overload("zoom_int", []*cel.Type{cel.IntType}, cel.DoubleType,
				cel.UnaryBinding(func(level ref.Val) ref.Val {
					z, ok := level.(types.Int)
					if !ok {
						return types.NewErr("zoom: invalid level")
					}
					if z < 0 || z > zoom.MaxLevel {
						return types.NewErr("zoom: level %d out of range", int64(z))
					}

					return types.Double(zoom.Resolution(int(z)))
				}),
			),
		),

		// `level` returns the zoom level for a resolution.
		// Example: level(resolution) >= 13.
		cel.Function("level",
			cel.Overload("level_double", []*cel.Type{cel.DoubleType}, cel.IntType,
				cel.UnaryBinding(func(res ref.Val) ref.Val {
					r, ok := res.(types.Double)
					if !ok {
						return types.NewErr("level: invalid resolution")
					}

					return types.Int(zoom.Level(float64(r)))
				}),
			),
		),

		// `within` reports whether a resolution is at or below a threshold.
		// Example: within(resolution, zoom(13)).
		cel.Function("within",
			cel.Overload("within_double_double", []*cel.Type{cel.DoubleType, cel.DoubleType}, cel.BoolType,
				cel.BinaryBinding(func(res, threshold ref.Val) ref.Val {
					r, ok := res.(types.Double)
					if !ok {
						return types.NewErr("within: invalid resolution")
					}

					t, ok := threshold.(types.Double)
					if !ok {
						return types.NewErr("within: invalid threshold")
					}

					return types.Bool(zoom.Within(float64(r), float64(t)))
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

// ConvertToCELValue converts a Go value to a CEL value.
// Handles the types produced by YAML and JSON decoders and returns null for
// unsupported types.
//
//nolint:ireturn // Following CEL's function signature.
func ConvertToCELValue(value any) ref.Val {
	switch v := value.(type) {
	case nil:
		return types.NullValue

	case ref.Val:
		return v

	case bool:
		return types.Bool(v)

	case int:
		return types.Int(v)

	case int8:
		return types.Int(int64(v))

	case int16:
		return types.Int(int64(v))

	case int32:
		return types.Int(int64(v))

	case int64:
		return types.Int(v)

	case uint:
		// Check for overflow when converting to int64.
		if v > math.MaxInt64 {
			return types.Double(float64(v))
		}

		return types.Int(int64(v))

	case uint8:
		return types.Int(int64(v))

	case uint16:
		return types.Int(int64(v))

	case uint32:
		return types.Int(int64(v))

	case uint64:
		if v > math.MaxInt64 {
			return types.Double(float64(v))
		}

		return types.Int(int64(v))

	case float32:
		return types.Double(float64(v))

	case float64:
		return types.Double(v)

	case string:
		return types.String(v)

	case []any:
		celValues := make([]ref.Val, len(v))
		for i, item := range v {
			celValues[i] = ConvertToCELValue(item)
		}

		return types.NewDynamicList(types.DefaultTypeAdapter, celValues)

	case map[any]any:
		celMap := make(map[ref.Val]ref.Val, len(v))
		for key, val := range v {
			celMap[ConvertToCELValue(key)] = ConvertToCELValue(val)
		}

		return types.NewDynamicMap(types.DefaultTypeAdapter, celMap)

	case map[string]any:
		celMap := make(map[ref.Val]ref.Val, len(v))
		for key, val := range v {
			celMap[types.String(key)] = ConvertToCELValue(val)
		}

		return types.NewDynamicMap(types.DefaultTypeAdapter, celMap)

	default:
		return types.NullValue
	}
}
