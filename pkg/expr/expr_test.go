package expr_test

import (
	"math"
	"testing"

	"github.com/google/cel-go/common/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-spatial/tilestyle/pkg/expr"
	"github.com/go-spatial/tilestyle/pkg/feature"
	"github.com/go-spatial/tilestyle/pkg/zoom"
)

func TestEnvironment_Compile(t *testing.T) {
	t.Parallel()

	env := expr.MustNewEnvironment()

	tcs := map[string]struct {
		expression string
		wantErr    bool
	}{
		"attribute equality": {
			expression: `layer == "building"`,
		},
		"threshold": {
			expression: `layer == "aeroway" && geom == "LineString" && resolution <= zoom(11)`,
		},
		"attrs map": {
			expression: `"maki" in attrs && attrs.maki != "marker"`,
		},
		"feature type": {
			expression: `layer == "place_label" && feature_type == "city"`,
		},
		"type attribute via attrs": {
			expression: `attrs["type"] == "city"`,
		},
		"string extension": {
			expression: `layer.startsWith("water")`,
		},
		"non-bool result": {
			expression: `resolution * 2.0`,
			wantErr:    true,
		},
		"unknown function": {
			expression: `layer.explode()`,
			wantErr:    true,
		},
		"empty": {
			expression: ``,
			wantErr:    true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p, err := env.Compile(tc.expression)
			if tc.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	env := expr.MustNewEnvironment()

	aeroway := feature.New(feature.LineString, map[string]any{"layer": "aeroway"})
	poi := feature.New(feature.Point, map[string]any{
		"layer":     "poi_label",
		"maki":      "cafe",
		"scalerank": uint64(5),
	})

	tcs := map[string]struct {
		expression string
		f          *feature.Feature
		resolution float64
		want       bool
		wantErr    bool
	}{
		"threshold boundary inside": {
			expression: `layer == "aeroway" && geom == "LineString" && resolution <= zoom(11)`,
			f:          aeroway,
			resolution: zoom.Z11,
			want:       true,
		},
		"threshold boundary outside": {
			expression: `layer == "aeroway" && geom == "LineString" && resolution <= zoom(11)`,
			f:          aeroway,
			resolution: math.Nextafter(zoom.Z11, math.Inf(1)),
			want:       false,
		},
		"within function": {
			expression: `within(resolution, zoom(17))`,
			f:          poi,
			resolution: zoom.Z17,
			want:       true,
		},
		"level function": {
			expression: `level(resolution) == 13`,
			f:          poi,
			resolution: zoom.Z13,
			want:       true,
		},
		"cross type numeric comparison": {
			expression: `scalerank >= 5 && maki != "marker"`,
			f:          poi,
			resolution: 1,
			want:       true,
		},
		"feature type": {
			expression: `feature_type == "city" && attrs["type"] == "city"`,
			f: feature.New(feature.Point, map[string]any{
				"layer": "place_label",
				"type":  "city",
			}),
			resolution: 1,
			want:       true,
		},
		"missing attribute": {
			expression: `class == "park"`,
			f:          poi,
			resolution: 1,
			wantErr:    true,
		},
		"missing attribute short circuit": {
			expression: `layer == "poi_label" || class == "park"`,
			f:          poi,
			resolution: 1,
			want:       true,
		},
		"zoom out of range": {
			expression: `resolution <= zoom(40)`,
			f:          poi,
			resolution: 1,
			wantErr:    true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p, err := env.Compile(tc.expression)
			require.NoError(t, err)

			got, err := expr.Match(p, &expr.Activation{Feature: tc.f, Resolution: tc.resolution})
			if tc.wantErr {
				require.Error(t, err)
				assert.False(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestActivation_NilFeature(t *testing.T) {
	t.Parallel()

	act := &expr.Activation{Resolution: 2}

	v, ok := act.ResolveName(expr.VarResolution)
	assert.True(t, ok)
	assert.InDelta(t, 2.0, v, 0)

	_, ok = act.ResolveName("layer")
	assert.False(t, ok)
	assert.Nil(t, act.Parent())
}

func TestConvertToCELValue(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in   any
		want any
	}{
		"nil":         {in: nil, want: types.NullValue},
		"bool":        {in: true, want: types.True},
		"uint64":      {in: uint64(3), want: types.Int(3)},
		"float64":     {in: 1.5, want: types.Double(1.5)},
		"string":      {in: "park", want: types.String("park")},
		"unsupported": {in: struct{}{}, want: types.NullValue},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, expr.ConvertToCELValue(tc.in))
		})
	}
}
