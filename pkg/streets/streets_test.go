package streets_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-spatial/tilestyle/pkg/feature"
	"github.com/go-spatial/tilestyle/pkg/icon"
	"github.com/go-spatial/tilestyle/pkg/rule"
	"github.com/go-spatial/tilestyle/pkg/streets"
	"github.com/go-spatial/tilestyle/pkg/style"
	"github.com/go-spatial/tilestyle/pkg/zoom"
)

func eval(g *rule.Group, f *feature.Feature, res float64) (style.Directive, string) {
	env := &rule.Env{
		Feature:    f,
		Resolution: res,
		Pool:       style.NewPool(),
		Icons:      icon.NewCache(icon.DefaultTemplate()),
	}

	d, r := g.Eval(env)
	if r == nil {
		return d, ""
	}

	return d, r.Name
}

func TestThematic(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		attrs    map[string]any
		geom     feature.GeometryType
		res      float64
		wantRule string
		want     string
	}{
		"park": {
			attrs:    map[string]any{"layer": "landuse", "class": "park"},
			geom:     feature.Polygon,
			res:      1,
			wantRule: "landuse_park",
			want:     "polygon fill=#d8e8c8",
		},
		"unknown landuse class": {
			attrs: map[string]any{"layer": "landuse", "class": "quarry"},
			geom:  feature.Polygon,
			res:   1,
		},
		"canal": {
			attrs:    map[string]any{"layer": "waterway", "class": "canal"},
			geom:     feature.LineString,
			res:      1,
			wantRule: "waterway_stream",
			want:     "line stroke=#a0c8f0/1",
		},
		"aeroway polygon at any zoom": {
			attrs:    map[string]any{"layer": "aeroway"},
			geom:     feature.Polygon,
			res:      zoom.Resolution(0),
			wantRule: "aeroway_polygon",
			want:     "polygon fill=rgb(242,239,235)",
		},
		"aeroway point": {
			attrs: map[string]any{"layer": "aeroway"},
			geom:  feature.Point,
			res:   1,
		},
		"farms": {
			attrs:    map[string]any{"layer": "farms"},
			geom:     feature.Polygon,
			res:      1,
			wantRule: "farms",
			want:     "polygon fill=#00ff00 stroke=#000000/0.3",
		},
		"road": {
			attrs:    map[string]any{"layer": "road"},
			geom:     feature.LineString,
			res:      1,
			wantRule: "road",
			want:     "line stroke=#00ff00/0.5",
		},
		"country scalerank 1 at any zoom": {
			attrs:    map[string]any{"layer": "country_label", "scalerank": uint64(1), "name_en": "Germany"},
			geom:     feature.Point,
			res:      zoom.Resolution(0),
			wantRule: "country_label_1",
			want:     `text "Germany" font="bold 11px \"Open Sans\", \"Arial Unicode MS\"" fill=#334 halo=rgba(255,255,255,0.8)/2`,
		},
		"country scalerank 4 zoomed out": {
			attrs: map[string]any{"layer": "country_label", "scalerank": uint64(4)},
			geom:  feature.Point,
			res:   zoom.Resolution(4),
		},
		"country scalerank as string": {
			attrs: map[string]any{"layer": "country_label", "scalerank": "1"},
			geom:  feature.Point,
			res:   1,
		},
		"marine label line": {
			attrs: map[string]any{"layer": "marine_label", "labelrank": 1},
			geom:  feature.LineString,
			res:   1,
		},
		"marine label point": {
			attrs:    map[string]any{"layer": "marine_label", "labelrank": 3, "name_en": "North Sea"},
			geom:     feature.Point,
			res:      1,
			wantRule: "marine_label_3",
			want:     `text "North Sea" font="italic 10px \"Open Sans\", \"Arial Unicode MS\"" fill=#74aee9 halo=rgba(255,255,255,0.8)/1`,
		},
		"suburb": {
			attrs:    map[string]any{"layer": "place_label", "type": "suburb", "name_en": "Beuel"},
			geom:     feature.Point,
			res:      zoom.Z13,
			wantRule: "place_label_hamlet",
			want:     `text "Beuel" font="bold 9px \"Arial Narrow\"" fill=#633 halo=rgba(255,255,255,0.8)/1`,
		},
		"village zoomed out": {
			attrs: map[string]any{"layer": "place_label", "type": "village"},
			geom:  feature.Point,
			res:   zoom.Z11,
		},
		"poi scalerank 5": {
			attrs:    map[string]any{"layer": "poi_label", "scalerank": uint64(7), "maki": "museum"},
			geom:     feature.Point,
			res:      zoom.Z17,
			wantRule: "poi_label_5",
			want:     "icon https://cdn.rawgit.com/mapbox/maki/master/icons/museum-15.svg",
		},
		"poi marker": {
			attrs: map[string]any{"layer": "poi_label", "scalerank": uint64(1), "maki": "marker"},
			geom:  feature.Point,
			res:   1,
		},
		"poi without maki": {
			attrs: map[string]any{"layer": "poi_label", "scalerank": uint64(1)},
			geom:  feature.Point,
			res:   1,
		},
	}

	g := streets.Thematic()

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			d, ruleName := eval(g, feature.New(tc.geom, tc.attrs), tc.res)
			assert.Equal(t, tc.wantRule, ruleName)

			if tc.want == "" {
				assert.Nil(t, d)

				return
			}

			require.NotNil(t, d)
			assert.Equal(t, tc.want, d.String())
		})
	}
}

func TestDebug(t *testing.T) {
	t.Parallel()

	g := streets.Debug()

	d, name := eval(g, feature.New(feature.Point, map[string]any{
		"layer":   "debug",
		"type":    "debug_text",
		"name_en": "11/1066/689",
	}), 1)
	assert.Equal(t, "debug_text", name)
	assert.Equal(t, `text "11/1066/689" font="11px \"Open Sans\", \"Arial Unicode MS\"" fill=#333 halo=rgba(255,255,255,0.8)/1`, d.String())

	d, name = eval(g, feature.New(feature.Polygon, map[string]any{"layer": "building"}), 1)
	assert.Nil(t, d)
	assert.Empty(t, name)
}

func TestThematic_RuleNamesUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, g := range []*rule.Group{streets.Debug(), streets.Thematic()} {
		for _, r := range g.Rules {
			assert.False(t, seen[r.Name], "duplicate rule %q", r.Name)
			seen[r.Name] = true
		}
	}
}

func TestLayers(t *testing.T) {
	t.Parallel()

	var names []string
	for _, g := range []*rule.Group{streets.Debug(), streets.Thematic()} {
		for _, r := range g.Rules {
			names = append(names, r.Name)
		}
	}

	for _, l := range streets.Layers() {
		found := false
		for _, n := range names {
			if n == l || strings.HasPrefix(n, l+"_") {
				found = true

				break
			}
		}

		assert.True(t, found, "no rule named after layer %q", l)
	}
}

func TestLayers_CoverRules(t *testing.T) {
	t.Parallel()

	values := []string{
		"park", "cemetery", "hospital", "school", "wood", "river", "stream",
		"debug_outline", "debug_text", "city", "town", "village", "hamlet",
	}
	geoms := []feature.GeometryType{feature.Point, feature.LineString, feature.Polygon}

	var candidates []*feature.Feature
	for _, l := range streets.Layers() {
		for _, g := range geoms {
			for _, v := range values {
				for rank := 1; rank <= 5; rank++ {
					candidates = append(candidates, feature.New(g, map[string]any{
						feature.AttrLayer:     l,
						feature.AttrClass:     v,
						feature.AttrType:      v,
						feature.AttrScalerank: rank,
						feature.AttrLabelrank: rank,
						feature.AttrMaki:      "cafe",
					}))
				}
			}
		}
	}

	for _, g := range []*rule.Group{streets.Debug(), streets.Thematic()} {
		for _, r := range g.Rules {
			matched := false
			for _, f := range candidates {
				if r.Match(f, zoom.Resolution(zoom.MaxLevel)) {
					matched = true

					break
				}
			}

			assert.True(t, matched, "rule %q matches no feature in a listed layer", r.Name)
		}
	}
}
