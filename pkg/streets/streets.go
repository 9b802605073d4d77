// Package streets provides the built-in rule tables: the tegola debug overlay
// and a thematic table for Mapbox Streets v6 style data plus the tegola demo
// layers.
//
// Rules are declared in evaluation order. Earlier rules shadow later ones
// that would also match, so the order is significant.
package streets

import (
	"github.com/go-spatial/tilestyle/pkg/feature"
	"github.com/go-spatial/tilestyle/pkg/rule"
	"github.com/go-spatial/tilestyle/pkg/style"
	"github.com/go-spatial/tilestyle/pkg/zoom"
)

// Group names.
const (
	DebugGroup    = "debug"
	ThematicGroup = "thematic"
)

// Label colors and fonts.
const (
	halo = "rgba(255,255,255,0.8)"

	fontDebug    = `11px "Open Sans", "Arial Unicode MS"`
	fontCountry1 = `bold 11px "Open Sans", "Arial Unicode MS"`
	fontCountry2 = `bold 10px "Open Sans", "Arial Unicode MS"`
	fontCountry3 = `bold 9px "Open Sans", "Arial Unicode MS"`
	fontCountry4 = `bold 8px "Open Sans", "Arial Unicode MS"`
	fontMarine1  = `italic 11px "Open Sans", "Arial Unicode MS"`
	fontMarine3  = `italic 10px "Open Sans", "Arial Unicode MS"`
	fontMarine4  = `italic 9px "Open Sans", "Arial Unicode MS"`
	fontCity     = `11px "Open Sans", "Arial Unicode MS"`
	fontTown     = `9px "Open Sans", "Arial Unicode MS"`
	fontVillage  = `8px "Open Sans", "Arial Unicode MS"`
	fontHamlet   = `bold 9px "Arial Narrow"`

	colorCountry = "#334"
	colorMarine  = "#74aee9"
	colorPlace   = "#333"
	colorHamlet  = "#633"
	colorOutline = "#000000"
)

// Layers returns the layer names the built-in tables have rules for, in
// table order.
func Layers() []string {
	return []string{
		"debug",
		"landuse", "river", "waterway", "water", "aeroway", "building",
		"farms", "aerodromes_polygon", "forest", "grassland", "lakes",
		"medical_polygon", "military", "schools_polygon", "road", "main_roads",
		"country_label", "marine_label", "place_label", "poi_label",
	}
}

// Debug returns the tegola debug group, which outlines tiles and labels them
// with their z/x/y coordinates.
func Debug() *rule.Group {
	return rule.NewGroup(DebugGroup,
		rule.New("debug_outline",
			all(layer("debug"), attr(feature.AttrType, "debug_outline")),
			line("#f00", 1)),
		rule.New("debug_text",
			all(layer("debug"), attr(feature.AttrType, "debug_text")),
			label(fontDebug, colorPlace, 1)),
	)
}

// Thematic returns the thematic group.
func Thematic() *rule.Group {
	return rule.NewGroup(ThematicGroup,
		// Land use.
		rule.New("landuse_park", all(layer("landuse"), attr(feature.AttrClass, "park")), polygon("#d8e8c8")),
		rule.New("landuse_cemetery", all(layer("landuse"), attr(feature.AttrClass, "cemetery")), polygon("#e0e4dd")),
		rule.New("landuse_hospital", all(layer("landuse"), attr(feature.AttrClass, "hospital")), polygon("#fde")),
		rule.New("landuse_school", all(layer("landuse"), attr(feature.AttrClass, "school")), polygon("#f0e8f8")),
		rule.New("landuse_wood", all(layer("landuse"), attr(feature.AttrClass, "wood")), polygon("rgb(233,238,223)")),

		// Water.
		rule.New("river", layer("river"), line("#0000ff", 1)),
		rule.New("waterway_river", all(layer("waterway"), attr(feature.AttrClass, "river")), line("#a0c8f0", 1)),
		rule.New("waterway_stream",
			all(layer("waterway"), anyOf(attr(feature.AttrClass, "stream"), attr(feature.AttrClass, "canal"))),
			line("#a0c8f0", 1)),
		rule.New("water", layer("water"), polygon("#a0c8f0")),

		// Aeroways.
		rule.New("aeroway_polygon", all(layer("aeroway"), geometry(feature.Polygon)), polygon("rgb(242,239,235)")),
		rule.New("aeroway_line",
			all(layer("aeroway"), geometry(feature.LineString), within(zoom.Z11)),
			line("#f0ede9", 1)),

		// Buildings and the tegola demo area layers.
		rule.New("building", layer("building"), strokedPolygon("#f2eae2", "#dfdbd7", 1)),
		rule.New("farms", layer("farms"), strokedPolygon("#00ff00", colorOutline, 0.3)),
		rule.New("aerodromes_polygon", layer("aerodromes_polygon"), strokedPolygon("#00ffff", colorOutline, 0.3)),
		rule.New("forest", layer("forest"), strokedPolygon("#266A2E", colorOutline, 0.3)),
		rule.New("grassland", layer("grassland"), strokedPolygon("#b0b389", colorOutline, 0.3)),
		rule.New("lakes", layer("lakes"), strokedPolygon("#6878c9", colorOutline, 0.3)),
		rule.New("medical_polygon", layer("medical_polygon"), strokedPolygon("#CCCCCC", colorOutline, 0.3)),
		rule.New("military", layer("military"), strokedPolygon("#ff0000", colorOutline, 0.3)),
		rule.New("schools_polygon", layer("schools_polygon"), strokedPolygon("#ffff00", colorOutline, 0.3)),

		// Roads.
		rule.New("road", layer("road"), line("#00ff00", 0.5)),
		rule.New("main_roads", layer("main_roads"), line("#000000", 1)),

		// Country labels.
		rule.New("country_label_1",
			all(layer("country_label"), rank(feature.AttrScalerank, 1)),
			label(fontCountry1, colorCountry, 2)),
		rule.New("country_label_2",
			all(layer("country_label"), rank(feature.AttrScalerank, 2), within(zoom.Z3)),
			label(fontCountry2, colorCountry, 2)),
		rule.New("country_label_3",
			all(layer("country_label"), rank(feature.AttrScalerank, 3), within(zoom.Z4)),
			label(fontCountry3, colorCountry, 2)),
		rule.New("country_label_4",
			all(layer("country_label"), rank(feature.AttrScalerank, 4), within(zoom.Z5)),
			label(fontCountry4, colorCountry, 2)),

		// Marine labels.
		rule.New("marine_label_1",
			all(layer("marine_label"), rank(feature.AttrLabelrank, 1), geometry(feature.Point)),
			label(fontMarine1, colorMarine, 1)),
		rule.New("marine_label_2",
			all(layer("marine_label"), rank(feature.AttrLabelrank, 2), geometry(feature.Point)),
			label(fontMarine1, colorMarine, 1)),
		rule.New("marine_label_3",
			all(layer("marine_label"), rank(feature.AttrLabelrank, 3), geometry(feature.Point)),
			label(fontMarine3, colorMarine, 1)),
		rule.New("marine_label_4",
			all(layer("marine_label"), rank(feature.AttrLabelrank, 4), geometry(feature.Point)),
			label(fontMarine4, colorMarine, 1)),

		// Place labels.
		rule.New("place_label_city",
			all(layer("place_label"), attr(feature.AttrType, "city"), within(zoom.Z7)),
			label(fontCity, colorPlace, 1)),
		rule.New("place_label_town",
			all(layer("place_label"), attr(feature.AttrType, "town"), within(zoom.Z9)),
			label(fontTown, colorPlace, 1)),
		rule.New("place_label_village",
			all(layer("place_label"), attr(feature.AttrType, "village"), within(zoom.Z12)),
			label(fontVillage, colorPlace, 1)),
		rule.New("place_label_hamlet",
			all(layer("place_label"), within(zoom.Z13), anyOf(
				attr(feature.AttrType, "hamlet"),
				attr(feature.AttrType, "suburb"),
				attr(feature.AttrType, "neighbourhood"),
			)),
			label(fontHamlet, colorHamlet, 1)),

		// Points of interest.
		rule.New("poi_label_1", all(layer("poi_label"), within(zoom.Z13), rank(feature.AttrScalerank, 1), poiIcon), makiIcon),
		rule.New("poi_label_2", all(layer("poi_label"), within(zoom.Z14), rank(feature.AttrScalerank, 2), poiIcon), makiIcon),
		rule.New("poi_label_3", all(layer("poi_label"), within(zoom.Z15), rank(feature.AttrScalerank, 3), poiIcon), makiIcon),
		rule.New("poi_label_4", all(layer("poi_label"), within(zoom.Z16), rank(feature.AttrScalerank, 4), poiIcon), makiIcon),
		rule.New("poi_label_5", all(layer("poi_label"), within(zoom.Z17), rankAtLeast(feature.AttrScalerank, 5), poiIcon), makiIcon),
	)
}

func layer(name string) rule.Predicate {
	return attr(feature.AttrLayer, name)
}

func attr(key, value string) rule.Predicate {
	return func(f *feature.Feature, _ float64) bool {
		return f.Is(key, value)
	}
}

func rank(key string, value float64) rule.Predicate {
	return func(f *feature.Feature, _ float64) bool {
		return f.IsNumber(key, value)
	}
}

func rankAtLeast(key string, value float64) rule.Predicate {
	return func(f *feature.Feature, _ float64) bool {
		n, ok := f.Number(key)

		return ok && n >= value
	}
}

func geometry(g feature.GeometryType) rule.Predicate {
	return func(f *feature.Feature, _ float64) bool {
		return f.Geometry == g
	}
}

func within(threshold float64) rule.Predicate {
	return func(_ *feature.Feature, res float64) bool {
		return zoom.Within(res, threshold)
	}
}

// poiIcon matches features with a maki icon other than the generic marker.
func poiIcon(f *feature.Feature, _ float64) bool {
	maki, ok := f.String(feature.AttrMaki)

	return ok && maki != "marker"
}

func all(preds ...rule.Predicate) rule.Predicate {
	return func(f *feature.Feature, res float64) bool {
		for _, p := range preds {
			if !p(f, res) {
				return false
			}
		}

		return true
	}
}

func anyOf(preds ...rule.Predicate) rule.Predicate {
	return func(f *feature.Feature, res float64) bool {
		for _, p := range preds {
			if p(f, res) {
				return true
			}
		}

		return false
	}
}

func polygon(fill string) rule.Action {
	return func(env *rule.Env) style.Directive {
		return env.Pool.Polygon(fill)
	}
}

func strokedPolygon(fill, stroke string, width float64) rule.Action {
	return func(env *rule.Env) style.Directive {
		return env.Pool.StrokedPolygon(fill, stroke, width)
	}
}

func line(color string, width float64) rule.Action {
	return func(env *rule.Env) style.Directive {
		return env.Pool.Line(color, width)
	}
}

func label(font, fill string, haloWidth float64) rule.Action {
	return func(env *rule.Env) style.Directive {
		return env.Pool.Text(env.Feature.Text(feature.AttrNameEN), font, fill, halo, haloWidth)
	}
}

func makiIcon(env *rule.Env) style.Directive {
	maki, _ := env.Feature.String(feature.AttrMaki)

	return env.Icons.Get(maki)
}
