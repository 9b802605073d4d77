// Package expr provides CEL (Common Expression Language) environments for
// evaluating rule predicates against map features.
//
// Expressions have access to variables:
//   - `layer`, `class`, `maki`, `name_en` and the other well-known
//     attribute names: the feature attribute of that name
//   - `feature_type`: the "type" attribute, since `type` is reserved by CEL
//   - `attrs` (map<string, dyn>): all feature attributes
//   - `geom` (string): "Point", "LineString", "Polygon" or "Unknown"
//   - `resolution` (double): map units per pixel of the current view
//
// Referencing an attribute the feature does not have is an evaluation error,
// which callers treat as a non-match.
//
// Functions available in addition to the CEL standard library:
//   - zoom(int) double: the resolution at a zoom level, e.g.
//     `resolution <= zoom(11)`
//   - level(double) int: the zoom level for a resolution
//   - within(double, double) bool: resolution threshold check
package expr
