// Package feature models a decoded vector tile feature as seen by the style
// resolver: a set of named attributes and a geometry type.
//
// Attribute access never panics. Absent attributes, and attributes holding a
// value of the wrong type, are reported through the second return value of
// the typed accessors so that rule predicates can degrade to a non-match.
package feature
