// Package style defines the rendering directives produced by the resolver and
// the [Pool] of long-lived directive instances they are drawn from.
//
// A [Directive] is one of [*Fill], [*Stroke], [*Polygon], [*Line], [*Text] or
// [*Icon]. Directives handed out by a [Pool] are overwritten in place by the
// next action that selects the same kind, so callers that need to retain a
// directive past the next resolve call must [Directive.Clone] it.
package style
