// Package resolver assigns rendering directives to map features.
//
// A [Resolver] evaluates a debug rule group and a thematic rule group against
// each feature. Each group contributes at most one directive (its first
// matching rule), so a call returns between zero and two directives, debug
// first. The groups are independent: a feature may match in both.
//
// Resolve is on the rendering hot path. It performs no I/O, and with the
// built-in rule tables it allocates only when an icon is seen for the first
// time. The returned slice and the directives in it are owned by the
// Resolver and are overwritten by the next call; use [style.Directive.Clone]
// to retain them. A Resolver must be used by one goroutine at a time. Give
// each worker its own Resolver, optionally sharing an [icon.SharedCache].
package resolver

import (
	"log/slog"

	"github.com/go-spatial/tilestyle/pkg/feature"
	"github.com/go-spatial/tilestyle/pkg/icon"
	"github.com/go-spatial/tilestyle/pkg/rule"
	"github.com/go-spatial/tilestyle/pkg/streets"
	"github.com/go-spatial/tilestyle/pkg/style"
)

// Resolver resolves features to directives.
type Resolver struct {
	icons    icon.Source
	debug    *rule.Group
	thematic *rule.Group
	logger   *slog.Logger

	// Each group draws from its own pool so that a debug directive and a
	// thematic directive returned by the same call never share fields.
	debugEnv    rule.Env
	thematicEnv rule.Env

	out []style.Directive
}

// Option configures a [Resolver].
type Option func(*Resolver)

// WithIconSource sets the icon cache. Use an [icon.SharedCache] to share
// icons between resolvers.
func WithIconSource(s icon.Source) Option {
	return func(r *Resolver) {
		r.icons = s
	}
}

// WithIconTemplate creates a private icon cache using t.
func WithIconTemplate(t icon.Template) Option {
	return func(r *Resolver) {
		r.icons = icon.NewCache(t)
	}
}

// WithDebugGroup replaces the debug rule group. A nil group disables it.
func WithDebugGroup(g *rule.Group) Option {
	return func(r *Resolver) {
		r.debug = g
	}
}

// WithThematicGroup replaces the thematic rule group. A nil group disables it.
func WithThematicGroup(g *rule.Group) Option {
	return func(r *Resolver) {
		r.thematic = g
	}
}

// WithLogger sets the logger used outside the hot path.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// New creates a [Resolver]. By default it uses the [streets] rule tables and
// a private icon cache with the default [icon.Template].
func New(opts ...Option) *Resolver {
	r := &Resolver{
		debug:    streets.Debug(),
		thematic: streets.Thematic(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.icons == nil {
		r.icons = icon.NewCache(icon.DefaultTemplate())
	}

	r.debugEnv = rule.Env{Pool: style.NewPool(), Icons: r.icons}
	r.thematicEnv = rule.Env{Pool: style.NewPool(), Icons: r.icons}
	r.out = make([]style.Directive, 0, 2)

	r.logger.Debug("created resolver",
		slog.Int("debug_rules", r.debug.Len()),
		slog.Int("thematic_rules", r.thematic.Len()),
	)

	return r
}

// Resolve returns the directives for f at resolution res, debug directive
// first. The result has length 0, 1 or 2 and is valid until the next call.
//
// Missing attributes never cause an error; rules referencing them do not
// match. res must be positive; other values give unspecified results.
func (r *Resolver) Resolve(f *feature.Feature, res float64) []style.Directive {
	r.out = r.out[:0]

	if d := r.eval(r.debug, &r.debugEnv, f, res); d != nil {
		r.out = append(r.out, d)
	}

	if d := r.eval(r.thematic, &r.thematicEnv, f, res); d != nil {
		r.out = append(r.out, d)
	}

	return r.out
}

// Explain resolves f like [Resolver.Resolve] and additionally reports the
// rule that produced the directive of each group. A group's rule is nil when
// it contributed no directive.
func (r *Resolver) Explain(f *feature.Feature, res float64) (out []style.Directive, debug, thematic *rule.Rule) {
	r.out = r.out[:0]

	var d style.Directive

	d, debug = r.evalRule(r.debug, &r.debugEnv, f, res)
	if d != nil {
		r.out = append(r.out, d)
	} else {
		debug = nil
	}

	d, thematic = r.evalRule(r.thematic, &r.thematicEnv, f, res)
	if d != nil {
		r.out = append(r.out, d)
	} else {
		thematic = nil
	}

	return r.out, debug, thematic
}

//nolint:ireturn // Returns the directive sum type.
func (r *Resolver) eval(g *rule.Group, env *rule.Env, f *feature.Feature, res float64) style.Directive {
	d, _ := r.evalRule(g, env, f, res)

	return d
}

//nolint:ireturn // Returns the directive sum type.
func (r *Resolver) evalRule(g *rule.Group, env *rule.Env, f *feature.Feature, res float64) (style.Directive, *rule.Rule) {
	env.Feature = f
	env.Resolution = res
	d, matched := g.Eval(env)
	env.Feature = nil

	return d, matched
}

// Icons returns the icon cache.
//
//nolint:ireturn // Exposes the configured implementation.
func (r *Resolver) Icons() icon.Source {
	return r.icons
}

// Groups returns the debug and thematic rule groups.
func (r *Resolver) Groups() (debug, thematic *rule.Group) {
	return r.debug, r.thematic
}
