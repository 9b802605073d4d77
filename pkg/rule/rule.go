package rule

import (
	"github.com/go-spatial/tilestyle/pkg/feature"
	"github.com/go-spatial/tilestyle/pkg/icon"
	"github.com/go-spatial/tilestyle/pkg/style"
)

// Env is the state an [Action] draws its directive from. It is owned by a
// single resolver.
type Env struct {
	Feature    *feature.Feature
	Pool       *style.Pool
	Icons      icon.Source
	Resolution float64
}

// Predicate reports whether a rule applies to a feature at a resolution.
// Predicates must be pure and must return false for missing attributes.
type Predicate func(f *feature.Feature, res float64) bool

// Action selects the directive for a matching feature, setting every field it
// uses. It may return nil to contribute nothing.
type Action func(env *Env) style.Directive

// Rule is a predicate and action pair. Rules hold no per-call state and can
// be shared by resolvers on different goroutines.
type Rule struct {
	Match Predicate
	Apply Action
	Name  string
}

// New creates a [Rule].
func New(name string, match Predicate, apply Action) *Rule {
	return &Rule{Name: name, Match: match, Apply: apply}
}

func (r *Rule) String() string {
	return r.Name
}

// Group is an ordered list of rules evaluated first-match-wins.
type Group struct {
	Name  string
	Rules []*Rule
}

// NewGroup creates a [Group].
func NewGroup(name string, rules ...*Rule) *Group {
	return &Group{Name: name, Rules: rules}
}

// Eval applies the first rule in the group whose predicate matches, and
// returns its directive and the rule. Later rules are not evaluated. If no
// rule matches, Eval returns nil and a nil rule.
//
//nolint:ireturn // Returns the directive sum type.
func (g *Group) Eval(env *Env) (style.Directive, *Rule) {
	if g == nil {
		return nil, nil
	}

	for _, r := range g.Rules {
		if r.Match(env.Feature, env.Resolution) {
			return r.Apply(env), r
		}
	}

	return nil, nil
}

// Len returns the number of rules in the group.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}

	return len(g.Rules)
}

// Append returns a new group with the rules of g followed by rules.
func (g *Group) Append(rules ...*Rule) *Group {
	if g == nil {
		g = &Group{}
	}

	out := &Group{Name: g.Name}
	out.Rules = make([]*Rule, 0, len(g.Rules)+len(rules))
	out.Rules = append(out.Rules, g.Rules...)
	out.Rules = append(out.Rules, rules...)

	return out
}
