// Package rule defines style rules and the ordered groups they are evaluated
// in.
//
// A [Rule] pairs a [Predicate] over a feature and view resolution with an
// [Action] that selects a directive. A [Group] evaluates its rules in order
// and stops at the first match. Rules can be written in Go or compiled from a
// declarative [Spec] whose predicate is a CEL expression; see package expr
// for the variables and functions available to it.
package rule
