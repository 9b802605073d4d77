// Package schema reflects JSON schemas from Go configuration types and
// validates decoded YAML documents against them.
//
// Schemas are generated with [github.com/invopop/jsonschema] and validated
// with [github.com/santhosh-tekuri/jsonschema/v6]. Validation errors carry the
// YAML path of the offending value so they can be annotated against the
// source document.
package schema
