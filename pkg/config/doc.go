// Package config loads, validates and writes the tilestyle configuration
// file.
//
// The file is YAML. It is validated against a JSON schema reflected from
// [Config] before being decoded, so that errors can point at the offending
// line. The configuration selects the icon URL template and the rule tables
// the resolver uses, and sets logging defaults.
package config
