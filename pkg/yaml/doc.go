// Package yaml wraps [github.com/goccy/go-yaml] with the decoder and encoder
// settings used for configuration files and feature streams, and with an
// [Error] type that can point at the offending source location.
package yaml
