package yaml

import (
	"errors"
	"io"

	"github.com/goccy/go-yaml"
)

// Decoder reads YAML (or JSON) documents from a stream.
type Decoder struct {
	d *yaml.Decoder
}

// NewDecoder creates a [Decoder] reading from r.
func NewDecoder(r io.Reader, opts ...yaml.DecodeOption) *Decoder {
	opts = append([]yaml.DecodeOption{yaml.AllowDuplicateMapKey()}, opts...)

	return &Decoder{
		d: yaml.NewDecoder(r, opts...),
	}
}

// Decode decodes the next document into v. It returns [io.EOF] once the
// stream is exhausted. Syntax and type errors are returned as [*Error].
func (d *Decoder) Decode(v any) error {
	err := d.d.Decode(v)
	if err == nil {
		return nil
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return &Error{
			Err:   errors.New(yamlErr.GetMessage()),
			Token: yamlErr.GetToken(),
		}
	}

	//nolint:wrapcheck // Return the original error if it's not a [yaml.Error].
	return err
}
