package feature

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-spatial/tilestyle/pkg/yaml"
)

// Decoder reads a stream of features encoded as YAML or JSON documents:
//
//	geometry: Polygon
//	attrs:
//	  layer: building
//	---
//	geometry: Point
//	attrs: {layer: poi_label, maki: cafe, scalerank: 1}
type Decoder struct {
	dec *yaml.Decoder
	n   int
}

// NewDecoder creates a [Decoder] reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: yaml.NewDecoder(r)}
}

// Next decodes the next feature. It returns [io.EOF] at the end of the
// stream. Empty documents, and documents with neither attributes nor a
// geometry, are skipped.
func (d *Decoder) Next() (*Feature, error) {
	for {
		var f Feature

		err := d.dec.Decode(&f)
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		d.n++

		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", d.n, err)
		}
		if f.empty() {
			continue
		}

		return &f, nil
	}
}

// DecodeAll decodes every remaining feature in the stream.
func (d *Decoder) DecodeAll() ([]*Feature, error) {
	var features []*Feature

	for {
		f, err := d.Next()
		if errors.Is(err, io.EOF) {
			return features, nil
		}
		if err != nil {
			return nil, err
		}

		features = append(features, f)
	}
}

func (f *Feature) empty() bool {
	return len(f.Attrs) == 0 && f.Geometry == Unknown
}
