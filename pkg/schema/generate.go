package schema

import (
	"encoding/json"
	"fmt"
	"path"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Generator reflects a JSON schema from a Go value.
type Generator struct {
	reflector *jsonschema.Reflector
	root      any
	id        string
}

// NewGenerator creates a [Generator] for root. The schema's $id is set to id
// when it is not empty.
func NewGenerator(root any, id string) *Generator {
	return &Generator{
		root: root,
		id:   id,
		reflector: &jsonschema.Reflector{
			ExpandedStruct:             true,
			RequiredFromJSONSchemaTags: true,
			AllowAdditionalProperties:  false,
			Namer:                      qualifiedName,
		},
	}
}

// Reflect returns the schema.
func (g *Generator) Reflect() *jsonschema.Schema {
	jss := g.reflector.Reflect(g.root)
	if g.id != "" {
		jss.ID = jsonschema.ID(g.id)
	}

	return jss
}

// Generate returns the schema as indented JSON.
func (g *Generator) Generate() ([]byte, error) {
	b, err := json.MarshalIndent(g.Reflect(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(b, '\n'), nil
}

// qualifiedName prefixes definition names with their package, so that types
// with the same name in different packages do not collide.
func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" || t.Name() == "" {
		return ""
	}

	return path.Base(t.PkgPath()) + "." + t.Name()
}
