package config

import (
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"

	goyaml "github.com/goccy/go-yaml"

	_ "embed"

	"github.com/go-spatial/tilestyle/pkg/expr"
	"github.com/go-spatial/tilestyle/pkg/icon"
	"github.com/go-spatial/tilestyle/pkg/log"
	"github.com/go-spatial/tilestyle/pkg/resolver"
	"github.com/go-spatial/tilestyle/pkg/rule"
	"github.com/go-spatial/tilestyle/pkg/schema"
	"github.com/go-spatial/tilestyle/pkg/streets"
	"github.com/go-spatial/tilestyle/pkg/yaml"
)

const (
	APIVersion = "tilestyle.go-spatial.org/v1beta1"
	Kind       = "Configuration"

	// SchemaFile is the name the schema is written under, next to the
	// configuration file.
	SchemaFile = "config.v1beta1.json"
	schemaID   = "https://github.com/go-spatial/tilestyle/pkg/config/" + SchemaFile
)

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	ValidAPIVersions = []string{APIVersion}
	ValidKinds       = []string{Kind}

	// SchemaJSON returns the JSON schema for [Config].
	SchemaJSON = sync.OnceValues(func() ([]byte, error) {
		return schema.NewGenerator(&Config{}, schemaID).Generate()
	})

	// DefaultValidator returns a validator for the [Config] schema.
	DefaultValidator = sync.OnceValues(func() (*schema.Validator, error) {
		b, err := SchemaJSON()
		if err != nil {
			return nil, err
		}

		return schema.NewValidator(schemaID, b)
	})
)

// Config is the tilestyle configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Log sets the default log level and format.
	Log *LogConfig `json:"log,omitempty" jsonschema:"title=Logging"`
	// Icons sets the icon URL template.
	Icons *icon.Template `json:"icons,omitempty" jsonschema:"title=Icons"`
	// Rules selects the rule tables.
	Rules *RulesConfig `json:"rules,omitempty" jsonschema:"title=Rules"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version,required"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind,required"`
}

// LogConfig holds logging defaults. Command line flags take precedence.
type LogConfig struct {
	// Level is one of error, warn, info or debug.
	Level string `json:"level,omitempty" jsonschema:"title=Level,enum=error,enum=warn,enum=info,enum=debug"`
	// Format is one of text, logfmt or json.
	Format string `json:"format,omitempty" jsonschema:"title=Format,enum=text,enum=logfmt,enum=json"`
}

// RulesConfig selects the debug and thematic rule groups.
//
// Rule match expressions read attributes by name (layer, class, maki, ...),
// except the "type" attribute, which is feature_type since type is reserved
// in CEL.
type RulesConfig struct {
	// Builtin enables the built-in rule tables. Configured rules are
	// evaluated after the built-in rules of the same group. Defaults to true.
	Builtin *bool `json:"builtin,omitempty" jsonschema:"title=Use Built-in Rules"`
	// Debug rules are evaluated first; at most one of them applies.
	Debug []rule.Spec `json:"debug,omitempty" jsonschema:"title=Debug Rules"`
	// Thematic rules are evaluated second; at most one of them applies.
	Thematic []rule.Spec `json:"thematic,omitempty" jsonschema:"title=Thematic Rules"`
}

// UseBuiltin reports whether the built-in rule tables are enabled.
func (rc *RulesConfig) UseBuiltin() bool {
	return rc == nil || rc.Builtin == nil || *rc.Builtin
}

// NewConfig returns a [Config] with defaults set.
func NewConfig() *Config {
	c := &Config{
		APIVersion: APIVersion,
		Kind:       Kind,
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults fills unset sections with their defaults.
func (c *Config) EnsureDefaults() {
	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = string(log.LevelInfo)
	}
	if c.Log.Format == "" {
		c.Log.Format = string(log.FormatText)
	}

	if c.Icons == nil {
		t := icon.DefaultTemplate()
		c.Icons = &t
	} else {
		c.Icons.EnsureDefaults()
	}

	if c.Rules == nil {
		c.Rules = &RulesConfig{}
	}
}

// Validate checks the semantic constraints the schema cannot express, by
// compiling every configured rule.
func (c *Config) Validate() error {
	_, _, err := c.Groups()

	return err
}

// Groups builds the debug and thematic rule groups.
func (c *Config) Groups() (debug, thematic *rule.Group, err error) {
	env, err := expr.NewEnvironment()
	if err != nil {
		return nil, nil, fmt.Errorf("create rule environment: %w", err)
	}

	rc := c.Rules
	if rc == nil {
		rc = &RulesConfig{}
	}

	debugRules, err := rule.CompileAll(env, rc.Debug)
	if err != nil {
		return nil, nil, yaml.NewError(err, yaml.WithPath(rulesPath("debug")))
	}

	thematicRules, err := rule.CompileAll(env, rc.Thematic)
	if err != nil {
		return nil, nil, yaml.NewError(err, yaml.WithPath(rulesPath("thematic")))
	}

	if rc.UseBuiltin() {
		return streets.Debug().Append(debugRules...), streets.Thematic().Append(thematicRules...), nil
	}

	return rule.NewGroup(streets.DebugGroup, debugRules...), rule.NewGroup(streets.ThematicGroup, thematicRules...), nil
}

// ResolverOptions returns the options to create a [resolver.Resolver] for
// this configuration.
func (c *Config) ResolverOptions() ([]resolver.Option, error) {
	debug, thematic, err := c.Groups()
	if err != nil {
		return nil, err
	}

	tmpl := icon.DefaultTemplate()
	if c.Icons != nil {
		tmpl = *c.Icons
		tmpl.EnsureDefaults()
	}

	return []resolver.Option{
		resolver.WithIconTemplate(tmpl),
		resolver.WithDebugGroup(debug),
		resolver.WithThematicGroup(thematic),
	}, nil
}

// JSONSchemaExtend restricts apiVersion and kind to their valid values.
func (Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	apiVersion, ok := jss.Properties.Get("apiVersion")
	if !ok {
		panic("apiVersion property not found in schema")
	}

	for _, version := range ValidAPIVersions {
		apiVersion.OneOf = append(apiVersion.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: version,
			Title: "API Version",
		})
	}

	_, _ = jss.Properties.Set("apiVersion", apiVersion)

	kind, ok := jss.Properties.Get("kind")
	if !ok {
		panic("kind property not found in schema")
	}

	for _, kindValue := range ValidKinds {
		kind.OneOf = append(kind.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: kindValue,
			Title: "Kind",
		})
	}

	_, _ = jss.Properties.Set("kind", kind)
}

// MarshalYAML encodes the configuration as YAML.
func (c *Config) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(*c) //nolint:wrapcheck // Already wrapped.
}

func rulesPath(group string) *goyaml.Path {
	return yaml.NewPathBuilder().Root().Child("rules").Child(group).Build()
}
