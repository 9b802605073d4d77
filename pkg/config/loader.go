package config

import (
	"bytes"

	"github.com/go-spatial/tilestyle/pkg/yaml"
)

// Validator validates configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*Loader)

// WithValidator sets a custom validator. A nil validator disables schema
// validation.
func WithValidator(v Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

// Loader validates and decodes a configuration file.
type Loader struct {
	validator Validator
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] from byte data. The schema
// validator defaults to [DefaultValidator].
func NewLoaderFromBytes(data []byte, opts ...LoaderOpt) *Loader {
	l := &Loader{data: data}

	if v, err := DefaultValidator(); err == nil {
		l.validator = v
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile(path string, opts ...LoaderOpt) (*Loader, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	return NewLoaderFromBytes(data, opts...), nil
}

// Validate validates the configuration data against the schema.
func (l *Loader) Validate() error {
	var anyConfig any

	dec := yaml.NewDecoder(bytes.NewReader(l.data))

	err := dec.Decode(&anyConfig)
	if err != nil {
		return yaml.Wrap(err, yaml.WithSource(l.data))
	}

	if l.validator != nil {
		err = l.validator.Validate(anyConfig)
		if err != nil {
			return yaml.Wrap(err, yaml.WithSource(l.data))
		}
	}

	return nil
}

// Load decodes the configuration and fills in defaults. Rule expressions
// are compiled so that errors surface at load time.
func (l *Loader) Load() (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(l.data))

	err := dec.Decode(cfg)
	if err != nil {
		return nil, yaml.Wrap(err, yaml.WithSource(l.data))
	}

	cfg.EnsureDefaults()

	err = cfg.Validate()
	if err != nil {
		return nil, yaml.Wrap(err, yaml.WithSource(l.data))
	}

	return cfg, nil
}

// Default returns the embedded default configuration.
func Default() (*Config, error) {
	return NewLoaderFromBytes(defaultConfigYAML).Load()
}
