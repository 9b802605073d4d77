package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-spatial/tilestyle/pkg/config"
	"github.com/go-spatial/tilestyle/pkg/feature"
	"github.com/go-spatial/tilestyle/pkg/icon"
	"github.com/go-spatial/tilestyle/pkg/resolver"
	"github.com/go-spatial/tilestyle/pkg/rule"
	"github.com/go-spatial/tilestyle/pkg/streets"
	"github.com/go-spatial/tilestyle/pkg/style"
	"github.com/go-spatial/tilestyle/pkg/zoom"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()

	assert.Equal(t, config.APIVersion, cfg.APIVersion)
	assert.Equal(t, config.Kind, cfg.Kind)
	require.NotNil(t, cfg.Log)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	require.NotNil(t, cfg.Icons)
	assert.Equal(t, icon.DefaultTemplate(), *cfg.Icons)
	require.NotNil(t, cfg.Rules)
	assert.True(t, cfg.Rules.UseBuiltin())
}

func TestConfig_EnsureDefaults(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		APIVersion: config.APIVersion,
		Kind:       config.Kind,
		Icons:      &icon.Template{Base: "https://example.com/"},
	}

	cfg.EnsureDefaults()

	assert.Equal(t, "https://example.com/", cfg.Icons.Base)
	assert.Equal(t, icon.DefaultSuffix, cfg.Icons.Suffix)
	assert.Equal(t, icon.DefaultSize, cfg.Icons.Size)
	assert.NotNil(t, cfg.Log)
	assert.NotNil(t, cfg.Rules)
}

func TestRulesConfig_UseBuiltin(t *testing.T) {
	t.Parallel()

	yes, no := true, false

	tcs := map[string]struct {
		rc   *config.RulesConfig
		want bool
	}{
		"nil":   {rc: nil, want: true},
		"unset": {rc: &config.RulesConfig{}, want: true},
		"true":  {rc: &config.RulesConfig{Builtin: &yes}, want: true},
		"false": {rc: &config.RulesConfig{Builtin: &no}, want: false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.rc.UseBuiltin())
		})
	}
}

func TestConfig_Groups(t *testing.T) {
	t.Parallel()

	extra := []rule.Spec{{
		Name:  "water",
		Match: `layer == "water"`,
		Style: rule.Template{Kind: "polygon", Fill: "#00f"},
	}}

	t.Run("builtin", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Rules.Thematic = extra

		debug, thematic, err := cfg.Groups()
		require.NoError(t, err)
		assert.Equal(t, streets.Debug().Len(), debug.Len())
		assert.Equal(t, streets.Thematic().Len()+1, thematic.Len())
		assert.Equal(t, "water", thematic.Rules[thematic.Len()-1].Name)
	})

	t.Run("custom only", func(t *testing.T) {
		t.Parallel()

		no := false
		cfg := config.NewConfig()
		cfg.Rules.Builtin = &no
		cfg.Rules.Thematic = extra

		debug, thematic, err := cfg.Groups()
		require.NoError(t, err)
		assert.Equal(t, 0, debug.Len())
		assert.Equal(t, 1, thematic.Len())
		assert.Equal(t, streets.ThematicGroup, thematic.Name)
	})

	t.Run("invalid rule", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Rules.Debug = []rule.Spec{{Match: `layer ==`, Style: rule.Template{Kind: "fill"}}}

		_, _, err := cfg.Groups()
		require.ErrorIs(t, err, rule.ErrInvalidRule)
		assert.Contains(t, err.Error(), "$.rules.debug")
	})
}

func TestConfig_ResolverOptions(t *testing.T) {
	t.Parallel()

	no := false
	cfg := config.NewConfig()
	cfg.Icons.Base = "https://icons.example.com/"
	cfg.Rules.Builtin = &no
	cfg.Rules.Thematic = []rule.Spec{{
		Name:  "poi",
		Match: `layer == "poi_label"`,
		Style: rule.Template{Kind: "icon"},
	}}

	opts, err := cfg.ResolverOptions()
	require.NoError(t, err)

	r := resolver.New(opts...)
	f := feature.New(feature.Point, map[string]any{
		feature.AttrLayer: "poi_label",
		feature.AttrMaki:  "cafe",
	})

	got := r.Resolve(f, zoom.Z17)
	require.Len(t, got, 1)

	ic, ok := got[0].(*style.Icon)
	require.True(t, ok)
	assert.Equal(t, "https://icons.example.com/cafe-15.svg", ic.Src)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg, err := config.Default()
	require.NoError(t, err)
	assert.Equal(t, config.APIVersion, cfg.APIVersion)
	assert.True(t, cfg.Rules.UseBuiltin())
	assert.NotEmpty(t, cfg.Rules.Thematic)

	_, thematic, err := cfg.Groups()
	require.NoError(t, err)
	assert.Greater(t, thematic.Len(), streets.Thematic().Len())
}

func TestConfig_MarshalYAML(t *testing.T) {
	t.Parallel()

	b, err := config.NewConfig().MarshalYAML()
	require.NoError(t, err)

	cfg, err := config.NewLoaderFromBytes(b).Load()
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig(), cfg)
}

func TestSchemaJSON(t *testing.T) {
	t.Parallel()

	b, err := config.SchemaJSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), config.APIVersion)
	assert.Contains(t, string(b), `"thematic"`)

	_, err = config.DefaultValidator()
	require.NoError(t, err)
}

func TestWriteDefaultConfig(t *testing.T) {
	t.Parallel()

	t.Run("new file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "config.yaml")

		err := config.WriteDefaultConfig(path, false)
		require.NoError(t, err)
		assert.FileExists(t, path)
		assert.FileExists(t, filepath.Join(filepath.Dir(path), config.SchemaFile))

		l, err := config.NewLoaderFromFile(path)
		require.NoError(t, err)
		require.NoError(t, l.Validate())
	})

	t.Run("existing file kept", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("custom"), 0o600))

		err := config.WriteDefaultConfig(path, false)
		require.NoError(t, err)

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "custom", string(b))
	})

	t.Run("existing file forced", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("custom"), 0o600))

		err := config.WriteDefaultConfig(path, true)
		require.NoError(t, err)

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotEqual(t, "custom", string(b))

		backups, err := filepath.Glob(filepath.Join(dir, "config.yaml.*.old"))
		require.NoError(t, err)
		assert.Len(t, backups, 1)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		err := config.WriteDefaultConfig(t.TempDir(), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path is a directory")
	})
}

func TestGetPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	assert.Equal(t, filepath.Join("/xdg", "tilestyle", "config.yaml"), config.GetPath())
}
