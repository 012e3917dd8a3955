package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `input: web/index.html
package: views
whitespace:
  literalTags: [pre, code]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "web/index.html", cfg.Input)
	assert.Equal(t, "templates_gen.go", cfg.Output)
	assert.Equal(t, "views", cfg.Package)
	assert.Equal(t, "github.com/recera/domgen/pkg/dom", cfg.RuntimeImport)
	assert.Equal(t, []string{"span"}, cfg.Whitespace.InlineTags)
	assert.Equal(t, []string{"pre", "code"}, cfg.Whitespace.LiteralTags)
}

func TestLoad_ExplicitEmptyListDisablesRule(t *testing.T) {
	dir := t.TempDir()
	content := "whitespace:\n  inlineTags: []\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.NotNil(t, cfg.Whitespace.InlineTags)
	assert.Empty(t, cfg.Whitespace.InlineTags)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("input: [unclosed"), 0644))

	_, err := Load(dir)
	assert.ErrorContains(t, err, "failed to parse")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Output = "internal/views/templates_gen.go"

	require.NoError(t, Save(cfg, dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "no input", mutate: func(c *Config) { c.Input = "" }, wantErr: "input path is required"},
		{name: "no output", mutate: func(c *Config) { c.Output = "" }, wantErr: "output path is required"},
		{name: "bad package", mutate: func(c *Config) { c.Package = "my-views" }, wantErr: "not a valid Go identifier"},
		{name: "output equals input", mutate: func(c *Config) { c.Output = "./templates.html" }, wantErr: "overwrite the input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
