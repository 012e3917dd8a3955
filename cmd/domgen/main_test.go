package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/recera/domgen/cmd/domgen/internal/config"
)

const document = `<template id="card-header"><header class="card"><h1>Title</h1></header></template>
<template id="badge"><span class="badge">new</span></template>`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func setup(t *testing.T) (dir, input string) {
	t.Helper()
	dir = t.TempDir()
	input = filepath.Join(dir, "templates.html")
	require.NoError(t, os.WriteFile(input, []byte(document), 0644))
	return dir, input
}

func TestGenerate_WithFlags(t *testing.T) {
	dir, input := setup(t)
	output := filepath.Join(dir, "views", "views_gen.go")

	stdout, _, err := execute(t,
		"--config", filepath.Join(dir, "absent.yaml"),
		"-i", input, "-o", output, "-p", "views")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 templates")

	code, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(code), "package views")
	assert.Contains(t, string(code), "func buildCardHeaderTemplate[N any]")

	stdout, _, err = execute(t,
		"--config", filepath.Join(dir, "absent.yaml"),
		"-i", input, "-o", output, "-p", "views")
	require.NoError(t, err)
	assert.Contains(t, stdout, "up to date")
}

func TestGenerate_FromConfigFile(t *testing.T) {
	dir, input := setup(t)
	output := filepath.Join(dir, "out_gen.go")

	cfg := config.DefaultConfig()
	cfg.Input = input
	cfg.Output = output
	cfg.Package = "ui"
	require.NoError(t, config.Save(cfg, dir))

	_, _, err := execute(t, "--config", filepath.Join(dir, config.FileName))
	require.NoError(t, err)

	code, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(code), "package ui")
}

func TestGenerate_FlagsOverrideConfig(t *testing.T) {
	dir, input := setup(t)

	data, err := yaml.Marshal(map[string]string{
		"input":   input,
		"output":  filepath.Join(dir, "from_config.go"),
		"package": "fromconfig",
	})
	require.NoError(t, err)
	configPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(configPath, data, 0644))

	override := filepath.Join(dir, "from_flag.go")
	_, _, err = execute(t, "--config", configPath, "--output", override)
	require.NoError(t, err)

	assert.FileExists(t, override)
	assert.NoFileExists(t, filepath.Join(dir, "from_config.go"))

	code, err := os.ReadFile(override)
	require.NoError(t, err)
	assert.Contains(t, string(code), "package fromconfig")
}

func TestGenerate_Errors(t *testing.T) {
	dir, input := setup(t)
	absent := filepath.Join(dir, "absent.yaml")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing input",
			args: []string{"--config", absent, "-i", filepath.Join(dir, "nope.html"), "-o", filepath.Join(dir, "x.go")},
			want: "failed to open template document",
		},
		{
			name: "invalid package",
			args: []string{"--config", absent, "-i", input, "-o", filepath.Join(dir, "x.go"), "-p", "bad-name"},
			want: "invalid configuration",
		},
		{
			name: "output overwrites input",
			args: []string{"--config", absent, "-i", input, "-o", input},
			want: "would overwrite the input",
		},
		{
			name: "positional arguments",
			args: []string{"--config", absent, "extra"},
			want: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestList(t *testing.T) {
	dir, input := setup(t)
	absent := filepath.Join(dir, "absent.yaml")

	stdout, _, err := execute(t, "list", "--config", absent, "-i", input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 templates")
	assert.Contains(t, stdout, "badge")
	assert.Contains(t, stdout, "buildCardHeaderTemplate")

	stdout, _, err = execute(t, "list", "--json", "--config", absent, "-i", input)
	require.NoError(t, err)

	var infos []templateInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "badge", infos[0].ID)
	assert.Equal(t, "TemplateCardHeader", infos[1].Constant)
	assert.NoFileExists(t, filepath.Join(dir, config.DefaultConfig().Output), "list never writes output")
}

func TestRender(t *testing.T) {
	dir, input := setup(t)
	absent := filepath.Join(dir, "absent.yaml")

	stdout, _, err := execute(t, "render", "card-header", "--config", absent, "-i", input)
	require.NoError(t, err)
	assert.Equal(t, "<header class=\"card\"><h1>Title</h1></header>\n", stdout)

	_, _, err = execute(t, "render", "missing", "--config", absent, "-i", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")

	_, _, err = execute(t, "render", "--config", absent, "-i", input)
	assert.Error(t, err)
}

func TestInit_ThenGenerateFromWorkingDirectory(t *testing.T) {
	dir, _ := setup(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	stdout, _, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, config.FileName)
	assert.FileExists(t, filepath.Join(dir, config.FileName))

	_, _, err = execute(t, "init")
	assert.ErrorContains(t, err, "already exists")

	_, _, err = execute(t, "init", "--force")
	require.NoError(t, err)

	// no --config flag: domgen.yaml in the working directory is used
	_, _, err = execute(t)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, config.DefaultConfig().Output))
}

// syncBuffer is a bytes.Buffer safe for concurrent writers and readers
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestGenerate_WatchReportsRebuildFailures(t *testing.T) {
	dir, input := setup(t)
	output := filepath.Join(dir, "out_gen.go")

	var stdout, stderr syncBuffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{
		"--config", filepath.Join(dir, "absent.yaml"),
		"-i", input, "-o", output,
		"--watch", "--debounce", "10ms",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "Watching")
	}, 5*time.Second, 10*time.Millisecond)
	assert.FileExists(t, output)

	require.NoError(t, os.WriteFile(input, []byte(`<template><p>no id</p></template>`), 0644))
	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), "rebuild failed")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch mode did not stop")
	}
}
