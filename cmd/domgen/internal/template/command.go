package template

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Result summarizes one ProcessFile run
type Result struct {
	Input      string
	Output     string
	Templates  []*Compiled
	Statements int
	Bytes      int
	Unchanged  bool // output already held identical content
	Duration   time.Duration
}

// ProcessFile compiles the templates of input and writes the generated Go
// file to output. The output is only touched once the whole file has been
// generated, and then replaced in a single rename.
func ProcessFile(ctx context.Context, input, output string, opts Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	doc, err := Load(input)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := Generate(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", input, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Input:     input,
		Output:    output,
		Templates: out.Compiled,
		Bytes:     len(out.Code),
	}
	for _, c := range out.Compiled {
		res.Statements += len(c.Stmts)
		logger.Debug("compiled template",
			"id", c.ID,
			"func", c.FuncName,
			"statements", len(c.Stmts))
	}

	if existing, err := os.ReadFile(output); err == nil && bytes.Equal(existing, out.Code) {
		res.Unchanged = true
	} else if err := WriteFile(output, out.Code); err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	logger.Debug("generation finished",
		"input", input,
		"output", output,
		"templates", len(out.Compiled),
		"unchanged", res.Unchanged,
		"duration", res.Duration)
	return res, nil
}

// WriteFile replaces path with data through a temporary file in the same
// directory, so readers never observe a partial file.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary output: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
