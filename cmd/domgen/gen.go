package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/recera/domgen/cmd/domgen/internal/config"
	"github.com/recera/domgen/cmd/domgen/internal/template"
	"github.com/recera/domgen/cmd/domgen/internal/ui"
	"github.com/recera/domgen/cmd/domgen/internal/watch"
)

// settings holds the persistent flags shared by every command
type settings struct {
	configPath string
	input      string
	output     string
	pkg        string
	watch      bool
	debounce   time.Duration
	verbose    bool
}

func (s *settings) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&s.configPath, "config", config.FileName, "Path to the configuration file")
	flags.StringVarP(&s.input, "input", "i", "", "HTML document containing <template> elements")
	flags.StringVarP(&s.output, "output", "o", "", "Generated Go file")
	flags.StringVarP(&s.pkg, "package", "p", "", "Package name of the generated file")
	flags.BoolVarP(&s.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().BoolVarP(&s.watch, "watch", "w", false, "Regenerate whenever the input changes")
	cmd.Flags().DurationVar(&s.debounce, "debounce", watch.DefaultDebounce, "Quiet period before a watch rebuild")
}

// resolve loads the config file and applies explicitly set flags on top
func (s *settings) resolve(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	var cfg *config.Config
	var err error
	if flags.Changed("config") {
		cfg, err = config.LoadFile(s.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}

	if flags.Changed("input") {
		cfg.Input = s.input
	}
	if flags.Changed("output") {
		cfg.Output = s.output
	}
	if flags.Changed("package") {
		cfg.Package = s.pkg
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (s *settings) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if s.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func options(cfg *config.Config) template.Options {
	opts := template.DefaultOptions()
	opts.Package = cfg.Package
	opts.RuntimeImport = cfg.RuntimeImport
	if cfg.Whitespace != nil {
		opts.Whitespace = template.Whitespace{
			InlineTags:  cfg.Whitespace.InlineTags,
			LiteralTags: cfg.Whitespace.LiteralTags,
		}
	}
	return opts
}

func runGenerate(cmd *cobra.Command, s *settings) error {
	cfg, err := s.resolve(cmd)
	if err != nil {
		return err
	}
	logger := s.logger(cmd.ErrOrStderr())
	out := cmd.OutOrStdout()

	generate := func(ctx context.Context) error {
		res, err := template.ProcessFile(ctx, cfg.Input, cfg.Output, options(cfg), logger)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ui.RenderSummary(ui.Summary{
			Input:      res.Input,
			Output:     res.Output,
			Templates:  len(res.Templates),
			Statements: res.Statements,
			Bytes:      res.Bytes,
			Unchanged:  res.Unchanged,
			Duration:   res.Duration,
		}))
		return nil
	}

	if !s.watch {
		return generate(cmd.Context())
	}

	// a broken document should not stop watch mode from starting
	if err := generate(cmd.Context()); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Error("%v", err))
	}

	rebuild := func(ctx context.Context) error {
		if err := generate(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Warning("rebuild failed: %v", err))
		}
		return nil
	}

	// settings are resolved once; config edits need a restart
	w, err := watch.New([]string{cfg.Input}, rebuild,
		watch.WithDebounce(s.debounce),
		watch.WithLogger(logger))
	if err != nil {
		return err
	}

	runErr := make(chan error, 1)
	go func() { runErr <- w.Run(cmd.Context()) }()

	select {
	case <-w.Ready():
		fmt.Fprintln(out, ui.Muted("Watching %s for changes (Ctrl+C to stop)", cfg.Input))
		return <-runErr
	case err := <-runErr:
		return err
	}
}
