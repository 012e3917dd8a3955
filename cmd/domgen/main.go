package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	s := &settings{}

	cmd := &cobra.Command{
		Use:   "domgen",
		Short: "Compile HTML <template> elements into Go DOM builders",
		Long: `domgen reads an HTML document, finds every <template id="..."> element and
generates a Go file with one builder function per template plus a Build
dispatcher keyed by template id. Builders are generic over dom.Factory, so the
same generated code drives the browser DOM under WASM and x/net/html trees on
the server.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, s)
		},
	}

	s.bind(cmd)

	cmd.AddCommand(newListCommand(s))
	cmd.AddCommand(newRenderCommand(s))
	cmd.AddCommand(newInitCommand())

	return cmd
}
