package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/recera/domgen/cmd/domgen/internal/template"
	"github.com/recera/domgen/cmd/domgen/internal/ui"
	htmlrender "github.com/recera/domgen/pkg/renderer/html"
)

// templateInfo is the JSON shape printed by list --json
type templateInfo struct {
	ID         string `json:"id"`
	Function   string `json:"function"`
	Constant   string `json:"constant"`
	Statements int    `json:"statements"`
}

// compileInput loads and compiles the configured input without writing output
func compileInput(cmd *cobra.Command, s *settings) ([]*template.Compiled, error) {
	cfg, err := s.resolve(cmd)
	if err != nil {
		return nil, err
	}
	doc, err := template.Load(cfg.Input)
	if err != nil {
		return nil, err
	}
	defs, err := doc.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", cfg.Input, err)
	}
	compiled, err := template.CompileAll(defs, options(cfg).Whitespace)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", cfg.Input, err)
	}
	return compiled, nil
}

func newListCommand(s *settings) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the templates found in the input document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			compiled, err := compileInput(cmd, s)
			if err != nil {
				return err
			}

			infos := make([]templateInfo, 0, len(compiled))
			for _, c := range compiled {
				infos = append(infos, templateInfo{
					ID:         c.ID,
					Function:   c.FuncName,
					Constant:   c.ConstName,
					Statements: len(c.Stmts),
				})
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Title(fmt.Sprintf("%d templates", len(infos))))
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFUNCTION\tSTATEMENTS")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", info.ID, info.Function, info.Statements)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newRenderCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "render <id>",
		Short: "Build one template with the HTML factory and print the markup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			compiled, err := compileInput(cmd, s)
			if err != nil {
				return err
			}

			frag, err := template.Dispatch(compiled, htmlrender.NewFactory(), args[0])
			if err != nil {
				return err
			}
			markup, err := htmlrender.RenderToString(frag)
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), markup)
			return nil
		},
	}
}
