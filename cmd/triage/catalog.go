package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/defect-triage/internal/catalog"
	"github.com/Veraticus/defect-triage/internal/cli"
	"github.com/Veraticus/defect-triage/internal/config"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the keyword catalog",
		Long: `Inspect the keyword catalog used for categorization.

The active catalog is the file given by --catalog, or the --preset
built-in when no file is configured. Export a preset to start a custom
catalog file.`,
	}

	cmd.AddCommand(catalogListCmd())
	cmd.AddCommand(catalogExportCmd())
	return cmd
}

func catalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories, keywords and fallback rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c, err := loadCatalog(cfg.Catalog)
			if err != nil {
				return err
			}
			renderCatalog(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

func catalogExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c, err := loadCatalog(cfg.Catalog)
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return catalog.Encode(cmd.OutOrStdout(), c)
			}

			f, err := os.Create(config.ExpandPath(out)) // #nosec G304
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := catalog.Encode(f, c); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", out, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess("Wrote catalog to "+out))
			return nil
		},
	}
	cmd.Flags().String("out", "", "output file (default: stdout)")
	return cmd
}

func renderCatalog(w io.Writer, c *catalog.Catalog) {
	var b strings.Builder
	for i, cat := range c.Categories() {
		fmt.Fprintf(&b, "%2d. %s %s\n", i+1,
			cli.TableHeaderStyle.Render(cat.Name),
			cli.SubtleStyle.Render(fmt.Sprintf("(weight %.1f)", cat.Weight)))
		fmt.Fprintf(&b, "    %s\n", strings.Join(cat.Keywords, ", "))
	}
	fmt.Fprintln(w, cli.RenderBox(fmt.Sprintf("Categories (%d)", c.Len()), strings.TrimRight(b.String(), "\n")))

	fallbacks := c.Fallbacks()
	if len(fallbacks) == 0 {
		return
	}
	b.Reset()
	for i, fb := range fallbacks {
		fmt.Fprintf(&b, "%d. %s ← %s\n", i+1, fb.Category, strings.Join(fb.Triggers, ", "))
	}
	fmt.Fprintln(w, cli.RenderBox("Fallback rules", strings.TrimRight(b.String(), "\n")))
}
