package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/cli/formatter"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the phase catalog",
	}

	cmd.AddCommand(
		newCatalogListCmd(app),
		newCatalogValidateCmd(),
		newCatalogExportCmd(app),
	)

	return cmd
}

func newCatalogListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List phases in schedule order",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatCatalog(app.Catalog))
			return nil
		},
	}
}

func newCatalogValidateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a YAML catalog file for integrity errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFile(file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d phases\n", formatter.StyleGreen.Render("✔"), file, cat.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Catalog YAML file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newCatalogExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the active catalog as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return catalog.Encode(cmd.OutOrStdout(), app.Catalog)
		},
	}
}
