package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomodakengo/kensa-sub001/codec"
	"github.com/tomodakengo/kensa-sub001/internal/fsutil"
)

// formatFor picks the explicit format, else the one implied by path's extension.
func formatFor(explicit, path string) string {
	if explicit != "" {
		return explicit
	}
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		return ext
	}
	return string(codec.FormatXML)
}

func newImportCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import pages from an XML or JSON document",
		Long: `Import pages from an XML or JSON document. Each imported page replaces the
stored page of the same name; a page without locators removes it. Use - to
read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			reg, err := a.openRegistry(cmd)
			if err != nil {
				return err
			}
			if err := reg.ImportLocators(cmd.Context(), data, formatFor(format, args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "import complete, %d pages stored\n", len(reg.Pages()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "document format: xml or json (default: from file extension)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every page as one XML or JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.openRegistry(cmd)
			if err != nil {
				return err
			}
			data, err := reg.ExportLocators(cmd.Context(), formatFor(format, out))
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := fsutil.WriteFileAtomic(out, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			a.logger.Info("exported locators", "path", out, "pages", len(reg.Pages()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "document format: xml or json (default: from --out extension, else xml)")
	cmd.Flags().StringVar(&out, "out", "", "write to this file instead of stdout")
	return cmd
}
