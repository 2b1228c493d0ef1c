package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/linkbox/internal/exporter"
	"github.com/nikbrunner/linkbox/internal/importer"
)

func importCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import bookmarks from a browser HTML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer file.Close()

			imported, err := importer.ParseHTMLBookmarks(file)
			if err != nil {
				return fmt.Errorf("parse HTML: %w", err)
			}

			out := cmd.OutOrStdout()
			if dryRun {
				for _, ib := range imported {
					added := "-"
					if !ib.CreatedAt.IsZero() {
						added = ib.CreatedAt.Format("2006-01-02")
					}
					category := ib.CategoryName
					if category == "" {
						category = "-"
					}
					fmt.Fprintf(out, "%s  %s  %s  %s\n", added, category, ib.Title, ib.URL)
				}
				fmt.Fprintf(out, "%d bookmarks found\n", len(imported))
				return nil
			}

			added, skipped := importer.Merge(a.store, imported)

			fmt.Fprintf(out, "Imported %d bookmarks", added)
			if skipped > 0 {
				fmt.Fprintf(out, " (%d duplicates skipped)", skipped)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list what would be imported without saving")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export bookmarks as browser-compatible HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputPath := ""
			if len(args) == 1 {
				outputPath = args[0]
			} else {
				var err error
				if outputPath, err = exporter.DefaultExportPath(); err != nil {
					return fmt.Errorf("export path: %w", err)
				}
			}

			bookmarks := a.store.Bookmarks()
			html := exporter.ExportHTML(a.store.Categories(), bookmarks)

			if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
			if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
				return fmt.Errorf("write file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bookmarks to %s\n", len(bookmarks), outputPath)
			return nil
		},
	}
}
