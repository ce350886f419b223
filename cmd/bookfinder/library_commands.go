package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bookfinder/internal/config"
	"bookfinder/internal/fileutil"
	"bookfinder/internal/library"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Manage books saved from search results",
	}

	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibraryShowCommand(ctx))
	libraryCmd.AddCommand(newLibraryRemoveCommand(ctx))
	libraryCmd.AddCommand(newLibraryExportCommand(ctx))
	libraryCmd.AddCommand(newLibraryImportCommand(ctx))

	return libraryCmd
}

type libraryEntryView struct {
	ID      string `json:"id"`
	AddedAt string `json:"added_at"`
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Year    int    `json:"year,omitempty"`
	ISBN    string `json:"isbn,omitempty"`
	Source  string `json:"source,omitempty"`
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					views := make([]libraryEntryView, 0, len(entries))
					for _, entry := range entries {
						views = append(views, libraryEntryView{
							ID:      entry.ID,
							AddedAt: entry.AddedAt.Format(time.RFC3339),
							Title:   entry.Record.Title,
							Authors: entry.Record.Authors,
							Year:    entry.Record.Year(),
							ISBN:    entry.Record.ISBN,
							Source:  string(entry.Record.Provenance),
						})
					}
					return writeJSON(cmd.OutOrStdout(), views)
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "library is empty")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.ShortID(),
						entry.Record.Title,
						entry.Record.Authors,
						formatYear(entry.Record),
						orDash(entry.Record.ISBN),
						entry.AddedAt.Local().Format("2006-01-02"),
					})
				}
				fmt.Fprintln(out, renderTable([]column{
					{Header: "ID"},
					{Header: "Title", MaxWidth: 48},
					{Header: "Author(s)", MaxWidth: 32},
					{Header: "Year", Align: alignRight},
					{Header: "ISBN"},
					{Header: "Added"},
				}, rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	return cmd
}

func newLibraryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show every stored field for a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				entry, err := store.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				record := entry.Record
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:          %s\n", entry.ID)
				fmt.Fprintf(out, "Title:       %s\n", record.Title)
				fmt.Fprintf(out, "Author(s):   %s\n", record.Authors)
				fmt.Fprintf(out, "Year:        %s\n", formatYear(record))
				fmt.Fprintf(out, "Publisher:   %s\n", orDash(record.Publisher))
				fmt.Fprintf(out, "Genre:       %s\n", orDash(record.Genre))
				fmt.Fprintf(out, "Series:      %s\n", orDash(record.Series))
				fmt.Fprintf(out, "ISBN:        %s\n", orDash(record.ISBN))
				fmt.Fprintf(out, "Source:      %s\n", orDash(record.Provenance.String()))
				fmt.Fprintf(out, "Added:       %s\n", entry.AddedAt.Local().Format("2006-01-02 15:04"))
				if record.HasDescription() {
					fmt.Fprintf(out, "\n%s\n", strings.TrimSpace(record.Description))
				}
				return nil
			})
		},
	}
}

func newLibraryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a book by id or id prefix",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				entry, err := store.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := store.Remove(cmd.Context(), entry.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %q (%s)\n", entry.Record.Title, entry.ShortID())
				return nil
			})
		},
	}
}

func newLibraryExportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the library as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(outputPath)
			format, err := resolveFormat(formatFlag, target)
			if err != nil {
				return err
			}
			return ctx.withLibrary(func(store *library.Store) error {
				if target == "" || target == "-" {
					return store.Export(cmd.Context(), cmd.OutOrStdout(), format)
				}
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				if err := fileutil.WriteAtomic(expanded, 0o644, func(w io.Writer) error {
					return store.Export(cmd.Context(), w, format)
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported library to %s\n", expanded)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Export format: json or yaml (default from --output extension, else json)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (default stdout)")
	return cmd
}

func newLibraryImportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import books from a JSON or YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := strings.TrimSpace(args[0])
			format, err := resolveFormat(formatFlag, source)
			if err != nil {
				return err
			}
			var reader io.Reader = cmd.InOrStdin()
			if source != "-" {
				expanded, err := config.ExpandPath(source)
				if err != nil {
					return fmt.Errorf("resolve import path: %w", err)
				}
				file, err := os.Open(expanded)
				if err != nil {
					return fmt.Errorf("open import file: %w", err)
				}
				defer file.Close()
				reader = file
			}
			return ctx.withLibrary(func(store *library.Store) error {
				result, err := store.Import(cmd.Context(), reader, format)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d books (%d already present)\n", result.Added, result.Skipped)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Import format: json or yaml (default from file extension, else json)")
	return cmd
}

// resolveFormat prefers an explicit flag, then the file extension, then JSON.
func resolveFormat(flagValue, path string) (library.Format, error) {
	if strings.TrimSpace(flagValue) != "" {
		return library.ParseFormat(flagValue)
	}
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		if format, err := library.ParseFormat(ext); err == nil {
			return format, nil
		}
	}
	return library.FormatJSON, nil
}
