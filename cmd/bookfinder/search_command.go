package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bookfinder/internal/acquisition"
	"bookfinder/internal/library"
	"bookfinder/internal/metadata"
)

type searchResult struct {
	Index int  `json:"index"`
	Owned bool `json:"owned"`
	metadata.Record
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		req    acquisition.Request
		asJSON bool
		addIdx int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search Google Books and OpenLibrary",
		Long: `Search queries every enabled catalog concurrently, merges duplicate
editions, drops results that do not resemble the title or author, and fills in
missing descriptions. ISBN searches skip the similarity filter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Author) == "" && strings.TrimSpace(req.ISBN) == "" {
				return errors.New("provide at least one of --title, --author, or --isbn")
			}
			if req.Limit < 0 {
				return fmt.Errorf("--limit must be positive, got %d", req.Limit)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			service := acquisition.NewServiceFromConfig(cfg, logger)
			records := service.SearchBooks(cmd.Context(), req)
			if err := cmd.Context().Err(); err != nil {
				return fmt.Errorf("search cancelled: %w", err)
			}

			return ctx.withLibrary(func(store *library.Store) error {
				owned, err := store.Owned(cmd.Context(), records)
				if err != nil {
					return err
				}
				results := make([]searchResult, len(records))
				for i, record := range records {
					results[i] = searchResult{Index: i + 1, Owned: owned[i], Record: record}
				}

				if addIdx != 0 {
					if err := addSearchResult(cmd, store, results, addIdx); err != nil {
						return err
					}
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), results)
				}
				printSearchResults(cmd, results, service.Providers())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&req.Title, "title", "t", "", "Title to search for")
	cmd.Flags().StringVarP(&req.Author, "author", "a", "", "Author to search for")
	cmd.Flags().StringVar(&req.ISBN, "isbn", "", "ISBN-10 or ISBN-13 to look up")
	cmd.Flags().IntVarP(&req.Limit, "limit", "n", 0, "Maximum number of results (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.Flags().IntVar(&addIdx, "add", 0, "Add result number N to the library")
	return cmd
}

func addSearchResult(cmd *cobra.Command, store *library.Store, results []searchResult, index int) error {
	if index < 1 || index > len(results) {
		return fmt.Errorf("--add %d is out of range (search returned %d results)", index, len(results))
	}
	colorize := shouldColorize(cmd.ErrOrStderr())
	result := &results[index-1]
	entry, err := store.Add(cmd.Context(), result.Record)
	switch {
	case errors.Is(err, library.ErrDuplicate):
		fmt.Fprintln(cmd.ErrOrStderr(), renderStatusLine("Library", statusWarn, fmt.Sprintf("%q is already in the library", result.Title), colorize))
		return nil
	case err != nil:
		return fmt.Errorf("add to library: %w", err)
	}
	result.Owned = true
	fmt.Fprintln(cmd.ErrOrStderr(), renderStatusLine("Library", statusOK, fmt.Sprintf("added %q as %s", result.Title, entry.ShortID()), colorize))
	return nil
}

func printSearchResults(cmd *cobra.Command, results []searchResult, sources []metadata.Provenance) {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "no matching books found")
		return
	}

	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{
			strconv.Itoa(result.Index),
			result.Title,
			result.Authors,
			formatYear(result.Record),
			orDash(result.Publisher),
			orDash(result.ISBN),
			result.Provenance.String(),
			yesNo(result.Owned),
		})
	}
	fmt.Fprintln(out, renderTable([]column{
		{Header: "#", Align: alignRight},
		{Header: "Title", MaxWidth: 48},
		{Header: "Author(s)", MaxWidth: 32},
		{Header: "Year", Align: alignRight},
		{Header: "Publisher", MaxWidth: 24},
		{Header: "ISBN"},
		{Header: "Source"},
		{Header: "Owned"},
	}, rows))

	names := make([]string, 0, len(sources))
	for _, source := range sources {
		names = append(names, source.String())
	}
	summary := fmt.Sprintf("%d books from %s", len(results), strings.Join(names, ", "))
	fmt.Fprintln(out, renderStatusLine("Results", statusInfo, summary, shouldColorize(out)))
}
