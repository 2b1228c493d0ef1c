package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/linkbox/internal/logger"
	"github.com/nikbrunner/linkbox/internal/metadata"
)

func refreshCmd(a *app) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Re-fetch previews for all bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.fetcher == nil {
				return errors.New("metadata fetching is disabled in the config")
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = a.cfg.Refresh.Concurrency
			}

			errOut := cmd.ErrOrStderr()
			results := metadata.Refresh(cmd.Context(), a.fetcher, a.store.Bookmarks(), concurrency,
				func(completed, total int) {
					fmt.Fprintf(errOut, "\rRefreshing %d/%d", completed, total)
				})
			if len(results) > 0 {
				fmt.Fprintln(errOut)
			}

			// Apply on this goroutine; the store is not touched by the workers.
			updated, failed := 0, 0
			for _, r := range results {
				switch {
				case r.Err != nil:
					failed++
					a.log.Warn("refresh failed",
						logger.String("url", r.Bookmark.URL),
						logger.Error(r.Err))
				case r.Changed():
					a.store.UpdateBookmark(r.Bookmark.ID, r.Update)
					updated++
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d of %d bookmarks", updated, len(results))
			if failed > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " (%d failed)", failed)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return cmd.Context().Err()
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "n", 8, "parallel fetches")
	return cmd
}
