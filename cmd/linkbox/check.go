package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/linkbox/internal/culler"
)

func checkCmd(a *app) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Find bookmarks whose pages are gone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := culler.Options{
				Concurrency:    a.cfg.Check.Concurrency,
				Timeout:        a.cfg.Check.Timeout,
				ExcludeDomains: a.cfg.Check.ExcludeDomains,
			}

			errOut := cmd.ErrOrStderr()
			results := culler.CheckURLs(cmd.Context(), a.store.Bookmarks(), opts, func(completed, total int) {
				fmt.Fprintf(errOut, "\rChecking %d/%d", completed, total)
			})
			if len(results) > 0 {
				fmt.Fprintln(errOut)
			}

			out := cmd.OutOrStdout()
			dead, unreachable := 0, 0
			for _, r := range results {
				switch r.Status {
				case culler.Dead:
					dead++
					fmt.Fprintf(out, "dead         %s  %s (%d)\n", shortID(r.Bookmark.ID), r.Bookmark.URL, r.StatusCode)
					if remove {
						a.store.DeleteBookmark(r.Bookmark.ID)
					}
				case culler.Unreachable:
					unreachable++
					fmt.Fprintf(out, "unreachable  %s  %s (%s)\n", shortID(r.Bookmark.ID), r.Bookmark.URL, r.Error)
				}
			}

			fmt.Fprintf(out, "%d checked, %d dead, %d unreachable", len(results), dead, unreachable)
			if remove && dead > 0 {
				fmt.Fprintf(out, ", %d deleted", dead)
			}
			fmt.Fprintln(out)
			return cmd.Context().Err()
		},
	}

	cmd.Flags().BoolVar(&remove, "delete", false, "delete dead bookmarks")
	return cmd
}
