package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/linkbox/internal/metadata"
	"github.com/nikbrunner/linkbox/internal/model"
	"github.com/nikbrunner/linkbox/internal/search"
)

func lsCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List bookmarks, newest first or in category order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.CategoryAll
			switch {
			case category == "":
			case model.IsVirtualCategory(category):
				id = category
			default:
				var err error
				if id, err = categoryID(a.store.Categories(), category); err != nil {
					return err
				}
			}

			a.store.SelectCategory(id)
			printBookmarks(cmd.OutOrStdout(), a.store.FilteredBookmarks(), a.store.Categories())
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name, all, favorites or uncategorized")
	return cmd
}

func addCmd(a *app) *cobra.Command {
	var (
		category string
		tags     []string
		title    string
		favorite bool
		noFetch  bool
	)

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Add a bookmark, fetching its title and preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catID, err := categoryID(a.store.Categories(), category)
			if err != nil {
				return err
			}

			fetcher := a.fetcher
			if noFetch {
				fetcher = nil
			}
			meta, err := metadata.Resolve(cmd.Context(), fetcher, args[0], a.log)
			if err != nil {
				return err
			}

			params := metadata.BookmarkParams(meta, catID, tags)
			if title != "" {
				params.Title = title
			}
			params.IsFavorite = favorite

			b := a.store.AddBookmark(params)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", shortID(b.ID), b.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag (repeatable)")
	cmd.Flags().StringVar(&title, "title", "", "title instead of the fetched one")
	cmd.Flags().BoolVarP(&favorite, "favorite", "f", false, "mark as favorite")
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "skip the metadata fetch")
	return cmd
}

func editCmd(a *app) *cobra.Command {
	var (
		title       string
		rawURL      string
		description string
		category    string
		tags        []string
		favorite    bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := findBookmark(a.store.Bookmarks(), args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var upd model.BookmarkUpdate
			if flags.Changed("title") {
				upd.Title = &title
			}
			if flags.Changed("url") {
				u, err := metadata.ValidateURL(rawURL)
				if err != nil {
					return err
				}
				upd.URL = model.Ptr(u.String())
			}
			if flags.Changed("description") {
				upd.Description = &description
			}
			if flags.Changed("category") {
				id, err := categoryID(a.store.Categories(), category)
				if err != nil {
					return err
				}
				upd.CategoryID = &id
			}
			if flags.Changed("tags") {
				upd.Tags = &tags
			}
			if flags.Changed("favorite") {
				upd.IsFavorite = &favorite
			}
			if upd.IsEmpty() {
				return errors.New("nothing to change, pass at least one flag")
			}

			a.store.UpdateBookmark(b.ID, upd)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", shortID(b.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&rawURL, "url", "", "new URL")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "move to category (id, name or uncategorized)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "replace tags (comma separated)")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "set favorite flag")
	return cmd
}

func rmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := findBookmark(a.store.Bookmarks(), args[0])
			if err != nil {
				return err
			}

			a.store.DeleteBookmark(b.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s\n", shortID(b.ID), b.Title)
			return nil
		},
	}
}

func favCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fav <id>",
		Short: "Toggle the favorite flag of a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := findBookmark(a.store.Bookmarks(), args[0])
			if err != nil {
				return err
			}

			a.store.ToggleFavorite(b.ID)
			verb := "Favorited"
			if b.IsFavorite {
				verb = "Unfavorited"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", verb, shortID(b.ID), b.Title)
			return nil
		},
	}
}

func searchCmd(a *app) *cobra.Command {
	var fuzzy bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find bookmarks by title, URL or description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			var found []model.Bookmark
			if fuzzy {
				for _, r := range search.FuzzyFilter(a.store.Bookmarks(), query) {
					found = append(found, r.Bookmark)
				}
			} else {
				found = a.store.SearchBookmarks(query)
			}

			printBookmarks(cmd.OutOrStdout(), found, a.store.Categories())
			return nil
		},
	}

	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "fuzzy match title and URL instead of substring search")
	return cmd
}
