package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/linkbox/internal/model"
)

func categoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}

	cmd.AddCommand(categoryLsCmd(a))
	cmd.AddCommand(categoryAddCmd(a))
	cmd.AddCommand(categoryRenameCmd(a))
	cmd.AddCommand(categoryRmCmd(a))
	cmd.AddCommand(categorySearchCmd(a))
	return cmd
}

func categoryLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List categories with bookmark counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printCategories(cmd.OutOrStdout(), a.store.Categories(), a.store.Counts())
			return nil
		},
	}
}

func categoryAddCmd(a *app) *cobra.Command {
	var icon, color string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			c := a.store.AddCategory(model.NewCategoryParams{Name: name, Icon: icon, Color: color})
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %s: %s\n", shortID(c.ID), c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "", "icon shown before the name")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	return cmd
}

func categoryRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := findCategory(a.store.Categories(), args[0])
			if err != nil {
				return err
			}

			a.store.UpdateCategory(c.ID, model.CategoryUpdate{Name: &args[1]})
			updated, _ := findCategory(a.store.Categories(), c.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", c.Name, updated.Name)
			return nil
		},
	}
}

func categoryRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a category; its bookmarks become uncategorized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if model.IsVirtualCategory(args[0]) {
				return fmt.Errorf("%q cannot be deleted", args[0])
			}
			c, err := findCategory(a.store.Categories(), args[0])
			if err != nil {
				return err
			}

			moved := a.store.Counts()[c.ID]
			a.store.DeleteCategory(c.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s", c.Name)
			if moved > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " (%d bookmarks moved to uncategorized)", moved)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func categorySearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Find categories by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			found := a.store.SearchCategories(strings.Join(args, " "))
			printCategories(cmd.OutOrStdout(), found, a.store.Counts())
			return nil
		},
	}
}
