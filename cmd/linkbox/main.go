package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, a := newRootCmd()
	err := root.ExecuteContext(ctx)
	a.close()
	if err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The returned app is opened lazily by
// the first command that runs and must be closed by the caller.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	var configPath string

	root := &cobra.Command{
		Use:          "linkbox",
		Short:        "Bookmark manager with categories and link previews",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(configPath)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/linkbox/config.yaml)")

	root.AddCommand(lsCmd(a))
	root.AddCommand(addCmd(a))
	root.AddCommand(editCmd(a))
	root.AddCommand(rmCmd(a))
	root.AddCommand(favCmd(a))
	root.AddCommand(searchCmd(a))
	root.AddCommand(pickCmd(a))
	root.AddCommand(categoryCmd(a))
	root.AddCommand(importCmd(a))
	root.AddCommand(exportCmd(a))
	root.AddCommand(refreshCmd(a))
	root.AddCommand(checkCmd(a))

	return root, a
}
