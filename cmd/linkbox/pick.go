package main

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/linkbox/internal/model"
	"github.com/nikbrunner/linkbox/internal/picker"
	"github.com/nikbrunner/linkbox/internal/search"
)

func pickCmd(a *app) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "pick [query]",
		Short: "Fuzzy-pick a bookmark and open it in the browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			bookmarks := a.store.Bookmarks()

			var selected model.Bookmark
			if results := search.FuzzyFilter(bookmarks, query); query != "" && len(results) == 1 {
				// Single result - select it directly
				selected = results[0].Bookmark
			} else {
				program := tea.NewProgram(picker.New(bookmarks, query),
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(cmd.ErrOrStderr()))
				finalModel, err := program.Run()
				if err != nil {
					return fmt.Errorf("run picker: %w", err)
				}

				var ok bool
				selected, ok = finalModel.(picker.Picker).SelectedBookmark()
				if !ok {
					return nil
				}
			}

			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), selected.URL)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opening: %s\n", selected.Title)
			return openURL(selected.URL)
		},
	}

	cmd.Flags().BoolVarP(&printOnly, "print", "p", false, "print the URL instead of opening it")
	return cmd
}

// openURL opens a URL in the default browser.
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("opening URLs is not supported on %s", runtime.GOOS)
	}
	return cmd.Start()
}
