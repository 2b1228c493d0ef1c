package picker

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/linkbox/internal/model"
	"github.com/nikbrunner/linkbox/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Underline(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// Picker is a TUI for choosing a bookmark, narrowed by a live fuzzy filter.
type Picker struct {
	bookmarks []model.Bookmark
	results   []search.Result
	input     textinput.Model
	keys      KeyMap
	copy      func(string) error
	status    string
	cursor    int
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a Picker over bookmarks with the filter prefilled with query.
func New(bookmarks []model.Bookmark, query string) Picker {
	input := textinput.New()
	input.Placeholder = "Filter..."
	input.Prompt = "> "
	input.SetValue(query)
	input.Focus()

	p := Picker{
		bookmarks: bookmarks,
		input:     input,
		keys:      DefaultKeyMap(),
		copy:      clipboard.WriteAll,
		width:     80,
		height:    24,
	}
	p.refilter()
	return p
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Cancel):
			p.cancelled = true
			return p, tea.Quit

		case key.Matches(msg, p.keys.Open):
			if len(p.results) == 0 {
				return p, nil
			}
			p.selected = true
			return p, tea.Quit

		case key.Matches(msg, p.keys.Down):
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}
			return p, nil

		case key.Matches(msg, p.keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil

		case key.Matches(msg, p.keys.Yank):
			p.yank()
			return p, nil
		}
	}

	prev := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != prev {
		p.refilter()
	}
	return p, cmd
}

func (p *Picker) refilter() {
	p.results = search.FuzzyFilter(p.bookmarks, strings.TrimSpace(p.input.Value()))
	p.cursor = 0
	p.status = ""
}

func (p *Picker) yank() {
	if p.cursor >= len(p.results) {
		return
	}
	url := p.results[p.cursor].Bookmark.URL
	if err := p.copy(url); err != nil {
		p.status = "copy failed: " + err.Error()
		return
	}
	p.status = "copied " + url
}

// visibleRange returns the window of results that fits the terminal height.
func (p Picker) visibleRange() (start, end int) {
	rows := (p.height - 5) / 2 // header, input, blank, footer; two lines per item
	if rows < 1 {
		rows = 1
	}
	if p.cursor >= rows {
		start = p.cursor - rows + 1
	}
	end = min(start+rows, len(p.results))
	return start, end
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	// Header
	b.WriteString(headerStyle.Render(fmt.Sprintf("Bookmarks (%d/%d)", len(p.results), len(p.bookmarks))))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")

	// List items
	start, end := p.visibleRange()
	for i := start; i < end; i++ {
		result := p.results[i]
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		title := highlight(result.Bookmark.Title, result.TitleIndexes(), style)
		url := urlStyle.Render(result.Bookmark.URL)

		b.WriteString(fmt.Sprintf("%s%s\n", cursor, title))
		b.WriteString(fmt.Sprintf("   %s\n", url))
	}
	if len(p.results) == 0 {
		b.WriteString(statusStyle.Render("  no matches"))
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("\n")
	if p.status != "" {
		b.WriteString(statusStyle.Render(p.status))
		b.WriteString("\n")
	}
	b.WriteString(statusStyle.Render(helpLine(p.keys)))

	return b.String()
}

// highlight renders s with the runes at the matched byte offsets emphasized.
func highlight(s string, indexes []int, base lipgloss.Style) string {
	if len(indexes) == 0 {
		return base.Render(s)
	}

	matched := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		matched[idx] = true
	}

	var b strings.Builder
	for i, r := range s {
		if matched[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

func helpLine(k KeyMap) string {
	parts := make([]string, 0, len(k.ShortHelp()))
	for _, binding := range k.ShortHelp() {
		h := binding.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

// SelectedBookmark returns the chosen bookmark. ok is false if the picker
// was cancelled or nothing was chosen.
func (p Picker) SelectedBookmark() (model.Bookmark, bool) {
	if p.cancelled || !p.selected || p.cursor >= len(p.results) {
		return model.Bookmark{}, false
	}
	return p.results[p.cursor].Bookmark, true
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
