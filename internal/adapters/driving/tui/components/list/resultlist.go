// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pagesearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// linesPerResult is the height of a collapsed result.
const linesPerResult = 3

// ResultList displays ranked chunks in a navigable list.
type ResultList struct {
	results  []domain.SearchResult
	selected int
	expanded bool
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.results)*linesPerResult+2)
	header := r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.results)))
	lines = append(lines, header, "")

	if r.expanded {
		lines = append(lines, r.renderExpanded(r.selected, &r.results[r.selected]))
		return strings.Join(lines, "\n")
	}

	visibleCount := max((r.height-4)/linesPerResult, 1)
	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(r.results))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats a result as a heading, score reason and preview.
func (r *ResultList) renderResult(index int, result *domain.SearchResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	maxURLLen := max(r.width-20, 10)
	heading := truncate(fmt.Sprintf("%s #%d", result.URL, result.ChunkIndex), maxURLLen)
	score := fmt.Sprintf("%.2f", result.RelevanceScore)

	var headingLine string
	if index == r.selected {
		headingLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxURLLen, heading, score))
	} else {
		headingLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxURLLen, heading)) +
			r.styles.Score.Render(score)
	}

	reasonLine := r.styles.Muted.Render("    " + result.ScoreReason)
	preview := truncate(strings.Join(strings.Fields(result.ChunkText), " "), max(r.width-6, 20))
	previewLine := r.styles.Normal.Render("    " + preview)

	return headingLine + "\n" + reasonLine + "\n" + previewLine
}

// renderExpanded shows the whole chunk of the selected result.
func (r *ResultList) renderExpanded(index int, result *domain.SearchResult) string {
	heading := r.styles.URL.Render(result.URL) +
		r.styles.Muted.Render(fmt.Sprintf("  chunk %d  [%d/%d]", result.ChunkIndex, index+1, len(r.results)))
	score := r.styles.Score.Render(fmt.Sprintf("%.2f", result.RelevanceScore)) +
		r.styles.Muted.Render("  "+result.ScoreReason)
	body := r.styles.Border.Width(max(r.width-4, 20)).Padding(0, 1).Render(result.ChunkText)
	return heading + "\n" + score + "\n\n" + body
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return domain.TruncateRunes(s, n-3) + "..."
}

// SetResults updates the result list.
func (r *ResultList) SetResults(results []domain.SearchResult) {
	r.results = results
	r.selected = 0
	r.expanded = false
}

// Results returns the current results.
func (r *ResultList) Results() []domain.SearchResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// ToggleExpanded switches between the list and the selected chunk.
func (r *ResultList) ToggleExpanded() {
	if len(r.results) > 0 {
		r.expanded = !r.expanded
	}
}

// Expanded reports whether the selected chunk is shown in full.
func (r *ResultList) Expanded() bool {
	return r.expanded
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}
