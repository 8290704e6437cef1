// Package history provides the ingested pages view for the TUI.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pagesearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pagesearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pagesearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
)

// View lists ingested pages. Selecting one scopes the search view to it.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	historyService driving.HistoryService
	ctx            context.Context

	records  []domain.IngestionRecord
	selected int
	loading  bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewView creates a new history view. A nil service shows an empty list.
func NewView(s *styles.Styles, km *keymap.KeyMap, historyService driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:         s,
		keymap:         km,
		historyService: historyService,
		ctx:            context.Background(),
		width:          80,
		height:         24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the ledger.
func (v *View) Init() tea.Cmd {
	v.loading = true
	svc, ctx := v.historyService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.HistoryLoaded{}
		}
		records, err := svc.List(ctx)
		return messages.HistoryLoaded{Records: records, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.HistoryLoaded:
		v.loading = false
		v.err = msg.Err
		v.records = msg.Records
		v.selected = 0
		return v, nil

	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyEsc:
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case keymap.Matches(msg.String(), v.keymap.Up):
			if v.selected > 0 {
				v.selected--
			}
		case keymap.Matches(msg.String(), v.keymap.Down):
			if v.selected < len(v.records)-1 {
				v.selected++
			}
		case keymap.Matches(msg.String(), v.keymap.Submit):
			if rec := v.SelectedRecord(); rec != nil {
				url := rec.URL
				return v, func() tea.Msg {
					return messages.ScopeSelected{URL: url}
				}
			}
		}
	}
	return v, nil
}

// View renders the ledger.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	lines := []string{v.styles.Title.Render("Ingested pages"), ""}

	switch {
	case v.loading:
		lines = append(lines, v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		lines = append(lines, v.styles.Error.Render("Error: "+v.err.Error()))
	case len(v.records) == 0:
		lines = append(lines, v.styles.Muted.Render("No pages ingested yet."))
	default:
		for i := range v.records {
			lines = append(lines, v.renderRecord(i, &v.records[i]))
		}
	}

	lines = append(lines, "", v.styles.Help.Render("[j/k] Navigate  [Enter] Search this page  [Esc] Back"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *View) renderRecord(index int, rec *domain.IngestionRecord) string {
	title := rec.Title
	if title == "" {
		title = "(untitled)"
	}
	cursor := "  "
	titleStyle := v.styles.Normal
	if index == v.selected {
		cursor = "> "
		titleStyle = v.styles.Selected
	}
	detail := fmt.Sprintf("%d chunks, %s, %s", rec.ChunksCount, rec.Strategy, rec.IndexedAt.Local().Format(time.DateTime))
	return strings.Join([]string{
		cursor + titleStyle.Render(title),
		"    " + v.styles.URL.Render(rec.URL),
		"    " + v.styles.Muted.Render(detail),
	}, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Records returns the loaded ledger.
func (v *View) Records() []domain.IngestionRecord {
	return v.records
}

// SelectedRecord returns the highlighted record, or nil if none.
func (v *View) SelectedRecord() *domain.IngestionRecord {
	if v.selected < 0 || v.selected >= len(v.records) {
		return nil
	}
	return &v.records[v.selected]
}

// Err returns the load error, if any.
func (v *View) Err() error {
	return v.err
}
