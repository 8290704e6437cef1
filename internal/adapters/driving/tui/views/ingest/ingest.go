// Package ingest provides the page ingestion view for the TUI.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pagesearch/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pagesearch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pagesearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pagesearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pagesearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
)

// ErrNoIngestService indicates that no ingest service was provided.
var ErrNoIngestService = errors.New("ingest service is required")

// View is a URL form that indexes the page on submit.
type View struct {
	styles    *styles.Styles
	input     *input.Field
	statusbar *status.Bar

	ingestService driving.IngestService
	ctx           context.Context

	busy   bool
	last   *domain.IngestResult
	err    error
	width  int
	height int
	ready  bool
}

// NewView creates a new ingest view.
func NewView(s *styles.Styles, km *keymap.KeyMap, ingestService driving.IngestService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:        s,
		input:         input.NewURLInput(s),
		statusbar:     status.NewBar(s, km),
		ingestService: ingestService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ingest view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		if msg.Type == tea.KeyEnter {
			return v, v.submit()
		}
		if v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd

	case messages.IngestCompleted:
		v.busy = false
		if msg.Err != nil {
			v.err = msg.Err
			v.last = nil
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.err = nil
		v.last = msg.Result
		v.input.SetValue("")
		v.statusbar.SetState(status.StateResults)
		v.statusbar.SetMessage(fmt.Sprintf("%s from %s", msg.Result.Message, msg.Result.URL))
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit starts ingestion of the entered URL.
func (v *View) submit() tea.Cmd {
	url := strings.TrimSpace(v.input.Value())
	if url == "" || v.busy {
		return nil
	}
	v.busy = true
	v.statusbar.SetState(status.StateIngesting)
	v.statusbar.SetMessage("")

	svc, ctx := v.ingestService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.IngestCompleted{URL: url, Err: ErrNoIngestService}
		}
		result, err := svc.Ingest(ctx, url)
		return messages.IngestCompleted{URL: url, Result: result, Err: err}
	}
}

// View renders the ingest form.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("Ingest a page"),
		v.styles.Muted.Render("The page is fetched, split into chunks and indexed. Ingesting it again replaces its chunks."),
		"",
		v.input.View(),
		"",
	}

	switch {
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	case v.last != nil:
		sections = append(sections,
			v.styles.Success.Render(v.last.Message)+v.styles.Muted.Render(" from ")+v.styles.URL.Render(v.last.URL),
			"")
	}

	sections = append(sections, v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Reset clears the form.
func (v *View) Reset() {
	v.input.SetValue("")
	v.input.Focus()
	v.err = nil
	v.last = nil
	v.busy = false
	v.statusbar.Clear()
}

// SetURL sets the entered URL.
func (v *View) SetURL(url string) {
	v.input.SetValue(url)
}

// Busy reports whether an ingestion is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// LastResult returns the most recent successful ingestion.
func (v *View) LastResult() *domain.IngestResult {
	return v.last
}

// Err returns the most recent ingestion error.
func (v *View) Err() error {
	return v.err
}
