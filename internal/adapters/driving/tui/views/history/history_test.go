package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pagesearch/internal/core/domain"
	"github.com/custodia-labs/pagesearch/internal/core/ports/driving"
)

type mockHistoryService struct {
	records []domain.IngestionRecord
	err     error
}

func (m *mockHistoryService) List(_ context.Context) ([]domain.IngestionRecord, error) {
	return m.records, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.IngestionRecord, error) {
	return nil, domain.ErrNotFound
}

func testRecords() []domain.IngestionRecord {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.IngestionRecord{
		{URL: "https://example.com/a", Title: "Page A", ChunksCount: 4, Strategy: domain.ScoringHybrid, IndexedAt: at},
		{URL: "https://example.com/b", ChunksCount: 1, Strategy: domain.ScoringKeyword, IndexedAt: at},
	}
}

func loadedView(t *testing.T, svc driving.HistoryService) *View {
	t.Helper()
	v := NewView(nil, nil, svc)
	v.SetDimensions(100, 30)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
	return v
}

func TestView_LoadsRecords(t *testing.T) {
	v := loadedView(t, &mockHistoryService{records: testRecords()})

	require.Len(t, v.Records(), 2)
	out := v.View()
	assert.Contains(t, out, "Page A")
	assert.Contains(t, out, "(untitled)")
	assert.Contains(t, out, "4 chunks, hybrid")
}

func TestView_Empty(t *testing.T) {
	v := loadedView(t, &mockHistoryService{})

	assert.Contains(t, v.View(), "No pages ingested yet.")
	assert.Nil(t, v.SelectedRecord())
}

func TestView_NilService(t *testing.T) {
	v := loadedView(t, nil)

	assert.Empty(t, v.Records())
	assert.NoError(t, v.Err())
}

func TestView_LoadError(t *testing.T) {
	v := loadedView(t, &mockHistoryService{err: errors.New("ledger locked")})

	require.Error(t, v.Err())
	assert.Contains(t, v.View(), "ledger locked")
}

func TestView_SelectEmitsScope(t *testing.T) {
	v := loadedView(t, &mockHistoryService{records: testRecords()})

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ScopeSelected{URL: "https://example.com/b"}, cmd())
}

func TestView_NavigationBounds(t *testing.T) {
	v := loadedView(t, &mockHistoryService{records: testRecords()})

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "https://example.com/a", v.SelectedRecord().URL)

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "https://example.com/b", v.SelectedRecord().URL)
}

func TestView_Esc(t *testing.T) {
	v := loadedView(t, &mockHistoryService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
