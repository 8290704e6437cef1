package list

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

func sampleResults(n int) []domain.SearchResult {
	results := make([]domain.SearchResult, n)
	for i := range results {
		results[i] = domain.SearchResult{
			ChunkText:      "chunk body text",
			URL:            "https://example.com/page",
			ChunkIndex:     i,
			RelevanceScore: 0.5,
			ScoreReason:    "Keywords: 1/2",
		}
	}
	return results
}

func TestResultList_Empty(t *testing.T) {
	r := NewResultList(nil)

	assert.Equal(t, 0, r.Count())
	assert.Nil(t, r.SelectedResult())
	assert.Contains(t, r.View(), "No results")

	r.ToggleExpanded()
	assert.False(t, r.Expanded())
}

func TestResultList_View(t *testing.T) {
	r := NewResultList(nil)
	r.SetDimensions(100, 40)
	r.SetResults(sampleResults(2))

	out := r.View()

	assert.Contains(t, out, "Results (2)")
	assert.Contains(t, out, "https://example.com/page #1")
	assert.Contains(t, out, "Keywords: 1/2")
	assert.Contains(t, out, "0.50")
}

func TestResultList_Navigation(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(sampleResults(3))

	r.MoveUp()
	assert.Equal(t, 0, r.Selected())

	r.MoveDown()
	r.MoveDown()
	r.MoveDown()
	assert.Equal(t, 2, r.Selected())
	require.NotNil(t, r.SelectedResult())
	assert.Equal(t, 2, r.SelectedResult().ChunkIndex)
}

func TestResultList_SetResultsResetsState(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(sampleResults(3))
	r.MoveDown()
	r.ToggleExpanded()

	r.SetResults(sampleResults(1))

	assert.Equal(t, 0, r.Selected())
	assert.False(t, r.Expanded())
}

func TestResultList_Expanded(t *testing.T) {
	r := NewResultList(nil)
	r.SetDimensions(80, 30)
	results := sampleResults(2)
	results[1].ChunkText = "the full passage of the second chunk"
	r.SetResults(results)
	r.MoveDown()

	r.ToggleExpanded()

	out := r.View()
	assert.Contains(t, out, "the full passage of the second chunk")
	assert.Contains(t, out, "[2/2]")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "abc...", truncate("abcdefghij", 6))

	got := truncate(strings.Repeat("é", 20), 10)
	assert.True(t, strings.HasSuffix(got, "..."))
}
