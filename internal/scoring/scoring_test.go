package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

func ptr(v float64) *float64 { return &v }

func TestNew(t *testing.T) {
	tests := []struct {
		strategy   domain.ScoringStrategy
		want       domain.ScoringStrategy
		embeddings bool
	}{
		{domain.ScoringHybrid, domain.ScoringHybrid, true},
		{"", domain.ScoringHybrid, true},
		{domain.ScoringKeyword, domain.ScoringKeyword, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			s, err := New(tt.strategy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Strategy())
			assert.Equal(t, tt.embeddings, s.NeedsEmbeddings())
		})
	}
}

func TestNew_UnknownStrategy(t *testing.T) {
	s, err := New("bm25")

	assert.Nil(t, s)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestQueryTerms(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		minLen int
		want   []string
	}{
		{"drops stop words and short words", "the history of go language", 3, []string{"history", "language"}},
		{"looser length threshold", "go is fun", 2, []string{"go", "fun"}},
		{"falls back to all words", "the a of", 3, []string{"the", "a", "of"}},
		{"empty query", "", 3, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := queryTerms(tt.query, tt.minLen)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, distinct([]string{"a", "b", "a", "b"}))
	assert.Empty(t, distinct(nil))
}
