package langchain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vectors [][]float32
	err     error
	calls   int
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.vectors != nil {
		return f.vectors, nil
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i + 1), 0}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0, 2}, nil
}

func TestNewWithEmbedder_Defaults(t *testing.T) {
	s := NewWithEmbedder(&fakeEmbedder{}, "all-minilm", 0)

	assert.Equal(t, DefaultDimensions, s.Dimensions())
	assert.Equal(t, "all-minilm", s.ModelName())
	assert.NoError(t, s.Close())
}

func TestEmbed(t *testing.T) {
	s := NewWithEmbedder(&fakeEmbedder{}, "m", 2)

	v, err := s.Embed(context.Background(), "query")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, v)
}

func TestEmbedBatch(t *testing.T) {
	s := NewWithEmbedder(&fakeEmbedder{}, "m", 2)

	vectors, err := s.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)

	require.Len(t, vectors, 3)
	for _, v := range vectors {
		assert.Equal(t, []float32{1, 0}, v)
	}
}

func TestEmbedBatch_Empty(t *testing.T) {
	fake := &fakeEmbedder{}
	s := NewWithEmbedder(fake, "m", 2)

	vectors, err := s.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.Zero(t, fake.calls)
}

func TestEmbedBatch_Errors(t *testing.T) {
	tests := []struct {
		name     string
		embedder *fakeEmbedder
	}{
		{"provider error", &fakeEmbedder{err: errors.New("down")}},
		{"count mismatch", &fakeEmbedder{vectors: [][]float32{{1, 0}}}},
		{"wrong dimensions", &fakeEmbedder{vectors: [][]float32{{1, 0, 0}, {1, 0, 0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewWithEmbedder(tt.embedder, "m", 2)
			_, err := s.EmbedBatch(context.Background(), []string{"a", "b"})
			assert.Error(t, err)
		})
	}
}

func TestPing(t *testing.T) {
	assert.NoError(t, NewWithEmbedder(&fakeEmbedder{}, "m", 2).Ping(context.Background()))
	assert.Error(t, NewWithEmbedder(&fakeEmbedder{err: errors.New("down")}, "m", 2).Ping(context.Background()))
}

func TestNewEmbeddingService(t *testing.T) {
	s, err := NewEmbeddingService(Config{ServerURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, s.ModelName())
	assert.Equal(t, DefaultDimensions, s.Dimensions())
}
