package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore(map[string]any{"scoring.strategy": "keyword"})

	assert.Equal(t, "keyword", store.GetString("scoring.strategy"))
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("key1", "original"))
	require.NoError(t, store.Set("key1", "updated"))

	val, ok := store.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "updated", val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"str":   "value",
		"int":   42,
		"int64": int64(7),
		"float": 2.5,
		"bool":  true,
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("str"), "value"},
		{"string wrong type", store.GetString("int"), ""},
		{"int", store.GetInt("int"), 42},
		{"int64 as int", store.GetInt("int64"), 7},
		{"float as int", store.GetInt("float"), 2},
		{"int wrong type", store.GetInt("str"), 0},
		{"float", store.GetFloat("float"), 2.5},
		{"int as float", store.GetFloat("int"), 42.0},
		{"float missing", store.GetFloat("missing"), 0.0},
		{"bool", store.GetBool("bool"), true},
		{"bool wrong type", store.GetBool("str"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("key", n)
			_ = store.GetInt("key")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("key")
	assert.True(t, ok)
}
