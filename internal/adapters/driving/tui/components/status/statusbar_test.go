package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/pagesearch/internal/adapters/driving/tui/keymap"
)

func TestBar_States(t *testing.T) {
	tests := []struct {
		state   State
		message string
		count   int
		want    string
	}{
		{state: StateReady, want: "Ready"},
		{state: StateSearching, want: "Searching..."},
		{state: StateIngesting, want: "Fetching and indexing..."},
		{state: StateError, message: "timeout", want: "Error: timeout"},
		{state: StateError, want: "Error"},
		{state: StateResults, count: 7, want: "7 results"},
		{state: StateResults, message: "Indexed 2 chunks", want: "Indexed 2 chunks"},
	}

	for _, tt := range tests {
		t.Run(string(tt.state)+tt.message, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetResultCount(tt.count)

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestBar_Hints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(120)

	assert.Contains(t, bar.View(), "enter: submit")

	bar.SetHints(km.ScopedHelp())
	assert.Contains(t, bar.View(), "x: all pages")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetResultCount(3)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Zero(t, bar.ResultCount())
}
