package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestField_Typing(t *testing.T) {
	f := NewURLInput(nil)
	assert.True(t, f.Focused())

	for _, r := range "https://a.b" {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "https://a.b", f.Value())
	assert.Contains(t, f.View(), "URL:")
}

func TestField_BlurIgnoresInput(t *testing.T) {
	f := NewSearchInput(nil)
	f.Blur()

	f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	assert.False(t, f.Focused())
	assert.Empty(t, f.Value())
}

func TestField_SetWidthAndReset(t *testing.T) {
	f := NewSearchInput(nil)
	f.SetWidth(90)
	f.SetValue("query")

	f.Reset()

	assert.Equal(t, 90, f.Width())
	assert.Empty(t, f.Value())
}
