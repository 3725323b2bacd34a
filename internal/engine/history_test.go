package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_PrevNext(t *testing.T) {
	h := NewHistory(4)
	h.Add("one")
	h.Add("two")
	h.Add("three")

	got, ok := h.Prev()
	require.True(t, ok)
	assert.Equal(t, "three", got)

	got, ok = h.Prev()
	require.True(t, ok)
	assert.Equal(t, "two", got)

	got, ok = h.Prev()
	require.True(t, ok)
	assert.Equal(t, "one", got)

	// Oldest boundary: no wrap.
	_, ok = h.Prev()
	assert.False(t, ok)

	got, ok = h.Next()
	require.True(t, ok)
	assert.Equal(t, "two", got)

	got, ok = h.Next()
	require.True(t, ok)
	assert.Equal(t, "three", got)

	// Newest boundary: no wrap.
	_, ok = h.Next()
	assert.False(t, ok)
}

func TestHistory_NextWithoutBrowsing(t *testing.T) {
	h := NewHistory(4)
	h.Add("one")
	_, ok := h.Next()
	assert.False(t, ok)
}

func TestHistory_RingOverwritesOldest(t *testing.T) {
	h := NewHistory(2)
	h.Add("one")
	h.Add("two")
	h.Add("three") // evicts "one"

	got, _ := h.Prev()
	assert.Equal(t, "three", got)
	got, _ = h.Prev()
	assert.Equal(t, "two", got)
	_, ok := h.Prev()
	assert.False(t, ok, `"one" was overwritten`)
}

func TestHistory_AddResetsCursor(t *testing.T) {
	h := NewHistory(4)
	h.Add("one")
	h.Add("two")
	_, ok := h.Prev()
	require.True(t, ok)

	h.Add("three")
	got, ok := h.Prev()
	require.True(t, ok)
	assert.Equal(t, "three", got, "browsing restarts at the newest entry")
}

func TestHistory_SkipsEmptyLines(t *testing.T) {
	h := NewHistory(4)
	h.Add("one")
	h.Add("")
	got, ok := h.Prev()
	require.True(t, ok)
	assert.Equal(t, "one", got)
}

func TestHistory_NilIsDisabledSubsystem(t *testing.T) {
	h := NewHistory(0)
	require.Nil(t, h)

	// The disabled subsystem honors the same contract as an empty one.
	h.Add("one")
	_, ok := h.Prev()
	assert.False(t, ok)
	_, ok = h.Next()
	assert.False(t, ok)
	h.ResetCursor()
}
