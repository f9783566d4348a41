package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treeforge/domain/core/valueobjects"
	"treeforge/domain/events"
	pkgerrors "treeforge/pkg/errors"
)

func TestHistory_Append(t *testing.T) {
	h := NewHistory()

	first, err := h.Append("red(green(blue()))", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Index)

	second, err := h.Append("red(green(green()))", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Index)

	assert.Equal(t, 2, h.Len())
	assert.True(t, h.Contains("red(green(blue()))"))
	assert.False(t, h.Contains("red()"))

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, valueobjects.Signature("red(green(green()))"), entries[1].Signature)
}

func TestHistory_AppendDuplicate(t *testing.T) {
	h := NewHistory()
	_, err := h.Append("red(green(blue()))", 3)
	require.NoError(t, err)
	h.MarkEventsAsCommitted()

	_, err = h.Append("red(green(blue()))", 3)
	require.True(t, pkgerrors.IsDuplicateRejected(err))
	assert.Equal(t, 0, pkgerrors.GetAppError(err).Details["previous_index"])
	assert.Equal(t, 1, h.Len(), "rejected commits are not recorded")

	evts := h.GetUncommittedEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, events.TypeCommitRejected, evts[0].GetEventType())
}

func TestHistory_AppendEmpty(t *testing.T) {
	h := NewHistory()

	_, err := h.Append("", 0)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Zero(t, h.Len())
}

func TestHistory_EntriesAreCopies(t *testing.T) {
	h := NewHistory()
	_, err := h.Append("blue()", 1)
	require.NoError(t, err)

	entries := h.Entries()
	entries[0].Signature = "red()"

	assert.True(t, h.Contains("blue()"))
	assert.Equal(t, valueobjects.Signature("blue()"), h.Entries()[0].Signature)
}
