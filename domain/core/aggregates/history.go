package aggregates

import (
	"time"

	"github.com/google/uuid"

	"treeforge/domain/core/valueobjects"
	"treeforge/domain/events"
	pkgerrors "treeforge/pkg/errors"
)

// HistoryEntry is one committed tree shape
type HistoryEntry struct {
	Index       int                    `json:"index"`
	Signature   valueobjects.Signature `json:"signature"`
	NodeCount   int                    `json:"node_count"`
	CommittedAt time.Time              `json:"committed_at"`
}

// History is the append-only list of committed tree signatures.
// No two entries share a signature.
type History struct {
	id      string
	entries []HistoryEntry
	index   map[valueobjects.Signature]int
	version int
	events  []events.DomainEvent
}

// NewHistory creates an empty history
func NewHistory() *History {
	return &History{
		id:      uuid.New().String(),
		index:   make(map[valueobjects.Signature]int),
		version: 1,
	}
}

// ID returns the history's identifier
func (h *History) ID() string {
	return h.id
}

// Len returns the number of committed trees
func (h *History) Len() int {
	return len(h.entries)
}

// Contains reports whether sig has been committed before
func (h *History) Contains(sig valueobjects.Signature) bool {
	_, ok := h.index[sig]
	return ok
}

// Entries returns a copy of every entry in commit order
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Append records sig. A signature already present yields DUPLICATE_REJECTED
// and leaves the history unchanged.
func (h *History) Append(sig valueobjects.Signature, nodeCount int) (HistoryEntry, error) {
	now := time.Now()
	if sig.IsZero() {
		return HistoryEntry{}, pkgerrors.NewValidationError("signature cannot be empty")
	}
	if prev, ok := h.index[sig]; ok {
		h.events = append(h.events, events.NewCommitRejected(h.id, h.version, sig, now))
		return HistoryEntry{}, pkgerrors.NewDuplicateRejectedError(sig.String()).
			WithDetail("previous_index", prev)
	}

	entry := HistoryEntry{
		Index:       len(h.entries),
		Signature:   sig,
		NodeCount:   nodeCount,
		CommittedAt: now,
	}
	h.entries = append(h.entries, entry)
	h.index[sig] = entry.Index
	h.version++
	h.events = append(h.events, events.NewTreeCommitted(h.id, h.version, sig, entry.Index, now))

	return entry, nil
}

// GetUncommittedEvents returns events recorded since the last MarkEventsAsCommitted
func (h *History) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(h.events))
	copy(out, h.events)
	return out
}

// MarkEventsAsCommitted clears the uncommitted events
func (h *History) MarkEventsAsCommitted() {
	h.events = nil
}
