package services

import (
	"fmt"
	"sort"
	"strings"

	"treeforge/domain/core/aggregates"
	"treeforge/domain/core/valueobjects"
	pkgerrors "treeforge/pkg/errors"
)

// CanonicalLabeler computes sibling-order-independent signatures over one snapshot.
// Labels are cached for the lifetime of the labeler.
type CanonicalLabeler struct {
	snap  *aggregates.Snapshot
	cache map[valueobjects.NodeID]valueobjects.Signature
}

// NewCanonicalLabeler creates a labeler for snap
func NewCanonicalLabeler(snap *aggregates.Snapshot) *CanonicalLabeler {
	return &CanonicalLabeler{
		snap:  snap,
		cache: make(map[valueobjects.NodeID]valueobjects.Signature, snap.Len()),
	}
}

// Label returns color(sorted child labels joined by ","), e.g. "red(blue(),green())".
// A leaf is color followed by "()".
func (l *CanonicalLabeler) Label(id valueobjects.NodeID) (valueobjects.Signature, error) {
	if !l.snap.Has(id) {
		return "", pkgerrors.NewNotFoundError(fmt.Sprintf("node %d", id))
	}
	return l.label(id), nil
}

func (l *CanonicalLabeler) label(id valueobjects.NodeID) valueobjects.Signature {
	if sig, ok := l.cache[id]; ok {
		return sig
	}

	kids := l.snap.Children(id)
	parts := make([]string, len(kids))
	for i, c := range kids {
		parts[i] = string(l.label(c))
	}
	sort.Strings(parts)

	color, _ := l.snap.Color(id)
	var b strings.Builder
	b.WriteString(color.String())
	b.WriteByte('(')
	b.WriteString(strings.Join(parts, ","))
	b.WriteByte(')')

	sig := valueobjects.Signature(b.String())
	l.cache[id] = sig
	return sig
}

// RootSignature labels the unique root. Commit checks go through here.
func (l *CanonicalLabeler) RootSignature() (valueobjects.Signature, error) {
	if err := l.snap.CheckSingleTree(); err != nil {
		return "", err
	}
	root, _ := l.snap.Root()
	return l.label(root), nil
}

// All labels every node of the snapshot
func (l *CanonicalLabeler) All() map[valueobjects.NodeID]valueobjects.Signature {
	out := make(map[valueobjects.NodeID]valueobjects.Signature, l.snap.Len())
	for _, id := range l.snap.Nodes() {
		out[id] = l.label(id)
	}
	return out
}

// DuplicateGroup is a set of nodes whose subtrees are identical
type DuplicateGroup struct {
	Signature valueobjects.Signature `json:"signature"`
	NodeIDs   []valueobjects.NodeID  `json:"node_ids"`
}

// DuplicateGroups returns every signature shared by two or more nodes of the
// live tree, in order of first appearance.
func (l *CanonicalLabeler) DuplicateGroups() []DuplicateGroup {
	bySig := make(map[valueobjects.Signature][]valueobjects.NodeID)
	var seen []valueobjects.Signature
	for _, id := range l.snap.Nodes() {
		sig := l.label(id)
		if _, ok := bySig[sig]; !ok {
			seen = append(seen, sig)
		}
		bySig[sig] = append(bySig[sig], id)
	}

	var groups []DuplicateGroup
	for _, sig := range seen {
		if ids := bySig[sig]; len(ids) >= 2 {
			groups = append(groups, DuplicateGroup{Signature: sig, NodeIDs: ids})
		}
	}
	return groups
}
