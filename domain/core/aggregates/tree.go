package aggregates

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"treeforge/domain/config"
	"treeforge/domain/core/entities"
	"treeforge/domain/core/valueobjects"
	"treeforge/domain/events"
	pkgerrors "treeforge/pkg/errors"
)

// TreeID identifies a working tree
type TreeID string

// NewTreeID creates a new random TreeID
func NewTreeID() TreeID {
	return TreeID(uuid.New().String())
}

// String returns the string representation
func (id TreeID) String() string {
	return string(id)
}

// Tree is the working tree a user edits. Every edit either succeeds completely
// or returns an error without touching state.
type Tree struct {
	id       TreeID
	nodes    map[valueobjects.NodeID]*entities.Node
	order    []valueobjects.NodeID
	parent   map[valueobjects.NodeID]valueobjects.NodeID
	children map[valueobjects.NodeID][]valueobjects.NodeID
	nextID   valueobjects.NodeID
	maxNodes int

	createdAt time.Time
	updatedAt time.Time
	version   int
	events    []events.DomainEvent
}

// NewTree creates an empty working tree
func NewTree(cfg *config.EngineConfig) *Tree {
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	now := time.Now()
	return &Tree{
		id:        NewTreeID(),
		nodes:     make(map[valueobjects.NodeID]*entities.Node),
		parent:    make(map[valueobjects.NodeID]valueobjects.NodeID),
		children:  make(map[valueobjects.NodeID][]valueobjects.NodeID),
		nextID:    1,
		maxNodes:  cfg.MaxNodes,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}
}

// ID returns the tree's identifier
func (t *Tree) ID() TreeID {
	return t.id
}

// Version increases with every successful edit
func (t *Tree) Version() int {
	return t.version
}

// UpdatedAt returns when the tree was last edited
func (t *Tree) UpdatedAt() time.Time {
	return t.updatedAt
}

// NodeCount returns the number of nodes
func (t *Tree) NodeCount() int {
	return len(t.order)
}

// SetMaxNodes changes the node limit for future additions
func (t *Tree) SetMaxNodes(n int) {
	t.maxNodes = n
}

// Node returns the node with the given id
func (t *Tree) Node(id valueobjects.NodeID) (*entities.Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("node %d", id))
	}
	return n, nil
}

// Nodes returns all nodes in insertion order
func (t *Tree) Nodes() []*entities.Node {
	out := make([]*entities.Node, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.nodes[id])
	}
	return out
}

// ParentOf returns the parent of id, if it has one
func (t *Tree) ParentOf(id valueobjects.NodeID) (valueobjects.NodeID, bool) {
	p, ok := t.parent[id]
	return p, ok
}

// Edges returns the key of every child->parent edge, in child insertion order
func (t *Tree) Edges() []valueobjects.EdgeKey {
	keys := make([]valueobjects.EdgeKey, 0, len(t.parent))
	for _, id := range t.order {
		if p, ok := t.parent[id]; ok {
			keys = append(keys, valueobjects.NewEdgeKey(id, p))
		}
	}
	return keys
}

// AddNode places a new parentless node and returns its id
func (t *Tree) AddNode(color valueobjects.Color, position valueobjects.Position) (valueobjects.NodeID, error) {
	if t.maxNodes > 0 && len(t.order) >= t.maxNodes {
		return 0, pkgerrors.NewLimitExceededError("nodes", t.maxNodes)
	}

	node, err := entities.NewNode(t.nextID, color, position)
	if err != nil {
		return 0, err
	}

	t.nextID++
	t.nodes[node.ID()] = node
	t.order = append(t.order, node.ID())
	t.touch()
	t.addEvent(events.NewNodeAdded(t.id.String(), t.version, node.ID(), color, t.updatedAt))

	return node.ID(), nil
}

// AddEdge attaches child under parent
func (t *Tree) AddEdge(childID, parentID valueobjects.NodeID) error {
	if _, ok := t.nodes[childID]; !ok {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("node %d", childID))
	}
	if _, ok := t.nodes[parentID]; !ok {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("node %d", parentID))
	}
	if childID == parentID {
		return pkgerrors.NewInvalidEdgeError("a node cannot be its own parent")
	}
	if existing, ok := t.parent[childID]; ok {
		return pkgerrors.NewInvalidEdgeError(fmt.Sprintf("node %d already has parent %d", childID, existing))
	}
	if t.isAncestor(childID, parentID) {
		return pkgerrors.NewInvalidEdgeError(fmt.Sprintf("node %d is a descendant of node %d", parentID, childID))
	}

	t.parent[childID] = parentID
	t.children[parentID] = append(t.children[parentID], childID)
	t.touch()
	t.addEvent(events.NewEdgeAdded(t.id.String(), t.version, childID, parentID, t.updatedAt))

	return nil
}

// DetachNode removes the edge from child to its parent; child becomes a root
func (t *Tree) DetachNode(childID valueobjects.NodeID) error {
	if _, ok := t.nodes[childID]; !ok {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("node %d", childID))
	}
	parentID, ok := t.parent[childID]
	if !ok {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("parent edge of node %d", childID))
	}

	delete(t.parent, childID)
	t.children[parentID] = removeID(t.children[parentID], childID)
	t.touch()
	t.addEvent(events.NewNodeDetached(t.id.String(), t.version, childID, parentID, t.updatedAt))

	return nil
}

// DeleteSubtree removes id, every descendant and every incident edge
func (t *Tree) DeleteSubtree(id valueobjects.NodeID) error {
	if _, ok := t.nodes[id]; !ok {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("node %d", id))
	}

	removed := []valueobjects.NodeID{id}
	for i := 0; i < len(removed); i++ {
		removed = append(removed, t.children[removed[i]]...)
	}

	if p, ok := t.parent[id]; ok {
		t.children[p] = removeID(t.children[p], id)
	}
	gone := make(map[valueobjects.NodeID]bool, len(removed))
	for _, n := range removed {
		gone[n] = true
		delete(t.nodes, n)
		delete(t.parent, n)
		delete(t.children, n)
	}
	kept := t.order[:0]
	for _, n := range t.order {
		if !gone[n] {
			kept = append(kept, n)
		}
	}
	t.order = kept

	t.touch()
	t.addEvent(events.NewSubtreeDeleted(t.id.String(), t.version, id, removed, t.updatedAt))

	return nil
}

// MoveNode changes a node's drawing position
func (t *Tree) MoveNode(id valueobjects.NodeID, position valueobjects.Position) error {
	node, err := t.Node(id)
	if err != nil {
		return err
	}
	if !node.MoveTo(position) {
		return nil
	}
	t.touch()
	t.addEvent(events.NewNodeMoved(t.id.String(), t.version, id, position, t.updatedAt))
	return nil
}

// RecolorNode changes a node's color
func (t *Tree) RecolorNode(id valueobjects.NodeID, color valueobjects.Color) error {
	node, err := t.Node(id)
	if err != nil {
		return err
	}
	old := node.Color()
	changed, err := node.Recolor(color)
	if err != nil || !changed {
		return err
	}
	t.touch()
	t.addEvent(events.NewNodeRecolored(t.id.String(), t.version, id, old, color, t.updatedAt))
	return nil
}

// Reset clears every node and edge. Ids keep counting from where they were.
func (t *Tree) Reset() {
	removed := len(t.order)
	t.nodes = make(map[valueobjects.NodeID]*entities.Node)
	t.parent = make(map[valueobjects.NodeID]valueobjects.NodeID)
	t.children = make(map[valueobjects.NodeID][]valueobjects.NodeID)
	t.order = nil
	t.touch()
	t.addEvent(events.NewTreeReset(t.id.String(), t.version, removed, t.updatedAt))
}

// Snapshot captures the current structure for one recompute pass
func (t *Tree) Snapshot() *Snapshot {
	s := &Snapshot{
		order:    make([]valueobjects.NodeID, len(t.order)),
		colors:   make(map[valueobjects.NodeID]valueobjects.Color, len(t.order)),
		parent:   make(map[valueobjects.NodeID]valueobjects.NodeID, len(t.parent)),
		children: make(map[valueobjects.NodeID][]valueobjects.NodeID, len(t.children)),
	}
	copy(s.order, t.order)
	for _, id := range t.order {
		s.colors[id] = t.nodes[id].Color()
		if p, ok := t.parent[id]; ok {
			s.parent[id] = p
		} else {
			s.roots = append(s.roots, id)
		}
		if kids := t.children[id]; len(kids) > 0 {
			s.children[id] = append([]valueobjects.NodeID(nil), kids...)
		}
	}
	return s
}

// Validate checks that the tree is a single connected rooted tree
func (t *Tree) Validate() error {
	return t.Snapshot().CheckSingleTree()
}

// GetUncommittedEvents returns events recorded since the last MarkEventsAsCommitted
func (t *Tree) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(t.events))
	copy(out, t.events)
	return out
}

// MarkEventsAsCommitted clears the uncommitted events
func (t *Tree) MarkEventsAsCommitted() {
	t.events = nil
}

// isAncestor reports whether anc lies on the parent chain of id
func (t *Tree) isAncestor(anc, id valueobjects.NodeID) bool {
	for cur, ok := t.parent[id]; ok; cur, ok = t.parent[cur] {
		if cur == anc {
			return true
		}
	}
	return false
}

func (t *Tree) touch() {
	t.updatedAt = time.Now()
	t.version++
}

func (t *Tree) addEvent(event events.DomainEvent) {
	t.events = append(t.events, event)
}

func removeID(ids []valueobjects.NodeID, target valueobjects.NodeID) []valueobjects.NodeID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
