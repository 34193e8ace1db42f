// Package tree stores a fully built listing as an arena of entries addressed
// by index.
package tree

import (
	"github.com/temirov/lstree/internal/types"
)

// NodeID addresses one node of a Tree.
type NodeID int

// NoNode marks an absent relation.
const NoNode NodeID = -1

type node struct {
	entry       *types.Entry
	firstChild  NodeID
	lastChild   NodeID
	nextSibling NodeID
	childCount  int
	expanded    bool
}

// Tree is an arena of entries. Roots act as children of a synthetic super-root.
type Tree struct {
	nodes  []node
	roots  []NodeID
	lookup map[*types.Entry]NodeID
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{lookup: make(map[*types.Entry]NodeID)}
}

// AddRoot appends a top-level entry.
func (tree *Tree) AddRoot(entry *types.Entry) NodeID {
	identifier := tree.allocate(entry)
	tree.roots = append(tree.roots, identifier)
	return identifier
}

// AddChild appends entry as the last child of parent.
func (tree *Tree) AddChild(parent NodeID, entry *types.Entry) NodeID {
	identifier := tree.allocate(entry)
	parentNode := &tree.nodes[parent]
	if parentNode.lastChild == NoNode {
		parentNode.firstChild = identifier
	} else {
		tree.nodes[parentNode.lastChild].nextSibling = identifier
	}
	parentNode.lastChild = identifier
	parentNode.childCount++
	return identifier
}

// MarkExpanded records that the children of identifier were listed.
func (tree *Tree) MarkExpanded(identifier NodeID) {
	tree.nodes[identifier].expanded = true
}

func (tree *Tree) allocate(entry *types.Entry) NodeID {
	identifier := NodeID(len(tree.nodes))
	tree.nodes = append(tree.nodes, node{
		entry:       entry,
		firstChild:  NoNode,
		lastChild:   NoNode,
		nextSibling: NoNode,
	})
	tree.lookup[entry] = identifier
	return identifier
}

// RootIDs returns the identifiers of the top-level entries.
func (tree *Tree) RootIDs() []NodeID {
	return append([]NodeID(nil), tree.roots...)
}

// Entry returns the entry stored at identifier.
func (tree *Tree) Entry(identifier NodeID) *types.Entry {
	return tree.nodes[identifier].entry
}

// ChildCount returns the number of children attached to identifier.
func (tree *Tree) ChildCount(identifier NodeID) int {
	return tree.nodes[identifier].childCount
}

// Expanded reports whether the children of identifier were listed.
func (tree *Tree) Expanded(identifier NodeID) bool {
	return tree.nodes[identifier].expanded
}

// Lookup returns the identifier of entry.
func (tree *Tree) Lookup(entry *types.Entry) (NodeID, bool) {
	identifier, found := tree.lookup[entry]
	return identifier, found
}

// ChildIDs returns the children of identifier in order.
func (tree *Tree) ChildIDs(identifier NodeID) []NodeID {
	children := make([]NodeID, 0, tree.ChildCount(identifier))
	for child := tree.nodes[identifier].firstChild; child != NoNode; child = tree.nodes[child].nextSibling {
		children = append(children, child)
	}
	return children
}

// Roots returns the top-level entries.
func (tree *Tree) Roots() []*types.Entry {
	return tree.entries(tree.RootIDs())
}

// Children returns the children of directory and whether it was expanded.
func (tree *Tree) Children(directory *types.Entry, _ int) ([]*types.Entry, bool) {
	identifier, found := tree.Lookup(directory)
	if !found {
		return nil, false
	}
	return tree.entries(tree.ChildIDs(identifier)), tree.Expanded(identifier)
}

// Release is a no-op; a materialized tree keeps every entry until it is dropped.
func (tree *Tree) Release(*types.Entry) {}

func (tree *Tree) entries(identifiers []NodeID) []*types.Entry {
	entries := make([]*types.Entry, 0, len(identifiers))
	for _, identifier := range identifiers {
		entries = append(entries, tree.Entry(identifier))
	}
	return entries
}
