package ontology

import (
	"fmt"
	"slices"
)

// Branch is one rooted tree of the forest. Nodes are addressed by ID and
// keep their insertion order, so exports and traces are deterministic.
//
// The zero value is not usable; create branches with [NewBranch].
type Branch struct {
	ID    string
	nodes map[string]*Node
	order []string
}

// NewBranch creates an empty branch keyed by the root ID.
func NewBranch(id string) *Branch {
	return &Branch{ID: id, nodes: make(map[string]*Node)}
}

// Add inserts a node. If a node with the same ID exists, its data fields
// are overwritten while its parent, level and position are kept.
func (b *Branch) Add(n *Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	if existing, ok := b.nodes[n.ID]; ok {
		existing.overwriteData(n)
		return nil
	}
	b.nodes[n.ID] = n
	b.order = append(b.order, n.ID)
	return nil
}

// Node returns the node with the given ID, or nil.
func (b *Branch) Node(id string) *Node { return b.nodes[id] }

// Has reports whether the branch contains id.
func (b *Branch) Has(id string) bool {
	_, ok := b.nodes[id]
	return ok
}

// Root returns the root node, or nil if it has not been added yet.
func (b *Branch) Root() *Node { return b.nodes[b.ID] }

// Len returns the number of nodes in the branch.
func (b *Branch) Len() int { return len(b.nodes) }

// Nodes returns the nodes in insertion order.
func (b *Branch) Nodes() []*Node {
	out := make([]*Node, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.nodes[id])
	}
	return out
}

// Remove deletes a node. Children of the removed node are left in place;
// callers run [Branch.PruneDetached] to clean them up.
func (b *Branch) Remove(id string) {
	if _, ok := b.nodes[id]; !ok {
		return
	}
	delete(b.nodes, id)
	b.order = slices.DeleteFunc(b.order, func(s string) bool { return s == id })
}

// ByLevelDesc returns the nodes sorted deepest first. Nodes on the same
// level keep their insertion order.
func (b *Branch) ByLevelDesc() []*Node {
	out := b.Nodes()
	slices.SortStableFunc(out, func(x, y *Node) int { return y.Level - x.Level })
	return out
}

// Children returns the direct children of id in insertion order.
func (b *Branch) Children(id string) []*Node {
	var out []*Node
	for _, n := range b.Nodes() {
		if n.ParentID == id && n.ID != id {
			out = append(out, n)
		}
	}
	return out
}

// Ancestors returns the parent chain of id, nearest first. The walk stops
// at the root or at the first parent missing from the branch.
func (b *Branch) Ancestors(id string) []*Node {
	var out []*Node
	n := b.nodes[id]
	seen := map[string]bool{}
	for n != nil && n.ParentID != "" && !seen[n.ID] {
		seen[n.ID] = true
		p := b.nodes[n.ParentID]
		if p == nil {
			break
		}
		out = append(out, p)
		n = p
	}
	return out
}

// Validate checks the branch invariants: the root is keyed by the branch
// ID, it is the only parentless node, and every other parent resolves
// inside the branch.
func (b *Branch) Validate() error {
	root := b.nodes[b.ID]
	if root == nil || root.ParentID != "" {
		return fmt.Errorf("%w: %s", ErrMissingRoot, b.ID)
	}
	for _, n := range b.Nodes() {
		if n.ParentID == "" {
			if n.ID != b.ID {
				return fmt.Errorf("%w: %s and %s", ErrMultipleRoots, b.ID, n.ID)
			}
			continue
		}
		if _, ok := b.nodes[n.ParentID]; !ok {
			return fmt.Errorf("%w: %s -> %s", ErrDanglingParent, n.ID, n.ParentID)
		}
	}
	return nil
}

// CountDescendants sets ChildrenCount on every node to the number of nodes
// below it.
func (b *Branch) CountDescendants() {
	for _, n := range b.nodes {
		n.ChildrenCount = 0
	}
	for _, n := range b.ByLevelDesc() {
		if p := b.nodes[n.ParentID]; p != nil && p != n {
			p.ChildrenCount += n.ChildrenCount + 1
		}
	}
}

// PruneDetached removes nodes whose parent is missing, repeating until
// no more nodes are removed. It returns the number of removed nodes.
func (b *Branch) PruneDetached() int {
	removed := 0
	for {
		var detached []string
		for _, id := range b.order {
			n := b.nodes[id]
			if n.ParentID != "" && !b.Has(n.ParentID) {
				detached = append(detached, id)
			}
		}
		if len(detached) == 0 {
			return removed
		}
		for _, id := range detached {
			b.Remove(id)
		}
		removed += len(detached)
	}
}

// DropEmptyLeaves removes nodes without a real count unless they are an
// ancestor of a node that has one. The root is always kept. It returns the
// number of removed nodes.
func (b *Branch) DropEmptyLeaves() int {
	keep := map[string]bool{b.ID: true}
	for _, n := range b.Nodes() {
		if n.IsEmpty() {
			continue
		}
		keep[n.ID] = true
		for _, a := range b.Ancestors(n.ID) {
			keep[a.ID] = true
		}
	}
	removed := 0
	for _, n := range b.Nodes() {
		if !keep[n.ID] {
			b.Remove(n.ID)
			removed++
		}
	}
	return removed
}

// AllEmpty reports whether no node of the branch carries a real count.
func (b *Branch) AllEmpty() bool {
	for _, n := range b.nodes {
		if !n.IsEmpty() {
			return false
		}
	}
	return true
}

// Max returns the largest ImportedCount among nodes with Level >= minLevel.
func (b *Branch) Max(minLevel int) float64 {
	var m float64
	for _, n := range b.nodes {
		if n.Level >= minLevel && n.ImportedCount > m {
			m = n.ImportedCount
		}
	}
	return m
}
