package ontology

import (
	"fmt"
	"math"
	"slices"
)

// Forest is the ordered collection of branches produced by an assembly
// pass. Branch IDs are unique.
type Forest struct {
	branches map[string]*Branch
	order    []string
}

// NewForest creates an empty forest.
func NewForest() *Forest {
	return &Forest{branches: make(map[string]*Branch)}
}

// Add appends a branch. It returns ErrDuplicateBranch if the ID is taken.
func (f *Forest) Add(b *Branch) error {
	if _, ok := f.branches[b.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBranch, b.ID)
	}
	f.branches[b.ID] = b
	f.order = append(f.order, b.ID)
	return nil
}

// Ensure returns the branch with the given ID, creating it if needed.
func (f *Forest) Ensure(id string) *Branch {
	if b, ok := f.branches[id]; ok {
		return b
	}
	b := NewBranch(id)
	f.branches[id] = b
	f.order = append(f.order, id)
	return b
}

// Branch returns the branch with the given ID, or nil.
func (f *Forest) Branch(id string) *Branch { return f.branches[id] }

// Branches returns the branches in insertion order.
func (f *Forest) Branches() []*Branch {
	out := make([]*Branch, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.branches[id])
	}
	return out
}

// Remove deletes a branch.
func (f *Forest) Remove(id string) {
	if _, ok := f.branches[id]; !ok {
		return
	}
	delete(f.branches, id)
	f.order = slices.DeleteFunc(f.order, func(s string) bool { return s == id })
}

// Len returns the number of branches.
func (f *Forest) Len() int { return len(f.branches) }

// NodeCount returns the number of nodes across all branches.
func (f *Forest) NodeCount() int {
	total := 0
	for _, b := range f.branches {
		total += b.Len()
	}
	return total
}

// Find returns the first branch, in insertion order, that contains id.
func (f *Forest) Find(id string) (*Branch, *Node) {
	for _, bid := range f.order {
		b := f.branches[bid]
		if n := b.Node(id); n != nil {
			return b, n
		}
	}
	return nil, nil
}

// Validate checks every branch.
func (f *Forest) Validate() error {
	for _, b := range f.Branches() {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Max returns the largest ImportedCount with Level >= minLevel across
// all branches.
func (f *Forest) Max(minLevel int) float64 {
	var m float64
	for _, b := range f.branches {
		m = math.Max(m, b.Max(minLevel))
	}
	return m
}

// PruneSmall removes branches with fewer than minSize nodes and returns
// the IDs it removed. A minSize below 2 keeps everything.
func (f *Forest) PruneSmall(minSize int) []string {
	if minSize < 2 {
		return nil
	}
	var removed []string
	for _, b := range f.Branches() {
		if b.Len() < minSize {
			f.Remove(b.ID)
			removed = append(removed, b.ID)
		}
	}
	return removed
}

// DropEmptyBranches removes branches where no node carries a real count.
func (f *Forest) DropEmptyBranches() []string {
	var removed []string
	for _, b := range f.Branches() {
		if b.AllEmpty() {
			f.Remove(b.ID)
			removed = append(removed, b.ID)
		}
	}
	return removed
}

// NormalizeCounts rescales counts to integers in 0..scale relative to the
// largest count of the forest. Sentinel values are left untouched.
func (f *Forest) NormalizeCounts(scale float64) {
	var m float64
	for _, b := range f.branches {
		for _, n := range b.nodes {
			if !isSentinel(n.Count) && n.Count > m {
				m = n.Count
			}
		}
	}
	if m == 0 {
		return
	}
	for _, b := range f.branches {
		for _, n := range b.nodes {
			if isSentinel(n.Count) {
				continue
			}
			v := math.Floor(n.Count / m * scale)
			if v == 0 {
				v = Zero
			}
			n.Count = v
			n.ImportedCount = v
		}
	}
}

// CountDescendants fills ChildrenCount on every branch.
func (f *Forest) CountDescendants() {
	for _, b := range f.branches {
		b.CountDescendants()
	}
}

// ShowEmpty sets the displayed Count of zero-count nodes to FakeOne so
// their wedges stay drawable. ImportedCount is left alone: propagation and
// coloring still see Zero.
func (f *Forest) ShowEmpty() {
	for _, b := range f.branches {
		for _, n := range b.nodes {
			if n.Count == 0 || n.Count == Zero {
				n.Count = FakeOne
			}
		}
	}
}

func isSentinel(v float64) bool {
	return v == Zero || v == FakeOne
}
