package assemble

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ontoloviz/ontoloviz/pkg/ontology"

	errs "github.com/ontoloviz/ontoloviz/pkg/errors"
)

// ErrStructuralCycle is wrapped by the error [ParentPointer] returns when
// the parent references cannot be ordered.
var ErrStructuralCycle = errors.New("structural cycle")

// parentEntry is a non-root node with its raw parent reference.
type parentEntry struct {
	node    *ontology.Node
	parents string
}

// pending is a node waiting for its chosen parent to appear in the forest.
type pending struct {
	node     *ontology.Node
	rootLike bool // Repeated root row; it never attaches
	attempts int
}

// ParentPointer builds a forest from rows that name their parent
// explicitly, as ontologies exported from OBO files do.
//
// Assembly runs in five steps:
//  1. Disambiguation: the n-th repeat of an identifier becomes "<id>_<n>"
//     and every minted ID is recorded per original identifier. Rows without
//     a parent are seeded as branch roots.
//  2. Parent resolution: a parent reference becomes the union of the IDs
//     minted for every identifier it names.
//  3. Fan-out: a node with several candidate parents is copied once per
//     candidate. The first copy keeps the node ID; the others are minted
//     and count as IDs of the identifier, so descendants fan out below
//     every copy.
//  4. Ordering: nodes are sorted topologically over chosen-parent edges. A
//     cycle aborts assembly with an ErrCodeStructuralCycle error.
//  5. Attachment: passes over the pending nodes attach each one below its
//     parent. Every pass that misses the parent costs the node one
//     attempt; after MaxAttempts misses it is dropped and reported in the
//     summary. Repeated root rows left over are discarded.
//
// The context is checked between attachment passes.
func ParentPointer(ctx context.Context, rows []ontology.Row, opts Options) (*ontology.Forest, Summary, error) {
	var summary Summary
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, summary, err
	}

	forest := ontology.NewForest()
	ids := newMinter()
	dupMap := map[string][]string{}
	rootSeeded := map[string]bool{}

	var entries []parentEntry
	var queue []*pending

	// Disambiguation.
	for _, row := range rows {
		summary.Rows++
		aliases := ontology.SplitAliases(row.ID, opts.AliasSeparator)
		if len(aliases) == 0 {
			summary.Skipped++
			continue
		}
		parentRef := strings.TrimSpace(row.Parent)

		for _, orig := range aliases {
			id := ids.next(orig)
			if id != orig {
				summary.Duplicates++
			}
			n := ontology.NodeFromRow(row, id, opts.FloatSeparator, opts.DefaultColor)
			n.OriginalID = orig

			if parentRef == "" {
				if rootSeeded[orig] {
					queue = append(queue, &pending{node: n, rootLike: true})
					continue
				}
				rootSeeded[orig] = true
				dupMap[orig] = append(dupMap[orig], id)
				_ = forest.Ensure(id).Add(n)
				continue
			}
			dupMap[orig] = append(dupMap[orig], id)
			entries = append(entries, parentEntry{node: n, parents: parentRef})
		}
	}

	// Parent resolution and fan-out, parents before children so that the
	// copies of a parent are known when its children resolve.
	var candidates []*ontology.Node
	for _, e := range resolutionOrder(entries, opts.AliasSeparator) {
		parents := resolveParents(e.parents, opts.AliasSeparator, dupMap)
		if len(parents) == 0 {
			summary.Skipped++
			continue
		}
		for i, p := range parents {
			n := e.node
			if i > 0 {
				n = e.node.Clone()
				n.ID = ids.next(e.node.OriginalID)
				dupMap[n.OriginalID] = append(dupMap[n.OriginalID], n.ID)
				summary.FanOut++
			}
			n.ParentID = p
			candidates = append(candidates, n)
		}
	}

	// Ordering.
	roots := make([]*ontology.Node, 0, forest.Len())
	for _, b := range forest.Branches() {
		roots = append(roots, b.Root())
	}
	ordered, err := topoSort(roots, candidates)
	if err != nil {
		return nil, summary, err
	}
	for _, n := range ordered {
		if !n.IsRoot() {
			queue = append(queue, &pending{node: n})
		}
	}

	// Attachment. Passes repeat while any regular node is waiting; each
	// miss costs one attempt.
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, summary, err
		}
		var next []*pending
		waiting := false
		for _, p := range queue {
			if p.rootLike {
				next = append(next, p)
				continue
			}
			if p.attempts >= opts.MaxAttempts {
				summary.Dropped = append(summary.Dropped, dropped(p))
				continue
			}
			if branch, parent := forest.Find(p.node.ParentID); parent != nil {
				p.node.Level = parent.Level + 1
				_ = branch.Add(p.node)
				continue
			}
			p.attempts++
			next = append(next, p)
			waiting = true
		}
		queue = next
		if !waiting {
			break
		}
	}
	for _, p := range queue {
		summary.DiscardedRoots = append(summary.DiscardedRoots, p.node.ID)
	}

	summary.Nodes = forest.NodeCount()
	return forest, summary, nil
}

func dropped(p *pending) DroppedNode {
	return DroppedNode{ID: p.node.ID, Parent: p.node.ParentID, Attempts: p.attempts}
}

// resolutionOrder sorts entries so that every entry follows the entries
// of the identifiers its parent reference names. Entries on a cycle keep
// input order at the end; the topological sort reports them later.
func resolutionOrder(entries []parentEntry, sep string) []parentEntry {
	byOrig := make(map[string][]int, len(entries))
	for i, e := range entries {
		byOrig[e.node.OriginalID] = append(byOrig[e.node.OriginalID], i)
	}

	inDegree := make([]int, len(entries))
	succ := make([][]int, len(entries))
	for j, e := range entries {
		seen := map[int]bool{}
		for _, ref := range ontology.SplitAliases(e.parents, sep) {
			for _, i := range byOrig[ref] {
				if seen[i] {
					continue
				}
				seen[i] = true
				succ[i] = append(succ[i], j)
				inDegree[j]++
			}
		}
	}

	queue := make([]int, 0, len(entries))
	for i := range entries {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	done := make([]bool, len(entries))
	out := make([]parentEntry, 0, len(entries))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		done[i] = true
		out = append(out, entries[i])
		for _, j := range succ[i] {
			inDegree[j]--
			if inDegree[j] == 0 {
				queue = append(queue, j)
			}
		}
	}
	for i, e := range entries {
		if !done[i] {
			out = append(out, e)
		}
	}
	return out
}

// resolveParents expands an alias-separated parent reference into the IDs
// minted for each referenced identifier. Unknown references resolve to
// themselves.
func resolveParents(ref, sep string, dupMap map[string][]string) []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range ontology.SplitAliases(ref, sep) {
		minted, ok := dupMap[r]
		if !ok {
			minted = []string{r}
		}
		for _, id := range minted {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// minter hands out unique node IDs. The first occurrence of an identifier
// keeps it, later ones become "<id>_<n>" with the smallest n >= 2 that is
// still free.
type minter struct {
	used map[string]bool
	seq  map[string]int
}

func newMinter() *minter {
	return &minter{used: map[string]bool{}, seq: map[string]int{}}
}

func (m *minter) next(orig string) string {
	if !m.used[orig] {
		m.used[orig] = true
		return orig
	}
	n := m.seq[orig]
	if n < 2 {
		n = 2
	}
	for {
		id := fmt.Sprintf("%s_%d", orig, n)
		n++
		if !m.used[id] {
			m.used[id] = true
			m.seq[orig] = n
			return id
		}
	}
}

func cycleError(unordered []string) error {
	const maxListed = 10
	listed := unordered
	if len(listed) > maxListed {
		listed = listed[:maxListed]
	}
	cause := fmt.Errorf("%w: %s", ErrStructuralCycle, strings.Join(listed, ", "))
	return errs.Wrap(errs.ErrCodeStructuralCycle, cause,
		"%d nodes cannot be ordered by their parent references", len(unordered))
}
