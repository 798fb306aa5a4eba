package assemble

import "github.com/ontoloviz/ontoloviz/pkg/ontology"

// topoSort orders roots and candidates so that every node follows its
// chosen parent, using Kahn's algorithm over parent → child edges. Edges
// are only drawn between nodes of the set; a node whose parent is absent
// has in-degree 0 and is left for attachment to drop.
//
// Ties keep input order: roots first, then candidates as given. If fewer
// nodes are ordered than exist, the remainder sits on a cycle and a
// structural cycle error naming them is returned.
func topoSort(roots, candidates []*ontology.Node) ([]*ontology.Node, error) {
	all := make([]*ontology.Node, 0, len(roots)+len(candidates))
	all = append(all, roots...)
	all = append(all, candidates...)

	present := make(map[string]bool, len(all))
	for _, n := range all {
		present[n.ID] = true
	}

	inDegree := make(map[*ontology.Node]int, len(all))
	children := make(map[string][]*ontology.Node)
	queue := make([]*ontology.Node, 0, len(all))

	for _, n := range all {
		if n.ParentID != "" && present[n.ParentID] {
			inDegree[n] = 1
			children[n.ParentID] = append(children[n.ParentID], n)
			continue
		}
		queue = append(queue, n)
	}

	ordered := make([]*ontology.Node, 0, len(all))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		ordered = append(ordered, curr)

		for _, child := range children[curr.ID] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(ordered) < len(all) {
		done := make(map[*ontology.Node]bool, len(ordered))
		for _, n := range ordered {
			done[n] = true
		}
		var unordered []string
		for _, n := range all {
			if !done[n] {
				unordered = append(unordered, n.ID)
			}
		}
		return nil, cycleError(unordered)
	}
	return ordered, nil
}
