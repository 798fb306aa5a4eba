package assemble

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ontoloviz/ontoloviz/pkg/ontology"

	errs "github.com/ontoloviz/ontoloviz/pkg/errors"
)

func TestParentPointerBasic(t *testing.T) {
	// Rows deliberately out of order.
	rows := []ontology.Row{
		{ID: "HP:3", Parent: "HP:2", Label: "grandchild", Count: "2"},
		{ID: "HP:2", Parent: "HP:1", Label: "child", Count: "1"},
		{ID: "HP:1", Label: "root"},
	}

	forest, summary, err := ParentPointer(context.Background(), rows, Options{})
	if err != nil {
		t.Fatalf("ParentPointer() error = %v", err)
	}
	b := forest.Branch("HP:1")
	if b == nil {
		t.Fatal("branch HP:1 missing")
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	want := map[string]int{"HP:1": 0, "HP:2": 1, "HP:3": 2}
	for id, level := range want {
		n := b.Node(id)
		if n == nil {
			t.Errorf("node %s missing", id)
			continue
		}
		if n.Level != level {
			t.Errorf("Level(%s) = %d, want %d", id, n.Level, level)
		}
	}
	if summary.Nodes != 3 || len(summary.Dropped) != 0 {
		t.Errorf("summary = %+v, want 3 nodes and no drops", summary)
	}
}

func TestParentPointerDuplicateFanOut(t *testing.T) {
	rows := []ontology.Row{
		{ID: "A"},
		{ID: "B"},
		{ID: "X", Parent: "A", Count: "1"},
		{ID: "X", Parent: "B", Count: "2"},
	}

	forest, summary, err := ParentPointer(context.Background(), rows, Options{})
	if err != nil {
		t.Fatalf("ParentPointer() error = %v", err)
	}

	x := forest.Branch("A").Node("X")
	x2 := forest.Branch("B").Node("X_2")
	if x == nil || x2 == nil {
		t.Fatalf("want X under A and X_2 under B, got branches A=%v B=%v", forest.Branch("A").Nodes(), forest.Branch("B").Nodes())
	}
	if x.OriginalID != "X" || x2.OriginalID != "X" {
		t.Errorf("OriginalID = %q, %q, want X", x.OriginalID, x2.OriginalID)
	}
	if x.ParentID != "A" || x2.ParentID != "B" {
		t.Errorf("parents = %q, %q, want A, B", x.ParentID, x2.ParentID)
	}
	if summary.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", summary.Duplicates)
	}
	if forest.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", forest.NodeCount())
	}
}

func TestParentPointerFanOutUnderDuplicatedParent(t *testing.T) {
	rows := []ontology.Row{
		{ID: "R"},
		{ID: "S"},
		{ID: "P", Parent: "R"},
		{ID: "P", Parent: "S"},
		{ID: "C", Parent: "P", Label: "child", Count: "3"},
	}

	forest, summary, err := ParentPointer(context.Background(), rows, Options{})
	if err != nil {
		t.Fatalf("ParentPointer() error = %v", err)
	}
	if summary.FanOut != 1 {
		t.Errorf("FanOut = %d, want 1", summary.FanOut)
	}

	c := forest.Branch("R").Node("C")
	c2 := forest.Branch("S").Node("C_2")
	if c == nil || c2 == nil {
		t.Fatal("want C under R and C_2 under S")
	}
	if c.ParentID != "P" || c2.ParentID != "P_2" {
		t.Errorf("parents = %q, %q, want P, P_2", c.ParentID, c2.ParentID)
	}
	if c.Level != 2 || c2.Level != 2 {
		t.Errorf("levels = %d, %d, want 2", c.Level, c2.Level)
	}
	if c2.Label != "child" || c2.Count != 3 {
		t.Errorf("copy = %+v, want data of C", c2)
	}
	if err := forest.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestParentPointerAliasParents(t *testing.T) {
	rows := []ontology.Row{
		{ID: "A"},
		{ID: "B"},
		{ID: "X", Parent: "A|B"},
	}

	forest, summary, err := ParentPointer(context.Background(), rows, Options{})
	if err != nil {
		t.Fatalf("ParentPointer() error = %v", err)
	}
	if !forest.Branch("A").Has("X") || !forest.Branch("B").Has("X_2") {
		t.Error("want X under A and X_2 under B")
	}
	if summary.FanOut != 1 {
		t.Errorf("FanOut = %d, want 1", summary.FanOut)
	}
}

func TestParentPointerAliasParentsCarrySubtree(t *testing.T) {
	aliased := []ontology.Row{
		{ID: "Z", Parent: "Y"},
		{ID: "A"},
		{ID: "B"},
		{ID: "Y", Parent: "X"},
		{ID: "X", Parent: "A|B"},
	}
	repeated := []ontology.Row{
		{ID: "A"},
		{ID: "B"},
		{ID: "X", Parent: "A"},
		{ID: "X", Parent: "B"},
		{ID: "Y", Parent: "X"},
		{ID: "Z", Parent: "Y"},
	}

	for name, rows := range map[string][]ontology.Row{"aliased": aliased, "repeated": repeated} {
		t.Run(name, func(t *testing.T) {
			forest, _, err := ParentPointer(context.Background(), rows, Options{})
			if err != nil {
				t.Fatalf("ParentPointer() error = %v", err)
			}
			want := map[string][]string{
				"A": {"A", "X", "Y", "Z"},
				"B": {"B", "X_2", "Y_2", "Z_2"},
			}
			for branch, ids := range want {
				b := forest.Branch(branch)
				if b == nil || b.Len() != len(ids) {
					t.Fatalf("branch %s = %v, want %v", branch, b, ids)
				}
				for _, id := range ids {
					if !b.Has(id) {
						t.Errorf("branch %s missing %s", branch, id)
					}
				}
			}
			if got := forest.Branch("B").Node("Z_2"); got.ParentID != "Y_2" || got.Level != 3 {
				t.Errorf("Z_2 = parent %q level %d, want Y_2 level 3", got.ParentID, got.Level)
			}
			if err := forest.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestParentPointerCycle(t *testing.T) {
	rows := []ontology.Row{
		{ID: "A", Parent: "B"},
		{ID: "B", Parent: "A"},
	}

	forest, _, err := ParentPointer(context.Background(), rows, Options{})
	if err == nil {
		t.Fatal("ParentPointer() error = nil, want cycle error")
	}
	if forest != nil {
		t.Error("forest returned alongside cycle error")
	}
	if !errs.Is(err, errs.ErrCodeStructuralCycle) {
		t.Errorf("code = %v, want %v", errs.GetCode(err), errs.ErrCodeStructuralCycle)
	}
	if !errors.Is(err, ErrStructuralCycle) {
		t.Errorf("errors.Is(err, ErrStructuralCycle) = false, want true")
	}
	if !strings.Contains(err.Error(), "A") || !strings.Contains(err.Error(), "B") {
		t.Errorf("error %q does not name the cycle", err)
	}
}

func TestParentPointerRetryBudget(t *testing.T) {
	rows := []ontology.Row{
		{ID: "R"},
		{ID: "K", Parent: "R"},
		{ID: "T", Parent: "RR"},
	}

	for _, budget := range []int{1, 5, 20} {
		forest, summary, err := ParentPointer(context.Background(), rows, Options{MaxAttempts: budget})
		if err != nil {
			t.Fatalf("ParentPointer() error = %v", err)
		}
		if len(summary.Dropped) != 1 {
			t.Fatalf("Dropped = %v, want one node", summary.Dropped)
		}
		d := summary.Dropped[0]
		if d.ID != "T" || d.Parent != "RR" || d.Attempts != budget {
			t.Errorf("Dropped[0] = %+v, want T/RR after %d attempts", d, budget)
		}
		if len(summary.DiscardedRoots) != 0 {
			t.Errorf("DiscardedRoots = %v, want none", summary.DiscardedRoots)
		}
		if _, n := forest.Find("T"); n != nil {
			t.Error("dropped node present in forest")
		}
		if forest.NodeCount() != 2 {
			t.Errorf("NodeCount() = %d, want 2", forest.NodeCount())
		}
	}
}

func TestParentPointerDefaultBudget(t *testing.T) {
	rows := []ontology.Row{{ID: "R"}, {ID: "T", Parent: "typo"}}

	_, summary, err := ParentPointer(context.Background(), rows, Options{})
	if err != nil {
		t.Fatalf("ParentPointer() error = %v", err)
	}
	if len(summary.Dropped) != 1 || summary.Dropped[0].Attempts != DefaultMaxAttempts {
		t.Errorf("Dropped = %+v, want one drop after %d attempts", summary.Dropped, DefaultMaxAttempts)
	}
}

func TestParentPointerRepeatedRoot(t *testing.T) {
	rows := []ontology.Row{
		{ID: "R", Label: "first"},
		{ID: "R", Label: "second"},
		{ID: "K", Parent: "R"},
	}

	forest, summary, err := ParentPointer(context.Background(), rows, Options{})
	if err != nil {
		t.Fatalf("ParentPointer() error = %v", err)
	}
	if forest.Len() != 1 {
		t.Errorf("Len() = %d, want 1", forest.Len())
	}
	if len(summary.DiscardedRoots) != 1 || summary.DiscardedRoots[0] != "R_2" {
		t.Errorf("DiscardedRoots = %v, want [R_2]", summary.DiscardedRoots)
	}
	if got := forest.Branch("R").Root().Label; got != "first" {
		t.Errorf("root label = %q, want first", got)
	}
	if !forest.Branch("R").Has("K") {
		t.Error("K not attached under the seeded root")
	}
	if len(summary.Dropped) != 0 {
		t.Errorf("Dropped = %v, want none", summary.Dropped)
	}
}

func TestParentPointerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []ontology.Row{{ID: "R"}, {ID: "K", Parent: "R"}}
	if _, _, err := ParentPointer(ctx, rows, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("ParentPointer() error = %v, want %v", err, context.Canceled)
	}
}

func TestParentPointerInvariants(t *testing.T) {
	rows := []ontology.Row{
		{ID: "G"},
		{ID: "G.a", Parent: "G"},
		{ID: "G.b", Parent: "G"},
		{ID: "G.c", Parent: "G.a|G.b"},
		{ID: "G.d", Parent: "G.c"},
		{ID: "H"},
		{ID: "G.a", Parent: "H"},
	}

	forest, _, err := ParentPointer(context.Background(), rows, Options{})
	if err != nil {
		t.Fatalf("ParentPointer() error = %v", err)
	}
	if err := forest.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	seen := map[*ontology.Node]bool{}
	for _, b := range forest.Branches() {
		for _, n := range b.Nodes() {
			if seen[n] {
				t.Errorf("node %s shared between branches", n.ID)
			}
			seen[n] = true
			if !n.IsRoot() {
				p := b.Node(n.ParentID)
				if p == nil || n.Level != p.Level+1 {
					t.Errorf("node %s level %d does not follow its parent", n.ID, n.Level)
				}
			}
		}
	}
}

func TestMinter(t *testing.T) {
	m := newMinter()
	got := []string{m.next("X"), m.next("X_2"), m.next("X"), m.next("X")}
	want := []string{"X", "X_2", "X_3", "X_4"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("next()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
