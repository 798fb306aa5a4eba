package aggregate

import (
	"math"
	"testing"

	"github.com/ontoloviz/ontoloviz/pkg/colorscale"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
	"github.com/ontoloviz/ontoloviz/pkg/ontology/assemble"
)

const epsilon = 1e-3

func build(t *testing.T, rows []ontology.Row) *ontology.Forest {
	t.Helper()
	f, _, err := assemble.Separator(rows, assemble.Options{})
	if err != nil {
		t.Fatalf("Separator() error = %v", err)
	}
	return f
}

func near(a, b float64) bool { return math.Abs(a-b) < epsilon }

func TestPropagateAllExample(t *testing.T) {
	f := build(t, []ontology.Row{
		{ID: "C01", Count: "0"},
		{ID: "C01.001", Count: "5"},
		{ID: "C01.001.002", Count: "3"},
	})

	PropagateCounts(f, CountsAll, 0)

	b := f.Branch("C01")
	want := map[string]float64{"C01": 8, "C01.001": 8, "C01.001.002": 3}
	for id, v := range want {
		if got := b.Node(id).ImportedCount; !near(got, v) {
			t.Errorf("ImportedCount(%s) = %v, want %v", id, got, v)
		}
	}
	if got := b.Node("C01.001").Count; got != 5 {
		t.Errorf("Count(C01.001) = %v, want 5 (unchanged)", got)
	}
}

func TestPropagateAllConservesMass(t *testing.T) {
	f := build(t, []ontology.Row{
		{ID: "A", Count: "1"},
		{ID: "A.1", Count: "2"},
		{ID: "A.1.1", Count: "4"},
		{ID: "A.1.2", Count: "8"},
		{ID: "A.2.1.1", Count: "16"},
		{ID: "A.3", Count: "32"},
	})
	b := f.Branch("A")
	var total float64
	for _, n := range b.Nodes() {
		total += n.ImportedCount
	}

	PropagateCounts(f, CountsAll, 0)

	if got := b.Root().ImportedCount; !near(got, total) {
		t.Errorf("root ImportedCount = %v, want %v", got, total)
	}
}

func TestPropagateLevel(t *testing.T) {
	f := build(t, []ontology.Row{
		{ID: "A", Count: "1"},
		{ID: "A.1", Count: "2"},
		{ID: "A.1.1", Count: "4"},
		{ID: "A.1.1.1", Count: "8"},
	})

	PropagateCounts(f, CountsLevel, 1)

	b := f.Branch("A")
	want := map[string]float64{"A": 1, "A.1": 14, "A.1.1": 12, "A.1.1.1": 8}
	for id, v := range want {
		if got := b.Node(id).ImportedCount; !near(got, v) {
			t.Errorf("ImportedCount(%s) = %v, want %v", id, got, v)
		}
	}
}

func TestPropagateOff(t *testing.T) {
	f := build(t, []ontology.Row{{ID: "A", Count: "1"}, {ID: "A.1", Count: "2"}})

	PropagateCounts(f, CountsOff, 0)

	if got := f.Branch("A").Root().ImportedCount; got != 1 {
		t.Errorf("ImportedCount(A) = %v, want 1", got)
	}
}

func TestOutermost(t *testing.T) {
	f := build(t, []ontology.Row{
		{ID: "A", Count: "1"},
		{ID: "A.1", Count: "2"},
		{ID: "A.1.1", Count: "4"},
		{ID: "A.2", Count: "9"},
		{ID: "A.3.1", Count: "3"},
	})
	b := f.Branch("A")

	got := map[string]bool{}
	for _, n := range Outermost(b) {
		got[n.ID] = true
	}
	for _, id := range []string{"A.1.1", "A.3.1", "A.2"} {
		if !got[id] {
			t.Errorf("%s not outermost", id)
		}
	}
	for _, id := range []string{"A", "A.1", "A.3"} {
		if got[id] {
			t.Errorf("%s outermost, want covered", id)
		}
	}
	if m := OutermostMax(b); m != 9 {
		t.Errorf("OutermostMax() = %v, want 9", m)
	}
}

func TestApplyColorsSpecific(t *testing.T) {
	f := build(t, []ontology.Row{
		{ID: "A", Count: "1"},
		{ID: "A.1", Count: "8", Color: "#123456"},
		{ID: "B", Count: "1"},
		{ID: "B.1", Count: "80"},
	})

	ApplyColors(f, ColorOptions{Mode: ColorSpecific, Level: 1, Scale: colorscale.Default(), DefaultColor: "#FFFFFF"})

	if got := f.Branch("A").Root().Color; got != "#FFFFFF" {
		t.Errorf("Color(A) = %s, want default", got)
	}
	// Each branch maximum maps to the top of its own table.
	for _, id := range []string{"A.1", "B.1"} {
		_, n := f.Find(id)
		if n.Color != "#C33D35" {
			t.Errorf("Color(%s) = %s, want #C33D35", id, n.Color)
		}
	}
}

func TestApplyColorsGlobal(t *testing.T) {
	f := build(t, []ontology.Row{
		{ID: "A", Count: "8"},
		{ID: "B", Count: "80"},
	})

	ApplyColors(f, ColorOptions{Mode: ColorGlobal, Scale: colorscale.Default(), DefaultColor: "#FFFFFF"})

	table := colorscale.Build(colorscale.Default(), 80, "#FFFFFF")
	if got, want := f.Branch("A").Root().Color, table.Lookup(8); got != want {
		t.Errorf("Color(A) = %s, want %s", got, want)
	}
	if got := f.Branch("B").Root().Color; got != "#C33D35" {
		t.Errorf("Color(B) = %s, want #C33D35", got)
	}
}

func TestApplyColorsPhenotype(t *testing.T) {
	f := build(t, []ontology.Row{
		{ID: "A", Count: "1", Color: "#111111"},
		{ID: "A.1", Count: "2", Color: "#222222"},
		{ID: "A.1.1", Count: "10"},
		{ID: "A.2", Count: "5"},
	})

	ApplyColors(f, ColorOptions{Mode: ColorPhenotype, Scale: colorscale.Default(), DefaultColor: "#FFFFFF"})

	b := f.Branch("A")
	for _, id := range []string{"A", "A.1"} {
		if got := b.Node(id).Color; got != "#FFFFFF" {
			t.Errorf("Color(%s) = %s, want default", id, got)
		}
	}
	if got := b.Node("A.1.1").Color; got != "#C33D35" {
		t.Errorf("Color(A.1.1) = %s, want #C33D35", got)
	}
	table := colorscale.Build(colorscale.Default(), 10, "#FFFFFF")
	if got, want := b.Node("A.2").Color, table.Lookup(5); got != want {
		t.Errorf("Color(A.2) = %s, want %s", got, want)
	}
}

func TestApplyColorsPhenotypeScalesOnOutermost(t *testing.T) {
	f := build(t, []ontology.Row{
		{ID: "A", Count: "100"},
		{ID: "A.1", Count: "4"},
		{ID: "A.2", Count: "2"},
	})
	b := f.Branch("A")
	if m := OutermostMax(b); m != 4 {
		t.Fatalf("OutermostMax() = %v, want 4", m)
	}

	ApplyColors(f, ColorOptions{Mode: ColorPhenotype, Scale: colorscale.Default(), DefaultColor: "#FFFFFF"})

	// The root count is larger but the scale tops out at the outermost max.
	if got := b.Node("A.1").Color; got != "#C33D35" {
		t.Errorf("Color(A.1) = %s, want #C33D35", got)
	}
	table := colorscale.Build(colorscale.Default(), 4, "#FFFFFF")
	if got, want := b.Node("A.2").Color, table.Lookup(2); got != want {
		t.Errorf("Color(A.2) = %s, want %s", got, want)
	}
}

func TestApplyColorsOff(t *testing.T) {
	f := build(t, []ontology.Row{{ID: "A", Count: "3", Color: "#123456"}})

	ApplyColors(f, ColorOptions{Mode: ColorOff})

	if got := f.Branch("A").Root().Color; got != "#123456" {
		t.Errorf("Color(A) = %s, want #123456", got)
	}
}

func TestRunReadsPropagatedCounts(t *testing.T) {
	f := build(t, []ontology.Row{
		{ID: "A", Count: "0"},
		{ID: "A.1", Count: "0"},
		{ID: "A.1.1", Count: "10"},
		{ID: "A.2", Count: "10"},
	})

	Run(f, Options{Counts: CountsAll, Color: ColorSpecific, Level: 1, Scale: colorscale.Default(), DefaultColor: "#FFFFFF"})

	b := f.Branch("A")
	if got := b.Node("A.1").Color; got != "#C33D35" {
		t.Errorf("Color(A.1) = %s, want #C33D35 after propagation", got)
	}
	if got := b.Root().Color; got != "#FFFFFF" {
		t.Errorf("Color(A) = %s, want default above the level threshold", got)
	}
}

func TestParsePolicies(t *testing.T) {
	if p, err := ParseCountPolicy(" All "); err != nil || p != CountsAll {
		t.Errorf("ParseCountPolicy(All) = %v, %v, want %v", p, err, CountsAll)
	}
	if _, err := ParseCountPolicy("sum"); err == nil {
		t.Error("ParseCountPolicy(sum) error = nil, want error")
	}
	if m, err := ParseColorMode("phenotype"); err != nil || m != ColorPhenotype {
		t.Errorf("ParseColorMode(phenotype) = %v, %v, want %v", m, err, ColorPhenotype)
	}
	if _, err := ParseColorMode("local"); err == nil {
		t.Error("ParseColorMode(local) error = nil, want error")
	}
}
