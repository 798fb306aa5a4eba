package obo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ontoloviz/ontoloviz/pkg/cache"
	"github.com/ontoloviz/ontoloviz/pkg/errors"
	"github.com/ontoloviz/ontoloviz/pkg/httputil"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
)

const sampleOBO = `format-version: 1.2
ontology: hp

[Term]
id: HP:0000001
name: All

[Term]
id: HP:0000118
name: Phenotypic abnormality
is_a: HP:0000001 ! All

[Term]
id: HP:0000152
name: Abnormality of head or neck
def: "An abnormality of the \"head\" or neck." [HPO:probinson]
comment: Head and neck.
xref: UMLS:C4021817
synonym: "Head and neck abnormality" EXACT layperson []
is_a: HP:0000118 ! Phenotypic abnormality

[Term]
id: HP:0000234
name: Abnormality of the head
is_a: HP:0000152 ! Abnormality of head or neck

[Term]
id: HP:0000271
name: Abnormality of the face
is_a: HP:0000234 ! Abnormality of the head
is_a: HP:0000152 ! Abnormality of head or neck

[Term]
id: HP:0000478
name: Abnormality of the eye
is_a: HP:0000118 ! Phenotypic abnormality

[Term]
id: HP:0000003
name: Obsolete thing
is_a: HP:0000118
is_obsolete: true

[Typedef]
id: part_of
name: part of
`

func parse(t *testing.T) []*Term {
	t.Helper()
	terms, err := Parse(strings.NewReader(sampleOBO), ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return terms
}

func TestParse(t *testing.T) {
	terms := parse(t)
	if len(terms) != 6 {
		t.Fatalf("len(terms) = %d, want 6", len(terms))
	}
	head := terms[2]
	if head.ID != "HP:0000152" || head.Name != "Abnormality of head or neck" {
		t.Errorf("terms[2] = %+v", head)
	}
	if head.Def != `An abnormality of the "head" or neck.` {
		t.Errorf("Def = %q", head.Def)
	}
	if head.Comment != "Head and neck." {
		t.Errorf("Comment = %q", head.Comment)
	}
	if len(head.Xrefs) != 1 || head.Xrefs[0] != "UMLS:C4021817" {
		t.Errorf("Xrefs = %v", head.Xrefs)
	}
	if len(head.Synonyms) != 1 || head.Synonyms[0] != (Synonym{Text: "Head and neck abnormality", Scope: "EXACT"}) {
		t.Errorf("Synonyms = %+v", head.Synonyms)
	}
	if face := terms[4]; len(face.IsA) != 2 || face.IsA[0] != "HP:0000234" {
		t.Errorf("IsA = %v", face.IsA)
	}
}

func TestParseKeepObsolete(t *testing.T) {
	terms, err := Parse(strings.NewReader(sampleOBO), ParseOptions{KeepObsolete: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(terms) != 7 || !terms[6].IsObsolete {
		t.Errorf("len(terms) = %d, want 7 with obsolete last", len(terms))
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("[Term]\nid HP1\n"), ParseOptions{})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Parse() error = %v, want %v", err, errors.ErrCodeInvalidFormat)
	}
}

func TestBuildWithRoot(t *testing.T) {
	f, summary, err := Build(context.Background(), parse(t), Entry{Key: "hpo", RootID: "HP:0000118"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 branches", f.Len())
	}
	b := f.Branch("HP:0000152")
	if b == nil || b.Len() != 4 {
		t.Fatalf("branch HP:0000152 = %v, want 4 nodes", b)
	}
	face := b.Node("HP:0000271")
	if face.ParentID != "HP:0000234" || face.Level != 2 {
		t.Errorf("face = parent %s level %d, want HP:0000234 level 2", face.ParentID, face.Level)
	}
	copyOf := b.Node("HP:0000271_2")
	if copyOf == nil || copyOf.ParentID != "HP:0000152" || copyOf.Level != 1 || copyOf.OriginalID != "HP:0000271" {
		t.Errorf("face copy = %+v, want HP:0000271_2 under HP:0000152", copyOf)
	}
	if summary.FanOut != 1 {
		t.Errorf("FanOut = %d, want 1", summary.FanOut)
	}
	root := b.Root()
	if root.Count != ontology.Zero || root.Color != ontology.DefaultColor {
		t.Errorf("root = %+v, want zero count and default color", root)
	}
	if !strings.HasPrefix(root.Description, `Definition: An abnormality`) {
		t.Errorf("Description = %q", root.Description)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestBuildMultiParentAcrossBranches(t *testing.T) {
	const src = `[Term]
id: T:0
name: Top

[Term]
id: T:1
name: Left
is_a: T:0

[Term]
id: T:2
name: Right
is_a: T:0

[Term]
id: T:3
name: Shared
is_a: T:1
is_a: T:2

[Term]
id: T:4
name: Leaf
is_a: T:3

[Term]
id: T:5
name: Also a branch
is_a: T:0
is_a: T:1
`
	terms, err := Parse(strings.NewReader(src), ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	f, _, err := Build(context.Background(), terms, Entry{Key: "t", RootID: "T:0"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := map[string][]string{
		"T:1": {"T:1", "T:3", "T:4", "T:5_2"},
		"T:2": {"T:2", "T:3_2", "T:4_2"},
		"T:5": {"T:5"},
	}
	if f.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", f.Len(), len(want))
	}
	for branch, ids := range want {
		b := f.Branch(branch)
		if b == nil || b.Len() != len(ids) {
			t.Fatalf("branch %s = %v, want %v", branch, b, ids)
		}
		for _, id := range ids {
			if !b.Has(id) {
				t.Errorf("branch %s missing %s", branch, id)
			}
		}
	}
	if got := f.Branch("T:2").Node("T:4_2"); got.ParentID != "T:3_2" || got.Label != "Leaf" {
		t.Errorf("T:4_2 = %+v, want Leaf under T:3_2", got)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestBuildMinBranchSize(t *testing.T) {
	f, _, err := Build(context.Background(), parse(t), Entry{Key: "hpo", RootID: "HP:0000118", MinBranchSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() != 1 || f.Branch("HP:0000478") != nil {
		t.Errorf("branches = %d, want single-node eye branch dropped", f.Len())
	}
}

func TestBuildWithoutRoot(t *testing.T) {
	f, _, err := Build(context.Background(), parse(t), Entry{Key: "custom"})
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() != 1 || f.Branch("HP:0000001").Len() != 7 {
		t.Errorf("forest = %d branches, want one branch of 7", f.Len())
	}
}

func TestBuildRootLabel(t *testing.T) {
	f, _, err := Build(context.Background(), parse(t), Entry{Key: "x", RootLabel: "All"})
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() != 1 || f.Branch("HP:0000118") == nil {
		t.Errorf("forest branches = %d, want HP:0000118", f.Len())
	}

	_, _, err = Build(context.Background(), parse(t), Entry{Key: "x", RootLabel: "molecular_function"})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Build() error = %v, want %v", err, errors.ErrCodeNotFound)
	}
	_, _, err = Build(context.Background(), parse(t), Entry{Key: "x", RootID: "HP:9999999"})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Build() error = %v, want %v", err, errors.ErrCodeNotFound)
	}
}

func TestCatalogue(t *testing.T) {
	for _, key := range []string{"hpo", "go_mf", "go_cc", "go_bp", "po", "cl", "chebi", "uberon", "doid"} {
		e, err := Lookup(key)
		if err != nil {
			t.Errorf("Lookup(%s) error = %v", key, err)
			continue
		}
		if err := errors.ValidateURL(e.URL); err != nil {
			t.Errorf("%s URL = %s: %v", key, e.URL, err)
		}
	}
	if e, _ := Lookup("po"); e.RootID != "PO:0009011" || e.MinBranchSize != 5 {
		t.Errorf("po = %+v", e)
	}
	if _, err := Lookup("mesh"); !errors.Is(err, errors.ErrCodeOntologyNotFound) {
		t.Errorf("Lookup(mesh) error = %v, want %v", err, errors.ErrCodeOntologyNotFound)
	}
	if got := len(Entries()); got != len(Catalogue) {
		t.Errorf("len(Entries()) = %d, want %d", got, len(Catalogue))
	}
}

func TestCustom(t *testing.T) {
	if _, err := Custom("ftp://example.org/x.obo", "", 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Custom(ftp) error = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
	e, err := Custom("https://example.org/x.obo", "X:1", 3)
	if err != nil || e.RootID != "X:1" || e.MinBranchSize != 3 {
		t.Errorf("Custom() = %+v, %v", e, err)
	}
}

func TestClientCaches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/hp.obo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(sampleOBO))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(fc, nil)
	c.Fetcher = &httputil.Fetcher{Client: srv.Client(), Attempts: 1, Delay: time.Millisecond}
	e := Entry{Key: "hpo", URL: srv.URL + "/hp.obo", RootID: "HP:0000118"}
	ctx := context.Background()

	f, err := c.Forest(ctx, e)
	if err != nil {
		t.Fatalf("Forest() error = %v", err)
	}
	if f.NodeCount() != 5 {
		t.Errorf("NodeCount() = %d, want 5", f.NodeCount())
	}
	if _, hit, err := c.Download(ctx, e); err != nil || !hit {
		t.Errorf("Download() hit = %v, err = %v, want cache hit", hit, err)
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1", calls)
	}

	c.Refresh = true
	if _, hit, _ := c.Download(ctx, e); hit || calls != 2 {
		t.Errorf("Download() with Refresh hit = %v, calls = %d", hit, calls)
	}

	missing := Entry{Key: "nope", URL: srv.URL + "/nope.obo"}
	if _, err := c.Forest(ctx, missing); !errors.Is(err, errors.ErrCodeOntologyNotFound) {
		t.Errorf("Forest(missing) error = %v, want %v", err, errors.ErrCodeOntologyNotFound)
	}
}
