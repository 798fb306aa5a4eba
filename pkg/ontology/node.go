package ontology

import (
	"errors"
	"maps"
)

// Sentinel count values. A wedge of size zero cannot be drawn, so zero
// counts are stored as Zero. FakeOne marks nodes that are displayed but
// were never counted.
const (
	Zero    = 0.000001337
	FakeOne = 1.000001337
)

// Display defaults applied to nodes that omit the corresponding field.
const (
	DefaultColor    = "#FFFFFF"
	Undefined       = "Undefined"
	ArtificialLabel = "N/A"
)

var (
	// ErrInvalidNodeID is returned by [Branch.Add] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrMissingRoot is returned by [Branch.Validate] when the branch has no
	// node keyed by its own ID or that node has a parent.
	ErrMissingRoot = errors.New("branch root missing")

	// ErrMultipleRoots is returned by [Branch.Validate] when more than one
	// node has an empty parent.
	ErrMultipleRoots = errors.New("branch has more than one root")

	// ErrDanglingParent is returned by [Branch.Validate] when a node's parent
	// is not present in the same branch.
	ErrDanglingParent = errors.New("parent not present in branch")

	// ErrDuplicateBranch is returned by [Forest.Add] when a branch with the
	// same root ID already exists.
	ErrDuplicateBranch = errors.New("duplicate branch ID")
)

// Metadata stores arbitrary key-value pairs attached to a node, such as
// the MeSH descriptor or OBO synonyms. It is never nil after [Branch.Add].
type Metadata map[string]any

// NodeKind distinguishes nodes read from input from placeholder ancestors.
type NodeKind int

const (
	// NodeKindRegular represents a node that came from an input row.
	NodeKindRegular NodeKind = iota
	// NodeKindArtificial represents an ancestor synthesised during
	// separator-based assembly because no row defined it.
	NodeKindArtificial
)

// String returns the kind name used in JSON traces and tables.
func (k NodeKind) String() string {
	if k == NodeKindArtificial {
		return "artificial"
	}
	return "regular"
}

// Node is one occurrence of an ontology term inside a branch.
type Node struct {
	ID         string // Unique after disambiguation
	OriginalID string // Identifier as it appeared in the input
	ParentID   string // Empty for the branch root

	Label       string
	Description string
	Comment     string

	Level int // Depth from the branch root (root = 0)

	// Count is the value read from input. ImportedCount starts equal to
	// Count and is the only value mutated by propagation.
	Count         float64
	ImportedCount float64

	Color         string
	ChildrenCount int // Number of descendants, not just direct children

	Kind NodeKind
	Meta Metadata
}

// IsRoot reports whether the node starts a branch.
func (n *Node) IsRoot() bool { return n.ParentID == "" }

// IsArtificial reports whether the node was synthesised as a placeholder.
func (n *Node) IsArtificial() bool { return n.Kind == NodeKindArtificial }

// IsEmpty reports whether the node carries no real count.
func (n *Node) IsEmpty() bool {
	return n.ImportedCount == 0 || n.ImportedCount == Zero
}

// Clone returns a deep copy of the node. Fan-out copies must never share
// a Meta map with the original.
func (n *Node) Clone() *Node {
	c := *n
	c.Meta = maps.Clone(n.Meta)
	if c.Meta == nil {
		c.Meta = Metadata{}
	}
	return &c
}

// NewArtificial creates a placeholder ancestor for id.
func NewArtificial(id, parentID string, level int, color string) *Node {
	return &Node{
		ID:            id,
		OriginalID:    id,
		ParentID:      parentID,
		Label:         ArtificialLabel,
		Description:   Undefined,
		Level:         level,
		Count:         Zero,
		ImportedCount: Zero,
		Color:         color,
		Kind:          NodeKindArtificial,
		Meta:          Metadata{},
	}
}

// overwriteData copies the data fields of src into n, leaving the
// structural fields (ID, ParentID, Level) untouched.
func (n *Node) overwriteData(src *Node) {
	n.OriginalID = src.OriginalID
	n.Label = src.Label
	n.Description = src.Description
	n.Comment = src.Comment
	n.Count = src.Count
	n.ImportedCount = src.ImportedCount
	n.Color = src.Color
	n.Kind = src.Kind
	n.Meta = maps.Clone(src.Meta)
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
}
