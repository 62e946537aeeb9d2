package lang

import (
	"time"
)

// Unit is a namespace-scoped class or enum declaration, the atomic bundling
// element. The body is opaque to the bundler beyond verbatim re-emission.
type Unit struct {
	Namespace    string // declaring package, e.g. "solvers.geometry"
	Name         string // simple name, e.g. "Convex"
	Kind         UnitKind
	Module       string            // workspace module that declared the unit
	Body         string            // verbatim declaration text, including modifiers
	Imports      []ImportDirective // import directives visible at the declaration site
	References   []Expression      // reference expressions found in the body
	LocalSymbols []string          // params, locals and fields declared inside the body
	Location     Location
	Offset       uint // byte offset of the declaration inside its file
}

func (u *Unit) QualifiedName() string {
	if u.Namespace == "" {
		return u.Name
	}
	return u.Namespace + "." + u.Name
}

type UnitKind int

const (
	KindClass UnitKind = iota
	KindEnum
)

func (k UnitKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ImportDirective is one import statement visible at a declaration site.
type ImportDirective struct {
	Namespace string // imported package, e.g. "solvers.util"
	Name      string // imported simple name; empty for wildcard imports
	Wildcard  bool
	Static    bool
	Raw       string // original directive text without the keyword and semicolon
	Location  Location
}

// ExpressionShape is the closed set of reference shapes the bundler follows.
type ExpressionShape int

const (
	ShapeInvocation ExpressionShape = iota
	ShapeConstruction
	ShapeMemberAccess
)

func (s ExpressionShape) String() string {
	switch s {
	case ShapeInvocation:
		return "invocation"
	case ShapeConstruction:
		return "construction"
	case ShapeMemberAccess:
		return "member_access"
	default:
		return "unknown"
	}
}

// Expression is one call, construction or member-access site extracted from a
// unit body. Target is the name to bind: the constructed type name, or the
// receiver identifier of a call / member access.
type Expression struct {
	Shape    ExpressionShape
	Target   string
	Location Location
}

// Resolution classifies how confidently a reference was bound.
type Resolution int

const (
	Resolved Resolution = iota
	Ambiguous
	Unresolved
)

func (r Resolution) String() string {
	switch r {
	case Resolved:
		return "resolved"
	case Ambiguous:
		return "ambiguous"
	case Unresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Symbol is the result of resolving one Expression. Ephemeral: constructed per
// traversal step, never persisted.
type Symbol struct {
	QualifiedName string
	Resolution    Resolution
	Candidates    []string // qualified names of all matches when Ambiguous
}

// SourceFile groups what one parsed file contributed to the workspace.
type SourceFile struct {
	Path      string
	Module    string
	Namespace string
	Imports   []ImportDirective
	Units     []*Unit
	ParsedAt  time.Time
}

type Location struct {
	File   string
	Line   int
	Column int
}
