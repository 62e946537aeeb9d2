package bundle

import (
	"fmt"
	"strings"

	"onefile/internal/lang"
)

// DiagnosticKind classifies non-fatal findings recorded during a closure
// walk. Diagnostics surface on the caller's channel, never in the artifact.
type DiagnosticKind string

const (
	DiagUnresolvedSymbol     DiagnosticKind = "unresolved_symbol"
	DiagAmbiguousSymbol      DiagnosticKind = "ambiguous_symbol"
	DiagAmbiguousConstructor DiagnosticKind = "ambiguous_constructor"
)

type Diagnostic struct {
	Kind       DiagnosticKind
	Unit       string // qualified name of the referencing unit
	Target     string // the name that failed to bind cleanly
	Shape      lang.ExpressionShape
	Candidates []string // all candidate qualified names when ambiguous
	Location   lang.Location
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s referenced from %s", d.Kind, d.Target, d.Unit)
	if len(d.Candidates) > 0 {
		fmt.Fprintf(&b, " (candidates: %s)", strings.Join(d.Candidates, ", "))
	}
	if d.Location.File != "" {
		fmt.Fprintf(&b, " at %s:%d", d.Location.File, d.Location.Line)
	}
	return b.String()
}
