package bundle

import (
	"onefile/internal/lang"
)

// Collector walks one unit's reference expressions and resolves each through
// the language service, applying the per-shape acceptance policy:
//
//   - invocation / member access: only a single unambiguous resolution is
//     accepted; anything else is dropped with a diagnostic.
//   - object construction: an ambiguous resolution accepts the first
//     candidate and reports all of them, because the constructed type
//     materially affects whether the bundle compiles.
//
// Partial closures are acceptable; the collector never fails.
type Collector struct {
	svc lang.Service
}

func NewCollector(svc lang.Service) *Collector {
	return &Collector{svc: svc}
}

// Collect returns the unit's accepted symbols, deduplicated by qualified
// name in first-occurrence order, plus the diagnostics the policy produced.
func (c *Collector) Collect(unit *lang.Unit) ([]*lang.Symbol, []Diagnostic) {
	var symbols []*lang.Symbol
	var diags []Diagnostic
	seen := make(map[string]bool)

	for _, expr := range c.svc.ReferencesIn(unit) {
		sym := c.svc.ResolveReference(unit, expr)
		if sym == nil {
			continue // not a bindable symbol (local, lowercase receiver)
		}

		switch sym.Resolution {
		case lang.Resolved:
		case lang.Ambiguous:
			if expr.Shape != lang.ShapeConstruction {
				diags = append(diags, Diagnostic{
					Kind:       DiagAmbiguousSymbol,
					Unit:       unit.QualifiedName(),
					Target:     expr.Target,
					Shape:      expr.Shape,
					Candidates: sym.Candidates,
					Location:   expr.Location,
				})
				continue
			}
			// First candidate is already chosen deterministically by the
			// resolver; report every candidate so the caller can audit.
			diags = append(diags, Diagnostic{
				Kind:       DiagAmbiguousConstructor,
				Unit:       unit.QualifiedName(),
				Target:     expr.Target,
				Shape:      expr.Shape,
				Candidates: sym.Candidates,
				Location:   expr.Location,
			})
		case lang.Unresolved:
			diags = append(diags, Diagnostic{
				Kind:     DiagUnresolvedSymbol,
				Unit:     unit.QualifiedName(),
				Target:   expr.Target,
				Shape:    expr.Shape,
				Location: expr.Location,
			})
			continue
		default:
			continue
		}

		if seen[sym.QualifiedName] {
			continue
		}
		seen[sym.QualifiedName] = true
		symbols = append(symbols, sym)
	}

	return symbols, diags
}
