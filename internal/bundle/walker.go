package bundle

import (
	"context"
	"log/slog"

	"onefile/internal/lang"
)

// Policy decides how many sibling declarations a referenced namespace pulls
// into the closure.
type Policy string

const (
	// PolicyWide expands every class/enum a referenced namespace declares.
	// Default: matches what a standalone submission usually needs.
	PolicyWide Policy = "wide"
	// PolicyNarrow expands only the specifically referenced unit.
	PolicyNarrow Policy = "narrow"
)

// Bundle is the result of one closure walk: the visited units in discovery
// order, grouped by namespace in first-discovery order, plus the per-unit
// dependency lists the emitter derives import directives from.
type Bundle struct {
	Root         *lang.Unit
	Policy       Policy
	Units        []*lang.Unit
	Namespaces   []string                // first-discovery order
	ByNamespace  map[string][]*lang.Unit // units per namespace, discovery order
	Dependencies map[string][]string     // unit qualified name -> dep qualified names
	Diagnostics  []Diagnostic
}

// Walker drives the closure: starting from the root unit it repeatedly
// collects references and locates their declaring units until a fixed point.
// All traversal state lives in a per-run value, so concurrent runs and
// repeated runs cannot interfere.
type Walker struct {
	svc       lang.Service
	locator   *Locator
	collector *Collector
	policy    Policy
}

func NewWalker(svc lang.Service, policy Policy) *Walker {
	if policy != PolicyNarrow {
		policy = PolicyWide
	}
	return &Walker{
		svc:       svc,
		locator:   NewLocator(svc),
		collector: NewCollector(svc),
		policy:    policy,
	}
}

// traversalState is created empty per run and discarded at the end.
type traversalState struct {
	visited map[string]bool // qualified names already emitted
	seenNS  map[string]bool
	bundle  *Bundle
}

// Bundle walks the closure of rootName. Root lookup failures are terminal;
// individual unresolved symbols accumulate as diagnostics on the result.
func (w *Walker) Bundle(ctx context.Context, rootName string) (*Bundle, error) {
	root, err := w.locator.LocateRoot(rootName)
	if err != nil {
		return nil, err
	}

	state := &traversalState{
		visited: make(map[string]bool),
		seenNS:  make(map[string]bool),
		bundle: &Bundle{
			Root:         root,
			Policy:       w.policy,
			ByNamespace:  make(map[string][]*lang.Unit),
			Dependencies: make(map[string][]string),
		},
	}

	if err := w.expand(ctx, state, root); err != nil {
		return nil, err
	}
	return state.bundle, nil
}

// expand processes one unit: emit it, collect its references, locate each
// declaring unit and recurse. The visited check makes expansion at-most-once
// per qualified name, which is what terminates cyclic reference graphs.
func (w *Walker) expand(ctx context.Context, state *traversalState, unit *lang.Unit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	qualified := unit.QualifiedName()
	if state.visited[qualified] {
		return nil
	}
	state.visited[qualified] = true
	state.emit(unit)

	// Enums are closure leaves: emitted, never expanded. Whatever their
	// bodies contain never contributes new units.
	if unit.Kind == lang.KindEnum {
		return nil
	}

	symbols, diags := w.collector.Collect(unit)
	state.bundle.Diagnostics = append(state.bundle.Diagnostics, diags...)
	for _, d := range diags {
		slog.Debug("closure diagnostic", "kind", string(d.Kind), "unit", d.Unit, "target", d.Target)
	}

	for _, sym := range symbols {
		dep := w.locator.LocateDeclaringUnit(sym)
		if dep == nil {
			continue // platform symbol, silently excluded
		}
		depName := dep.QualifiedName()
		if depName == qualified {
			continue
		}
		state.bundle.Dependencies[qualified] = append(state.bundle.Dependencies[qualified], depName)

		if w.policy == PolicyWide {
			for _, sibling := range w.svc.UnitsInNamespace(dep.Namespace) {
				if err := w.expand(ctx, state, sibling); err != nil {
					return err
				}
			}
			continue
		}
		if err := w.expand(ctx, state, dep); err != nil {
			return err
		}
	}
	return nil
}

func (state *traversalState) emit(unit *lang.Unit) {
	state.bundle.Units = append(state.bundle.Units, unit)
	ns := unit.Namespace
	if !state.seenNS[ns] {
		state.seenNS[ns] = true
		state.bundle.Namespaces = append(state.bundle.Namespaces, ns)
	}
	state.bundle.ByNamespace[ns] = append(state.bundle.ByNamespace[ns], unit)
}
