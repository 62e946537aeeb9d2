package lang

import (
	"sort"
	"strings"
	"unicode"
)

// ResolveReference implements Service. Binding order mirrors the compiler's
// lookup for simple type names: explicit import, then the referencing unit's
// own namespace, then wildcard imports, then a unique workspace-wide match.
// Several surviving candidates make the symbol Ambiguous; the candidate list
// is sorted so the "first candidate" choice downstream is deterministic.
func (ws *Workspace) ResolveReference(from *Unit, expr Expression) *Symbol {
	target := normalizeName(expr.Target)
	if target == "" || from == nil {
		return nil
	}

	// Qualified targets carry their own namespace.
	if strings.Contains(target, ".") {
		return ws.resolveQualified(target)
	}

	// Locals, parameters and fields shadow type names; lowercase receivers
	// follow local-variable convention and never name a workspace unit.
	for _, local := range from.LocalSymbols {
		if local == target {
			return nil
		}
	}
	if !startsUpper(target) {
		return nil
	}

	if target == from.Name {
		return &Symbol{QualifiedName: from.QualifiedName(), Resolution: Resolved}
	}

	// Explicit single-type import wins outright.
	for _, dir := range from.Imports {
		if dir.Wildcard || dir.Name != target {
			continue
		}
		qualified := dir.Name
		if dir.Namespace != "" {
			qualified = dir.Namespace + "." + dir.Name
		}
		// An import pointing outside the workspace is a platform symbol:
		// resolved, but with no source declaration to bundle.
		return &Symbol{QualifiedName: qualified, Resolution: Resolved}
	}

	// Same namespace as the referencing unit.
	if unit := ws.FindUnit(from.Namespace, target); unit != nil {
		return &Symbol{QualifiedName: unit.QualifiedName(), Resolution: Resolved}
	}

	// Wildcard imports, workspace namespaces only.
	var candidates []string
	sawPlatformWildcard := false
	for _, dir := range from.Imports {
		if !dir.Wildcard {
			continue
		}
		if isPlatformNamespace(dir.Namespace) {
			sawPlatformWildcard = true
			continue
		}
		if unit := ws.FindUnit(dir.Namespace, target); unit != nil {
			candidates = append(candidates, unit.QualifiedName())
		}
	}
	if len(candidates) == 0 {
		// Fall back to a workspace-global search.
		for _, unit := range ws.byName[target] {
			candidates = append(candidates, unit.QualifiedName())
		}
	}

	candidates = dedupeSorted(candidates)
	switch len(candidates) {
	case 0:
		if isPlatformName(target) || sawPlatformWildcard {
			return &Symbol{QualifiedName: target, Resolution: Resolved}
		}
		return &Symbol{QualifiedName: target, Resolution: Unresolved}
	case 1:
		return &Symbol{QualifiedName: candidates[0], Resolution: Resolved}
	default:
		return &Symbol{
			QualifiedName: candidates[0],
			Resolution:    Ambiguous,
			Candidates:    candidates,
		}
	}
}

func (ws *Workspace) resolveQualified(target string) *Symbol {
	namespace, name := SplitQualifiedName(target)
	if unit := ws.FindUnit(namespace, name); unit != nil {
		return &Symbol{QualifiedName: unit.QualifiedName(), Resolution: Resolved}
	}
	if isPlatformName(target) {
		return &Symbol{QualifiedName: target, Resolution: Resolved}
	}
	return &Symbol{QualifiedName: target, Resolution: Unresolved}
}

// DeclaringUnitOf implements Service. Returns nil for platform symbols and
// anything else without a workspace declaration.
func (ws *Workspace) DeclaringUnitOf(sym *Symbol) *Unit {
	if sym == nil || sym.Resolution == Unresolved {
		return nil
	}
	namespace, name := SplitQualifiedName(sym.QualifiedName)
	return ws.FindUnit(namespace, name)
}

func startsUpper(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

func dedupeSorted(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	sort.Strings(values)
	out := values[:1]
	for _, v := range values[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
