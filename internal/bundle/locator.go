package bundle

import (
	"onefile/internal/core/errors"
	"onefile/internal/lang"
)

// Locator maps identifiers and symbols to their declaring units. Root lookup
// reports "namespace not found" and "root not found" as distinct terminal
// errors; symbol lookup degrades to nil for platform symbols.
type Locator struct {
	svc lang.Service
}

func NewLocator(svc lang.Service) *Locator {
	return &Locator{svc: svc}
}

// LocateRoot finds the unit named by a fully qualified name. The workspace
// reports units in stable module order, so the "first module wins" policy is
// deterministic.
func (l *Locator) LocateRoot(qualifiedName string) (*lang.Unit, error) {
	namespace, name := lang.SplitQualifiedName(qualifiedName)
	if name == "" {
		return nil, errors.New(errors.CodeValidationError, "root identifier must not be empty")
	}
	if namespace == "" {
		err := errors.New(errors.CodeNamespaceMissing, "root identifier has no namespace prefix")
		return nil, errors.AddContext(err, errors.CtxRoot, qualifiedName)
	}
	if len(l.svc.UnitsInNamespace(namespace)) == 0 {
		err := errors.New(errors.CodeNamespaceMissing, "namespace not declared by any workspace module")
		return nil, errors.AddContext(err, errors.CtxNamespace, namespace)
	}
	unit := l.svc.FindUnit(namespace, name)
	if unit == nil {
		err := errors.New(errors.CodeRootNotFound, "no class or enum matches the root identifier")
		return nil, errors.AddContext(err, errors.CtxRoot, qualifiedName)
	}
	return unit, nil
}

// LocateDeclaringUnit maps a resolved symbol to its declaring unit. Nil means
// the symbol has no locatable source declaration (platform/runtime symbols)
// and is dropped from the closure silently.
func (l *Locator) LocateDeclaringUnit(sym *lang.Symbol) *lang.Unit {
	return l.svc.DeclaringUnitOf(sym)
}

// EnclosingNamespace returns the namespace declaring the unit.
func (l *Locator) EnclosingNamespace(unit *lang.Unit) string {
	return l.svc.EnclosingNamespace(unit)
}
