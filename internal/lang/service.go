package lang

// Service is the language-service contract the bundler consumes. The closure
// walk depends on nothing else, so it can run against a fake implementation
// in tests without a parser behind it.
type Service interface {
	// FindUnit returns the unit declared as simpleName inside namespace, or
	// nil. When several workspace modules declare the same unit, the first
	// module in stable (sorted) order wins.
	FindUnit(namespace, simpleName string) *Unit

	// UnitsInNamespace returns every class/enum unit the namespace declares,
	// in stable declaration order. Used by the wide-closure policy.
	UnitsInNamespace(namespace string) []*Unit

	// ReferencesIn returns the reference expressions of the unit's body.
	ReferencesIn(unit *Unit) []Expression

	// ResolveReference binds one expression, evaluated in the import context
	// of the referencing unit. Returns nil when the expression does not name
	// a bindable symbol at all (locals, lowercase receivers); otherwise the
	// Symbol carries its Resolution and, if Ambiguous, all candidates.
	ResolveReference(from *Unit, expr Expression) *Symbol

	// DeclaringUnitOf maps a resolved symbol back to its declaring unit, or
	// nil for symbols without a locatable source declaration (platform and
	// runtime symbols).
	DeclaringUnitOf(sym *Symbol) *Unit

	// EnclosingNamespace returns the namespace that declares the unit.
	EnclosingNamespace(unit *Unit) string

	// ImportsOf returns the import directives visible in the namespace,
	// merged across the files that declare it.
	ImportsOf(namespace string) []ImportDirective
}
