package lang

import "strings"

func normalizeName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(value, "\n", "")
	value = strings.ReplaceAll(value, "\r", "")
	value = strings.ReplaceAll(value, "\t", "")
	value = strings.ReplaceAll(value, " ", "")
	return value
}

// appendUnique keeps LocalSymbols free of duplicates. The slices involved are
// small (per-declaration), so a linear scan is fine.
func appendUnique(values []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return values
	}
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}

// SplitQualifiedName splits "solvers.geometry.Convex" into its namespace
// prefix and trailing simple name. A bare name has an empty namespace.
func SplitQualifiedName(qualified string) (namespace, name string) {
	qualified = normalizeName(qualified)
	idx := strings.LastIndex(qualified, ".")
	if idx < 0 {
		return "", qualified
	}
	return qualified[:idx], qualified[idx+1:]
}
