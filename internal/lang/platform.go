package lang

import (
	_ "embed"
	"strings"
)

//go:embed platform/java.txt
var javaPlatformData string

// javaPlatform holds implicitly-imported java.lang type names plus platform
// package prefixes. Names bound here resolve without a source declaration
// and are excluded from the closure without a diagnostic.
var javaPlatform = map[string]bool{}
var javaPlatformPrefixes []string

func init() {
	for _, line := range strings.Split(javaPlatformData, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, ".") {
			javaPlatformPrefixes = append(javaPlatformPrefixes, line)
			continue
		}
		javaPlatform[line] = true
	}
}

// isPlatformName reports whether name belongs to the runtime platform rather
// than workspace source. Accepts both simple names (String) and qualified
// ones (java.util.Scanner).
func isPlatformName(name string) bool {
	if javaPlatform[name] {
		return true
	}
	for _, prefix := range javaPlatformPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// isPlatformNamespace reports whether a package path is a platform package.
func isPlatformNamespace(namespace string) bool {
	for _, prefix := range javaPlatformPrefixes {
		if namespace+"." == prefix || strings.HasPrefix(namespace, prefix) {
			return true
		}
	}
	return false
}
