package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSortedStringKeys(t *testing.T) {
	m := map[string]int{"z": 1, "a": 2, "m": 3}
	keys := SortedStringKeys(m)
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "m" || keys[2] != "z" {
		t.Errorf("unexpected key order: %v", keys)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out", "bundle.java")

	if err := WriteFileAtomic(target, []byte("class A {}"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "class A {}" {
		t.Errorf("unexpected content: %q", data)
	}

	// No temp files may remain next to the artifact.
	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the artifact in the output dir, got %d entries", len(entries))
	}
}

func TestLimiter(t *testing.T) {
	l := NewLimiter(1, 1)
	if !l.Allow(1) {
		t.Error("first event should be allowed by a fresh limiter")
	}
	if l.Allow(1) {
		t.Error("second immediate event should be throttled")
	}
}
