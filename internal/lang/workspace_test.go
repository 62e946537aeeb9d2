package lang

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// writeWorkspace lays out a two-module source tree under a temp dir:
//
//	alg/solvers/geometry/{ConvexHull,Point}.java
//	lib/solvers/util/Pair.java
func writeWorkspace(t *testing.T, extra map[string]string) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"alg/solvers/geometry/ConvexHull.java": `
package solvers.geometry;

import java.util.ArrayList;
import solvers.util.Pair;

public class ConvexHull {
    public Pair solve(ArrayList<Point> input) {
        Point first = input.get(0);
        return new Pair(first, first);
    }
}
`,
		"alg/solvers/geometry/Point.java": `
package solvers.geometry;

public class Point {
    public int x;
    public int y;
}
`,
		"lib/solvers/util/Pair.java": `
package solvers.util;

public class Pair {
    Object a;
    Object b;
}
`,
	}
	for rel, content := range extra {
		files[rel] = content
	}

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func loadWorkspace(t *testing.T, root string, opts LoadOptions) *Workspace {
	t.Helper()
	ws, err := LoadWorkspace(context.Background(), root, opts)
	if err != nil {
		t.Fatalf("LoadWorkspace failed: %v", err)
	}
	return ws
}

func TestLoadWorkspace_IndexesModulesAndUnits(t *testing.T) {
	root := writeWorkspace(t, nil)
	ws := loadWorkspace(t, root, LoadOptions{})

	modules := ws.Modules()
	if len(modules) != 2 || modules[0] != "alg" || modules[1] != "lib" {
		t.Errorf("modules = %v, want [alg lib]", modules)
	}
	if ws.FileCount() != 3 {
		t.Errorf("file count = %d, want 3", ws.FileCount())
	}

	point := ws.FindUnit("solvers.geometry", "Point")
	if point == nil {
		t.Fatal("Point not indexed")
	}
	if point.Module != "alg" {
		t.Errorf("Point module = %q, want alg", point.Module)
	}

	geo := ws.UnitsInNamespace("solvers.geometry")
	if len(geo) != 2 {
		t.Errorf("solvers.geometry has %d units, want 2", len(geo))
	}
	if !ws.HasNamespace("solvers.util") {
		t.Error("solvers.util namespace missing")
	}
	if ws.HasNamespace("solvers.nowhere") {
		t.Error("unknown namespace must not be reported")
	}
}

func TestLoadWorkspace_AppliesExcludes(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"alg/target/Generated.java": `
package generated;

public class Generated { }
`,
		"alg/solvers/geometry/PointTest.java": `
package solvers.geometry;

public class PointTest { }
`,
	})
	ws := loadWorkspace(t, root, LoadOptions{
		ExcludeDirs:  []string{"target"},
		ExcludeFiles: []string{"*Test.java"},
	})

	if ws.HasNamespace("generated") {
		t.Error("excluded directory was indexed")
	}
	if ws.FindUnit("solvers.geometry", "PointTest") != nil {
		t.Error("excluded file was indexed")
	}
	if ws.FindUnit("solvers.geometry", "Point") == nil {
		t.Error("regular file must survive excludes")
	}
}

func TestLoadWorkspace_RejectsMissingRoot(t *testing.T) {
	_, err := LoadWorkspace(context.Background(), filepath.Join(t.TempDir(), "nope"), LoadOptions{})
	if err == nil {
		t.Fatal("expected error for missing workspace root")
	}
}

func TestResolveReference_BindingOrder(t *testing.T) {
	root := writeWorkspace(t, nil)
	ws := loadWorkspace(t, root, LoadOptions{})
	hull := ws.FindUnit("solvers.geometry", "ConvexHull")
	if hull == nil {
		t.Fatal("ConvexHull not indexed")
	}

	// Local symbols and lowercase receivers never name workspace units.
	if sym := ws.ResolveReference(hull, Expression{Shape: ShapeInvocation, Target: "input"}); sym != nil {
		t.Errorf("local symbol resolved to %+v", sym)
	}
	if sym := ws.ResolveReference(hull, Expression{Shape: ShapeInvocation, Target: "helper"}); sym != nil {
		t.Errorf("lowercase receiver resolved to %+v", sym)
	}

	// Self reference.
	sym := ws.ResolveReference(hull, Expression{Shape: ShapeConstruction, Target: "ConvexHull"})
	if sym == nil || sym.Resolution != Resolved || sym.QualifiedName != "solvers.geometry.ConvexHull" {
		t.Errorf("self reference = %+v", sym)
	}

	// Explicit import to another workspace namespace.
	sym = ws.ResolveReference(hull, Expression{Shape: ShapeConstruction, Target: "Pair"})
	if sym == nil || sym.Resolution != Resolved || sym.QualifiedName != "solvers.util.Pair" {
		t.Errorf("imported reference = %+v", sym)
	}

	// Same namespace, no import needed.
	sym = ws.ResolveReference(hull, Expression{Shape: ShapeConstruction, Target: "Point"})
	if sym == nil || sym.Resolution != Resolved || sym.QualifiedName != "solvers.geometry.Point" {
		t.Errorf("same-namespace reference = %+v", sym)
	}

	// Platform types resolve but have no declaring unit to bundle.
	sym = ws.ResolveReference(hull, Expression{Shape: ShapeConstruction, Target: "ArrayList"})
	if sym == nil || sym.Resolution != Resolved {
		t.Fatalf("platform reference = %+v", sym)
	}
	if ws.DeclaringUnitOf(sym) != nil {
		t.Error("platform symbol must not have a declaring unit")
	}

	// Implicit java.lang.
	sym = ws.ResolveReference(hull, Expression{Shape: ShapeInvocation, Target: "Math"})
	if sym == nil || sym.Resolution != Resolved {
		t.Errorf("java.lang reference = %+v", sym)
	}

	// Unknown name.
	sym = ws.ResolveReference(hull, Expression{Shape: ShapeInvocation, Target: "Zzz"})
	if sym == nil || sym.Resolution != Unresolved {
		t.Errorf("unknown reference = %+v", sym)
	}
}

func TestResolveReference_Qualified(t *testing.T) {
	root := writeWorkspace(t, nil)
	ws := loadWorkspace(t, root, LoadOptions{})
	hull := ws.FindUnit("solvers.geometry", "ConvexHull")

	sym := ws.ResolveReference(hull, Expression{Shape: ShapeConstruction, Target: "solvers.util.Pair"})
	if sym == nil || sym.Resolution != Resolved || sym.QualifiedName != "solvers.util.Pair" {
		t.Errorf("qualified workspace reference = %+v", sym)
	}

	sym = ws.ResolveReference(hull, Expression{Shape: ShapeConstruction, Target: "java.util.Scanner"})
	if sym == nil || sym.Resolution != Resolved {
		t.Errorf("qualified platform reference = %+v", sym)
	}
	if ws.DeclaringUnitOf(sym) != nil {
		t.Error("qualified platform symbol must not have a declaring unit")
	}

	sym = ws.ResolveReference(hull, Expression{Shape: ShapeConstruction, Target: "solvers.nowhere.Thing"})
	if sym == nil || sym.Resolution != Unresolved {
		t.Errorf("qualified unknown reference = %+v", sym)
	}
}

func TestResolveReference_AmbiguousAcrossModules(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"alg/solvers/geometry/Common.java": `
package solvers.geometry2;

public class Common { }
`,
		"lib/solvers/util/Common.java": `
package solvers.util2;

public class Common { }
`,
	})
	ws := loadWorkspace(t, root, LoadOptions{})
	hull := ws.FindUnit("solvers.geometry", "ConvexHull")

	sym := ws.ResolveReference(hull, Expression{Shape: ShapeConstruction, Target: "Common"})
	if sym == nil || sym.Resolution != Ambiguous {
		t.Fatalf("expected ambiguous resolution, got %+v", sym)
	}
	if len(sym.Candidates) != 2 {
		t.Fatalf("candidates = %v, want 2", sym.Candidates)
	}
	if sym.Candidates[0] != "solvers.geometry2.Common" || sym.Candidates[1] != "solvers.util2.Common" {
		t.Errorf("candidates must be sorted: %v", sym.Candidates)
	}
	if sym.QualifiedName != sym.Candidates[0] {
		t.Error("ambiguous symbol must carry the first sorted candidate")
	}
}

func TestResolveReference_WildcardImportNarrowsAmbiguity(t *testing.T) {
	root := writeWorkspace(t, map[string]string{
		"alg/solvers/geometry/User.java": `
package solvers.geometry;

import solvers.a.*;

public class User {
    void run() {
        Shared.go();
    }
}
`,
		"alg/solvers/a/Shared.java": `
package solvers.a;

public class Shared { }
`,
		"lib/solvers/b/Shared.java": `
package solvers.b;

public class Shared { }
`,
	})
	ws := loadWorkspace(t, root, LoadOptions{})
	user := ws.FindUnit("solvers.geometry", "User")

	sym := ws.ResolveReference(user, Expression{Shape: ShapeInvocation, Target: "Shared"})
	if sym == nil || sym.Resolution != Resolved || sym.QualifiedName != "solvers.a.Shared" {
		t.Errorf("wildcard import must narrow the match, got %+v", sym)
	}
}
