package lang

import (
	"testing"
)

func parseSource(t *testing.T, name, source string) *SourceFile {
	t.Helper()
	file, err := NewParser().ParseFile(name, []byte(source))
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	return file
}

func hasReference(unit *Unit, shape ExpressionShape, target string) bool {
	for _, ref := range unit.References {
		if ref.Shape == shape && ref.Target == target {
			return true
		}
	}
	return false
}

func hasLocal(unit *Unit, name string) bool {
	for _, local := range unit.LocalSymbols {
		if local == name {
			return true
		}
	}
	return false
}

func TestExtract_ClassWithReferences(t *testing.T) {
	file := parseSource(t, "ConvexHull.java", `
package solvers.geometry;

import java.util.ArrayList;
import java.util.*;
import static java.lang.Math.max;
import solvers.util.Pair;

public class ConvexHull {
    private int size;

    public Pair compute(ArrayList<Point> input) {
        Point first = input.get(0);
        Angle.normalize(first);
        return new Pair<Integer, Integer>(size, first.x);
    }
}
`)

	if file.Namespace != "solvers.geometry" {
		t.Errorf("namespace = %q, want solvers.geometry", file.Namespace)
	}
	if len(file.Units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(file.Units))
	}

	unit := file.Units[0]
	if unit.Name != "ConvexHull" || unit.Kind != KindClass {
		t.Errorf("unit = %s (%s), want class ConvexHull", unit.Name, unit.Kind)
	}
	if unit.QualifiedName() != "solvers.geometry.ConvexHull" {
		t.Errorf("qualified name = %q", unit.QualifiedName())
	}

	if !hasReference(unit, ShapeInvocation, "Angle") {
		t.Error("expected invocation reference on Angle")
	}
	if !hasReference(unit, ShapeConstruction, "Pair") {
		t.Error("expected construction reference on Pair with type arguments stripped")
	}
	if !hasReference(unit, ShapeMemberAccess, "first") {
		t.Error("expected member access reference on first")
	}

	for _, name := range []string{"size", "input", "first"} {
		if !hasLocal(unit, name) {
			t.Errorf("expected local symbol %q", name)
		}
	}
}

func TestExtract_ImportDirectives(t *testing.T) {
	file := parseSource(t, "Imports.java", `
package solvers.util;

import java.util.ArrayList;
import java.util.*;
import static java.lang.Math.max;
import static java.util.Collections.*;

class Imports { }
`)

	if len(file.Imports) != 4 {
		t.Fatalf("expected 4 import directives, got %d", len(file.Imports))
	}

	single := file.Imports[0]
	if single.Namespace != "java.util" || single.Name != "ArrayList" || single.Wildcard || single.Static {
		t.Errorf("single import parsed wrong: %+v", single)
	}
	if single.Raw != "java.util.ArrayList" {
		t.Errorf("raw = %q", single.Raw)
	}

	wildcard := file.Imports[1]
	if !wildcard.Wildcard || wildcard.Namespace != "java.util" || wildcard.Static {
		t.Errorf("wildcard import parsed wrong: %+v", wildcard)
	}

	staticSingle := file.Imports[2]
	if !staticSingle.Static || staticSingle.Wildcard {
		t.Errorf("static import parsed wrong: %+v", staticSingle)
	}
	if staticSingle.Namespace != "java.lang" || staticSingle.Name != "Math" {
		t.Errorf("static import must name the declaring type, got %s.%s", staticSingle.Namespace, staticSingle.Name)
	}

	staticWildcard := file.Imports[3]
	if !staticWildcard.Static || !staticWildcard.Wildcard {
		t.Errorf("static wildcard import parsed wrong: %+v", staticWildcard)
	}
}

func TestExtract_EnumUnit(t *testing.T) {
	file := parseSource(t, "Direction.java", `
package solvers.geometry;

public enum Direction {
    LEFT, RIGHT, COLLINEAR;

    public Direction flip() {
        Helper.trace(this);
        return LEFT;
    }
}
`)

	if len(file.Units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(file.Units))
	}
	unit := file.Units[0]
	if unit.Kind != KindEnum || unit.Name != "Direction" {
		t.Errorf("unit = %s (%s), want enum Direction", unit.Name, unit.Kind)
	}
	if !hasReference(unit, ShapeInvocation, "Helper") {
		t.Error("enum bodies still contribute references")
	}
}

func TestExtract_NestedClassIsLocalSymbol(t *testing.T) {
	file := parseSource(t, "Outer.java", `
package solvers.util;

public class Outer {
    static class Node {
        Node next;
    }

    Node head() {
        return new Node();
    }
}
`)

	if len(file.Units) != 1 {
		t.Fatalf("nested classes must not become top-level units, got %d units", len(file.Units))
	}
	unit := file.Units[0]
	if unit.Name != "Outer" {
		t.Errorf("unit = %q, want Outer", unit.Name)
	}
	if !hasLocal(unit, "Node") {
		t.Error("nested class name must shadow workspace types via local symbols")
	}
}

func TestExtract_SkipsThisAndSuperReceivers(t *testing.T) {
	file := parseSource(t, "Child.java", `
package solvers.util;

public class Child extends Base {
    void run() {
        this.step();
        super.step();
        Other.step();
    }
}
`)

	unit := file.Units[0]
	if hasReference(unit, ShapeInvocation, "this") || hasReference(unit, ShapeInvocation, "super") {
		t.Error("this/super receivers must not be recorded")
	}
	if !hasReference(unit, ShapeInvocation, "Other") {
		t.Error("expected invocation reference on Other")
	}
}

func TestExtract_LambdaParametersAreLocal(t *testing.T) {
	file := parseSource(t, "Lambdas.java", `
package solvers.util;

import java.util.function.BiFunction;

public class Lambdas {
    BiFunction<Integer, Integer, Integer> add = (a, b) -> a + b;
}
`)

	unit := file.Units[0]
	if !hasLocal(unit, "a") || !hasLocal(unit, "b") {
		t.Errorf("inferred lambda parameters must be local symbols, got %v", unit.LocalSymbols)
	}
}

func TestParseFile_RejectsUnsupportedExtension(t *testing.T) {
	_, err := NewParser().ParseFile("main.py", []byte("x = 1"))
	if err == nil {
		t.Fatal("expected error for unsupported file")
	}
}
