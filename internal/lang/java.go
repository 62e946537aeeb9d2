package lang

import (
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// JavaExtractor turns one parsed Java file into its SourceFile: package,
// import directives, top-level class/enum units, and for each unit the
// reference expressions (invocation, construction, member access) plus the
// locally declared identifiers used to suppress false receivers.
type JavaExtractor struct {
	engine *extractorEngine
}

func NewJavaExtractor() *JavaExtractor {
	e := &JavaExtractor{}
	e.engine = newExtractorEngine(map[string]nodeHandler{
		"package_declaration":        e.extractPackage,
		"import_declaration":         e.extractImport,
		"class_declaration":          e.extractClass,
		"enum_declaration":           e.extractEnum,
		"method_invocation":          e.extractInvocation,
		"object_creation_expression": e.extractConstruction,
		"field_access":               e.extractMemberAccess,
		"formal_parameter":           e.captureDeclaredName,
		"catch_formal_parameter":     e.captureDeclaredName,
		"variable_declarator":        e.captureDeclaredName,
		"enhanced_for_statement":     e.captureDeclaredName,
		"lambda_expression":          e.captureLambdaParams,
	})
	return e
}

func (e *JavaExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*SourceFile, error) {
	file := &SourceFile{
		Path:     filePath,
		ParsedAt: time.Now(),
	}
	ctx := &extractionContext{source: source, path: filePath, file: file}
	e.engine.Walk(ctx, root)

	// Units capture the file-level import context at their declaration site.
	for _, unit := range file.Units {
		unit.Namespace = file.Namespace
		unit.Imports = file.Imports
	}
	return file, nil
}

func (e *JavaExtractor) extractPackage(ctx *extractionContext, node *sitter.Node) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "scoped_identifier" || child.Kind() == "identifier" {
			ctx.file.Namespace = normalizeName(ctx.Text(child))
		}
	}
	return true
}

func (e *JavaExtractor) extractImport(ctx *extractionContext, node *sitter.Node) bool {
	raw := strings.TrimSpace(ctx.Text(node))
	raw = strings.TrimPrefix(raw, "import")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), ";")
	raw = strings.TrimSpace(raw)

	dir := ImportDirective{Location: ctx.Location(node)}
	if strings.HasPrefix(raw, "static ") {
		dir.Static = true
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "static "))
	}
	raw = normalizeName(raw)
	if raw == "" {
		return true
	}
	dir.Raw = raw

	path := raw
	if strings.HasSuffix(path, ".*") {
		dir.Wildcard = true
		path = strings.TrimSuffix(path, ".*")
	}
	if dir.Static && !dir.Wildcard {
		// import static a.b.C.member: the imported type is a.b.C.
		if idx := strings.LastIndex(path, "."); idx >= 0 {
			path = path[:idx]
		}
	}

	if dir.Wildcard && !dir.Static {
		dir.Namespace = path
	} else if idx := strings.LastIndex(path, "."); idx >= 0 {
		dir.Namespace = path[:idx]
		dir.Name = path[idx+1:]
	} else {
		dir.Name = path
	}

	ctx.file.Imports = append(ctx.file.Imports, dir)
	return true
}

func (e *JavaExtractor) extractClass(ctx *extractionContext, node *sitter.Node) bool {
	return e.extractUnit(ctx, node, KindClass)
}

func (e *JavaExtractor) extractEnum(ctx *extractionContext, node *sitter.Node) bool {
	return e.extractUnit(ctx, node, KindEnum)
}

func (e *JavaExtractor) extractUnit(ctx *extractionContext, node *sitter.Node, kind UnitKind) bool {
	if ctx.unit != nil {
		// Nested declaration: its body contributes references to the
		// enclosing unit; its name shadows workspace types locally.
		if name := ctx.Text(node.ChildByFieldName("name")); name != "" {
			ctx.unit.LocalSymbols = appendUnique(ctx.unit.LocalSymbols, name)
		}
		return false
	}

	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return true
	}

	unit := &Unit{
		Name:     ctx.Text(nameNode),
		Kind:     kind,
		Body:     ctx.Text(node),
		Location: ctx.Location(node),
		Offset:   node.StartByte(),
	}

	ctx.unit = unit
	if body := node.ChildByFieldName("body"); body != nil {
		e.engine.Walk(ctx, body)
	}
	ctx.unit = nil

	ctx.file.Units = append(ctx.file.Units, unit)
	return true
}

func (e *JavaExtractor) extractInvocation(ctx *extractionContext, node *sitter.Node) bool {
	if ctx.unit == nil {
		return false
	}
	object := node.ChildByFieldName("object")
	if object == nil || object.Kind() != "identifier" {
		// Bare calls are local methods; compound receivers are covered by
		// the field_access handler when they bottom out in an identifier.
		return false
	}
	target := normalizeName(ctx.Text(object))
	if target == "" || target == "this" || target == "super" {
		return false
	}
	ctx.unit.References = append(ctx.unit.References, Expression{
		Shape:    ShapeInvocation,
		Target:   target,
		Location: ctx.Location(node),
	})
	return false
}

func (e *JavaExtractor) extractConstruction(ctx *extractionContext, node *sitter.Node) bool {
	if ctx.unit == nil {
		return false
	}
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return false
	}
	target := constructedTypeName(ctx, typeNode)
	if target == "" {
		return false
	}
	ctx.unit.References = append(ctx.unit.References, Expression{
		Shape:    ShapeConstruction,
		Target:   target,
		Location: ctx.Location(node),
	})
	return false
}

// constructedTypeName strips type arguments from the constructed type, so
// "new Pair<Integer, Integer>(...)" binds against Pair.
func constructedTypeName(ctx *extractionContext, typeNode *sitter.Node) string {
	if typeNode.Kind() == "generic_type" {
		for i := uint(0); i < typeNode.ChildCount(); i++ {
			child := typeNode.Child(i)
			if child.Kind() == "type_identifier" || child.Kind() == "scoped_type_identifier" {
				return normalizeName(ctx.Text(child))
			}
		}
		return ""
	}
	return normalizeName(ctx.Text(typeNode))
}

func (e *JavaExtractor) extractMemberAccess(ctx *extractionContext, node *sitter.Node) bool {
	if ctx.unit == nil {
		return false
	}
	object := node.ChildByFieldName("object")
	if object == nil || object.Kind() != "identifier" {
		return false
	}
	target := normalizeName(ctx.Text(object))
	if target == "" || target == "this" || target == "super" {
		return false
	}
	ctx.unit.References = append(ctx.unit.References, Expression{
		Shape:    ShapeMemberAccess,
		Target:   target,
		Location: ctx.Location(node),
	})
	return false
}

func (e *JavaExtractor) captureDeclaredName(ctx *extractionContext, node *sitter.Node) bool {
	if ctx.unit == nil {
		return false
	}
	if name := ctx.Text(node.ChildByFieldName("name")); name != "" {
		ctx.unit.LocalSymbols = appendUnique(ctx.unit.LocalSymbols, name)
	}
	return false
}

func (e *JavaExtractor) captureLambdaParams(ctx *extractionContext, node *sitter.Node) bool {
	if ctx.unit == nil {
		return false
	}
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return false
	}
	switch params.Kind() {
	case "identifier":
		ctx.unit.LocalSymbols = appendUnique(ctx.unit.LocalSymbols, ctx.Text(params))
	case "inferred_parameters":
		for i := uint(0); i < params.ChildCount(); i++ {
			child := params.Child(i)
			if child.Kind() == "identifier" {
				ctx.unit.LocalSymbols = appendUnique(ctx.unit.LocalSymbols, ctx.Text(child))
			}
		}
	}
	// formal_parameters are handled by the formal_parameter handler.
	return false
}
