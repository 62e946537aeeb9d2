package lang

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"onefile/internal/core/errors"
	"onefile/internal/shared/observability"
	"onefile/internal/shared/util"
)

// Workspace is the loaded multi-module source tree: every parsed file plus
// the unit indexes resolution runs against. It implements Service.
type Workspace struct {
	root    string
	modules []string
	files   []*SourceFile

	unitsByNS   map[string][]*Unit            // namespace -> units in stable declaration order
	unitIndex   map[string]map[string][]*Unit // namespace -> simple name -> units in module order
	byName      map[string][]*Unit            // simple name -> all declaring units
	importsByNS map[string][]ImportDirective
}

var _ Service = (*Workspace)(nil)

// LoadOptions control workspace discovery.
type LoadOptions struct {
	ExcludeDirs  []string // glob patterns matched against directory names
	ExcludeFiles []string // glob patterns matched against file base names
}

// LoadWorkspace scans the workspace root for source files, parses each one,
// and builds the unit indexes. Module identity is the first path segment
// under the root ("." for files sitting directly in the root). Modules and
// files are processed in sorted order so lookup results are deterministic.
func LoadWorkspace(ctx context.Context, root string, opts LoadOptions) (*Workspace, error) {
	ctx, span := observability.Tracer.Start(ctx, "lang.LoadWorkspace")
	defer span.End()

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIOFailure, "workspace root not readable")
	}
	if !info.IsDir() {
		return nil, errors.New(errors.CodeValidationError, "workspace root is not a directory")
	}

	dirGlobs, err := compileGlobs(opts.ExcludeDirs)
	if err != nil {
		return nil, err
	}
	fileGlobs, err := compileGlobs(opts.ExcludeFiles)
	if err != nil {
		return nil, err
	}

	parser := NewParser()
	ws := &Workspace{
		root:        root,
		unitsByNS:   make(map[string][]*Unit),
		unitIndex:   make(map[string]map[string][]*Unit),
		byName:      make(map[string][]*Unit),
		importsByNS: make(map[string][]ImportDirective),
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || matchAny(dirGlobs, name)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !parser.IsSupportedPath(path) || matchAny(fileGlobs, d.Name()) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIOFailure, "workspace scan failed")
	}
	sort.Strings(paths)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	moduleSet := make(map[string]bool)
	for _, path := range paths {
		module := ws.moduleOf(path)
		start := time.Now()
		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("failed to read source file", "path", path, "error", err)
			continue
		}
		file, err := parser.ParseFile(path, content)
		observability.ParsingDuration.WithLabelValues(module).Observe(time.Since(start).Seconds())
		if err != nil {
			slog.Warn("failed to parse source file", "path", path, "error", err)
			continue
		}
		file.Module = module
		moduleSet[module] = true
		ws.addFile(file)
	}

	ws.modules = util.SortedStringKeys(moduleSet)
	ws.finalize()

	total := 0
	for _, units := range ws.unitsByNS {
		total += len(units)
	}
	observability.WorkspaceUnits.Set(float64(total))
	slog.Debug("workspace loaded",
		"root", root,
		"modules", len(ws.modules),
		"files", len(ws.files),
		"units", total)

	return ws, nil
}

func (ws *Workspace) moduleOf(path string) string {
	rel, err := filepath.Rel(ws.root, path)
	if err != nil {
		return "."
	}
	rel = filepath.ToSlash(rel)
	if idx := strings.Index(rel, "/"); idx > 0 {
		return rel[:idx]
	}
	return "."
}

func (ws *Workspace) addFile(file *SourceFile) {
	ws.files = append(ws.files, file)

	for _, unit := range file.Units {
		unit.Module = file.Module
		ns := unit.Namespace
		ws.unitsByNS[ns] = append(ws.unitsByNS[ns], unit)

		if ws.unitIndex[ns] == nil {
			ws.unitIndex[ns] = make(map[string][]*Unit)
		}
		ws.unitIndex[ns][unit.Name] = append(ws.unitIndex[ns][unit.Name], unit)
		ws.byName[unit.Name] = append(ws.byName[unit.Name], unit)
	}

	if file.Namespace != "" && len(file.Imports) > 0 {
		ws.importsByNS[file.Namespace] = mergeImports(ws.importsByNS[file.Namespace], file.Imports)
	}
}

// finalize fixes the order of every index slice: module first, then file
// path, then declaration offset. Resolution and emission order depend on it.
func (ws *Workspace) finalize() {
	for _, units := range ws.unitsByNS {
		sortUnits(units)
	}
	for _, byName := range ws.unitIndex {
		for _, units := range byName {
			sortUnits(units)
		}
	}
	for _, units := range ws.byName {
		sortUnits(units)
	}
}

func sortUnits(units []*Unit) {
	sort.Slice(units, func(i, j int) bool {
		if units[i].Module != units[j].Module {
			return units[i].Module < units[j].Module
		}
		if units[i].Location.File != units[j].Location.File {
			return units[i].Location.File < units[j].Location.File
		}
		return units[i].Offset < units[j].Offset
	})
}

func mergeImports(existing, incoming []ImportDirective) []ImportDirective {
	seen := make(map[string]bool, len(existing))
	for _, dir := range existing {
		seen[dir.Raw] = true
	}
	for _, dir := range incoming {
		if seen[dir.Raw] {
			continue
		}
		seen[dir.Raw] = true
		existing = append(existing, dir)
	}
	return existing
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "invalid exclude pattern "+p)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchAny(globs []glob.Glob, value string) bool {
	for _, g := range globs {
		if g.Match(value) {
			return true
		}
	}
	return false
}

// Modules returns the workspace module names in stable order.
func (ws *Workspace) Modules() []string {
	out := make([]string, len(ws.modules))
	copy(out, ws.modules)
	return out
}

// Root returns the workspace root path.
func (ws *Workspace) Root() string { return ws.root }

// FileCount returns the number of parsed source files.
func (ws *Workspace) FileCount() int { return len(ws.files) }

// FindUnit implements Service.
func (ws *Workspace) FindUnit(namespace, simpleName string) *Unit {
	units := ws.unitIndex[namespace][simpleName]
	if len(units) == 0 {
		return nil
	}
	return units[0]
}

// UnitsInNamespace implements Service.
func (ws *Workspace) UnitsInNamespace(namespace string) []*Unit {
	units := ws.unitsByNS[namespace]
	out := make([]*Unit, len(units))
	copy(out, units)
	return out
}

// HasNamespace reports whether any workspace unit declares the namespace.
func (ws *Workspace) HasNamespace(namespace string) bool {
	return len(ws.unitsByNS[namespace]) > 0
}

// ReferencesIn implements Service.
func (ws *Workspace) ReferencesIn(unit *Unit) []Expression {
	if unit == nil {
		return nil
	}
	return unit.References
}

// EnclosingNamespace implements Service.
func (ws *Workspace) EnclosingNamespace(unit *Unit) string {
	if unit == nil {
		return ""
	}
	return unit.Namespace
}

// ImportsOf implements Service.
func (ws *Workspace) ImportsOf(namespace string) []ImportDirective {
	dirs := ws.importsByNS[namespace]
	out := make([]ImportDirective, len(dirs))
	copy(out, dirs)
	return out
}
