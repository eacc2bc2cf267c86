package pipeline

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"github.com/l3aro/modsplit/pkg/cache"
	"github.com/l3aro/modsplit/pkg/cst"
	"github.com/l3aro/modsplit/pkg/types"
	"golang.org/x/sync/errgroup"
)

// SourceSuffix is the input language's file suffix (e.g. ".py"). Exposed
// as a var rather than a const so tests and internal/config can override
// it without plumbing an options struct through every stage signature.
var SourceSuffix = ".py"

// ModuleNameFromPath derives a module's qualified name from its path:
// strip the source-root prefix, replace path separators with ".", strip
// the trailing source-suffix, trim leading/trailing dots.
func ModuleNameFromPath(srcRoot, p string) types.QualifiedName {
	rel := strings.TrimPrefix(p, srcRoot)
	rel = strings.TrimSuffix(rel, SourceSuffix)
	rel = strings.ReplaceAll(rel, "/", ".")
	rel = strings.Trim(rel, ".")
	return types.QualifiedName(rel)
}

// Parse turns {path: source} into {qualified_module_name: Module}, with
// every call still a raw (unresolved) dotted string. Per-file work is
// independent (no entity has been extracted across files yet) so it fans
// out over a worker pool sized by GOMAXPROCS and is joined, sorted by
// path, before returning — the one stage in this pipeline that runs
// concurrently; every later stage operates on the joined result
// sequentially. A single file's parse failure aborts the whole batch via
// errgroup's first-error propagation.
//
// pc, when non-nil, short-circuits the tree-sitter walk for any file whose
// content hash it already holds.
func Parse(ctx context.Context, srcRoot string, sources map[string]string, pc *cache.ParseCache) (map[types.QualifiedName]*types.Module, error) {
	paths := make([]string, 0, len(sources))
	for p := range sources {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	results := make([]*types.Module, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			parser := cst.NewParser()
			mod, err := parseFile(gctx, parser, srcRoot, p, sources[p], pc)
			if err != nil {
				return wrapStage("S1-parse", &ParseError{Path: p, Detail: err.Error()})
			}
			results[i] = mod
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	modules := make(map[types.QualifiedName]*types.Module, len(results))
	for _, mod := range results {
		modules[mod.Name] = mod
	}
	return modules, nil
}

func parseFile(ctx context.Context, parser *cst.Parser, srcRoot, p, source string, pc *cache.ParseCache) (*types.Module, error) {
	name := ModuleNameFromPath(srcRoot, p)

	if pc != nil {
		if cm, found := pc.Get([]byte(source)); found {
			mod := fromCachedModule(cm)
			mod.Name = name
			return mod, nil
		}
	}

	tree, err := parser.Parse(ctx, []byte(source))
	if err != nil {
		return nil, err
	}
	root := cst.Node{N: tree.Root, Source: tree.Source}

	mod := &types.Module{Name: name, Tree: root}
	mod.Imports = walkImports(root)

	var funcNodes, classNodes, assignNodes []cst.Node
	for _, child := range topLevelDefs(root) {
		switch child.Type() {
		case "function_definition":
			funcNodes = append(funcNodes, child)
		case "class_definition":
			classNodes = append(classNodes, child)
		case "expression_statement":
			if isTopLevelAssignment(child) {
				assignNodes = append(assignNodes, child)
			}
		}
	}

	for _, fn := range funcNodes {
		mod.Funcs = append(mod.Funcs, buildFunction(name, fn))
	}
	for _, cls := range classNodes {
		mod.Classes = append(mod.Classes, buildClass(name, cls))
	}
	for _, asn := range assignNodes {
		if g := buildGlobal(name, asn); g != nil {
			mod.Globals = append(mod.Globals, g)
		}
	}

	// Second pass over the full tree recording, for each global, which
	// top-level functions reference its bound name.
	recordGlobalBackEdges(mod, root)

	if pc != nil {
		pc.Put([]byte(source), toCachedModule(mod))
	}

	return mod, nil
}

// topLevelDefs returns the module's direct children, unwrapping any
// decorated_definition wrapper so callers see the underlying
// function_definition/class_definition.
func topLevelDefs(root cst.Node) []cst.Node {
	var out []cst.Node
	for _, child := range root.Children() {
		if child.Type() == "decorated_definition" {
			for _, gc := range child.Children() {
				if gc.Type() == "function_definition" || gc.Type() == "class_definition" {
					out = append(out, gc)
					break
				}
			}
			continue
		}
		out = append(out, child)
	}
	return out
}

func isTopLevelAssignment(stmt cst.Node) bool {
	target, _ := assignmentTarget(stmt)
	return target != "" && target != "__all__"
}

// assignmentTarget inspects an expression_statement for a single-target
// simple-name assignment.
func assignmentTarget(stmt cst.Node) (name string, valueNode cst.Node) {
	if stmt.ChildCount() == 0 {
		return "", cst.Node{}
	}
	expr := stmt.Child(0)
	switch expr.Type() {
	case "assignment":
		if expr.ChildCount() < 1 {
			return "", cst.Node{}
		}
		lhs := expr.Child(0)
		if lhs.Type() == "identifier" {
			return lhs.Text(), expr
		}
	}
	return "", cst.Node{}
}

func walkImports(root cst.Node) []types.Import {
	var out []types.Import
	for _, child := range root.Children() {
		if child.Type() != "import_statement" && child.Type() != "import_from_statement" {
			continue
		}
		out = append(out, parseImportNode(child)...)
	}
	return out
}

func parseImportNode(n cst.Node) []types.Import {
	var out []types.Import
	switch n.Type() {
	case "import_statement":
		for _, c := range n.Children() {
			switch c.Type() {
			case "dotted_name":
				name := c.Text()
				out = append(out, types.Import{Module: name, Kind: types.ImportKindImport, Name: name, AsName: name})
			case "aliased_import":
				mod, alias := aliasedImportParts(c)
				out = append(out, types.Import{Module: mod, Kind: types.ImportKindImport, Name: mod, AsName: alias})
			}
		}
	case "import_from_statement":
		module := ""
		isRelative := false
		for _, c := range n.Children() {
			if c.Type() == "relative_import" {
				isRelative = true
			}
		}
		if isRelative {
			// Relative imports are discarded at parse time: without the original
			// package layout there is no stable target to resolve them against.
			return nil
		}
		for _, c := range n.Children() {
			if c.Type() == "dotted_name" && module == "" {
				module = c.Text()
				continue
			}
			switch c.Type() {
			case "wildcard_import":
				out = append(out, types.Import{Module: module, Kind: types.ImportKindFrom, Name: "*", AsName: "*"})
			case "dotted_name":
				name := c.Text()
				out = append(out, types.Import{Module: module, Kind: types.ImportKindFrom, Name: name, AsName: name})
			case "aliased_import":
				name, alias := aliasedImportParts(c)
				out = append(out, types.Import{Module: module, Kind: types.ImportKindFrom, Name: name, AsName: alias})
			}
		}
	}
	return out
}

func aliasedImportParts(n cst.Node) (name, alias string) {
	children := n.Children()
	if len(children) == 0 {
		return "", ""
	}
	name = children[0].Text()
	alias = name
	for _, c := range children {
		if c.Type() == "identifier" && c.Text() != name {
			alias = c.Text()
		}
	}
	return name, alias
}

func buildFunction(module types.QualifiedName, fn cst.Node) *types.Function {
	leaf := functionName(fn)
	qname := module.Join(leaf)
	calls := extractCalls(fn, "")
	return types.NewFunction(qname, fn, calls, nil)
}

func buildClass(module types.QualifiedName, cls cst.Node) *types.Class {
	leaf := functionName(cls) // class_definition's name child has the same shape
	qname := module.Join(leaf)

	var methods []*types.Method
	body := classBody(cls)
	for _, child := range body.Children() {
		def := child
		if child.Type() == "decorated_definition" {
			for _, gc := range child.Children() {
				if gc.Type() == "function_definition" {
					def = gc
					break
				}
			}
		}
		if def.Type() != "function_definition" {
			continue
		}
		mName := functionName(def)
		mQName := qname.Join(mName)
		calls := extractCalls(def, string(qname))
		methods = append(methods, types.NewFunction(mQName, def, calls, nil))
	}
	return types.NewClass(qname, cls, methods, nil)
}

func buildGlobal(module types.QualifiedName, stmt cst.Node) *types.GlobalBinding {
	name, _ := assignmentTarget(stmt)
	if name == "" {
		return nil
	}
	return types.NewGlobalBinding(module.Join(name), stmt)
}

func functionName(defNode cst.Node) string {
	for _, c := range defNode.Children() {
		if c.Type() == "identifier" {
			return c.Text()
		}
	}
	return ""
}

func classBody(cls cst.Node) cst.Node {
	for _, c := range cls.Children() {
		if c.Type() == "block" {
			return c
		}
	}
	return cst.Node{}
}

// extractCalls walks a function/method body for call expressions,
// flattening attribute chains by concatenating left-spine names with ".".
// ownerClass, when non-empty, triggers the self.-rewrite rule: a method
// call beginning with "self." becomes "<module>.<class>.<rest>".
func extractCalls(body cst.Node, ownerClass string) []types.QualifiedName {
	var calls []string
	var walk func(n cst.Node)
	walk = func(n cst.Node) {
		if n.IsZero() {
			return
		}
		if n.Type() == "call" {
			if callee := flattenCallee(n.Child(0)); callee != "" {
				calls = append(calls, callee)
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(body)

	out := make([]types.QualifiedName, 0, len(calls))
	for _, c := range calls {
		if ownerClass != "" && strings.HasPrefix(c, "self.") {
			rest := strings.TrimPrefix(c, "self.")
			out = append(out, types.QualifiedName(ownerClass+"."+rest))
			continue
		}
		out = append(out, types.QualifiedName(c))
	}
	return out
}

// flattenCallee resolves a call's callee expression to a dotted string:
// "foo", "a.b", "a.b.c". A chain whose root is not a simple name
// contributes only the final ".attr" suffix.
func flattenCallee(n cst.Node) string {
	switch n.Type() {
	case "identifier":
		return n.Text()
	case "attribute":
		if n.ChildCount() < 2 {
			return ""
		}
		base, attr := n.Child(0), n.Child(1)
		for i := 1; i < n.ChildCount(); i++ {
			if n.Child(i).Type() == "identifier" {
				attr = n.Child(i)
			}
		}
		baseStr := flattenCallee(base)
		if baseStr == "" {
			return "." + attr.Text()
		}
		return baseStr + "." + attr.Text()
	case "call":
		// A chained call target, e.g. f()(x): contribute nothing usable.
		return ""
	default:
		return ""
	}
}

func recordGlobalBackEdges(mod *types.Module, root cst.Node) {
	if len(mod.Globals) == 0 {
		return
	}
	byLeaf := make(map[string]*types.GlobalBinding, len(mod.Globals))
	for _, g := range mod.Globals {
		byLeaf[g.Name().Leaf()] = g
	}

	for _, fn := range mod.Funcs {
		fnNode, ok := fn.Tree().(cst.Node)
		if !ok {
			continue
		}
		referenced := referencedNames(fnNode)
		for leaf := range referenced {
			if g, ok := byLeaf[leaf]; ok {
				g.Referenced = append(g.Referenced, fn.Name())
			}
		}
	}
}

func referencedNames(body cst.Node) map[string]bool {
	names := map[string]bool{}
	var walk func(n cst.Node)
	walk = func(n cst.Node) {
		if n.IsZero() {
			return
		}
		if n.Type() == "identifier" {
			names[n.Text()] = true
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(body)
	return names
}
