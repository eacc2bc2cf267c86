// Package types defines the core data model the rewrite pipeline operates
// on: qualified names, import records, entities (functions, classes,
// module-level bindings) and the parsed module that owns them.
package types

import "strings"

// QualifiedName is a dot-separated path uniquely identifying an entity:
// "module.entity" or "module.class.method". The dot is the sole separator.
type QualifiedName string

// Parent returns the qualified name with its last segment removed.
// Parent("pkg.util.io") == "pkg.util"; Parent("leaf") == "".
func (q QualifiedName) Parent() QualifiedName {
	s := string(q)
	idx := strings.LastIndexByte(s, '.')
	if idx < 0 {
		return ""
	}
	return QualifiedName(s[:idx])
}

// Leaf returns the final dot-separated segment.
func (q QualifiedName) Leaf() string {
	s := string(q)
	idx := strings.LastIndexByte(s, '.')
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

// Segments splits the qualified name on ".".
func (q QualifiedName) Segments() []string {
	if q == "" {
		return nil
	}
	return strings.Split(string(q), ".")
}

// Join appends a segment, producing a new qualified name.
func (q QualifiedName) Join(segment string) QualifiedName {
	if q == "" {
		return QualifiedName(segment)
	}
	return QualifiedName(string(q) + "." + segment)
}

// ImportKind distinguishes "from M import N" from "import M".
type ImportKind int

const (
	ImportKindImport ImportKind = iota
	ImportKindFrom
)

// Import is the canonical textual-import record: a tuple
// (module, kind, name, as_name). For ImportKindImport, Name == Module
// (there is no separate imported symbol).
type Import struct {
	Module string
	Kind   ImportKind
	Name   string
	AsName string
}

// String renders the import in its canonical textual form:
// "from <module> import <name> [as <alias>]" or "import <module> [as <alias>]".
func (im Import) String() string {
	var b strings.Builder
	switch im.Kind {
	case ImportKindFrom:
		b.WriteString("from ")
		b.WriteString(im.Module)
		b.WriteString(" import ")
		b.WriteString(im.Name)
	default:
		b.WriteString("import ")
		b.WriteString(im.Module)
	}
	if im.AsName != "" && im.AsName != im.Name {
		b.WriteString(" as ")
		b.WriteString(im.AsName)
	}
	return b.String()
}

// EntityKind tags the three Entity variants: a function, a class, or a
// module-level binding, as a tagged sum rather than an inheritance
// hierarchy. DefaultTypePriority below fixes the default serialisation
// ordering.
type EntityKind int

const (
	KindFunction EntityKind = iota
	KindClass
	KindGlobal
)

func (k EntityKind) String() string {
	switch k {
	case KindFunction:
		return "Function"
	case KindClass:
		return "Class"
	case KindGlobal:
		return "Global"
	default:
		return "Unknown"
	}
}

// DefaultTypePriority is the ordering entities within a module are sorted
// by before qualified name: globals first, then classes, then functions.
var DefaultTypePriority = map[EntityKind]int{
	KindGlobal:   0,
	KindClass:    1,
	KindFunction: 2,
}

// Entity is the shared capability contract every variant (Function, Class,
// GlobalBinding) implements. Dispatch is on the Kind tag, never on
// embedding-based "virtual methods".
type Entity interface {
	// Name is the entity's own qualified name.
	Name() QualifiedName
	// Kind reports which tagged variant this is.
	Kind() EntityKind
	// CallEdges returns the qualified names this entity depends on.
	CallEdges() []QualifiedName
	// RestrictTo drops references not present in the given set and
	// returns the (mutated) entity, allowing fluent chaining.
	RestrictTo(known map[QualifiedName]Entity) Entity
	// DeriveNativeImports synthesises one FROM import record per
	// remaining call edge and appends it to Imports().
	DeriveNativeImports() Entity
	// Imports returns the import records this entity currently depends
	// on (initially the owning module's imports, later narrowed to native
	// calls and finally remapped to post-rewrite module names).
	Imports() []Import
	// SetImports replaces the entity's import record list.
	SetImports([]Import)
	// Tree is the opaque CST fragment to hand to the render collaborator
	// when emitting final source text. Declared as interface{} because the
	// concrete node type is owned by pkg/cst, not by this package.
	Tree() interface{}
}

// baseEntity factors the Imports/SetImports bookkeeping shared by every
// variant; it is not itself an Entity (no Name/Kind/CallEdges).
type baseEntity struct {
	imports []Import
	tree    interface{}
}

func (b *baseEntity) Imports() []Import       { return b.imports }
func (b *baseEntity) SetImports(is []Import)  { b.imports = is }
func (b *baseEntity) Tree() interface{}       { return b.tree }

func deriveImportsFor(calls []QualifiedName, existing []Import) []Import {
	seen := make(map[Import]bool, len(existing))
	out := make([]Import, 0, len(existing)+len(calls))
	for _, im := range existing {
		if !seen[im] {
			seen[im] = true
			out = append(out, im)
		}
	}
	for _, callee := range calls {
		segs := callee.Segments()
		if len(segs) < 2 {
			continue
		}
		module := strings.Join(segs[:len(segs)-1], ".")
		name := segs[len(segs)-1]
		im := Import{Module: module, Kind: ImportKindFrom, Name: name, AsName: name}
		if !seen[im] {
			seen[im] = true
			out = append(out, im)
		}
	}
	return out
}

func restrict(calls []QualifiedName, known map[QualifiedName]Entity) []QualifiedName {
	kept := make([]QualifiedName, 0, len(calls))
	for _, c := range calls {
		if _, ok := known[c]; ok {
			kept = append(kept, c)
		}
	}
	return kept
}

// Function is a top-level definition with a parse tree and a list of
// outbound calls (qualified names).
type Function struct {
	baseEntity
	QName QualifiedName
	Calls []QualifiedName
}

func NewFunction(name QualifiedName, tree interface{}, calls []QualifiedName, imports []Import) *Function {
	f := &Function{QName: name, Calls: calls}
	f.tree = tree
	f.imports = imports
	return f
}

func (f *Function) Name() QualifiedName     { return f.QName }
func (f *Function) Kind() EntityKind        { return KindFunction }
func (f *Function) CallEdges() []QualifiedName { return f.Calls }

func (f *Function) RestrictTo(known map[QualifiedName]Entity) Entity {
	f.Calls = restrict(f.Calls, known)
	return f
}

func (f *Function) DeriveNativeImports() Entity {
	f.imports = deriveImportsFor(f.Calls, f.imports)
	return f
}

// Method is a function-like entity owned by a Class; it is represented
// with the same Function type (qualified as <module>.<class>.<method>).
type Method = Function

// Class is a class definition with one Method per contained function
// definition.
type Class struct {
	baseEntity
	QName   QualifiedName
	Methods []*Method
}

func NewClass(name QualifiedName, tree interface{}, methods []*Method, imports []Import) *Class {
	c := &Class{QName: name, Methods: methods}
	c.tree = tree
	c.imports = imports
	return c
}

func (c *Class) Name() QualifiedName { return c.QName }
func (c *Class) Kind() EntityKind    { return KindClass }

func (c *Class) CallEdges() []QualifiedName {
	var all []QualifiedName
	for _, m := range c.Methods {
		all = append(all, m.Calls...)
	}
	return all
}

func (c *Class) RestrictTo(known map[QualifiedName]Entity) Entity {
	for _, m := range c.Methods {
		m.Calls = restrict(m.Calls, known)
	}
	return c
}

func (c *Class) DeriveNativeImports() Entity {
	var allCalls []QualifiedName
	for _, m := range c.Methods {
		allCalls = append(allCalls, m.Calls...)
	}
	c.imports = deriveImportsFor(allCalls, c.imports)
	return c
}

// GlobalBinding is a top-level assignment. Its "calls" are the back-edges:
// the qualified names of top-level functions that reference the binding.
type GlobalBinding struct {
	baseEntity
	QName      QualifiedName
	Referenced []QualifiedName
}

func NewGlobalBinding(name QualifiedName, tree interface{}) *GlobalBinding {
	g := &GlobalBinding{QName: name}
	g.tree = tree
	return g
}

func (g *GlobalBinding) Name() QualifiedName        { return g.QName }
func (g *GlobalBinding) Kind() EntityKind           { return KindGlobal }
func (g *GlobalBinding) CallEdges() []QualifiedName { return g.Referenced }

func (g *GlobalBinding) RestrictTo(known map[QualifiedName]Entity) Entity {
	g.Referenced = restrict(g.Referenced, known)
	return g
}

// DeriveNativeImports is a no-op for globals: a binding is referenced by
// its callers, it does not itself call out, so it synthesises no imports.
func (g *GlobalBinding) DeriveNativeImports() Entity { return g }

// Module is a parsed file: name, original tree, ordered import records,
// and the owned entity lists.
type Module struct {
	Name    QualifiedName
	Tree    interface{}
	Imports []Import
	Funcs   []*Function
	Classes []*Class
	Globals []*GlobalBinding
}
