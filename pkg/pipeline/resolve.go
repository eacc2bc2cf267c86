package pipeline

import (
	"strings"

	"github.com/l3aro/modsplit/pkg/types"
)

// Resolve canonicalises, for each module independently, every raw call
// string into a dotted name that (when possible) refers to another
// in-package entity. The policy is deliberately lexical: it does not
// track scope, shadowing, or rebinding, only textual substitution against
// the module's own imports and locally-defined names.
//
// Modules are deep-copied on entry since resolution mutates each entity's
// call list in place and callers must not see stale or partially-updated
// state from a prior stage.
func Resolve(modules map[types.QualifiedName]*types.Module) (map[types.QualifiedName]*types.Module, error) {
	out := make(map[types.QualifiedName]*types.Module, len(modules))
	for name, mod := range modules {
		out[name] = resolveModule(mod)
	}
	return out, nil
}

func resolveModule(mod *types.Module) *types.Module {
	copied := &types.Module{
		Name:    mod.Name,
		Tree:    mod.Tree,
		Imports: append([]types.Import(nil), mod.Imports...),
	}

	importMap := buildImportMap(copied.Imports)
	entityMap := buildEntityMap(mod)

	for _, fn := range mod.Funcs {
		nf := types.NewFunction(fn.QName, fn.Tree(), resolveCalls(fn.Calls, importMap, entityMap), fn.Imports())
		copied.Funcs = append(copied.Funcs, nf)
	}
	for _, cls := range mod.Classes {
		var methods []*types.Method
		for _, m := range cls.Methods {
			methods = append(methods, types.NewFunction(m.QName, m.Tree(), resolveCalls(m.Calls, importMap, entityMap), m.Imports()))
		}
		copied.Classes = append(copied.Classes, types.NewClass(cls.QName, cls.Tree(), methods, cls.Imports()))
	}
	for _, g := range mod.Globals {
		ng := types.NewGlobalBinding(g.QName, g.Tree())
		ng.Referenced = append([]types.QualifiedName(nil), g.Referenced...)
		copied.Globals = append(copied.Globals, ng)
	}
	return copied
}

// buildImportMap builds an alias lookup: for each import record
// (M, _, N, A), maps A → M.N if M ≠ N, else A → M.
func buildImportMap(imports []types.Import) map[string]string {
	m := make(map[string]string, len(imports))
	for _, im := range imports {
		if im.Module != im.Name {
			m[im.AsName] = im.Module + "." + im.Name
		} else {
			m[im.AsName] = im.Module
		}
	}
	return m
}

// buildEntityMap maps the leaf name of every locally-defined
// function/class to its qualified name.
func buildEntityMap(mod *types.Module) map[string]string {
	m := make(map[string]string, len(mod.Funcs)+len(mod.Classes))
	for _, fn := range mod.Funcs {
		m[fn.Name().Leaf()] = string(fn.Name())
	}
	for _, cls := range mod.Classes {
		m[cls.Name().Leaf()] = string(cls.Name())
	}
	return m
}

func resolveCalls(calls []types.QualifiedName, importMap, entityMap map[string]string) []types.QualifiedName {
	out := make([]types.QualifiedName, len(calls))
	for i, c := range calls {
		out[i] = types.QualifiedName(resolveOne(string(c), importMap, entityMap))
	}
	return out
}

// resolveOne applies a two-step substitution:
//  1. If the import map contains the *last* dot-segment of c, prepend the
//     mapped module prefix (minus its trailing leaf if equal) and keep
//     the remainder of c.
//  2. Else if the entity map contains the first segment of c, replace
//     that first segment with the mapped qualified name, keeping the
//     remainder. (A historical implementation of this algorithm discards
//     the remainder in this branch; that looks like an oversight rather
//     than intended behavior, so the remainder is kept here.)
//  3. Else leave c unchanged.
func resolveOne(c string, importMap, entityMap map[string]string) string {
	segs := strings.Split(c, ".")
	last := segs[len(segs)-1]

	if mapped, ok := importMap[last]; ok {
		mappedSegs := strings.Split(mapped, ".")
		mappedLeaf := mappedSegs[len(mappedSegs)-1]
		if mappedLeaf != c {
			commonRemoved := strings.Join(mappedSegs[:len(mappedSegs)-1], ".")
			return strings.Trim(commonRemoved+"."+c, ".")
		}
		return mapped
	}

	first := segs[0]
	if mapped, ok := entityMap[first]; ok {
		if len(segs) == 1 {
			return mapped
		}
		return mapped + "." + strings.Join(segs[1:], ".")
	}

	return c
}
