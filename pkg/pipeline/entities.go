package pipeline

import "github.com/l3aro/modsplit/pkg/types"

// ExtractEntities flattens every module into a single
// {qualified_name: Entity} map. Functions and classes inherit their
// owning module's import records: each starts out depending on every
// import its originating module had, later narrowed in FilterNative. A
// global binding's "calls" are its back-edges collected during parsing,
// and it carries no imports of its own (it never calls out).
func ExtractEntities(modules map[types.QualifiedName]*types.Module) (map[types.QualifiedName]types.Entity, error) {
	entities := make(map[types.QualifiedName]types.Entity)
	for _, mod := range modules {
		for _, fn := range mod.Funcs {
			fn.SetImports(append([]types.Import(nil), mod.Imports...))
			entities[fn.Name()] = fn
		}
		for _, cls := range mod.Classes {
			cls.SetImports(append([]types.Import(nil), mod.Imports...))
			entities[cls.Name()] = cls
		}
		for _, g := range mod.Globals {
			entities[g.Name()] = g
		}
	}
	return entities, nil
}

// FilterNative restricts every entity's call list to names present in the
// full entity set — calls into code outside the parsed tree can't be
// rewired — then synthesises one FROM import record per remaining
// callee.
func FilterNative(entities map[types.QualifiedName]types.Entity) (map[types.QualifiedName]types.Entity, error) {
	out := make(map[types.QualifiedName]types.Entity, len(entities))
	for name, ent := range entities {
		ent.RestrictTo(entities)
		ent.DeriveNativeImports()
		out[name] = ent
	}
	return out, nil
}
