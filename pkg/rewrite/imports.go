package rewrite

import "github.com/l3aro/modsplit/pkg/types"

// RemapImports builds entity → final_module, then for each entity's
// import records: if the record targets mod.name where mod.name is an
// in-package entity, replace mod with that entity's final module. If the
// remapped module equals the entity's own final module, drop the import
// (same-module). Otherwise keep the record verbatim.
func RemapImports(named map[types.QualifiedName][]types.Entity) map[types.QualifiedName][]types.Entity {
	entityModule := map[types.QualifiedName]types.QualifiedName{}
	for modName, ents := range named {
		for _, ent := range ents {
			entityModule[ent.Name()] = modName
		}
	}

	out := make(map[types.QualifiedName][]types.Entity, len(named))
	for modName, ents := range named {
		for _, ent := range ents {
			updated := make([]types.Import, 0, len(ent.Imports()))
			for _, im := range ent.Imports() {
				target := types.QualifiedName(im.Module + "." + im.Name)
				newMod, isInPackage := entityModule[target]
				if !isInPackage {
					updated = append(updated, im)
					continue
				}
				if newMod == modName {
					continue // same module after refactor: drop import
				}
				updated = append(updated, types.Import{
					Module: string(newMod),
					Kind:   im.Kind,
					Name:   im.Name,
					AsName: im.AsName,
				})
			}
			ent.SetImports(updated)
		}
		out[modName] = ents
	}
	return out
}
