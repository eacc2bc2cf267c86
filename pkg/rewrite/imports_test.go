package rewrite

import (
	"testing"

	"github.com/l3aro/modsplit/pkg/types"
)

func TestRemapImportsPointsAtFinalModule(t *testing.T) {
	callee := types.NewFunction("oldpkg.helpers.util", "tree", nil, nil)
	caller := types.NewFunction("oldpkg.main.entry", "tree", nil, []types.Import{
		{Module: "oldpkg.helpers", Kind: types.ImportKindFrom, Name: "util", AsName: "util"},
	})

	named := map[types.QualifiedName][]types.Entity{
		"newpkg.utils": {callee},
		"newpkg.main":  {caller},
	}

	out := RemapImports(named)
	imports := out["newpkg.main"][0].Imports()
	if len(imports) != 1 {
		t.Fatalf("imports = %v, want 1 remapped record", imports)
	}
	if imports[0].Module != "newpkg.utils" {
		t.Errorf("import module = %q, want newpkg.utils", imports[0].Module)
	}
}

func TestRemapImportsDropsSameModule(t *testing.T) {
	callee := types.NewFunction("oldpkg.helpers.util", "tree", nil, nil)
	caller := types.NewFunction("oldpkg.helpers.entry", "tree", nil, []types.Import{
		{Module: "oldpkg.helpers", Kind: types.ImportKindFrom, Name: "util", AsName: "util"},
	})

	named := map[types.QualifiedName][]types.Entity{
		"newpkg.shared": {callee, caller},
	}

	out := RemapImports(named)
	imports := out["newpkg.shared"][1].Imports()
	if len(imports) != 0 {
		t.Fatalf("imports = %v, want the same-module import dropped", imports)
	}
}

func TestRemapImportsKeepsExternalImports(t *testing.T) {
	caller := types.NewFunction("oldpkg.main.entry", "tree", nil, []types.Import{
		{Module: "os", Kind: types.ImportKindImport, Name: "os", AsName: "os"},
	})
	named := map[types.QualifiedName][]types.Entity{
		"newpkg.main": {caller},
	}

	out := RemapImports(named)
	imports := out["newpkg.main"][0].Imports()
	if len(imports) != 1 || imports[0].Module != "os" {
		t.Fatalf("external import should be left untouched, got %v", imports)
	}
}
