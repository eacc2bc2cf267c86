package pipeline

import (
	"testing"

	"github.com/l3aro/modsplit/pkg/types"
)

func TestExtractEntitiesFlattensModules(t *testing.T) {
	fn := types.NewFunction("mod.f", "tree", nil, nil)
	cls := types.NewClass("mod.C", "tree", nil, nil)
	g := types.NewGlobalBinding("mod.G", "tree")
	mod := &types.Module{
		Name:    "mod",
		Imports: []types.Import{{Module: "os", Kind: types.ImportKindImport, Name: "os", AsName: "os"}},
		Funcs:   []*types.Function{fn},
		Classes: []*types.Class{cls},
		Globals: []*types.GlobalBinding{g},
	}

	entities, err := ExtractEntities(map[types.QualifiedName]*types.Module{"mod": mod})
	if err != nil {
		t.Fatalf("ExtractEntities() error = %v", err)
	}
	if len(entities) != 3 {
		t.Fatalf("entities = %v, want 3", entities)
	}
	if len(entities["mod.f"].Imports()) != 1 {
		t.Errorf("function should inherit the owning module's imports, got %v", entities["mod.f"].Imports())
	}
	if len(entities["mod.G"].Imports()) != 0 {
		t.Errorf("a global binding should carry no imports of its own, got %v", entities["mod.G"].Imports())
	}
}

func TestFilterNativeRestrictsAndDerivesImports(t *testing.T) {
	known := types.NewFunction("mod.known", "tree", nil, nil)
	caller := types.NewFunction("mod.caller", "tree",
		[]types.QualifiedName{"mod.known", "mod.unknown"}, nil)

	entities := map[types.QualifiedName]types.Entity{
		"mod.known":  known,
		"mod.caller": caller,
	}

	out, err := FilterNative(entities)
	if err != nil {
		t.Fatalf("FilterNative() error = %v", err)
	}

	callerOut := out["mod.caller"]
	if len(callerOut.CallEdges()) != 1 || callerOut.CallEdges()[0] != "mod.known" {
		t.Fatalf("CallEdges() = %v, want [mod.known] (unknown call filtered out)", callerOut.CallEdges())
	}
	if len(callerOut.Imports()) != 1 {
		t.Fatalf("Imports() = %v, want one derived FROM import for the surviving call", callerOut.Imports())
	}
}
