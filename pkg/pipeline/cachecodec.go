package pipeline

import (
	"strings"

	"github.com/l3aro/modsplit/pkg/cache"
	"github.com/l3aro/modsplit/pkg/cst"
	"github.com/l3aro/modsplit/pkg/types"
)

// Import records round-trip through the cache as a four-field string
// joined by the ASCII unit separator (\x1f) rather than through Import.String()'s human-readable rendering,
// since that form is lossy for "import X as X" (no alias is printed) and
// isn't meant to be parsed back.
func encodeImport(im types.Import) string {
	return strings.Join([]string{
		string(rune('0' + im.Kind)),
		im.Module,
		im.Name,
		im.AsName,
	}, "\x1f")
}

func decodeImport(s string) (types.Import, bool) {
	parts := strings.Split(s, "\x1f")
	if len(parts) != 4 {
		return types.Import{}, false
	}
	kind := types.ImportKindImport
	if parts[0] == "1" {
		kind = types.ImportKindFrom
	}
	return types.Import{Module: parts[1], Kind: kind, Name: parts[2], AsName: parts[3]}, true
}

// renderTreeText renders whatever an entity's Tree() currently holds down
// to plain text, for writing into the cache. At parse time this is always
// a live cst.Node; the string branch exists so re-caching an
// already-cache-restored entity (a cache warmed from an older cache file)
// is also safe.
func renderTreeText(tree interface{}) string {
	switch t := tree.(type) {
	case cst.Node:
		return cst.Render(t)
	case string:
		return t
	default:
		return ""
	}
}

// toCachedModule converts a freshly parsed module into its cacheable form,
// pre-rendering every entity's tree to text since the CST node it
// currently holds cannot survive a cache round trip.
func toCachedModule(mod *types.Module) cache.CachedModule {
	cm := cache.CachedModule{Name: string(mod.Name)}
	for _, im := range mod.Imports {
		cm.Imports = append(cm.Imports, encodeImport(im))
	}
	for _, fn := range mod.Funcs {
		cm.Entities = append(cm.Entities, cache.CachedEntity{
			QualifiedName: string(fn.Name()),
			Kind:          int(types.KindFunction),
			Text:          renderTreeText(fn.Tree()),
			Calls:         qnamesToStrings(fn.Calls),
		})
	}
	for _, cls := range mod.Classes {
		ce := cache.CachedEntity{
			QualifiedName: string(cls.Name()),
			Kind:          int(types.KindClass),
			Text:          renderTreeText(cls.Tree()),
		}
		for _, m := range cls.Methods {
			ce.Methods = append(ce.Methods, cache.CachedMethod{
				QualifiedName: string(m.Name()),
				Calls:         qnamesToStrings(m.Calls),
			})
		}
		cm.Entities = append(cm.Entities, ce)
	}
	for _, g := range mod.Globals {
		cm.Entities = append(cm.Entities, cache.CachedEntity{
			QualifiedName: string(g.Name()),
			Kind:          int(types.KindGlobal),
			Text:          renderTreeText(g.Tree()),
			Calls:         qnamesToStrings(g.Referenced),
		})
	}
	return cm
}

func qnamesToStrings(qs []types.QualifiedName) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = string(q)
	}
	return out
}

func stringsToQNames(ss []string) []types.QualifiedName {
	out := make([]types.QualifiedName, len(ss))
	for i, s := range ss {
		out[i] = types.QualifiedName(s)
	}
	return out
}

// fromCachedModule reconstructs a Module from its cached form. Every
// entity's Tree() is set to a plain string (the pre-rendered text), which
// pkg/rewrite's serialiser already knows how to pass through unchanged.
func fromCachedModule(cm cache.CachedModule) *types.Module {
	mod := &types.Module{Name: types.QualifiedName(cm.Name)}
	for _, s := range cm.Imports {
		if im, ok := decodeImport(s); ok {
			mod.Imports = append(mod.Imports, im)
		}
	}
	for _, ce := range cm.Entities {
		switch types.EntityKind(ce.Kind) {
		case types.KindFunction:
			mod.Funcs = append(mod.Funcs, types.NewFunction(
				types.QualifiedName(ce.QualifiedName), ce.Text, stringsToQNames(ce.Calls), nil))
		case types.KindClass:
			var methods []*types.Method
			for _, m := range ce.Methods {
				methods = append(methods, types.NewFunction(
					types.QualifiedName(m.QualifiedName), "", stringsToQNames(m.Calls), nil))
			}
			mod.Classes = append(mod.Classes, types.NewClass(
				types.QualifiedName(ce.QualifiedName), ce.Text, methods, nil))
		case types.KindGlobal:
			g := types.NewGlobalBinding(types.QualifiedName(ce.QualifiedName), ce.Text)
			g.Referenced = stringsToQNames(ce.Calls)
			mod.Globals = append(mod.Globals, g)
		}
	}
	return mod
}
