package rewrite

import (
	"sort"
	"strings"

	"github.com/l3aro/modsplit/pkg/cst"
	"github.com/l3aro/modsplit/pkg/types"
)

// SerialiseOptions parameterises rendering. TypePriority defaults to
// Global, Class, Function (types.DefaultTypePriority) when left nil.
type SerialiseOptions struct {
	TypePriority map[types.EntityKind]int
}

func (o SerialiseOptions) priority() map[types.EntityKind]int {
	if o.TypePriority != nil {
		return o.TypePriority
	}
	return types.DefaultTypePriority
}

// Serialise renders each module's final source text. Entities are sorted
// by type priority then by qualified name ascending; the module text is
// the deduplicated, sorted import record strings (one per line) followed
// by each entity's rendered tree in that order.
func Serialise(named map[types.QualifiedName][]types.Entity, opts SerialiseOptions) map[types.QualifiedName]string {
	priority := opts.priority()
	out := make(map[types.QualifiedName]string, len(named))

	for modName, ents := range named {
		sorted := append([]types.Entity(nil), ents...)
		sort.SliceStable(sorted, func(i, j int) bool {
			pi, pj := priority[sorted[i].Kind()], priority[sorted[j].Kind()]
			if pi != pj {
				return pi < pj
			}
			return sorted[i].Name() < sorted[j].Name()
		})

		importSet := map[string]bool{}
		for _, ent := range sorted {
			for _, im := range ent.Imports() {
				importSet[im.String()] = true
			}
		}
		importLines := make([]string, 0, len(importSet))
		for line := range importSet {
			importLines = append(importLines, line)
		}
		sort.Strings(importLines)

		var b strings.Builder
		for _, line := range importLines {
			b.WriteString(line)
			b.WriteString("\n")
		}
		for _, ent := range sorted {
			b.WriteString(renderEntity(ent))
			b.WriteString("\n")
		}
		out[modName] = b.String()
	}
	return out
}

// renderEntity accepts either a live CST node (the common path) or a plain
// string (an entity restored from the parse cache, whose tree was
// pre-rendered at cache-write time since tree-sitter nodes don't survive a
// cache round trip).
func renderEntity(ent types.Entity) string {
	switch tree := ent.Tree().(type) {
	case cst.Node:
		return cst.Render(tree)
	case string:
		return tree
	default:
		return ""
	}
}
