package rewrite

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/l3aro/modsplit/pkg/types"
)

// SourceSuffix and PackageMarker are the input language's file suffix and
// package-root marker filename; overridable the same way
// pipeline.SourceSuffix is.
var (
	SourceSuffix = ".py"
	PackageMarker = "__init__"
)

// AssignFilepaths maps each module name a.b.c to
// <dst_root_parent>/a/b/c<suffix> — dots become the path separator. Using
// the parent of dst_root (rather than dst_root itself) as the base is a
// quirk carried over unchanged from a historical implementation of this
// layout rule; callers pass dst_root as the directory they want the
// output package to land in, one level below this base.
func AssignFilepaths(serialised map[types.QualifiedName]string, dstRoot string) map[string]string {
	base := filepath.Dir(dstRoot)
	out := make(map[string]string, len(serialised))
	for name, src := range serialised {
		rel := strings.ReplaceAll(string(name), ".", "/") + SourceSuffix
		out[filepath.ToSlash(filepath.Join(base, rel))] = src
	}
	return out
}

// InsertPackageMarkers ensures every directory that received an emitted
// file also has a package marker: for every emitted filepath d/x.ext, if
// no entry at d/__init__.ext exists in the emit set, an empty one is
// added.
func InsertPackageMarkers(files map[string]string) map[string]string {
	out := make(map[string]string, len(files))
	for p, src := range files {
		out[p] = src
	}

	dirs := map[string]bool{}
	for p := range files {
		dirs[path.Dir(p)] = true
	}

	for d := range dirs {
		marker := path.Join(d, PackageMarker+SourceSuffix)
		if _, exists := out[marker]; !exists {
			out[marker] = ""
		}
	}

	return out
}
