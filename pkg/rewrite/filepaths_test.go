package rewrite

import (
	"path/filepath"
	"testing"

	"github.com/l3aro/modsplit/pkg/types"
)

func TestAssignFilepaths(t *testing.T) {
	serialised := map[types.QualifiedName]string{
		"a.b.c": "source text",
	}
	out := AssignFilepaths(serialised, "/dst/out")

	want := filepath.ToSlash(filepath.Join("/dst", "a/b/c.py"))
	src, ok := out[want]
	if !ok {
		t.Fatalf("AssignFilepaths() = %v, want a key %q", out, want)
	}
	if src != "source text" {
		t.Errorf("file content = %q, want %q", src, "source text")
	}
}

func TestAssignFilepathsCustomSuffix(t *testing.T) {
	old := SourceSuffix
	SourceSuffix = ".pyi"
	defer func() { SourceSuffix = old }()

	out := AssignFilepaths(map[types.QualifiedName]string{"m": ""}, "/dst/out")
	want := filepath.ToSlash(filepath.Join("/dst", "m.pyi"))
	if _, ok := out[want]; !ok {
		t.Fatalf("AssignFilepaths() = %v, want key %q honoring the overridden suffix", out, want)
	}
}

func TestInsertPackageMarkersAddsMissingInit(t *testing.T) {
	files := map[string]string{
		"/dst/a/b/c.py": "x = 1",
	}
	out := InsertPackageMarkers(files)

	if _, ok := out["/dst/a/b/c.py"]; !ok {
		t.Fatalf("original file missing from output: %v", out)
	}
	marker := filepath.ToSlash(filepath.Join("/dst/a/b", PackageMarker+SourceSuffix))
	if content, ok := out[marker]; !ok || content != "" {
		t.Fatalf("expected an empty package marker at %q, got %v", marker, out)
	}
}

func TestInsertPackageMarkersSkipsExisting(t *testing.T) {
	marker := filepath.ToSlash(filepath.Join("/dst/a", PackageMarker+SourceSuffix))
	files := map[string]string{
		"/dst/a/c.py": "x = 1",
		marker:        "# already here",
	}
	out := InsertPackageMarkers(files)
	if out[marker] != "# already here" {
		t.Errorf("an existing marker should not be overwritten, got %q", out[marker])
	}
}
