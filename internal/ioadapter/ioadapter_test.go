package ioadapter

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanFiltersBySourceSuffix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\n")
	writeFile(t, dir, "b.txt", "not python\n")
	writeFile(t, dir, "pkg/c.py", "y = 2\n")

	files, err := ScanWithOptions(dir, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %+v", len(files), files)
	}
}

func TestScanRespectsIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\n")
	writeFile(t, dir, "legacy/b.py", "y = 2\n")
	writeFile(t, dir, ".modsplitignore", "legacy/\n")

	files, err := ScanWithOptions(dir, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Path != "a.py" {
		t.Fatalf("got %+v, want only a.py", files)
	}
}

func TestReadSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\n")

	sources, err := ReadSources(dir, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	full := filepath.Join(dir, "a.py")
	if sources[full] != "x = 1\n" {
		t.Fatalf("got %q", sources[full])
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "out.py")

	if err := WriteFiles(map[string]string{target: "z = 3\n"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "z = 3\n" {
		t.Fatalf("got %q", data)
	}
}

func TestRunFormatterNoop(t *testing.T) {
	if err := RunFormatter(nil, t.TempDir()); err != nil {
		t.Fatalf("expected nil error for empty formatter, got %v", err)
	}
}

func TestIgnorePatternMatch(t *testing.T) {
	p := ParseIgnorePattern("__pycache__/")
	if !p.Match("__pycache__/mod.pyc") {
		t.Fatal("expected directory pattern to match nested path")
	}
	if p.Match("src/mod.py") {
		t.Fatal("expected unrelated path not to match")
	}
}
