package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverDirectoryFormat(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "trip", "part-0.parquet"))
	touch(t, filepath.Join(dir, "trip", "part-1.parquet"))
	touch(t, filepath.Join(dir, "zone", "part-0.parquet"))

	paths, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}

	if paths["trip"] != filepath.Join(dir, "trip") {
		t.Errorf("Expected trip directory, got %s", paths["trip"])
	}
	if _, ok := paths["building"]; ok {
		t.Error("Expected no entry for missing table")
	}
}

func TestDiscoverSingleFileFormat(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "trip.parquet"))
	touch(t, filepath.Join(dir, "zone_1.parquet"))

	paths, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}

	if paths["trip"] != filepath.Join(dir, "trip.parquet") {
		t.Errorf("Expected single file, got %s", paths["trip"])
	}
	// zone_1.parquet is only reachable through the glob fallback.
	if paths["zone"] != filepath.Join(dir, "zone_1.parquet") {
		t.Errorf("Expected glob fallback, got %s", paths["zone"])
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for missing data directory")
	}
}

func TestFilesSortsFragments(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "part-1.parquet"))
	touch(t, filepath.Join(dir, "part-0.parquet"))

	files, err := Files(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "part-0.parquet" {
		t.Errorf("Expected sorted fragments, got %v", files)
	}
}

func TestGlobPattern(t *testing.T) {
	dir := t.TempDir()
	if got := GlobPattern(dir); got != filepath.Join(dir, "*.parquet") {
		t.Errorf("Expected directory glob, got %s", got)
	}

	file := filepath.Join(dir, "trip.parquet")
	touch(t, file)
	if got := GlobPattern(file); got != file {
		t.Errorf("Expected file unchanged, got %s", got)
	}
}

func TestReadAllConcatenatesFragments(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "customer")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	writePart := func(name string, rows []Customer) {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		w := parquet.NewGenericWriter[Customer](f)
		if _, err := w.Write(rows); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}

	writePart("part-0.parquet", []Customer{{CustKey: 1, Name: "Customer#1"}})
	writePart("part-1.parquet", []Customer{{CustKey: 2, Name: "Customer#2"}, {CustKey: 3, Name: "Customer#3"}})

	rows, err := ReadAll[Customer](dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0].CustKey != 1 || rows[2].Name != "Customer#3" {
		t.Errorf("Unexpected rows: %+v", rows)
	}
}
