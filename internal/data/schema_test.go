package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
)

func TestWriteSchemas(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "customer.parquet")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := parquet.NewGenericWriter[Customer](f)
	if _, err := w.Write([]Customer{{CustKey: 1, Name: "alice"}}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	var buf strings.Builder
	if err := WriteSchemas(&buf, map[string]string{"customer": path}); err != nil {
		t.Fatalf("WriteSchemas: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Table: customer") {
		t.Errorf("missing table header:\n%s", out)
	}
	if !strings.Contains(out, "c_custkey") {
		t.Errorf("missing column name:\n%s", out)
	}
}

func TestWriteSchemasMissingFile(t *testing.T) {
	err := WriteSchemas(&strings.Builder{}, map[string]string{"trip": "/nope/trip.parquet"})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
