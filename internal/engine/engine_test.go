package engine

import (
	"context"
	"testing"
)

func TestNames(t *testing.T) {
	names := Names()
	want := []string{"duckdb", "geoframe", "lazygeo", "postgis"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d engines, got %v", len(want), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("Expected %s at position %d, got %s", name, i, names[i])
		}
	}
}

func TestNewKnownEngines(t *testing.T) {
	for _, name := range Names() {
		eng, err := New(name)
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		if eng.Name() != name {
			t.Errorf("Expected name %s, got %s", name, eng.Name())
		}
	}
}

func TestNewUnknownEngine(t *testing.T) {
	if _, err := New("sedonadb"); err == nil {
		t.Error("Expected error for unregistered engine")
	}
}

func TestPostgisRequiresDSN(t *testing.T) {
	eng, _ := New("postgis")
	if err := eng.Setup(context.Background(), Options{}); err == nil {
		t.Error("Expected setup error without a DSN")
	}
}
