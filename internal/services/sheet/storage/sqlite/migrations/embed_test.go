package migrations

import (
	"io/fs"
	"testing"
)

func TestProjectionsFSContainsMigrations(t *testing.T) {
	entries, err := fs.ReadDir(ProjectionsFS, "projections")
	if err != nil {
		t.Fatalf("read projections: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one projection migration")
	}
}
