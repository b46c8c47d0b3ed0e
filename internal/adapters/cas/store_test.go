package cas_test

import (
	"os"
	"path/filepath"
	"testing"

	"go.kiln.dev/kiln/internal/adapters/cas"
	"go.kiln.dev/kiln/internal/core/domain"
)

func TestStore_WriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compile", "meta.json")
	store := cas.NewStore()

	rec := domain.CachedRecord{Value: []byte(`"hi"`), ValueHash: 1, InputsHash: 2}
	if err := store.Write(path, rec); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := store.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got == nil {
		t.Fatal("Read returned nil")
	}
	if got.InputsHash != rec.InputsHash || got.ValueHash != rec.ValueHash {
		t.Fatalf("expected %+v, got %+v", rec, *got)
	}
}

func TestStore_ReadMissingIsNilNil(t *testing.T) {
	store := cas.NewStore()
	got, err := store.Read(filepath.Join(t.TempDir(), "meta.json"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Fatal("expected nil record for a missing file")
	}
}

func TestStore_ReadCorruptIsNilNil(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	store := cas.NewStore()
	got, err := store.Read(path)
	if err != nil {
		t.Fatalf("expected no error for corrupt record, got %v", err)
	}
	if got != nil {
		t.Fatal("expected nil record for a corrupt file")
	}
}

func TestStore_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	store := cas.NewStore()
	if err := store.Write(path, domain.CachedRecord{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := store.Delete(path); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected file to be removed")
	}
}
