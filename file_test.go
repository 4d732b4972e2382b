package dds

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := fillLevels(t, NewBuilder(16, 16, FormatBC3).Mipmaps(5))

	path := filepath.Join(dir, "test.dds")
	if err := WriteFile(path, s); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Fatalf("file round-trip mismatch")
	}

	eddsPath := filepath.Join(dir, "test.edds")
	if err := WriteEDDSFile(eddsPath, s, true); err != nil {
		t.Fatalf("WriteEDDSFile: %v", err)
	}
	got, err = ReadEDDSFile(eddsPath)
	if err != nil {
		t.Fatalf("ReadEDDSFile: %v", err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Fatalf("EDDS file round-trip mismatch")
	}
}

func TestReadFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if _, err := ReadFile(filepath.Join(dir, "missing.dds")); !errors.Is(err, ErrOpenFile) {
		t.Fatalf("expected ErrOpenFile, got %v", err)
	}

	garbage := filepath.Join(dir, "garbage.dds")
	if err := os.WriteFile(garbage, []byte("not a texture"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := ReadFile(garbage); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}

	if err := WriteFile(filepath.Join(dir, "nope", "out.dds"), fillLevels(t, NewBuilder(1, 1, FormatA8))); !errors.Is(err, ErrCreateFile) {
		t.Fatalf("expected ErrCreateFile, got %v", err)
	}
	if err := WriteFile(filepath.Join(dir, "nil.dds"), nil); !errors.Is(err, ErrNilSurface) {
		t.Fatalf("expected ErrNilSurface, got %v", err)
	}
}
