package fsx_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/saveslot/saveslot/pkg/fsx"
)

func Test_Real_WriteFileAtomic_Persists_Content_When_Invoked(t *testing.T) {
	t.Parallel()

	fsys := fsx.NewReal()
	path := filepath.Join(t.TempDir(), "data.save")

	if err := fsys.WriteFileAtomic(path, []byte("content"), 0o600); err != nil {
		t.Fatal(err)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "content" {
		t.Fatalf("content = %q, want %q", data, "content")
	}

	info, err := fsys.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if info.Mode().Perm() != 0o600 {
		t.Fatalf("perm = %v, want 0600", info.Mode().Perm())
	}
}

func Test_Real_WriteFileAtomic_Replaces_Existing_File_When_Invoked(t *testing.T) {
	t.Parallel()

	fsys := fsx.NewReal()
	path := filepath.Join(t.TempDir(), "data.save")

	if err := fsys.WriteFileAtomic(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := fsys.WriteFileAtomic(path, []byte("new"), 0o600); err != nil {
		t.Fatal(err)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "new" {
		t.Fatalf("content = %q, want %q", data, "new")
	}

	// No temp files left behind.
	entries, err := fsys.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 {
		t.Fatalf("leftover entries: %d, want 1", len(entries))
	}
}

func Test_Real_Exists_Distinguishes_Presence_When_Checked(t *testing.T) {
	t.Parallel()

	fsys := fsx.NewReal()
	dir := t.TempDir()
	path := filepath.Join(dir, "file")

	ok, err := fsys.Exists(path)
	if err != nil {
		t.Fatal(err)
	}

	if ok {
		t.Fatal("missing file reported as existing")
	}

	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	ok, err = fsys.Exists(path)
	if err != nil {
		t.Fatal(err)
	}

	if !ok {
		t.Fatal("existing file reported as missing")
	}
}
