package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStoreAndLoad(t *testing.T) {
	base := t.TempDir()
	s := NewLocalFileStorer(base)

	rel, err := s.Store("u1", "My Novel.DOCX", []byte("manuscript"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !strings.HasPrefix(rel, "manuscripts/u1/") || !strings.HasSuffix(rel, ".docx") {
		t.Errorf("relative path = %q", rel)
	}
	if _, err := os.Stat(filepath.Join(base, filepath.FromSlash(rel))); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	again, err := s.Store("u1", "copy.docx", []byte("manuscript"))
	if err != nil || again != rel {
		t.Errorf("identical content stored at %q (err %v), want %q", again, err, rel)
	}

	data, err := s.Load(rel)
	if err != nil || !bytes.Equal(data, []byte("manuscript")) {
		t.Errorf("Load = %q, %v", data, err)
	}
}

func TestStoreRejectsBadInput(t *testing.T) {
	s := NewLocalFileStorer(t.TempDir())
	if _, err := s.Store("u1", "noext", []byte("x")); err == nil {
		t.Errorf("expected error for file without extension")
	}
	if _, err := s.Store("../evil", "a.txt", []byte("x")); err == nil {
		t.Errorf("expected error for path-like owner id")
	}
	if _, err := s.Load("../../etc/passwd"); err == nil {
		t.Errorf("Load escaped the storage root")
	}
}

func TestAnonymousOwner(t *testing.T) {
	s := NewLocalFileStorer(t.TempDir())
	rel, err := s.Store("", "a.txt", []byte("x"))
	if err != nil || !strings.HasPrefix(rel, "manuscripts/anonymous/") {
		t.Errorf("Store = %q, %v", rel, err)
	}
}
