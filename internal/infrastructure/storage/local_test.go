package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sgea/academic-events/internal/infrastructure/config"
)

func TestLocalStore_SaveOpen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	ref, err := store.Save(context.Background(), "certificates/certificate_e1_u1.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ref != "certificates/certificate_e1_u1.txt" {
		t.Errorf("unexpected ref %q", ref)
	}

	rc, err := store.Open(context.Background(), ref)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "hello" {
		t.Errorf("expected hello, got %q", body)
	}
}

func TestLocalStore_StaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "media"))
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	ref, err := store.Save(context.Background(), "../../escape.txt", []byte("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ref != "escape.txt" {
		t.Errorf("expected cleaned ref, got %q", ref)
	}
	if _, err := os.Stat(filepath.Join(dir, "media", "escape.txt")); err != nil {
		t.Errorf("expected file inside storage dir: %v", err)
	}

	if _, err := store.Save(context.Background(), "", []byte("x")); err == nil {
		t.Errorf("expected error for empty name")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	if _, err := New(config.StorageConfig{Driver: "ftp"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
