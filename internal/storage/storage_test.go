package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeDataURL(t *testing.T) {
	raw := []byte("fake-jpeg")
	url := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)

	mimeType, data, err := DecodeDataURL(url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mimeType != "image/jpeg" || string(data) != "fake-jpeg" {
		t.Fatalf("got %q %q", mimeType, data)
	}

	if _, _, err := DecodeDataURL("https://cdn.example.com/a.jpg"); err != ErrNotDataURL {
		t.Fatalf("expected ErrNotDataURL, got %v", err)
	}
	if _, _, err := DecodeDataURL("data:text/plain,hello"); err != ErrNotDataURL {
		t.Fatalf("expected ErrNotDataURL for non-base64, got %v", err)
	}
}

func TestPutImageRef_UploadsDataURL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir, "/uploads")
	if err != nil {
		t.Fatal(err)
	}

	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png"))
	url, err := PutImageRef(context.Background(), store, "inspections/abc", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/inspections/abc/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url %q", url)
	}

	onDisk := filepath.Join(dir, strings.TrimPrefix(url, "/uploads/"))
	got, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "png" {
		t.Fatalf("stored %q", got)
	}
}

func TestPutImageRef_KeepsHostedURL(t *testing.T) {
	store, _ := NewFSStore(t.TempDir(), "/uploads")
	url, err := PutImageRef(context.Background(), store, "menu", "https://cdn.example.com/a.jpg")
	if err != nil || url != "https://cdn.example.com/a.jpg" {
		t.Fatalf("got %q, %v", url, err)
	}
}

func TestPutImageRef_RejectsNonImage(t *testing.T) {
	store, _ := NewFSStore(t.TempDir(), "/uploads")
	ref := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("%PDF"))
	if _, err := PutImageRef(context.Background(), store, "menu", ref); err == nil {
		t.Fatal("expected error for pdf")
	}
}

func TestFSStore_KeyCannotEscapeBase(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFSStore(dir, "/uploads")
	url, err := store.Put(context.Background(), "../../etc/passwd", strings.NewReader("x"), "")
	if err != nil {
		t.Fatal(err)
	}
	if url != "/uploads/etc/passwd" {
		t.Fatalf("got %q", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "etc", "passwd")); err != nil {
		t.Fatalf("file not under base: %v", err)
	}
}
