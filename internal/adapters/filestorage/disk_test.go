package filestorage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalog-service/internal/core/domain"
)

func newTestStorage(t *testing.T) *DiskStorage {
	t.Helper()
	storage, err := NewDiskStorage(Config{RootDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return storage
}

func TestDiskStorageSave(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	t.Run("writes file and returns public url", func(t *testing.T) {
		url, err := storage.Save(ctx, domain.UploadFile{Name: "photo.JPG", Content: []byte("bytes")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(url, "/uploads/properties/") || !strings.HasSuffix(url, ".jpg") {
			t.Errorf("url = %q", url)
		}

		onDisk := filepath.Join(storage.rootDir, filepath.Base(url))
		content, err := os.ReadFile(onDisk)
		if err != nil {
			t.Fatalf("file not written: %v", err)
		}
		if string(content) != "bytes" {
			t.Errorf("content = %q", content)
		}
		// Имя клиента не попадает в путь
		if strings.Contains(url, "photo") {
			t.Errorf("client file name leaked into url %q", url)
		}
	})

	t.Run("rejects unsupported extension", func(t *testing.T) {
		_, err := storage.Save(ctx, domain.UploadFile{Name: "script.exe"})
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("err = %v, want a validation error", err)
		}
	})
}

func TestDiskStorageRemove(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	url, err := storage.Save(ctx, domain.UploadFile{Name: "a.png", Content: []byte("x")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := storage.Remove(ctx, url); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(storage.rootDir, filepath.Base(url))); !os.IsNotExist(err) {
		t.Error("file still on disk after remove")
	}

	t.Run("missing file is not an error", func(t *testing.T) {
		if err := storage.Remove(ctx, "/uploads/properties/gone.jpg"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("malformed url rejected", func(t *testing.T) {
		if err := storage.Remove(ctx, "/"); err == nil {
			t.Error("expected an error")
		}
	})
}
