package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yaklabco/gorevise/pkg/fsutil"
)

func writeTestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("returns content and snapshot", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "hello world")
		ctx := context.Background()

		content, snap, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}

		if string(content) != "hello world" {
			t.Errorf("content = %q, want %q", content, "hello world")
		}
		if snap.Path != path {
			t.Errorf("Path = %q, want %q", snap.Path, path)
		}
		if snap.Size != int64(len("hello world")) {
			t.Errorf("Size = %d, want %d", snap.Size, len("hello world"))
		}
		if snap.Mode != 0o644 {
			t.Errorf("Mode = %o, want %o", snap.Mode, 0o644)
		}

		var zeroHash [32]byte
		if snap.Hash == zeroHash {
			t.Error("Hash should not be zero")
		}
		if len(snap.HexHash()) != 64 {
			t.Errorf("HexHash length = %d, want 64", len(snap.HexHash()))
		}
		if snap.HexHash() != fsutil.HashContent(content) {
			t.Error("HexHash and HashContent disagree for the same bytes")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
		if !errors.Is(err, fsutil.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		if !errors.Is(err, fsutil.ErrIsDirectory) {
			t.Errorf("expected ErrIsDirectory, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := fsutil.ReadFile(ctx, "anypath")
		if err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	t.Run("untouched file", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "hello world")
		ctx := context.Background()

		_, snap, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}

		modified, err := fsutil.CheckModified(ctx, snap)
		if err != nil {
			t.Fatalf("CheckModified() error = %v", err)
		}
		if modified {
			t.Error("untouched file reported modified")
		}
	})

	t.Run("content change", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "hello world")
		ctx := context.Background()

		_, snap, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}

		if err := os.WriteFile(path, []byte("hello edited"), 0o644); err != nil {
			t.Fatalf("modify: %v", err)
		}

		modified, err := fsutil.CheckModified(ctx, snap)
		if err != nil {
			t.Fatalf("CheckModified() error = %v", err)
		}
		if !modified {
			t.Error("edited file not reported modified")
		}
	})

	t.Run("touch without content change", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "hello world")
		ctx := context.Background()

		_, snap, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}

		newTime := snap.ModTime.Add(time.Hour)
		if err := os.Chtimes(path, newTime, newTime); err != nil {
			t.Fatalf("chtimes: %v", err)
		}

		modified, err := fsutil.CheckModified(ctx, snap)
		if err != nil {
			t.Fatalf("CheckModified() error = %v", err)
		}
		if modified {
			t.Error("identical content reported modified after touch")
		}
	})

	t.Run("deleted file", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "hello world")
		ctx := context.Background()

		_, snap, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}

		if err := os.Remove(path); err != nil {
			t.Fatalf("delete: %v", err)
		}

		modified, err := fsutil.CheckModified(ctx, snap)
		if err != nil {
			t.Fatalf("CheckModified() error = %v", err)
		}
		if !modified {
			t.Error("deleted file not reported modified")
		}
	})

	t.Run("nil snapshot", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.CheckModified(context.Background(), nil)
		if !errors.Is(err, fsutil.ErrNilSnapshot) {
			t.Errorf("expected ErrNilSnapshot, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fsutil.CheckModified(ctx, &fsutil.Snapshot{Path: "anypath"})
		if err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}

func TestCheckModifiedQuick(t *testing.T) {
	t.Parallel()

	t.Run("untouched file", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "hello world")
		ctx := context.Background()

		_, snap, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}

		modified, err := fsutil.CheckModifiedQuick(ctx, snap)
		if err != nil {
			t.Fatalf("CheckModifiedQuick() error = %v", err)
		}
		if modified {
			t.Error("untouched file reported modified")
		}
	})

	t.Run("size change", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "hello world")
		ctx := context.Background()

		_, snap, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}

		if err := os.WriteFile(path, []byte("hello world plus more"), 0o644); err != nil {
			t.Fatalf("modify: %v", err)
		}

		modified, err := fsutil.CheckModifiedQuick(ctx, snap)
		if err != nil {
			t.Fatalf("CheckModifiedQuick() error = %v", err)
		}
		if !modified {
			t.Error("grown file not reported modified")
		}
	})

	t.Run("mod time change reads as modified", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "hello world")
		ctx := context.Background()

		_, snap, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}

		newTime := snap.ModTime.Add(time.Hour)
		if err := os.Chtimes(path, newTime, newTime); err != nil {
			t.Fatalf("chtimes: %v", err)
		}

		modified, err := fsutil.CheckModifiedQuick(ctx, snap)
		if err != nil {
			t.Fatalf("CheckModifiedQuick() error = %v", err)
		}
		if !modified {
			t.Error("quick check must trust the mod time")
		}
	})
}
