package fsutil_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/gorevise/pkg/fsutil"
)

func FuzzWriteAtomic(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("hello"))
	f.Add([]byte("const x = eval(input);\n"))
	f.Add([]byte("\x00\x01\x02\x03"))
	f.Add(make([]byte, 1024))

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "test.txt")

		if err := fsutil.WriteAtomic(context.Background(), path, content, 0o644); err != nil {
			t.Fatalf("WriteAtomic failed: %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Errorf("round trip mismatch: wrote %d bytes, read %d", len(content), len(got))
		}
	})
}

func FuzzSnapshotRoundTrip(f *testing.F) {
	f.Add([]byte("hello"))
	f.Add([]byte("line one\nline two\n"))
	f.Add([]byte(""))
	f.Add(make([]byte, 1024))

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "test.txt")
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		ctx := context.Background()
		got, snap, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Errorf("content mismatch: wrote %d bytes, read %d", len(content), len(got))
		}
		if snap.HexHash() != fsutil.HashContent(content) {
			t.Error("snapshot hash differs from direct content hash")
		}

		modified, err := fsutil.CheckModified(ctx, snap)
		if err != nil {
			t.Fatalf("CheckModified failed: %v", err)
		}
		if modified {
			t.Error("freshly read file reported modified")
		}
	})
}
