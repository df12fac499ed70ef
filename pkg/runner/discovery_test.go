package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/gorevise/pkg/runner"
)

// writeTree creates the given files (with trivial content) under a new
// temp dir and returns the dir.
func writeTree(t *testing.T, files ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("content\n"), 0o644); err != nil {
			t.Fatalf("setup write: %v", err)
		}
	}
	return dir
}

func relPaths(t *testing.T, dir string, files []string) []string {
	t.Helper()

	rel := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(dir, f)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel
}

func assertDiscovered(t *testing.T, dir string, opts runner.Options, expected ...string) {
	t.Helper()

	files, err := runner.Discover(context.Background(), opts)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	got := relPaths(t, dir, files)
	if len(got) != len(expected) {
		t.Fatalf("discovered %v, want %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("discovered %v, want %v", got, expected)
			return
		}
	}
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := writeTree(t,
		"main.go",
		"src/app.js",
		"src/util.py",
		"docs/readme.txt",
		"image.png",
	)

	assertDiscovered(t, dir, runner.Options{WorkingDir: dir},
		"main.go", "src/app.js", "src/util.py")
}

func TestDiscover_ExplicitFileBypassesAllowlist(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, "notes.txt")

	// Named directly, the extension allowlist does not apply.
	assertDiscovered(t, dir, runner.Options{
		Paths:      []string{"notes.txt"},
		WorkingDir: dir,
	}, "notes.txt")
}

func TestDiscover_CustomExtensions(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, "main.go", "query.sql", "notes.txt")

	assertDiscovered(t, dir, runner.Options{
		WorkingDir: dir,
		Extensions: []string{".txt"},
	}, "notes.txt")
}

func TestDiscover_SkipsHiddenDirectories(t *testing.T) {
	t.Parallel()

	dir := writeTree(t,
		"main.go",
		".git/objects/blob.go",
		".cache/tmp.go",
		"src/.hidden.go",
	)

	assertDiscovered(t, dir, runner.Options{WorkingDir: dir}, "main.go")
}

func TestDiscover_ExcludeGlobs(t *testing.T) {
	t.Parallel()

	dir := writeTree(t,
		"main.go",
		"vendor/lib/lib.go",
		"internal/gen/schema.go",
	)

	assertDiscovered(t, dir, runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"vendor/**", "internal/gen/**"},
	}, "main.go")
}

func TestDiscover_IncludeGlobs(t *testing.T) {
	t.Parallel()

	dir := writeTree(t,
		"main.go",
		"src/app.go",
		"src/deep/nested.go",
	)

	assertDiscovered(t, dir, runner.Options{
		WorkingDir:   dir,
		IncludeGlobs: []string{"src/**"},
	}, "src/app.go", "src/deep/nested.go")
}

func TestDiscover_DeduplicatesOverlappingPaths(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, "src/app.go")

	assertDiscovered(t, dir, runner.Options{
		Paths:      []string{".", "src", "src/app.go"},
		WorkingDir: dir,
	}, "src/app.go")
}

func TestDiscover_SortedOutput(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, "zebra.go", "alpha.go", "src/mid.go")

	assertDiscovered(t, dir, runner.Options{WorkingDir: dir},
		"alpha.go", "src/mid.go", "zebra.go")
}

func TestDiscover_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"no-such-path"},
		WorkingDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestDiscover_CancelledContext(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, "main.go")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: dir})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	// The link target lives outside the walked root, so its file is
	// only reachable through the link.
	root := writeTree(t, "here.go")
	outside := writeTree(t, "target.go")
	if err := os.Symlink(outside, filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	t.Run("not followed by default", func(t *testing.T) {
		t.Parallel()

		assertDiscovered(t, root, runner.Options{WorkingDir: root}, "here.go")
	})

	t.Run("followed when enabled", func(t *testing.T) {
		t.Parallel()

		files, err := runner.Discover(context.Background(), runner.Options{
			WorkingDir:     root,
			FollowSymlinks: true,
		})
		if err != nil {
			t.Fatalf("Discover() error = %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("expected both files, got %v", files)
		}
		if filepath.Base(files[0]) != "target.go" && filepath.Base(files[1]) != "target.go" {
			t.Errorf("expected target.go through the link, got %v", files)
		}
	})
}
