package fsutil_test

import (
	"context"
	"os"
	"testing"

	"github.com/yaklabco/gorevise/pkg/fsutil"
)

func TestBackupPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mode     fsutil.BackupMode
		expected string
	}{
		{"sidecar", fsutil.BackupModeSidecar, "a.txt" + fsutil.BackupSuffix},
		{"none", fsutil.BackupModeNone, ""},
		{"unknown falls back to sidecar", fsutil.BackupMode("tarball"), "a.txt" + fsutil.BackupSuffix},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := fsutil.BackupPath("a.txt", testCase.mode); got != testCase.expected {
				t.Errorf("BackupPath() = %q, want %q", got, testCase.expected)
			}
		})
	}
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	enabled := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "original")

		created, err := fsutil.CreateBackup(context.Background(), path, fsutil.DefaultBackupConfig())
		if err != nil {
			t.Fatalf("CreateBackup() error = %v", err)
		}
		if created {
			t.Error("disabled backups must not write")
		}
		if fsutil.BackupExists(path, fsutil.BackupModeSidecar) {
			t.Error("backup file exists despite disabled config")
		}
	})

	t.Run("creates a sidecar copy", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "original")

		created, err := fsutil.CreateBackup(context.Background(), path, enabled)
		if err != nil {
			t.Fatalf("CreateBackup() error = %v", err)
		}
		if !created {
			t.Fatal("expected a backup to be created")
		}

		got, err := os.ReadFile(fsutil.BackupPath(path, fsutil.BackupModeSidecar))
		if err != nil {
			t.Fatalf("read backup: %v", err)
		}
		if string(got) != "original" {
			t.Errorf("backup content = %q, want %q", got, "original")
		}
	})

	t.Run("never overwrites an existing backup", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "original")
		ctx := context.Background()

		if _, err := fsutil.CreateBackup(ctx, path, enabled); err != nil {
			t.Fatalf("first CreateBackup: %v", err)
		}

		// The file changes, then a second apply asks for a backup.
		if err := os.WriteFile(path, []byte("revised"), 0o644); err != nil {
			t.Fatalf("modify: %v", err)
		}

		created, err := fsutil.CreateBackup(ctx, path, enabled)
		if err != nil {
			t.Fatalf("second CreateBackup: %v", err)
		}
		if created {
			t.Error("second backup request must be a no-op")
		}

		got, err := os.ReadFile(fsutil.BackupPath(path, fsutil.BackupModeSidecar))
		if err != nil {
			t.Fatalf("read backup: %v", err)
		}
		if string(got) != "original" {
			t.Errorf("backup lost the original content: %q", got)
		}
	})

	t.Run("missing original", func(t *testing.T) {
		t.Parallel()

		created, err := fsutil.CreateBackup(context.Background(), "/nonexistent/file.txt", enabled)
		if err != nil {
			t.Fatalf("CreateBackup() error = %v", err)
		}
		if created {
			t.Error("nothing to back up, nothing should be created")
		}
	})
}

func TestRestoreBackup(t *testing.T) {
	t.Parallel()

	t.Run("restores the backed up content", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "original")
		ctx := context.Background()

		cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}
		if _, err := fsutil.CreateBackup(ctx, path, cfg); err != nil {
			t.Fatalf("CreateBackup: %v", err)
		}
		if err := os.WriteFile(path, []byte("broken revision"), 0o644); err != nil {
			t.Fatalf("modify: %v", err)
		}

		restored, err := fsutil.RestoreBackup(ctx, path, fsutil.BackupModeSidecar)
		if err != nil {
			t.Fatalf("RestoreBackup() error = %v", err)
		}
		if !restored {
			t.Fatal("expected a restore")
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if string(got) != "original" {
			t.Errorf("content = %q, want %q", got, "original")
		}
	})

	t.Run("no backup", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "original")

		restored, err := fsutil.RestoreBackup(context.Background(), path, fsutil.BackupModeSidecar)
		if err != nil {
			t.Fatalf("RestoreBackup() error = %v", err)
		}
		if restored {
			t.Error("nothing to restore from")
		}
	})
}

func TestRemoveBackup(t *testing.T) {
	t.Parallel()

	t.Run("removes an existing backup", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "original")
		ctx := context.Background()

		cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}
		if _, err := fsutil.CreateBackup(ctx, path, cfg); err != nil {
			t.Fatalf("CreateBackup: %v", err)
		}

		removed, err := fsutil.RemoveBackup(path, fsutil.BackupModeSidecar)
		if err != nil {
			t.Fatalf("RemoveBackup() error = %v", err)
		}
		if !removed {
			t.Error("expected the backup to be removed")
		}
		if fsutil.BackupExists(path, fsutil.BackupModeSidecar) {
			t.Error("backup still exists after removal")
		}
	})

	t.Run("no backup", func(t *testing.T) {
		t.Parallel()

		path := writeTestFile(t, "original")

		removed, err := fsutil.RemoveBackup(path, fsutil.BackupModeSidecar)
		if err != nil {
			t.Fatalf("RemoveBackup() error = %v", err)
		}
		if removed {
			t.Error("nothing to remove")
		}
	})
}
