// Package fsutil provides the file system safety primitives behind
// applying review proposals: atomic writes, snapshot-based staleness
// detection, and sidecar backups.
package fsutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"
)

// Sentinel errors for categorization via errors.Is.
var (
	// ErrNilSnapshot is returned when a nil Snapshot is passed.
	ErrNilSnapshot = errors.New("nil snapshot")

	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// Snapshot records the observable state of a file at one point in
// time, typically the moment it was read for review. Apply compares a
// stored snapshot against the file on disk to catch edits that
// happened in between.
type Snapshot struct {
	// Path is the path the snapshot was taken from.
	Path string

	// Mode is the file's permission and mode bits.
	Mode os.FileMode

	// ModTime is the file's modification time.
	ModTime time.Time

	// Size is the file size in bytes.
	Size int64

	// Hash is the SHA-256 of the file content.
	Hash [32]byte
}

// HexHash returns the content hash as a lowercase hex string, the form
// the session store persists.
func (s *Snapshot) HexHash() string {
	return hex.EncodeToString(s.Hash[:])
}

// HashContent returns the hex SHA-256 of content. Matches HexHash for
// the same bytes.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// ReadFile reads a file and returns its content together with a
// snapshot for later staleness checks.
func ReadFile(ctx context.Context, path string) ([]byte, *Snapshot, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
		}
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
		}
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	snap := &Snapshot{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}
	return content, snap, nil
}

// CheckModified reports whether the file content changed since the
// snapshot was taken. Deletion counts as a modification.
//
// Two tiers: a cheap mod-time and size comparison first, and a content
// re-hash only when that trips. A save that restored the original
// bytes is therefore not a modification; the hash is the truth, the
// stat fields just decide whether re-reading is worth it.
func CheckModified(ctx context.Context, snap *Snapshot) (bool, error) {
	if snap == nil {
		return false, ErrNilSnapshot
	}

	select {
	case <-ctx.Done():
		return false, fmt.Errorf("check modified: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(snap.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", snap.Path, err)
	}

	if !stat.ModTime().Equal(snap.ModTime) || stat.Size() != snap.Size {
		content, err := os.ReadFile(snap.Path)
		if err != nil {
			return false, fmt.Errorf("read %s: %w", snap.Path, err)
		}
		return sha256.Sum256(content) != snap.Hash, nil
	}

	return false, nil
}

// CheckModifiedQuick performs only the mod-time and size comparison.
// Cheaper than CheckModified but a rewritten-identical file reads as
// modified and a same-second same-size rewrite may not.
func CheckModifiedQuick(ctx context.Context, snap *Snapshot) (bool, error) {
	if snap == nil {
		return false, ErrNilSnapshot
	}

	select {
	case <-ctx.Done():
		return false, fmt.Errorf("check modified: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(snap.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", snap.Path, err)
	}

	return !stat.ModTime().Equal(snap.ModTime) || stat.Size() != snap.Size, nil
}
