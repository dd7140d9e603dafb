package checksum

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// LockPath returns the lock file guarding writes to a checksum file.
func LockPath(path string) string {
	return path + ".lock"
}

// Write renders sums and writes them to path under an exclusive file lock,
// so concurrent invocations against the same tree cannot interleave.
func Write(path string, sums Sums) error {
	lock := flock.New(LockPath(path))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", LockPath(path), err)
	}
	defer lock.Unlock()

	return atomicWrite(path, Format(sums))
}

// atomicWrite writes data through a uniquely named temp file in the target
// directory and renames it into place, so readers never observe a partially
// written checksum file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".checksums-%s.tmp", uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file to %s: %w", path, err)
	}
	return nil
}
