// Package fileutil provides small filesystem helpers shared by the linker
// and scanners.
package fileutil

import (
	"errors"
	"io/fs"
	"os"
)

// IsSymlink reports whether path exists and is a symbolic link. A missing
// path is not an error; it simply reports false.
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// SymlinkTarget returns the target of the symlink at path.
func SymlinkTarget(path string) (string, error) {
	return os.Readlink(path)
}

// LinkExists reports whether path exists without following symlinks, so a
// dangling symlink still counts as present. A missing path is not an error.
func LinkExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
