package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// SafeName reports whether name can be used as a flat storage key: a single
// path element with no separators, traversal tokens, or NUL bytes. Leading
// dots are rejected too; dotfiles (including our own temp files) are not
// documents.
func SafeName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return false
	}
	return true
}

// JoinWithinRoot returns an absolute filesystem path for name directly under
// rootAbs. It rejects anything that would resolve outside the root.
func JoinWithinRoot(rootAbs, name string) (string, error) {
	if !SafeName(name) {
		return "", errors.New("invalid name")
	}
	abs := filepath.Clean(filepath.Join(rootAbs, name))
	if filepath.Dir(abs) != filepath.Clean(rootAbs) {
		return "", errors.New("path escape")
	}
	return abs, nil
}

// WriteFileAtomic writes data via a temp file in the same directory followed
// by a rename, so readers never observe a partial write.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, ".inkwell-tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filename)
}
