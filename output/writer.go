// Package output writes generated artifacts.
//
// Every write goes through Writer.Write, which refuses file names that do
// not carry a generated suffix before touching the filesystem, then replaces
// the target atomically: readers observe either the previous content or the
// new content, never a partial file.
package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
)

// Generated file name suffixes.
const (
	GoSuffix       = "_autogen.go"
	MarkdownSuffix = "_autogen.md"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// Writer writes generated artifacts to a billy filesystem.
type Writer struct {
	FS billy.Filesystem
}

// CheckName returns a *NamingViolationError unless the base name of path
// ends in GoSuffix or MarkdownSuffix after a non-empty stem.
func CheckName(path string) error {
	base := filepath.Base(path)
	for _, suffix := range []string{GoSuffix, MarkdownSuffix} {
		if strings.HasSuffix(base, suffix) && len(base) > len(suffix) {
			return nil
		}
	}
	return &NamingViolationError{Path: path}
}

// MkdirAll creates dir and any missing parents.
func (w *Writer) MkdirAll(dir string) error {
	if err := w.FS.MkdirAll(dir, dirPerm); err != nil {
		return &FilesystemError{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

// Write atomically replaces the file at path with content. The content is
// written to a temporary sibling which is then renamed onto path; on failure
// the temporary file is removed and the target is left untouched.
func (w *Writer) Write(path string, content []byte) error {
	if err := CheckName(path); err != nil {
		return err
	}
	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, "."+base+".tmp."+uuid.NewString())

	f, err := w.FS.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePerm)
	if err != nil {
		return &FilesystemError{Op: "create", Path: tmp, Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = f.Close()
			_ = w.FS.Remove(tmp)
		}
	}()

	if _, err := f.Write(content); err != nil {
		return &FilesystemError{Op: "write", Path: tmp, Err: err}
	}
	if s, ok := f.(interface{ Sync() error }); ok {
		if err := s.Sync(); err != nil {
			return &FilesystemError{Op: "sync", Path: tmp, Err: err}
		}
	}
	if err := f.Close(); err != nil {
		return &FilesystemError{Op: "close", Path: tmp, Err: err}
	}
	if err := w.FS.Rename(tmp, path); err != nil {
		return &FilesystemError{Op: "rename", Path: path, Err: err}
	}
	committed = true
	return nil
}
