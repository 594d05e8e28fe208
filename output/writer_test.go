package output

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

func TestCheckName(t *testing.T) {
	for _, ok := range []string{
		"config_autogen.go",
		"mods/TONE/README_autogen.md",
		"/abs/pipeline_autogen.go",
	} {
		require.NoError(t, CheckName(ok), ok)
	}
	for _, bad := range []string{
		"main.go",
		"__init__.py",
		"config_autogen.py",
		"_autogen.go",
		"config_autogen.go.bak",
		"mods/TONE/README.md",
	} {
		err := CheckName(bad)
		require.ErrorIs(t, err, ErrNamingViolation, bad)
		var nerr *NamingViolationError
		require.ErrorAs(t, err, &nerr, bad)
	}
}

func TestWrite_RejectsBeforeAnyFilesystemCall(t *testing.T) {
	fs := &recordingFS{Filesystem: memfs.New()}
	w := &Writer{FS: fs}

	err := w.Write("mods/TONE/main.go", []byte("package main\n"))
	require.ErrorIs(t, err, ErrNamingViolation)
	require.Empty(t, fs.calls)
}

func TestWrite_CreatesAndReplaces(t *testing.T) {
	fs := memfs.New()
	w := &Writer{FS: fs}
	require.NoError(t, w.MkdirAll("mods/TONE"))

	require.NoError(t, w.Write("mods/TONE/config_autogen.go", []byte("v1")))
	require.NoError(t, w.Write("mods/TONE/config_autogen.go", []byte("v2")))

	got, err := util.ReadFile(fs, "mods/TONE/config_autogen.go")
	require.NoError(t, err)
	require.Equal(t, "v2", string(got))
	require.Equal(t, []string{"config_autogen.go"}, names(t, fs, "mods/TONE"))
}

func TestWrite_LeavesSiblingsUntouched(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "mods/TONE/module.go", []byte("hand written"), 0o644))
	w := &Writer{FS: fs}

	require.NoError(t, w.Write("mods/TONE/cli_autogen.go", []byte("generated")))

	got, err := util.ReadFile(fs, "mods/TONE/module.go")
	require.NoError(t, err)
	require.Equal(t, "hand written", string(got))
}

func TestWrite_RenameFailureCleansUp(t *testing.T) {
	base := memfs.New()
	require.NoError(t, util.WriteFile(base, "mods/TONE/config_autogen.go", []byte("old"), 0o644))
	renameErr := errors.New("rename refused")
	w := &Writer{FS: &recordingFS{Filesystem: base, renameErr: renameErr}}

	err := w.Write("mods/TONE/config_autogen.go", []byte("new"))
	require.ErrorIs(t, err, renameErr)
	var ferr *FilesystemError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, "rename", ferr.Op)
	require.Equal(t, "mods/TONE/config_autogen.go", ferr.Path)

	got, err := util.ReadFile(base, "mods/TONE/config_autogen.go")
	require.NoError(t, err)
	require.Equal(t, "old", string(got))
	require.Equal(t, []string{"config_autogen.go"}, names(t, base, "mods/TONE"))
}

func TestMkdirAll_WrapsErrors(t *testing.T) {
	mkdirErr := errors.New("read-only")
	w := &Writer{FS: &recordingFS{Filesystem: memfs.New(), mkdirErr: mkdirErr}}

	err := w.MkdirAll("mods/TONE")
	require.ErrorIs(t, err, mkdirErr)
	var ferr *FilesystemError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, "mkdir", ferr.Op)
	require.Equal(t, "mods/TONE", ferr.Path)
}

// recordingFS records mutating calls and optionally fails Rename.
type recordingFS struct {
	billy.Filesystem
	calls     []string
	renameErr error
	mkdirErr  error
}

func (fs *recordingFS) OpenFile(name string, flag int, perm os.FileMode) (billy.File, error) {
	fs.calls = append(fs.calls, "open "+name)
	return fs.Filesystem.OpenFile(name, flag, perm)
}

func (fs *recordingFS) Create(name string) (billy.File, error) {
	fs.calls = append(fs.calls, "create "+name)
	return fs.Filesystem.Create(name)
}

func (fs *recordingFS) MkdirAll(name string, perm os.FileMode) error {
	fs.calls = append(fs.calls, "mkdir "+name)
	if fs.mkdirErr != nil {
		return fs.mkdirErr
	}
	return fs.Filesystem.MkdirAll(name, perm)
}

func (fs *recordingFS) Rename(from, to string) error {
	fs.calls = append(fs.calls, "rename "+from)
	if fs.renameErr != nil {
		return fs.renameErr
	}
	return fs.Filesystem.Rename(from, to)
}

func (fs *recordingFS) Remove(name string) error {
	fs.calls = append(fs.calls, "remove "+name)
	return fs.Filesystem.Remove(name)
}

func names(t *testing.T, fs billy.Filesystem, dir string) []string {
	t.Helper()
	infos, err := fs.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, info := range infos {
		if strings.HasPrefix(info.Name(), ".") && strings.Contains(info.Name(), ".tmp.") {
			out = append(out, "temp:"+info.Name())
			continue
		}
		out = append(out, info.Name())
	}
	return out
}
