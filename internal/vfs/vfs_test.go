package vfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/errcode"
	"github.com/go-physfs/physfs/internal/platform"
)

func newInitialized(t *testing.T) *Library {
	t.Helper()

	l := New(platform.OS{})
	require.NoError(t, l.Init("test"))
	t.Cleanup(func() { _ = l.Deinit() })

	return l
}

// Expectation: SetAllocator should be refused once the library is
// initialized, and accept a nil Allocator as "restore the default" before
// that.
func Test_Library_SetAllocator_BeforeAndAfterInit(t *testing.T) {
	t.Parallel()

	l := New(platform.OS{})

	require.NoError(t, l.SetAllocator(nil))
	require.NotNil(t, l.GetAllocator())

	require.NoError(t, l.Init("test"))
	t.Cleanup(func() { _ = l.Deinit() })

	err := l.SetAllocator(nil)
	require.ErrorIs(t, err, errcode.Code(errcode.ErrIsInitialized))
}

// Expectation: PermitSymbolicLinks defaults to false and toggles as
// instructed.
func Test_Library_PermitSymbolicLinks_Toggle(t *testing.T) {
	t.Parallel()

	l := newInitialized(t)

	require.False(t, l.SymbolicLinksPermitted())
	l.PermitSymbolicLinks(true)
	require.True(t, l.SymbolicLinksPermitted())
}

// Expectation: GetLastErrorCode returns ErrOK when nothing has been
// recorded for the calling goroutine, and clears the code after reading it
// once.
func Test_Library_SetGetLastErrorCode_PerGoroutine_Success(t *testing.T) {
	t.Parallel()

	l := newInitialized(t)

	require.Equal(t, errcode.ErrOK, l.GetLastErrorCode())

	l.SetErrorCode(errcode.ErrNotFound)
	require.Equal(t, errcode.ErrNotFound, l.GetLastErrorCode())
	require.Equal(t, errcode.ErrOK, l.GetLastErrorCode())
}

// Expectation: a failing operation should record its code for
// GetLastErrorCode to observe, keyed to the calling goroutine.
func Test_Library_RecordErr_OnFailedMount(t *testing.T) {
	t.Parallel()

	l := newInitialized(t)

	err := l.Mount(nil, filepath.Join(t.TempDir(), "missing"), "/", false)
	require.Error(t, err)
	require.Equal(t, errcode.ErrIO, l.GetLastErrorCode())
}

// Expectation: GetMountPoint and SetRoot should operate on an existing
// mount's DirHandle, and fail with ErrNotMounted otherwise.
func Test_Library_SetRoot_GetMountPoint_Success(t *testing.T) {
	t.Parallel()

	l := newInitialized(t)

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "a.txt"), []byte("a"), 0o644))

	require.NoError(t, l.Mount(nil, dir, "/", false))

	mp, err := l.GetMountPoint(dir)
	require.NoError(t, err)
	require.Equal(t, "/", mp)

	require.NoError(t, l.SetRoot(dir, "assets"))

	_, err = l.GetMountPoint("nope")
	require.ErrorIs(t, err, errcode.Code(errcode.ErrNotMounted))

	err = l.SetRoot("nope", "x")
	require.ErrorIs(t, err, errcode.Code(errcode.ErrNotMounted))
}

// Expectation: Mount is a silent no-op when the same source name is
// already mounted.
func Test_Library_Mount_DuplicateSourceName_Noop(t *testing.T) {
	t.Parallel()

	l := newInitialized(t)
	dir := t.TempDir()

	require.NoError(t, l.Mount(nil, dir, "/", false))
	require.NoError(t, l.Mount(nil, dir, "/elsewhere", false))

	mp, err := l.GetMountPoint(dir)
	require.NoError(t, err)
	require.Equal(t, "/", mp)
}

// Expectation: mounting below the root should actually change where paths
// resolve -- a sub-path mount point is not equivalent to mounting at "/".
func Test_Library_Mount_SubPathMountPoint_ChangesResolution(t *testing.T) {
	t.Parallel()

	l := newInitialized(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	require.NoError(t, l.Mount(nil, dir, "/assets", false))

	require.True(t, l.Exists("assets/a.txt"))
	require.False(t, l.Exists("a.txt"))

	require.True(t, l.IsDirectory("assets"))
	require.Equal(t, dir, l.GetRealDir("assets/a.txt"))
}

// Expectation: the write directory is not a member of the search path --
// it must not be visible to reads/Stat/Exists unless separately mounted.
func Test_Library_WriteDir_ExcludedFromReadResolution(t *testing.T) {
	t.Parallel()

	l := newInitialized(t)

	writeDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(writeDir, "a.txt"), []byte("a"), 0o644))

	require.NoError(t, l.SetWriteDir(writeDir))
	require.False(t, l.Exists("a.txt"))

	require.NoError(t, l.Mount(nil, writeDir, "/", false))
	require.True(t, l.Exists("a.txt"))
}

// Expectation: Enumerate should synthesize the next path segment toward a
// nested mount point when listing one of its ancestor directories.
func Test_Library_Enumerate_SynthesizesMountAncestorSegment(t *testing.T) {
	t.Parallel()

	l := newInitialized(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	require.NoError(t, l.Mount(nil, dir, "/assets/sub", false))

	names, err := l.EnumerateFiles("/")
	require.NoError(t, err)
	require.Contains(t, names, "assets")

	names, err = l.EnumerateFiles("assets")
	require.NoError(t, err)
	require.Contains(t, names, "sub")

	names, err = l.EnumerateFiles("assets/sub")
	require.NoError(t, err)
	require.Contains(t, names, "a.txt")
}

// Expectation: a callback that reports EnumError should abort Enumerate
// with ErrAppCallback, distinct from a clean EnumStop.
func Test_Library_Enumerate_CallbackError_ReportsAppCallback(t *testing.T) {
	t.Parallel()

	l := newInitialized(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, l.Mount(nil, dir, "/", false))

	err := l.Enumerate("/", func(string) archiver.EnumResult {
		return archiver.EnumError
	})
	require.ErrorIs(t, err, errcode.Code(errcode.ErrAppCallback))
}
