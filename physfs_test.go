package physfs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newMountedLibrary returns an initialized, isolated Library with srcDir
// mounted read-only at "/" -- every test gets its own instance, so tests
// can run in parallel without touching the package-level default Library.
func newMountedLibrary(t *testing.T, srcDir string) *Library {
	t.Helper()

	lib := NewLibrary()
	require.NoError(t, lib.Init("test"))
	t.Cleanup(func() { _ = lib.Deinit() })

	require.NoError(t, lib.Mount(srcDir, "/", false))

	return lib
}

// Expectation: Init/Deinit should round-trip cleanly and reject
// double-init.
func Test_Library_InitDeinit_Success(t *testing.T) {
	t.Parallel()

	lib := NewLibrary()
	require.False(t, lib.IsInit())

	require.NoError(t, lib.Init("test"))
	require.True(t, lib.IsInit())

	err := lib.Init("test")
	require.ErrorIs(t, err, Code(ErrIsInitialized))

	require.NoError(t, lib.Deinit())
	require.False(t, lib.IsInit())
}

// Expectation: Mount should make a directory's contents visible through
// StatFile, Exists, OpenRead, and Enumerate.
func Test_Library_Mount_ReadDirectory_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "nested.txt"), []byte("nested"), 0o644))

	lib := newMountedLibrary(t, dir)

	require.True(t, lib.Exists("hello.txt"))
	require.False(t, lib.Exists("missing.txt"))
	require.True(t, lib.IsDirectory("sub"))
	require.False(t, lib.IsDirectory("hello.txt"))

	st, err := lib.StatFile("hello.txt")
	require.NoError(t, err)
	require.EqualValues(t, 5, st.Filesize)
	require.Equal(t, TypeRegular, st.FileType)

	f, err := lib.OpenRead("hello.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
	require.NoError(t, f.Close())

	names, err := lib.EnumerateFiles("/")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"hello.txt", "sub"}, names)
}

// Expectation: StatFile on a nonexistent path should return ErrNotFound.
func Test_Library_StatFile_NotFound_Error(t *testing.T) {
	t.Parallel()

	lib := newMountedLibrary(t, t.TempDir())

	_, err := lib.StatFile("nope.txt")
	require.Error(t, err)
	require.ErrorIs(t, err, Code(ErrNotFound))
}

// Expectation: GetRealDir should report the mounted source name a path
// resolves through, and "" for a path that resolves nowhere.
func Test_Library_GetRealDir_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	lib := newMountedLibrary(t, dir)

	require.Equal(t, dir, lib.GetRealDir("a.txt"))
	require.Equal(t, "", lib.GetRealDir("nope.txt"))
}

// Expectation: SetWriteDir followed by OpenWrite/Mkdir/Delete should work
// against the designated write directory without touching the read-only
// search path.
func Test_Library_WriteDir_Roundtrip_Success(t *testing.T) {
	t.Parallel()

	readDir := t.TempDir()
	writeDir := t.TempDir()

	lib := newMountedLibrary(t, readDir)
	require.NoError(t, lib.SetWriteDir(writeDir))
	require.Equal(t, writeDir, lib.GetWriteDir())

	require.NoError(t, lib.Mkdir("saves"))

	f, err := lib.OpenWrite("saves/slot1.sav")
	require.NoError(t, err)
	_, err = f.Write([]byte("progress"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filepath.Join(writeDir, "saves", "slot1.sav"))
	require.NoError(t, err)
	require.Equal(t, "progress", string(data))

	// The write directory is not part of the search path, so the file is
	// not visible to read-side lookups.
	require.False(t, lib.Exists("saves/slot1.sav"))

	require.NoError(t, lib.Delete("saves/slot1.sav"))
	_, err = os.Stat(filepath.Join(writeDir, "saves", "slot1.sav"))
	require.True(t, os.IsNotExist(err))
}

// Expectation: OpenWrite without a write directory set should fail with
// ErrNoWriteDir.
func Test_Library_OpenWrite_NoWriteDir_Error(t *testing.T) {
	t.Parallel()

	lib := newMountedLibrary(t, t.TempDir())

	_, err := lib.OpenWrite("x.txt")
	require.Error(t, err)
	require.ErrorIs(t, err, Code(ErrNoWriteDir))
}

// Expectation: Unmount should remove the source from GetSearchPath and make
// its contents inaccessible again.
func Test_Library_Unmount_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	lib := newMountedLibrary(t, dir)
	require.Contains(t, lib.GetSearchPath(), dir)

	require.NoError(t, lib.Unmount(dir))
	require.NotContains(t, lib.GetSearchPath(), dir)
	require.False(t, lib.Exists("a.txt"))
}

// Expectation: Unmount should refuse with ErrFilesStillOpen while a read
// handle against that mount remains open.
func Test_Library_Unmount_FilesStillOpen_Error(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	lib := newMountedLibrary(t, dir)

	f, err := lib.OpenRead("a.txt")
	require.NoError(t, err)

	err = lib.Unmount(dir)
	require.ErrorIs(t, err, Code(ErrFilesStillOpen))

	require.NoError(t, f.Close())
	require.NoError(t, lib.Unmount(dir))
}

// Expectation: mounting two directories merges their contents, with the
// prepended one shadowing on a name collision.
func Test_Library_Mount_SearchOrder_Success(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	override := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "cfg.ini"), []byte("base"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(override, "cfg.ini"), []byte("override"), 0o644))

	lib := newMountedLibrary(t, base)
	require.NoError(t, lib.Mount(override, "/", true))

	require.Equal(t, override, lib.GetRealDir("cfg.ini"))
}

// Expectation: MountMemory of raw bytes that no archiver claims should fail
// with ErrUnsupported.
func Test_Library_MountMemory_Unsupported_Error(t *testing.T) {
	t.Parallel()

	lib := NewLibrary()
	require.NoError(t, lib.Init("test"))
	t.Cleanup(func() { _ = lib.Deinit() })

	err := lib.MountMemory([]byte("not an archive"), "bogus.zip", "/", false)
	require.Error(t, err)
	require.ErrorIs(t, err, Code(ErrUnsupported))
}

// Expectation: operations against an uninitialized Library fail with
// ErrNotInitialized rather than panicking.
func Test_Library_Uninitialized_Error(t *testing.T) {
	t.Parallel()

	lib := NewLibrary()

	err := lib.Mount(t.TempDir(), "/", false)
	require.True(t, errors.Is(err, Code(ErrNotInitialized)))
}
