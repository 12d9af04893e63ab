package dirarchiver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/platform"
)

func openRoot(t *testing.T, root string) (archiver.Archiver, any) {
	t.Helper()

	a := New(platform.OS{})
	opaque, claim, err := a.OpenArchive(nil, root, false)
	require.NoError(t, err)
	require.Equal(t, archiver.ClaimOK, claim)

	return a, opaque
}

// Expectation: Stat should classify a regular file and a subdirectory
// correctly, with the subdirectory's size irrelevant to the contract.
func Test_Stat_RegularAndDirectory_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	a, opaque := openRoot(t, dir)

	st, err := a.Stat(opaque, "a.txt")
	require.NoError(t, err)
	require.Equal(t, archiver.TypeRegular, st.FileType)
	require.EqualValues(t, 5, st.Filesize)

	st, err = a.Stat(opaque, "sub")
	require.NoError(t, err)
	require.Equal(t, archiver.TypeDirectory, st.FileType)
}

// Expectation: Enumerate should report every entry of a directory via the
// callback and stop early if the callback asks to.
func Test_Enumerate_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0o644))

	a, opaque := openRoot(t, dir)

	var names []string
	err := a.Enumerate(opaque, "", func(_, name string) archiver.EnumResult {
		names = append(names, name)

		return archiver.EnumOK
	}, "")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a.txt", "b.txt"}, names)
}

// Expectation: Enumerate of a directory that does not exist returns no
// error and enumerates nothing.
func Test_Enumerate_MissingDir_Empty(t *testing.T) {
	t.Parallel()

	a, opaque := openRoot(t, t.TempDir())

	called := false
	err := a.Enumerate(opaque, "nope", func(_, _ string) archiver.EnumResult {
		called = true

		return archiver.EnumOK
	}, "nope")
	require.NoError(t, err)
	require.False(t, called)
}

// Expectation: OpenWrite should create missing parent directories before
// writing, and OpenRead/Remove should round-trip against the written file.
func Test_OpenWrite_CreatesParentsAndReadsBack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a, opaque := openRoot(t, dir)

	w, err := a.OpenWrite(opaque, "nested/deep/file.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	require.NoError(t, w.Destroy())

	r, err := a.OpenRead(opaque, "nested/deep/file.txt")
	require.NoError(t, err)
	buf := make([]byte, 7)
	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "payload", string(buf[:n]))
	require.NoError(t, r.Destroy())

	require.NoError(t, a.Remove(opaque, "nested/deep/file.txt"))

	_, err = a.Stat(opaque, "nested/deep/file.txt")
	require.Error(t, err)
}

// Expectation: Mkdir should create a directory under the archive root.
func Test_Mkdir_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a, opaque := openRoot(t, dir)

	require.NoError(t, a.Mkdir(opaque, "created"))

	info, err := os.Stat(filepath.Join(dir, "created"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
