package ziparchive

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/diag"
	"github.com/go-physfs/physfs/internal/iosource"
)

// buildTestZip assembles an in-memory ZIP with one regular file ("a.txt"),
// a symlink pointing at it ("link.txt" -> "a.txt"), and a chain of two
// symlinks ("chain2" -> "chain1" -> "a.txt"), using the stdlib archive/zip
// writer and its Unix-mode-bits symlink convention (the same one
// isUnixSymlink checks).
func buildTestZip(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	fw, err := w.Create("a.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("hello world"))
	require.NoError(t, err)

	writeSymlink := func(name, target string) {
		hdr := &zip.FileHeader{Name: name, Method: zip.Store}
		hdr.SetMode(os.ModeSymlink | 0o777)
		sw, err := w.CreateHeader(hdr)
		require.NoError(t, err)
		_, err = sw.Write([]byte(target))
		require.NoError(t, err)
	}

	writeSymlink("link.txt", "a.txt")
	writeSymlink("chain1", "a.txt")
	writeSymlink("chain2", "chain1")

	require.NoError(t, w.Close())

	return buf.Bytes()
}

func openTestArchive(t *testing.T) (*Archive, archiver.Archiver) {
	t.Helper()

	data := buildTestZip(t)
	a := New()

	opaque, claim, err := a.OpenArchive(iosource.NewMemory(data), "test.zip", false)
	require.NoError(t, err)
	require.Equal(t, archiver.ClaimOK, claim)

	arch, ok := opaque.(*Archive)
	require.True(t, ok)

	t.Cleanup(func() { _ = a.CloseArchive(opaque) })

	return arch, a
}

// Expectation: OpenArchive should successfully parse a well-formed ZIP and
// report its regular file and symlink entries through Stat.
func Test_OpenArchive_Stat_Success(t *testing.T) {
	arch, a := openTestArchive(t)

	st, err := a.Stat(arch, "a.txt")
	require.NoError(t, err)
	require.EqualValues(t, len("hello world"), st.Filesize)
	require.Equal(t, archiver.TypeRegular, st.FileType)

	st, err = a.Stat(arch, "link.txt")
	require.NoError(t, err)
	require.Equal(t, archiver.TypeSymlink, st.FileType)
}

// Expectation: OpenArchive on data with no end-of-central-directory record
// should report ClaimNone, letting the caller try another archiver.
func Test_OpenArchive_NotAZip_ClaimNone(t *testing.T) {
	t.Parallel()

	a := New()

	_, claim, err := a.OpenArchive(iosource.NewMemory([]byte("not a zip")), "bogus", false)
	require.NoError(t, err)
	require.Equal(t, archiver.ClaimNone, claim)
}

// Expectation: OpenRead on a symlink entry should transparently resolve to
// the target's data.
func Test_OpenRead_Symlink_ResolvesToTarget(t *testing.T) {
	arch, a := openTestArchive(t)

	src, err := a.OpenRead(arch, "link.txt")
	require.NoError(t, err)

	data, err := io.ReadAll(src)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))
	require.NoError(t, src.Destroy())
}

// Expectation: OpenRead on a chain of symlinks should resolve through every
// hop to the final regular file.
func Test_OpenRead_SymlinkChain_ResolvesToTarget(t *testing.T) {
	arch, a := openTestArchive(t)

	src, err := a.OpenRead(arch, "chain2")
	require.NoError(t, err)

	data, err := io.ReadAll(src)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))
	require.NoError(t, src.Destroy())
}

// Expectation: resolveSymlink should cache the resolved target by the
// originating entry's name, so a second resolution of the same symlink is
// served from the cache and increments CacheHits rather than CacheMisses.
func Test_ResolveSymlink_CachesResolvedTarget(t *testing.T) {
	arch, _ := openTestArchive(t)

	e, ok := arch.lookupEntry("link.txt")
	require.True(t, ok)

	hitsBefore := diag.Metrics.CacheHits.Load()
	missesBefore := diag.Metrics.CacheMisses.Load()

	target1, err := arch.resolveSymlink(e)
	require.NoError(t, err)
	require.Equal(t, int64(1), diag.Metrics.CacheMisses.Load()-missesBefore)

	target2, err := arch.resolveSymlink(e)
	require.NoError(t, err)
	require.Equal(t, int64(1), diag.Metrics.CacheHits.Load()-hitsBefore)

	require.Same(t, target1, target2)
}

// Expectation: CloseArchive should drain the symlink cache (DeleteAll) as
// part of tearing the archive down.
func Test_CloseArchive_ClearsSymlinkCache(t *testing.T) {
	data := buildTestZip(t)
	a := New()

	opaque, claim, err := a.OpenArchive(iosource.NewMemory(data), "test.zip", false)
	require.NoError(t, err)
	require.Equal(t, archiver.ClaimOK, claim)

	arch := opaque.(*Archive) //nolint:forcetypeassert

	e, ok := arch.lookupEntry("link.txt")
	require.True(t, ok)
	_, err = arch.resolveSymlink(e)
	require.NoError(t, err)

	require.NoError(t, a.CloseArchive(opaque))
	require.Equal(t, 0, arch.symlinkCache.Len())
}

// Expectation: Stat on a path with no matching entry returns an error.
func Test_Stat_NotFound_Error(t *testing.T) {
	arch, a := openTestArchive(t)

	_, err := a.Stat(arch, "nope.txt")
	require.Error(t, err)
}

// Expectation: a symlink that loops back on itself should surface
// ErrSymlinkLoop rather than recursing forever.
func Test_ResolveSymlink_Cycle_Error(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	writeSymlink := func(name, target string) {
		hdr := &zip.FileHeader{Name: name, Method: zip.Store}
		hdr.SetMode(os.ModeSymlink | 0o777)
		sw, err := w.CreateHeader(hdr)
		require.NoError(t, err)
		_, err = sw.Write([]byte(target))
		require.NoError(t, err)
	}

	writeSymlink("loop_a", "loop_b")
	writeSymlink("loop_b", "loop_a")
	require.NoError(t, w.Close())

	a := New()
	opaque, claim, err := a.OpenArchive(iosource.NewMemory(buf.Bytes()), "loop.zip", false)
	require.NoError(t, err)
	require.Equal(t, archiver.ClaimOK, claim)
	t.Cleanup(func() { _ = a.CloseArchive(opaque) })

	arch := opaque.(*Archive) //nolint:forcetypeassert

	e, ok := arch.lookupEntry("loop_a")
	require.True(t, ok)

	_, err = arch.resolveSymlink(e)
	require.ErrorIs(t, err, ErrSymlinkLoop)
}
