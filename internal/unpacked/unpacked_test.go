package unpacked

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/iosource"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()

	data := []byte("HELLOWORLD!!")
	src := iosource.NewMemory(data)

	a, err := New(src, []RawEntry{
		{Name: "hello.txt", Offset: 0, Size: 5},
		{Name: "dir/world.txt", Offset: 5, Size: 5},
	})
	require.NoError(t, err)

	return a
}

// Expectation: New should synthesize ancestor directories for a nested
// entry's path.
func Test_New_SynthesizesAncestorDirectories(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t)

	st, err := a.Stat("dir")
	require.NoError(t, err)
	require.Equal(t, archiver.TypeDirectory, st.FileType)
}

// Expectation: OpenRead should return exactly the byte range a record
// describes.
func Test_OpenRead_ReturnsRecordRange(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t)

	src, err := a.OpenRead("dir/world.txt")
	require.NoError(t, err)

	buf, err := io.ReadAll(src)
	require.NoError(t, err)
	require.Equal(t, "WORLD", string(buf))
	require.NoError(t, src.Destroy())
}

// Expectation: OpenRead on a directory or missing path should fail.
func Test_OpenRead_DirectoryOrMissing_Error(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t)

	_, err := a.OpenRead("dir")
	require.Error(t, err)

	_, err = a.OpenRead("nope")
	require.Error(t, err)
}

// Expectation: Stat on a record should report its exact size and regular
// file type.
func Test_Stat_Record_Success(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t)

	st, err := a.Stat("hello.txt")
	require.NoError(t, err)
	require.EqualValues(t, 5, st.Filesize)
	require.Equal(t, archiver.TypeRegular, st.FileType)
}

// Expectation: Enumerate should report every direct child of a directory,
// not descendants of descendants.
func Test_Enumerate_Success(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t)

	var names []string
	err := a.Enumerate("", func(_, name string) archiver.EnumResult {
		names = append(names, name)

		return archiver.EnumOK
	}, "")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"hello.txt", "dir"}, names)
}

// Expectation: a rangeSource's Seek should be relative to the record's own
// start, not the backing source's absolute offset.
func Test_RangeSource_Seek_RelativeToRecord(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t)

	src, err := a.OpenRead("dir/world.txt")
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Destroy() })

	require.NoError(t, src.Seek(2))

	buf := make([]byte, 3)
	n, err := src.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "RLD", string(buf[:n]))
}

// Expectation: the Backend wrapper should route every archiver.Archiver
// call to the underlying Archive, and report a read-only format for every
// mutating call.
func Test_Backend_OpenArchive_And_ReadOnlyCalls(t *testing.T) {
	t.Parallel()

	parse := func(src iosource.Source) ([]RawEntry, bool, error) {
		return []RawEntry{{Name: "a.txt", Offset: 0, Size: 5}}, true, nil
	}

	b := NewBackend("grp", "test format", parse)

	opaque, claim, err := b.OpenArchive(iosource.NewMemory([]byte("HELLO")), "x.grp", false)
	require.NoError(t, err)
	require.Equal(t, archiver.ClaimOK, claim)

	st, err := b.Stat(opaque, "a.txt")
	require.NoError(t, err)
	require.EqualValues(t, 5, st.Filesize)

	_, err = b.OpenWrite(opaque, "a.txt")
	require.ErrorIs(t, err, ErrReadOnly)

	err = b.Remove(opaque, "a.txt")
	require.ErrorIs(t, err, ErrReadOnly)

	err = b.Mkdir(opaque, "newdir")
	require.ErrorIs(t, err, ErrReadOnly)

	require.NoError(t, b.CloseArchive(opaque))
}

// Expectation: OpenArchive for writing should refuse immediately, since no
// minor format backend supports it.
func Test_Backend_OpenArchive_ForWriting_Error(t *testing.T) {
	t.Parallel()

	b := NewBackend("grp", "test format", func(iosource.Source) ([]RawEntry, bool, error) {
		return nil, false, nil
	})

	_, claim, err := b.OpenArchive(iosource.NewMemory(nil), "x.grp", true)
	require.ErrorIs(t, err, ErrReadOnly)
	require.Equal(t, archiver.ClaimNone, claim)
}

// Expectation: OpenArchive should report ClaimNone when the parser does not
// recognize the data, letting another archiver try.
func Test_Backend_OpenArchive_Unrecognized_ClaimNone(t *testing.T) {
	t.Parallel()

	b := NewBackend("grp", "test format", func(iosource.Source) ([]RawEntry, bool, error) {
		return nil, false, nil
	})

	_, claim, err := b.OpenArchive(iosource.NewMemory([]byte("nope")), "x.grp", false)
	require.NoError(t, err)
	require.Equal(t, archiver.ClaimNone, claim)
}

// Expectation: a parser reporting a recognized-but-corrupt header should
// surface ClaimBroken with its error.
func Test_Backend_OpenArchive_Corrupt_ClaimBroken(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("bad header")
	b := NewBackend("grp", "test format", func(iosource.Source) ([]RawEntry, bool, error) {
		return nil, true, wantErr
	})

	_, claim, err := b.OpenArchive(iosource.NewMemory([]byte("junk")), "x.grp", false)
	require.ErrorIs(t, err, wantErr)
	require.Equal(t, archiver.ClaimBroken, claim)
}

// Expectation: ReadFull should read exactly len(buf) bytes across multiple
// underlying Read calls, stopping early only at EOF.
func Test_ReadFull_Success(t *testing.T) {
	t.Parallel()

	src := iosource.NewMemory([]byte("0123456789"))
	buf := make([]byte, 6)

	n, err := ReadFull(src, buf)
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, "012345", string(buf))
}
