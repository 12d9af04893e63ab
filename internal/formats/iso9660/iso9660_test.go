package iso9660

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/iosource"
)

// dirRecord builds one ISO 9660 directory record: length-prefixed, with
// the LBA/size/flags/name fields this package's simplified parser reads.
func dirRecord(extent, size uint32, isDir bool, name string) []byte {
	nameLen := len(name)
	length := 33 + nameLen
	rec := make([]byte, length)
	rec[0] = byte(length)
	binary.LittleEndian.PutUint32(rec[2:6], extent)
	binary.LittleEndian.PutUint32(rec[10:14], size)
	if isDir {
		rec[25] = 0x02
	}
	rec[32] = byte(nameLen)
	copy(rec[33:], name)

	return rec
}

// buildISO assembles a minimal single-file ISO 9660 image: a Primary
// Volume Descriptor at sector 16 pointing at a one-sector root directory
// extent at sector 18, a terminator at sector 17, the root directory's
// records in sector 18, and the file's data in sector 19.
func buildISO(t *testing.T, fileName string, fileData []byte) []byte {
	t.Helper()

	const (
		rootExtent = 18
		rootSize   = sectorSize
		fileExtent = 19
	)

	buf := make([]byte, 20*sectorSize)

	pvd := buf[16*sectorSize : 17*sectorSize]
	pvd[0] = 1
	copy(pvd[1:6], stdIdentifier)
	copy(pvd[156:190], dirRecordPadded(rootExtent, rootSize, true, "\x00"))

	term := buf[17*sectorSize : 18*sectorSize]
	term[0] = typeTerminator
	copy(term[1:6], stdIdentifier)

	root := buf[rootExtent*sectorSize : rootExtent*sectorSize+rootSize]
	pos := 0
	for _, rec := range [][]byte{
		dirRecord(rootExtent, rootSize, true, "\x00"),
		dirRecord(rootExtent, rootSize, true, "\x01"),
		dirRecord(fileExtent, uint32(len(fileData)), false, fileName),
	} {
		copy(root[pos:], rec)
		pos += len(rec)
	}

	copy(buf[fileExtent*sectorSize:], fileData)

	return buf
}

// dirRecordPadded pads/truncates a directory record to exactly 34 bytes,
// the fixed size of the root directory record embedded in a volume
// descriptor.
func dirRecordPadded(extent, size uint32, isDir bool, name string) []byte {
	rec := dirRecord(extent, size, isDir, name)
	out := make([]byte, 34)
	copy(out, rec)

	return out
}

// Expectation: a well-formed Primary-Volume-Descriptor-only ISO should be
// claimed, and its one file readable by name.
func Test_OpenArchive_WellFormed_Success(t *testing.T) {
	t.Parallel()

	data := buildISO(t, "HELLO.TXT;1", []byte("hello from disc"))

	a := New()
	opaque, claim, err := a.OpenArchive(iosource.NewMemory(data), "disc.iso", false)
	require.NoError(t, err)
	require.Equal(t, archiver.ClaimOK, claim)

	// the on-disc name carries a ";1" version suffix that decodeName strips
	// for non-Joliet volumes.
	src, err := a.OpenRead(opaque, "HELLO.TXT")
	require.NoError(t, err)
	got, err := io.ReadAll(src)
	require.NoError(t, err)
	require.Equal(t, "hello from disc", string(got))
}

// Expectation: data with no recognizable CD001 descriptor at sector 16
// should report ClaimNone.
func Test_OpenArchive_NotAnISO_ClaimNone(t *testing.T) {
	t.Parallel()

	a := New()
	data := make([]byte, 20*sectorSize)
	_, claim, err := a.OpenArchive(iosource.NewMemory(data), "bogus.iso", false)
	require.NoError(t, err)
	require.Equal(t, archiver.ClaimNone, claim)
}

// Expectation: Enumerate of the root directory should report the file
// entry parsed out of the image.
func Test_Enumerate_ListsFile_Success(t *testing.T) {
	t.Parallel()

	data := buildISO(t, "A.TXT;1", []byte("x"))

	a := New()
	opaque, claim, err := a.OpenArchive(iosource.NewMemory(data), "disc.iso", false)
	require.NoError(t, err)
	require.Equal(t, archiver.ClaimOK, claim)

	var names []string
	err = a.Enumerate(opaque, "", func(_, name string) archiver.EnumResult {
		names = append(names, name)

		return archiver.EnumOK
	}, "")
	require.NoError(t, err)
	require.Contains(t, names, "A.TXT")
}
