package qpak

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/iosource"
)

func buildQPAK(t *testing.T, files map[string][]byte) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}

	var data bytes.Buffer
	offsets := make([]uint32, len(names))
	for i, name := range names {
		offsets[i] = uint32(headerSize + data.Len())
		data.Write(files[name])
	}

	dirOffset := uint32(headerSize + data.Len())

	var table bytes.Buffer
	for i, name := range names {
		rec := make([]byte, recordSize)
		copy(rec[:nameSize], name)
		binary.LittleEndian.PutUint32(rec[nameSize:nameSize+4], offsets[i])
		binary.LittleEndian.PutUint32(rec[nameSize+4:nameSize+8], uint32(len(files[name])))
		table.Write(rec)
	}

	var buf bytes.Buffer
	buf.WriteString("PACK")
	off := make([]byte, 4)
	binary.LittleEndian.PutUint32(off, dirOffset)
	buf.Write(off)
	ln := make([]byte, 4)
	binary.LittleEndian.PutUint32(ln, uint32(table.Len()))
	buf.Write(ln)
	buf.Write(data.Bytes())
	buf.Write(table.Bytes())

	return buf.Bytes()
}

// Expectation: a well-formed PAK should be claimed and its entries read
// back by name.
func Test_Parse_WellFormed_Success(t *testing.T) {
	t.Parallel()

	data := buildQPAK(t, map[string][]byte{"progs/player.mdl": []byte("model-bytes")})

	a := New()
	opaque, claim, err := a.OpenArchive(iosource.NewMemory(data), "pak0.pak", false)
	require.NoError(t, err)
	require.Equal(t, archiver.ClaimOK, claim)

	src, err := a.OpenRead(opaque, "progs/player.mdl")
	require.NoError(t, err)
	got, err := io.ReadAll(src)
	require.NoError(t, err)
	require.Equal(t, "model-bytes", string(got))
}

// Expectation: an unrecognized magic should report ClaimNone.
func Test_Parse_BadMagic_ClaimNone(t *testing.T) {
	t.Parallel()

	a := New()
	_, claim, err := a.OpenArchive(iosource.NewMemory([]byte("NOTPACK12345")), "x.pak", false)
	require.NoError(t, err)
	require.Equal(t, archiver.ClaimNone, claim)
}
