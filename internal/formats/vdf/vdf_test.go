package vdf

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/iosource"
)

func buildVDF(t *testing.T, files map[string][]byte) []byte {
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

	catalogOffset := uint32(headerSize + data.Len())

	var table bytes.Buffer
	for i, name := range names {
		rec := make([]byte, recordSize)
		copy(rec[:recordNameSize], name)
		binary.LittleEndian.PutUint32(rec[recordNameSize:recordNameSize+4], offsets[i])
		binary.LittleEndian.PutUint32(rec[recordNameSize+4:recordNameSize+8], uint32(len(files[name])))
		// typeWord left 0: plain file entry
		table.Write(rec)
	}

	comment := make([]byte, commentSize)
	signature := make([]byte, signatureSize)
	copy(signature, knownSignaturePrefix)

	tail := make([]byte, headerTailSize)
	binary.LittleEndian.PutUint32(tail[16:20], catalogOffset)
	binary.LittleEndian.PutUint32(tail[20:24], uint32(table.Len()))

	var buf bytes.Buffer
	buf.Write(comment)
	buf.Write(signature)
	buf.Write(tail)
	buf.Write(data.Bytes())
	buf.Write(table.Bytes())

	return buf.Bytes()
}

// Expectation: a well-formed VDF should be claimed, with backslash
// separators normalized and directory-flagged records skipped (directories
// are synthesized from path components instead).
func Test_Parse_WellFormed_Success(t *testing.T) {
	t.Parallel()

	data := buildVDF(t, map[string][]byte{`TEXTURES\WOOD.TGA`: []byte("texdata")})

	a := New()
	opaque, claim, err := a.OpenArchive(iosource.NewMemory(data), "game.vdf", false)
	require.NoError(t, err)
	require.Equal(t, archiver.ClaimOK, claim)

	src, err := a.OpenRead(opaque, "TEXTURES/WOOD.TGA")
	require.NoError(t, err)
	got, err := io.ReadAll(src)
	require.NoError(t, err)
	require.Equal(t, "texdata", string(got))

	st, err := a.Stat(opaque, "TEXTURES")
	require.NoError(t, err)
	require.Equal(t, archiver.TypeDirectory, st.FileType)
}

// Expectation: an unrecognized signature should report ClaimNone.
func Test_Parse_BadSignature_ClaimNone(t *testing.T) {
	t.Parallel()

	data := make([]byte, headerSize)
	copy(data[commentSize:commentSize+signatureSize], "NOT_A_VDF_SIG")

	a := New()
	_, claim, err := a.OpenArchive(iosource.NewMemory(data), "x.vdf", false)
	require.NoError(t, err)
	require.Equal(t, archiver.ClaimNone, claim)
}
