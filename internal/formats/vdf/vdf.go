// Package vdf implements the Gothic I/II VDF (virtual disk file) archive
// format: a fixed 296-byte header (free-text comment, signature, counts,
// and the catalog's offset/size), followed by a flat catalog of 80-byte
// records (name, offset, size, and a type word whose high bit marks a
// subdirectory entry rather than a file).
package vdf

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/iosource"
	"github.com/go-physfs/physfs/internal/unpacked"
)

const (
	commentSize   = 256
	signatureSize = 16
	headerTailSize = 24 // entryCount, fileCount, timestamp, dataSize, rootOffset, catalogSize (4 each)
	headerSize    = commentSize + signatureSize + headerTailSize

	recordNameSize = 64
	recordSize     = recordNameSize + 16 // name, offset, size, type+attributes

	typeDirBit = 0x80000000
)

var knownSignaturePrefix = "PSVDSC_V2"

// New builds the VDF Archiver.
func New() archiver.Archiver { return unpacked.NewBackend("vdf", "Gothic I/II VDF archive", parse) }

func parse(src iosource.Source) ([]unpacked.RawEntry, bool, error) {
	hdr := make([]byte, headerSize)
	if _, err := unpacked.ReadFull(src, hdr); err != nil {
		return nil, false, nil //nolint:nilerr
	}

	signature := string(hdr[commentSize : commentSize+signatureSize])
	if !strings.HasPrefix(signature, knownSignaturePrefix) {
		return nil, false, nil
	}

	tail := hdr[commentSize+signatureSize:]
	rootOffset := binary.LittleEndian.Uint32(tail[16:20])
	catalogSize := binary.LittleEndian.Uint32(tail[20:24])

	if err := src.Seek(int64(rootOffset)); err != nil {
		return nil, true, fmt.Errorf("vdf: seek catalog: %w", err)
	}

	table := make([]byte, catalogSize)
	if _, err := unpacked.ReadFull(src, table); err != nil {
		return nil, true, fmt.Errorf("vdf: truncated catalog: %w", err)
	}

	count := int(catalogSize) / recordSize
	entries := make([]unpacked.RawEntry, 0, count)

	for i := 0; i < count; i++ {
		rec := table[i*recordSize : (i+1)*recordSize]
		typeWord := binary.LittleEndian.Uint32(rec[recordNameSize+8 : recordNameSize+12])

		if typeWord&typeDirBit != 0 {
			continue // directories are synthesized from file path components
		}

		name := strings.TrimRight(string(rec[:recordNameSize]), "\x00")
		name = strings.ReplaceAll(name, "\\", "/")
		offset := int64(binary.LittleEndian.Uint32(rec[recordNameSize : recordNameSize+4]))
		size := int64(binary.LittleEndian.Uint32(rec[recordNameSize+4 : recordNameSize+8]))

		entries = append(entries, unpacked.RawEntry{Name: name, Offset: offset, Size: size})
	}

	return entries, true, nil
}
