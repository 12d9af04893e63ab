// Package mvl implements the Descent Movie Library (MVL) archive format: a
// "DMVL" magic, a record count, then a flat table of (13-byte name, size)
// records followed by the concatenated data.
package mvl

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/iosource"
	"github.com/go-physfs/physfs/internal/unpacked"
)

const (
	magic      = "DMVL"
	recordSize = 17
)

// New builds the MVL Archiver.
func New() archiver.Archiver {
	return unpacked.NewBackend("mvl", "Descent Movie Library archive", parse)
}

func parse(src iosource.Source) ([]unpacked.RawEntry, bool, error) {
	hdr := make([]byte, len(magic)+4)
	if _, err := unpacked.ReadFull(src, hdr); err != nil {
		return nil, false, nil //nolint:nilerr
	}

	if string(hdr[:len(magic)]) != magic {
		return nil, false, nil
	}

	count := binary.LittleEndian.Uint32(hdr[len(magic):])

	table := make([]byte, int(count)*recordSize)
	if _, err := unpacked.ReadFull(src, table); err != nil {
		return nil, true, fmt.Errorf("mvl: truncated table: %w", err)
	}

	entries := make([]unpacked.RawEntry, 0, count)
	dataOffset := int64(len(hdr)) + int64(len(table))

	for i := 0; i < int(count); i++ {
		rec := table[i*recordSize : (i+1)*recordSize]
		name := strings.TrimRight(string(rec[:13]), "\x00")
		size := int64(binary.LittleEndian.Uint32(rec[13:17]))

		entries = append(entries, unpacked.RawEntry{Name: name, Offset: dataOffset, Size: size})
		dataOffset += size
	}

	return entries, true, nil
}
