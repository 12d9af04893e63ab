// Package grp implements the Build-engine GRP archive format (Duke Nukem
// 3D, Shadow Warrior, Blood): a 12-byte magic, a record count, a flat
// table of 12-byte names and sizes, then the file data back to back in
// table order.
package grp

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/iosource"
	"github.com/go-physfs/physfs/internal/unpacked"
)

const (
	magic      = "KenSilverman"
	recordSize = 16
)

// New builds the GRP Archiver.
func New() archiver.Archiver { return unpacked.NewBackend("grp", "Build engine GRP archive", parse) }

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
		return nil, true, fmt.Errorf("grp: truncated table: %w", err)
	}

	entries := make([]unpacked.RawEntry, 0, count)
	dataOffset := int64(len(hdr)) + int64(len(table))

	for i := 0; i < int(count); i++ {
		rec := table[i*recordSize : (i+1)*recordSize]
		name := strings.TrimRight(string(rec[:12]), "\x00")
		size := int64(binary.LittleEndian.Uint32(rec[12:16]))

		entries = append(entries, unpacked.RawEntry{Name: name, Offset: dataOffset, Size: size})
		dataOffset += size
	}

	return entries, true, nil
}
