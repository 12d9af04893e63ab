// Package wad implements the DOOM-engine WAD archive format: a 4-byte
// "IWAD"/"PWAD" magic, a lump count and directory offset, then a flat
// directory of (offset, size, 8-byte name) records.
package wad

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/iosource"
	"github.com/go-physfs/physfs/internal/unpacked"
)

const (
	headerSize    = 12
	lumpRecordSize = 16
)

// New builds the WAD Archiver.
func New() archiver.Archiver { return unpacked.NewBackend("wad", "DOOM engine WAD archive", parse) }

func parse(src iosource.Source) ([]unpacked.RawEntry, bool, error) {
	hdr := make([]byte, headerSize)
	if _, err := unpacked.ReadFull(src, hdr); err != nil {
		return nil, false, nil //nolint:nilerr
	}

	magic := string(hdr[:4])
	if magic != "IWAD" && magic != "PWAD" {
		return nil, false, nil
	}

	numLumps := binary.LittleEndian.Uint32(hdr[4:8])
	dirOffset := binary.LittleEndian.Uint32(hdr[8:12])

	if err := src.Seek(int64(dirOffset)); err != nil {
		return nil, true, fmt.Errorf("wad: seek directory: %w", err)
	}

	table := make([]byte, int(numLumps)*lumpRecordSize)
	if _, err := unpacked.ReadFull(src, table); err != nil {
		return nil, true, fmt.Errorf("wad: truncated directory: %w", err)
	}

	entries := make([]unpacked.RawEntry, 0, numLumps)

	for i := 0; i < int(numLumps); i++ {
		rec := table[i*lumpRecordSize : (i+1)*lumpRecordSize]
		offset := int64(binary.LittleEndian.Uint32(rec[0:4]))
		size := int64(binary.LittleEndian.Uint32(rec[4:8]))
		name := strings.TrimRight(string(rec[8:16]), "\x00")

		entries = append(entries, unpacked.RawEntry{Name: name, Offset: offset, Size: size})
	}

	return entries, true, nil
}
