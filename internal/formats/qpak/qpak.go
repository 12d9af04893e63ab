// Package qpak implements the Quake-engine PAK archive format: a 4-byte
// "PACK" magic, a directory offset and length, then a flat directory of
// (56-byte name, offset, size) records.
package qpak

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/iosource"
	"github.com/go-physfs/physfs/internal/unpacked"
)

const (
	headerSize = 12
	nameSize   = 56
	recordSize = nameSize + 8
)

// New builds the QPAK Archiver.
func New() archiver.Archiver { return unpacked.NewBackend("pak", "Quake engine PAK archive", parse) }

func parse(src iosource.Source) ([]unpacked.RawEntry, bool, error) {
	hdr := make([]byte, headerSize)
	if _, err := unpacked.ReadFull(src, hdr); err != nil {
		return nil, false, nil //nolint:nilerr
	}

	if string(hdr[:4]) != "PACK" {
		return nil, false, nil
	}

	dirOffset := binary.LittleEndian.Uint32(hdr[4:8])
	dirLength := binary.LittleEndian.Uint32(hdr[8:12])

	if err := src.Seek(int64(dirOffset)); err != nil {
		return nil, true, fmt.Errorf("qpak: seek directory: %w", err)
	}

	table := make([]byte, dirLength)
	if _, err := unpacked.ReadFull(src, table); err != nil {
		return nil, true, fmt.Errorf("qpak: truncated directory: %w", err)
	}

	count := int(dirLength) / recordSize
	entries := make([]unpacked.RawEntry, 0, count)

	for i := 0; i < count; i++ {
		rec := table[i*recordSize : (i+1)*recordSize]
		name := strings.TrimRight(string(rec[:nameSize]), "\x00")
		offset := int64(binary.LittleEndian.Uint32(rec[nameSize : nameSize+4]))
		size := int64(binary.LittleEndian.Uint32(rec[nameSize+4 : nameSize+8]))

		entries = append(entries, unpacked.RawEntry{Name: name, Offset: offset, Size: size})
	}

	return entries, true, nil
}
