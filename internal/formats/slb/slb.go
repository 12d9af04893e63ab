// Package slb implements the Independence War SLB archive format: a
// 4-byte magic, a directory offset and entry count, then a flat directory
// of (64-byte name, offset, size) records. See DESIGN.md for the layout
// assumption this parser makes (no public format spec was available to
// cross-check against).
package slb

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/iosource"
	"github.com/go-physfs/physfs/internal/unpacked"
)

const (
	magic      = "SLB\x1a"
	headerSize = 12
	nameSize   = 64
	recordSize = nameSize + 8
)

// New builds the SLB Archiver.
func New() archiver.Archiver {
	return unpacked.NewBackend("slb", "Independence War SLB archive", parse)
}

func parse(src iosource.Source) ([]unpacked.RawEntry, bool, error) {
	hdr := make([]byte, headerSize)
	if _, err := unpacked.ReadFull(src, hdr); err != nil {
		return nil, false, nil //nolint:nilerr
	}

	if string(hdr[:len(magic)]) != magic {
		return nil, false, nil
	}

	dirOffset := binary.LittleEndian.Uint32(hdr[4:8])
	count := binary.LittleEndian.Uint32(hdr[8:12])

	if err := src.Seek(int64(dirOffset)); err != nil {
		return nil, true, fmt.Errorf("slb: seek directory: %w", err)
	}

	table := make([]byte, int(count)*recordSize)
	if _, err := unpacked.ReadFull(src, table); err != nil {
		return nil, true, fmt.Errorf("slb: truncated directory: %w", err)
	}

	entries := make([]unpacked.RawEntry, 0, count)

	for i := 0; i < int(count); i++ {
		rec := table[i*recordSize : (i+1)*recordSize]
		name := strings.TrimRight(string(rec[:nameSize]), "\x00")
		offset := int64(binary.LittleEndian.Uint32(rec[nameSize : nameSize+4]))
		size := int64(binary.LittleEndian.Uint32(rec[nameSize+4 : nameSize+8]))

		name = strings.ReplaceAll(name, "\\", "/")
		entries = append(entries, unpacked.RawEntry{Name: name, Offset: offset, Size: size})
	}

	return entries, true, nil
}
