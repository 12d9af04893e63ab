// Package hog implements the Descent HOG archive format (HOG1, the common
// case): a 3-byte "DHF" magic followed directly by records of a 13-byte
// name, a 4-byte size, then the file's data -- there is no separate
// directory table; each record's data immediately precedes the next
// record's header, so parsing means walking the file sequentially.
//
// HOG2 (Descent 2) replaces the flat layout with an upfront table and a
// per-entry flags/timestamp field; it is not implemented here (tracked as
// a format this backend does not claim, falling through to ClaimNone).
package hog

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/iosource"
	"github.com/go-physfs/physfs/internal/unpacked"
)

const (
	magic          = "DHF"
	recordNameSize = 13
)

// New builds the HOG Archiver.
func New() archiver.Archiver { return unpacked.NewBackend("hog", "Descent HOG archive", parse) }

func parse(src iosource.Source) ([]unpacked.RawEntry, bool, error) {
	hdr := make([]byte, len(magic))
	if _, err := unpacked.ReadFull(src, hdr); err != nil {
		return nil, false, nil //nolint:nilerr
	}

	if string(hdr) != magic {
		return nil, false, nil
	}

	length, err := src.Length()
	if err != nil {
		return nil, true, fmt.Errorf("hog: length: %w", err)
	}

	var entries []unpacked.RawEntry

	offset := int64(len(magic))
	for offset < length {
		rec := make([]byte, recordNameSize+4)
		if _, err := unpacked.ReadFull(src, rec); err != nil {
			return nil, true, fmt.Errorf("hog: truncated record at %d: %w", offset, err)
		}

		name := strings.TrimRight(string(rec[:recordNameSize]), "\x00")
		size := int64(binary.LittleEndian.Uint32(rec[recordNameSize:]))
		dataOffset := offset + recordNameSize + 4

		entries = append(entries, unpacked.RawEntry{Name: name, Offset: dataOffset, Size: size})

		offset = dataOffset + size
		if err := src.Seek(offset); err != nil {
			return nil, true, fmt.Errorf("hog: seek past record at %d: %w", offset, err)
		}
	}

	return entries, true, nil
}
