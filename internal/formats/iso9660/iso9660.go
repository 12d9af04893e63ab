// Package iso9660 implements an ISO 9660 (CD-ROM image) archiver: Primary
// and Supplementary (Joliet) Volume Descriptor parsing, preferring the
// long-filename, UCS-2 Joliet tree when present, with a recursive
// directory-record walk building the directory tree eagerly at mount
// time. Rock Ridge (POSIX names/permissions/symlinks) extensions are not
// implemented -- plain ISO 9660 and Joliet only.
package iso9660

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/go-physfs/physfs/internal/archiver"
	"github.com/go-physfs/physfs/internal/dirtree"
	"github.com/go-physfs/physfs/internal/iosource"
)

const (
	sectorSize       = 2048
	volumeDescStart  = 16
	typePrimary      = 1
	typeSupplementary = 2
	typeTerminator   = 255
	stdIdentifier    = "CD001"
)

type entry struct {
	dirtree.Entry

	extent int64
	size   int64
}

func (e *entry) DirtreeEntry() *dirtree.Entry { return &e.Entry }

// Archive is the opaque per-mount state.
type Archive struct {
	src    iosource.Source
	tree   *dirtree.Tree
	joliet bool
}

type isoArchiver struct{}

// New builds the ISO 9660 Archiver.
func New() archiver.Archiver { return isoArchiver{} }

func (isoArchiver) Extension() string      { return "iso" }
func (isoArchiver) Description() string    { return "ISO 9660 CD-ROM image (with Joliet)" }
func (isoArchiver) SupportsSymlinks() bool { return false }

func (isoArchiver) OpenArchive(src iosource.Source, _ string, forWriting bool) (any, archiver.Claim, error) {
	if forWriting {
		return nil, archiver.ClaimNone, fmt.Errorf("iso9660: read-only")
	}

	a := &Archive{src: src}

	rootExtent, rootSize, joliet, ok, err := a.findRoot()
	if !ok {
		return nil, archiver.ClaimNone, nil
	}
	if err != nil {
		return nil, archiver.ClaimBroken, err
	}

	a.joliet = joliet

	a.tree = dirtree.New(func(name string, isdir bool) (*dirtree.Entry, any) {
		e := &entry{}
		e.Name = name
		e.IsDir = isdir

		return &e.Entry, e
	})

	if err := a.walkDirectory("", rootExtent, rootSize); err != nil {
		return nil, archiver.ClaimBroken, err
	}

	return a, archiver.ClaimOK, nil
}

// findRoot scans the volume descriptor set starting at sector 16, keeping
// the Primary Volume Descriptor's root as a fallback and preferring a
// Supplementary (Joliet) descriptor's root if one with a recognized UCS-2
// escape sequence is found.
func (a *Archive) findRoot() (extent, size int64, joliet, ok bool, err error) {
	var (
		primaryExtent, primarySize     int64
		havePrimary                    bool
		jolietExtent, jolietSize       int64
		haveJoliet                     bool
	)

	for sector := volumeDescStart; ; sector++ {
		buf, rerr := a.readSector(sector)
		if rerr != nil {
			break
		}

		if string(buf[1:6]) != stdIdentifier {
			break
		}

		descType := buf[0]
		if descType == typeTerminator {
			break
		}

		if descType == typePrimary && !havePrimary {
			primaryExtent, primarySize = rootFromDescriptor(buf)
			havePrimary = true
		}

		if descType == typeSupplementary && !haveJoliet && isJolietEscape(buf[88:120]) {
			jolietExtent, jolietSize = rootFromDescriptor(buf)
			haveJoliet = true
		}
	}

	switch {
	case haveJoliet:
		return jolietExtent, jolietSize, true, true, nil
	case havePrimary:
		return primaryExtent, primarySize, false, true, nil
	default:
		return 0, 0, false, false, nil
	}
}

// isJolietEscape checks the SVD's escape-sequence field for one of the
// three standard Joliet UCS-2 Level 1-3 sequences.
func isJolietEscape(field []byte) bool {
	seqs := []string{"%/@", "%/C", "%/E"}
	for _, s := range seqs {
		if strings.HasPrefix(string(field), s) {
			return true
		}
	}

	return false
}

func rootFromDescriptor(buf []byte) (extent, size int64) {
	dr := buf[156:190]

	return int64(binary.LittleEndian.Uint32(dr[2:6])), int64(binary.LittleEndian.Uint32(dr[10:14]))
}

func (a *Archive) readSector(n int) ([]byte, error) {
	if err := a.src.Seek(int64(n) * sectorSize); err != nil {
		return nil, fmt.Errorf("iso9660: seek sector %d: %w", n, err)
	}

	buf := make([]byte, sectorSize)

	total := 0
	for total < len(buf) {
		m, err := a.src.Read(buf[total:])
		total += m
		if err != nil {
			return nil, fmt.Errorf("iso9660: read sector %d: %w", n, err)
		}
		if m == 0 {
			break
		}
	}

	if total < len(buf) {
		return nil, fmt.Errorf("iso9660: short sector %d", n)
	}

	return buf, nil
}

// walkDirectory reads the extent at (extentLBA, size) as a sequence of
// directory records (never spanning a sector boundary) and recurses into
// subdirectories, adding every file to the tree with its extent/size.
func (a *Archive) walkDirectory(prefix string, extentLBA, size int64) error {
	sectors := int((size + sectorSize - 1) / sectorSize)

	for s := 0; s < sectors; s++ {
		buf, err := a.readSector(int(extentLBA) + s)
		if err != nil {
			return err
		}

		pos := 0
		for pos < sectorSize {
			length := int(buf[pos])
			if length == 0 {
				break // rest of sector is padding
			}

			rec := buf[pos : pos+length]
			if err := a.handleRecord(prefix, rec); err != nil {
				return err
			}

			pos += length
		}
	}

	return nil
}

func (a *Archive) handleRecord(prefix string, rec []byte) error {
	flags := rec[25]
	isDir := flags&0x02 != 0
	nameLen := int(rec[32])

	if nameLen == 1 && (rec[33] == 0 || rec[33] == 1) {
		return nil // "." and ".." pseudo-entries
	}

	rawName := rec[33 : 33+nameLen]

	name, err := a.decodeName(rawName)
	if err != nil {
		return err
	}

	fullName := name
	if prefix != "" {
		fullName = prefix + "/" + name
	}

	childExtent := int64(binary.LittleEndian.Uint32(rec[2:6]))
	childSize := int64(binary.LittleEndian.Uint32(rec[10:14]))

	if _, err := a.tree.Add(fullName, isDir); err != nil {
		return fmt.Errorf("iso9660: add %q: %w", fullName, err)
	}

	if isDir {
		return a.walkDirectory(fullName, childExtent, childSize)
	}

	owner := a.tree.Find(fullName)
	if e, ok := owner.(*entry); ok {
		e.extent = childExtent
		e.size = childSize
	}

	return nil
}

// decodeName converts a raw directory-record name to UTF-8: UCS-2BE for
// Joliet, plain ASCII (with the ";version" suffix stripped) otherwise.
func (a *Archive) decodeName(raw []byte) (string, error) {
	if !a.joliet {
		name := string(raw)
		if idx := strings.IndexByte(name, ';'); idx >= 0 {
			name = name[:idx]
		}

		return name, nil
	}

	if len(raw)%2 != 0 {
		return "", fmt.Errorf("iso9660: odd-length joliet name")
	}

	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(raw[i*2:])
	}

	return string(utf16.Decode(units)), nil
}

func (a *Archive) lookup(path string) (*entry, bool) {
	owner := a.tree.Find(strings.TrimPrefix(path, "/"))
	if owner == nil {
		return nil, false
	}

	e, ok := owner.(*entry)

	return e, ok
}

func (isoArchiver) Enumerate(opaque any, dir string, cb archiver.EnumCallback, origdir string) error {
	a := opaque.(*Archive) //nolint:forcetypeassert

	_, result := a.tree.Enumerate(strings.TrimPrefix(dir, "/"), func(base string, _ any) dirtree.EnumResult {
		switch cb(origdir, base) {
		case archiver.EnumStop:
			return dirtree.EnumStop
		case archiver.EnumError:
			return dirtree.EnumError
		default:
			return dirtree.EnumOK
		}
	})

	if result == dirtree.EnumError {
		return archiver.ErrCallbackAborted
	}

	return nil
}

func (isoArchiver) OpenRead(opaque any, path string) (iosource.Source, error) {
	a := opaque.(*Archive) //nolint:forcetypeassert

	e, ok := a.lookup(path)
	if !ok || e.IsDir {
		return nil, fmt.Errorf("iso9660: %q not found", path)
	}

	dup, ok := a.src.Duplicate()
	if !ok {
		dup = a.src
	}

	base := e.extent * sectorSize
	if err := dup.Seek(base); err != nil {
		return nil, fmt.Errorf("iso9660: seek: %w", err)
	}

	return &extentSource{dup: dup, base: base, size: e.size}, nil
}

func (isoArchiver) OpenWrite(any, string) (iosource.Source, error) {
	return nil, fmt.Errorf("iso9660: read-only")
}

func (isoArchiver) OpenAppend(any, string) (iosource.Source, error) {
	return nil, fmt.Errorf("iso9660: read-only")
}

func (isoArchiver) Remove(any, string) error { return fmt.Errorf("iso9660: read-only") }
func (isoArchiver) Mkdir(any, string) error  { return fmt.Errorf("iso9660: read-only") }

func (isoArchiver) Stat(opaque any, path string) (archiver.Stat, error) {
	a := opaque.(*Archive) //nolint:forcetypeassert

	e, ok := a.lookup(path)
	if !ok {
		return archiver.Stat{}, fmt.Errorf("iso9660: %q not found", path)
	}

	ft := archiver.TypeRegular
	if e.IsDir {
		ft = archiver.TypeDirectory
	}

	return archiver.Stat{Filesize: e.size, FileType: ft, ReadOnly: true, ModTime: -1, CreateTime: -1, AccessTime: -1}, nil
}

func (isoArchiver) CloseArchive(opaque any) error {
	a := opaque.(*Archive) //nolint:forcetypeassert

	return a.src.Destroy()
}

type extentSource struct {
	dup  iosource.Source
	base int64
	size int64
	pos  int64
}

func (e *extentSource) Read(p []byte) (int, error) {
	remaining := e.size - e.pos
	if remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := e.dup.Read(p)
	e.pos += int64(n)

	return n, err //nolint:wrapcheck
}

func (e *extentSource) Write([]byte) (int, error) { return 0, fmt.Errorf("iso9660: read-only") }

func (e *extentSource) Seek(offset int64) error {
	if err := e.dup.Seek(e.base + offset); err != nil {
		return fmt.Errorf("iso9660: seek: %w", err)
	}
	e.pos = offset

	return nil
}

func (e *extentSource) Tell() (int64, error) { return e.pos, nil }

func (e *extentSource) Length() (int64, error) { return e.size, nil }

func (e *extentSource) Duplicate() (iosource.Source, bool) {
	dup, ok := e.dup.Duplicate()
	if !ok {
		return nil, false
	}

	if err := dup.Seek(e.base + e.pos); err != nil {
		_ = dup.Destroy()

		return nil, false
	}

	return &extentSource{dup: dup, base: e.base, size: e.size, pos: e.pos}, true
}

func (e *extentSource) Flush() error { return nil }

func (e *extentSource) Destroy() error { return e.dup.Destroy() }
