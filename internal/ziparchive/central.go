package ziparchive

import (
	"fmt"

	"github.com/go-physfs/physfs/internal/dirtree"
)

const maxCommentLen = 0xFFFF

type eocd struct {
	diskEntries   uint64
	totalEntries  uint64
	cdSize        uint64
	cdOffset      uint64
	eocdOffset    int64
}

// parse locates the end-of-central-directory record (trying the Zip64
// locator/EOCD first when the Zip32 record's sentinels say to), scans the
// central directory, and builds the archive's directory tree.
func (a *Archive) parse() error {
	length, err := a.src.Length()
	if err != nil {
		return fmt.Errorf("ziparchive: length: %w", err)
	}

	e, err := a.findEOCD(length)
	if err != nil {
		return err
	}

	// Self-extractor fixup: the EOCD's cdOffset assumes the archive begins
	// at file offset 0. When a stub is prepended, the true base is derived
	// from where the central directory was actually found.
	expectedCDStart := e.eocdOffset - int64(e.cdSize)
	base := expectedCDStart - int64(e.cdOffset)

	a.tree = dirtree.New(func(name string, isdir bool) (*dirtree.Entry, any) {
		en := &entry{}
		en.Name = name
		en.IsDir = isdir

		return &en.Entry, en
	})

	off := base + int64(e.cdOffset)

	for i := uint64(0); i < e.totalEntries; i++ {
		n, consumed, err := a.parseCentralRecord(off, base)
		if err != nil {
			return err
		}

		owner, err := a.tree.Add(n.Name, n.IsDir)
		if err != nil {
			return fmt.Errorf("ziparchive: %w", err)
		}

		if en, ok := owner.(*entry); ok {
			en.method = n.method
			en.flags = n.flags
			en.crc32 = n.crc32
			en.compSize = n.compSize
			en.uncompSize = n.uncompSize
			en.localOffset = n.localOffset
			en.modTime = n.modTime
			en.dosModTime = n.dosModTime
			en.externalAttr = n.externalAttr
			en.isSymlink = n.isSymlink

			if en.flags&flagEncrypted != 0 {
				a.hasEncrypted = true
			}
		}

		off += consumed
	}

	return nil
}

// findEOCD scans backward from the end of the file for the Zip32 EOCD
// signature (the comment field makes its position variable, so this is a
// bounded backward search), then upgrades to the Zip64 record if the
// Zip32 fields contain the 0xFFFF/0xFFFFFFFF sentinels.
func (a *Archive) findEOCD(length int64) (eocd, error) {
	searchLen := int64(eocdFixedSize + maxCommentLen)
	if searchLen > length {
		searchLen = length
	}

	start := length - searchLen

	buf, err := a.readAt(start, int(searchLen))
	if err != nil {
		return eocd{}, err
	}

	pos := -1
	for i := len(buf) - eocdFixedSize; i >= 0; i-- {
		if readUint32(buf, i) == sigEOCD {
			pos = i

			break
		}
	}

	if pos < 0 {
		return eocd{}, ErrNoEOCD
	}

	eocdOffset := start + int64(pos)

	e := eocd{
		diskEntries:  uint64(readUint16(buf, pos+8)),
		totalEntries: uint64(readUint16(buf, pos+10)),
		cdSize:       uint64(readUint32(buf, pos+12)),
		cdOffset:     uint64(readUint32(buf, pos+16)),
		eocdOffset:   eocdOffset,
	}

	needsZip64 := e.totalEntries == 0xFFFF || e.cdSize == 0xFFFFFFFF || e.cdOffset == 0xFFFFFFFF
	if !needsZip64 {
		return e, nil
	}

	return a.findZip64EOCD(eocdOffset)
}

// findZip64EOCD locates the Zip64 locator immediately preceding the Zip32
// EOCD, follows it to the Zip64 EOCD record, and returns the wider fields.
func (a *Archive) findZip64EOCD(eocdOffset int64) (eocd, error) {
	locatorOffset := eocdOffset - zip64LocatorSize
	if locatorOffset < 0 {
		return eocd{}, ErrNoEOCD
	}

	locBuf, err := a.readAt(locatorOffset, zip64LocatorSize)
	if err != nil || len(locBuf) < zip64LocatorSize {
		return eocd{}, ErrNoEOCD
	}

	if readUint32(locBuf, 0) != sigZip64Locator {
		return eocd{}, ErrNoEOCD
	}

	zip64EOCDOffset := int64(readUint64(locBuf, 8))

	rec, err := a.readAt(zip64EOCDOffset, zip64EOCDFixedSize)
	if err != nil || len(rec) < zip64EOCDFixedSize {
		return eocd{}, fmt.Errorf("ziparchive: zip64 eocd: %w", ErrBadCentral)
	}

	if readUint32(rec, 0) != sigZip64EOCD {
		return eocd{}, fmt.Errorf("ziparchive: zip64 eocd signature: %w", ErrBadCentral)
	}

	return eocd{
		diskEntries:  readUint64(rec, 24),
		totalEntries: readUint64(rec, 32),
		cdSize:       readUint64(rec, 40),
		cdOffset:     readUint64(rec, 48),
		eocdOffset:   zip64EOCDOffset,
	}, nil
}

const centralFixedSize = 46

// parseCentralRecord reads one central-directory record at off, returning
// its *entry and the number of bytes it occupied (fixed header + variable
// name/extra/comment).
func (a *Archive) parseCentralRecord(off, base int64) (*entry, int64, error) {
	hdr, err := a.readAt(off, centralFixedSize)
	if err != nil || len(hdr) < centralFixedSize {
		return nil, 0, fmt.Errorf("ziparchive: central record at %d: %w", off, ErrBadCentral)
	}

	if readUint32(hdr, 0) != sigCentralDir {
		return nil, 0, fmt.Errorf("ziparchive: central record signature at %d: %w", off, ErrBadCentral)
	}

	flags := readUint16(hdr, 8)
	method := readUint16(hdr, 10)
	modTime := readUint16(hdr, 12)
	modDate := readUint16(hdr, 14)
	crc := readUint32(hdr, 16)
	compSize := uint64(readUint32(hdr, 20))
	uncompSize := uint64(readUint32(hdr, 24))
	nameLen := int(readUint16(hdr, 28))
	extraLen := int(readUint16(hdr, 30))
	commentLen := int(readUint16(hdr, 32))
	externalAttr := readUint32(hdr, 38)
	localOffset := uint64(readUint32(hdr, 42))

	variable, err := a.readAt(off+centralFixedSize, nameLen+extraLen+commentLen)
	if err != nil {
		return nil, 0, fmt.Errorf("ziparchive: central record variable fields at %d: %w", off, err)
	}

	name := string(variable[:nameLen])
	extra := variable[nameLen : nameLen+extraLen]

	compSize, uncompSize, localOffset = applyZip64Extra(extra, compSize, uncompSize, localOffset)
	name = applyUnicodeExtra(extra, name)

	e := &entry{
		method:       method,
		flags:        flags,
		crc32:        crc,
		compSize:     int64(compSize),
		uncompSize:   int64(uncompSize),
		localOffset:  base + int64(localOffset),
		modTime:      dosTimeToUnix(modDate, modTime),
		dosModTime:   modTime,
		externalAttr: externalAttr,
	}
	e.Name = stripTrailingSlash(name)
	e.IsDir = len(name) > 0 && name[len(name)-1] == '/'

	if isUnixSymlink(externalAttr) {
		e.isSymlink = true
	}

	total := int64(centralFixedSize + nameLen + extraLen + commentLen)

	return e, total, nil
}

// applyZip64Extra overrides the Zip32 fixed-header values with their Zip64
// extra-field counterparts wherever the fixed field held the 0xFFFFFFFF
// sentinel, in the fixed order APPNOTE.TXT mandates: uncompressed size,
// compressed size, then local header offset.
func applyZip64Extra(extra []byte, compSize, uncompSize, localOffset uint64) (uint64, uint64, uint64) {
	for i := 0; i+4 <= len(extra); {
		id := readUint16(extra, i)
		size := int(readUint16(extra, i+2))

		if i+4+size > len(extra) {
			break
		}

		if id == extraZip64 {
			body := extra[i+4 : i+4+size]
			pos := 0

			if uncompSize == 0xFFFFFFFF && pos+8 <= len(body) {
				uncompSize = readUint64(body, pos)
				pos += 8
			}
			if compSize == 0xFFFFFFFF && pos+8 <= len(body) {
				compSize = readUint64(body, pos)
				pos += 8
			}
			if localOffset == 0xFFFFFFFF && pos+8 <= len(body) {
				localOffset = readUint64(body, pos)
				pos += 8
			}

			break
		}

		i += 4 + size
	}

	return compSize, uncompSize, localOffset
}

func stripTrailingSlash(name string) string {
	if len(name) > 0 && name[len(name)-1] == '/' {
		return name[:len(name)-1]
	}

	return name
}

// isUnixSymlink checks the Unix mode bits Info-ZIP stores in the upper 16
// bits of the external file attributes (S_IFLNK == 0120000).
func isUnixSymlink(externalAttr uint32) bool {
	const sIFLNK = 0o120000

	mode := externalAttr >> 16

	return mode&0o170000 == sIFLNK
}

func dosTimeToUnix(date, time uint16) int64 {
	sec := int((time & 0x1F) * 2)
	minute := int((time >> 5) & 0x3F)
	hour := int((time >> 11) & 0x1F)

	day := int(date & 0x1F)
	month := int((date >> 5) & 0xF)
	year := int((date>>9)&0x7F) + 1980

	return civilToUnix(year, month, day, hour, minute, sec)
}
