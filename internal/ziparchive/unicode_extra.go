package ziparchive

import "hash/crc32"

// applyUnicodeExtra recovers the true UTF-8 name from an Info-ZIP Unicode
// Path extra field (0x7075) when present and its CRC32 of the stored
// (possibly non-UTF-8) name matches -- a supplemented feature beyond the
// base Zip32/Zip64 parse: archives built on filesystems with legacy
// codepages carry both a best-effort narrow name and this extra field with
// the real UTF-8 name, and tools disagree on which to trust without the
// CRC guard.
func applyUnicodeExtra(extra []byte, name string) string {
	for i := 0; i+4 <= len(extra); {
		id := readUint16(extra, i)
		size := int(readUint16(extra, i+2))

		if i+4+size > len(extra) {
			break
		}

		if id == extraUnixUTF && size >= 5 {
			body := extra[i+4 : i+4+size]
			version := body[0]
			storedCRC := readUint32(body, 1)

			if version == 1 && storedCRC == crc32.ChecksumIEEE([]byte(name)) {
				return string(body[5:])
			}
		}

		i += 4 + size
	}

	return name
}
