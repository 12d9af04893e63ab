package ziparchive

import "fmt"

const localFixedSize = 30

// resolveDataStart reads e's local file header lazily, once: the central
// directory's offset points at the local header, not the data, and the
// data's true start depends on the local header's own name/extra field
// lengths, which can differ from the central record's -- notably for
// ZIP64, where the local extra field is often smaller.
func (a *Archive) resolveDataStart(e *entry) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.resolved {
		return nil
	}

	hdr, err := a.readAt(e.localOffset, localFixedSize)
	if err != nil || len(hdr) < localFixedSize {
		return fmt.Errorf("ziparchive: local header at %d: %w", e.localOffset, ErrBadCentral)
	}

	if readUint32(hdr, 0) != sigLocalFile {
		return fmt.Errorf("ziparchive: local header signature at %d: %w", e.localOffset, ErrBadCentral)
	}

	nameLen := int(readUint16(hdr, 26))
	extraLen := int(readUint16(hdr, 28))

	e.dataStart = e.localOffset + localFixedSize + int64(nameLen) + int64(extraLen)
	e.resolved = true

	return nil
}
