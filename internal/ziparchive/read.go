package ziparchive

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/go-physfs/physfs/internal/diag"
	"github.com/go-physfs/physfs/internal/iosource"
)

// entrySource is the iosource.Source returned for an open ZIP entry. Seeks
// are satisfied by re-running the decompression pipeline from the start
// and discarding leading bytes -- DEFLATE offers no random access, and
// re-decompressing is simpler and safer than maintaining an inflate
// window cache.
type entrySource struct {
	a        *Archive
	e        *entry
	password string // overrides a.password for this open; set from the "$password" path convenience
	pos      int64

	dup    iosource.Source // duplicate of the archive-level source, owned by this entrySource
	reader io.Reader        // current decompression pipeline, positioned at pos

	opened      time.Time
	extracted   int64
	metricsDone bool
}

func (a *Archive) openRaw(e *entry, password string) (iosource.Source, error) {
	if e.IsDir {
		return nil, fmt.Errorf("ziparchive: %q is a directory", e.Name)
	}

	if err := a.resolveDataStart(e); err != nil {
		return nil, err
	}

	dup, ok := a.src.Duplicate()
	if !ok {
		dup = a.src
	}

	es := &entrySource{a: a, e: e, password: password, dup: dup, opened: time.Now()}
	if err := es.reopen(0); err != nil {
		return nil, err
	}
	diag.Metrics.ExtractCount.Add(1)

	return es, nil
}

// openForRead resolves path (following symlinks when the caller permits, via
// the vfs layer's own check -- ziparchive itself always exposes the final
// target's data) and returns a readable Source.
//
// If the raw path isn't found and the archive holds any encrypted entries,
// the last "$" in the path is tried as a password separator: the prefix is
// looked up again and, if found, the suffix is used as the password for
// this open only, leaving the archive's configured password untouched.
func (a *Archive) openForRead(path string) (iosource.Source, error) {
	e, ok := a.lookupEntry(path)
	password := a.password

	if !ok && a.hasEncrypted {
		if idx := strings.LastIndexByte(path, '$'); idx >= 0 {
			if e2, ok2 := a.lookupEntry(path[:idx]); ok2 {
				e, ok = e2, true
				password = path[idx+1:]
			}
		}
	}

	if !ok {
		return nil, ErrEntryNotFound
	}

	if e.isSymlink {
		target, err := a.resolveSymlink(e)
		if err != nil {
			return nil, err
		}
		e = target
	}

	return a.openRaw(e, password)
}

// reopen rebuilds the decompression pipeline and discards discard leading
// decompressed bytes, leaving the reader positioned at that logical offset.
func (es *entrySource) reopen(discard int64) error {
	e := es.e

	if err := es.dup.Seek(e.dataStart); err != nil {
		return fmt.Errorf("ziparchive: seek entry data: %w", err)
	}

	compLen := e.compSize
	var cipher *pkwareCipher

	if e.flags&flagEncrypted != 0 {
		header := make([]byte, pkwareHeaderSize)
		if _, err := io.ReadFull(limitedReader(es.dup, pkwareHeaderSize), header); err != nil {
			return fmt.Errorf("ziparchive: read encryption header: %w", err)
		}

		cipher = newPKWareCipher(es.password)

		modTimeHigh := byte(e.dosModTime >> 8)
		if !verifyHeader(cipher, header, uint32(e.crc32), modTimeHigh, e.flags&flagDataDescriptor != 0) {
			return ErrBadPassword
		}

		compLen -= pkwareHeaderSize
	}

	var raw io.Reader = limitedReader(es.dup, compLen)
	if cipher != nil {
		raw = &decryptingReader{r: raw, c: cipher}
	}

	switch e.method {
	case methodStore:
		es.reader = raw
	case methodDeflate:
		es.reader = flate.NewReader(raw)
	default:
		return ErrUnsupported
	}

	es.pos = 0

	if discard > 0 {
		if _, err := io.CopyN(io.Discard, es.reader, discard); err != nil {
			return fmt.Errorf("ziparchive: seek (discard): %w", err)
		}
		es.pos = discard
	}

	return nil
}

func limitedReader(src iosource.Source, n int64) io.Reader {
	return io.LimitReader(src, n)
}

// decryptingReader applies the PKWARE stream cipher to bytes as they're
// read, ahead of DEFLATE (or direct, for Store) decompression.
type decryptingReader struct {
	r io.Reader
	c *pkwareCipher
}

func (d *decryptingReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if n > 0 {
		d.c.decrypt(p[:n])
	}

	return n, err //nolint:wrapcheck
}

func (es *entrySource) Read(p []byte) (int, error) {
	n, err := es.reader.Read(p)
	es.pos += int64(n)
	es.extracted += int64(n)

	return n, err //nolint:wrapcheck
}

func (es *entrySource) Write([]byte) (int, error) {
	return 0, ErrUnsupported
}

func (es *entrySource) Seek(offset int64) error {
	if offset == es.pos {
		return nil
	}

	if offset > es.pos {
		if _, err := io.CopyN(io.Discard, es.reader, offset-es.pos); err != nil {
			return fmt.Errorf("ziparchive: seek forward: %w", err)
		}
		es.pos = offset

		return nil
	}

	return es.reopen(offset)
}

func (es *entrySource) Tell() (int64, error) { return es.pos, nil }

func (es *entrySource) Length() (int64, error) { return es.e.uncompSize, nil }

func (es *entrySource) Duplicate() (iosource.Source, bool) {
	dup, ok := es.a.src.Duplicate()
	if !ok {
		return nil, false
	}

	clone := &entrySource{a: es.a, e: es.e, password: es.password, dup: dup, opened: time.Now()}
	if err := clone.reopen(es.pos); err != nil {
		_ = dup.Destroy()

		return nil, false
	}
	diag.Metrics.ExtractCount.Add(1)

	return clone, true
}

func (es *entrySource) Flush() error { return nil }

func (es *entrySource) Destroy() error {
	if !es.metricsDone {
		diag.Metrics.ExtractTime.Add(time.Since(es.opened).Nanoseconds())
		diag.Metrics.ExtractBytes.Add(es.extracted)
		es.metricsDone = true
	}

	if c, ok := es.reader.(io.Closer); ok {
		_ = c.Close()
	}

	return es.dup.Destroy()
}
