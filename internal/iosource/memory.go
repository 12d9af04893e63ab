package iosource

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
)

var errMemoryReadOnly = errors.New("iosource: memory source is read-only")

// memBuffer is the refcounted backing buffer shared by a memory Source and
// all of its duplicates: an atomic reference count around the byte buffer,
// incremented on Duplicate, decremented on Destroy, freed only when it
// reaches zero.
type memBuffer struct {
	data     []byte
	refCount atomic.Int32
}

// memory is a Source backed by an in-memory byte slice (mount_memory).
// Multiple duplicates share one memBuffer but keep independent positions.
type memory struct {
	buf *memBuffer
	pos int64
}

// NewMemory wraps data (not copied) as a read-only Source with an initial
// reference count of one.
func NewMemory(data []byte) Source {
	buf := &memBuffer{data: data}
	buf.refCount.Store(1)

	return &memory{buf: buf}
}

func (m *memory) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf.data)) {
		return 0, io.EOF
	}

	n := copy(p, m.buf.data[m.pos:])
	m.pos += int64(n)

	return n, nil
}

func (m *memory) Write(_ []byte) (int, error) {
	return 0, errMemoryReadOnly
}

func (m *memory) Seek(offset int64) error {
	if offset < 0 || offset > int64(len(m.buf.data)) {
		return fmt.Errorf("iosource: seek %d out of range (len=%d)", offset, len(m.buf.data))
	}

	m.pos = offset

	return nil
}

func (m *memory) Tell() (int64, error) {
	return m.pos, nil
}

func (m *memory) Length() (int64, error) {
	return int64(len(m.buf.data)), nil
}

func (m *memory) Duplicate() (Source, bool) {
	m.buf.refCount.Add(1)

	return &memory{buf: m.buf, pos: m.pos}, true
}

func (m *memory) Flush() error {
	return nil
}

func (m *memory) Destroy() error {
	// Only the last reference actually frees the buffer; duplicates merely
	// drop their share of the refcount.
	m.buf.refCount.Add(-1)

	return nil
}
