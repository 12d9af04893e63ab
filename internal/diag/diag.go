// Package diag implements the handling of diagnostic events within the library.
package diag

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const bufferLinesMax = 500

// Buffer is the global ring-buffer of library events (mounts, unmounts,
// archiver claims, symlink resolution, decrypt failures, ...).
var Buffer = newRingBuffer(bufferLinesMax)

// Metrics are process-wide counters surfaced by diagnostics front-ends
// such as cmd/physfsd, purely for observability.
var Metrics = struct {
	OpenArchives      atomic.Int64
	TotalOpened       atomic.Int64
	TotalClosed       atomic.Int64
	MetadataReadTime  atomic.Int64
	MetadataReadCount atomic.Int64
	ExtractTime       atomic.Int64
	ExtractCount      atomic.Int64
	ExtractBytes      atomic.Int64
	CacheHits         atomic.Int64
	CacheMisses       atomic.Int64
}{}

// ringBuffer is a simple ring-buffer for diagnostic messages.
type ringBuffer struct {
	mu    sync.Mutex
	buf   []string
	index int
	full  bool
	size  int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		buf:  make([]string, size),
		size: size,
	}
}

func (r *ringBuffer) Size() int {
	return r.size
}

// Lines returns the buffered messages in chronological order.
func (r *ringBuffer) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		out := make([]string, r.index)
		copy(out, r.buf[:r.index])

		return out
	}

	out := make([]string, r.size)
	copy(out, r.buf[r.index:])
	copy(out[r.size-r.index:], r.buf[:r.index])

	return out
}

func (r *ringBuffer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf = make([]string, r.size)
	r.index = 0
	r.full = false
}

func (r *ringBuffer) add(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.index] = strings.TrimSuffix(msg, "\n")
	r.index = (r.index + 1) % r.size
	if r.index == 0 {
		r.full = true
	}
}

// Printf adds a message to the ring-buffer and also prints it to stderr.
func Printf(format string, args ...any) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	msg := fmt.Sprintf(format, args...)
	full := fmt.Sprintf("%s %s", timestamp, msg)

	Buffer.add(full)
	log.Printf(format, args...)
}

// Println adds a message to the ring-buffer and also prints it to stderr.
func Println(args ...any) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	msg := fmt.Sprintln(args...)
	full := fmt.Sprintf("%s %s", timestamp, strings.TrimRight(msg, "\n"))

	Buffer.add(full)
	log.Println(args...)
}
