// Package goid extracts the calling goroutine's runtime identity.
//
// It exists solely to back physfs.Library's ABI-parity GetLastErrorCode
// shim, which mirrors the original library's thread-local error slot. Every
// other code path in physfs-go uses ordinary explicit Go error returns;
// reach for this package only when emulating that one legacy entry point.
package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

// Get returns the current goroutine's id, parsed out of a runtime.Stack
// header line ("goroutine 123 [running]:"). It is deliberately not cheap;
// callers on a hot path should not use it.
func Get() int64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}
	buf = buf[len(prefix):]

	idx := bytes.IndexByte(buf, ' ')
	if idx < 0 {
		return 0
	}

	id, err := strconv.ParseInt(string(buf[:idx]), 10, 64)
	if err != nil {
		return 0
	}

	return id
}
