package physfs

import "github.com/go-physfs/physfs/internal/errcode"

// ErrorCode enumerates the failure categories a physfs-go operation can
// report. See internal/errcode for the canonical definition; it lives in an
// internal package so internal/vfs and the archiver backends can construct
// *Error values without importing this package (which itself imports them).
type ErrorCode = errcode.ErrorCode

// Error is the structured error type returned by all physfs-go operations.
type Error = errcode.Error

// Error codes, grouped roughly by lifecycle stage: initialization,
// argument validation, resolution, and I/O.
const (
	ErrOK               = errcode.ErrOK
	ErrOther            = errcode.ErrOther
	ErrOutOfMemory       = errcode.ErrOutOfMemory
	ErrNotInitialized   = errcode.ErrNotInitialized
	ErrIsInitialized    = errcode.ErrIsInitialized
	ErrArgv0IsNull      = errcode.ErrArgv0IsNull
	ErrUnsupported      = errcode.ErrUnsupported
	ErrPastEOF          = errcode.ErrPastEOF
	ErrFilesStillOpen   = errcode.ErrFilesStillOpen
	ErrInvalidArgument  = errcode.ErrInvalidArgument
	ErrNotMounted       = errcode.ErrNotMounted
	ErrNotFound         = errcode.ErrNotFound
	ErrSymlinkForbidden = errcode.ErrSymlinkForbidden
	ErrNoWriteDir       = errcode.ErrNoWriteDir
	ErrOpenForReading   = errcode.ErrOpenForReading
	ErrOpenForWriting   = errcode.ErrOpenForWriting
	ErrNotAFile         = errcode.ErrNotAFile
	ErrReadOnly         = errcode.ErrReadOnly
	ErrCorrupt          = errcode.ErrCorrupt
	ErrSymlinkLoop      = errcode.ErrSymlinkLoop
	ErrIO               = errcode.ErrIO
	ErrPermission       = errcode.ErrPermission
	ErrNoSpace          = errcode.ErrNoSpace
	ErrBadFilename      = errcode.ErrBadFilename
	ErrBusy             = errcode.ErrBusy
	ErrDirNotEmpty      = errcode.ErrDirNotEmpty
	ErrOSError          = errcode.ErrOSError
	ErrDuplicate        = errcode.ErrDuplicate
	ErrBadPassword      = errcode.ErrBadPassword
	ErrAppCallback      = errcode.ErrAppCallback
)

// Code wraps an ErrorCode so it can be used as the target of errors.Is,
// e.g. errors.Is(err, physfs.Code(physfs.ErrNotFound)).
func Code(c ErrorCode) error { return errcode.Code(c) }

// GetErrorByCode returns the English description of an error code. Unlike
// a thread-local last-error pointer whose lifetime ties to the next call
// on the same thread, this returns an owned string.
func GetErrorByCode(c ErrorCode) string {
	return c.String()
}
