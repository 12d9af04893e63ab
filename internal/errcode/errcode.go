package errcode

import "fmt"

// ErrorCode enumerates the failure categories a physfs-go operation can
// report. Values and names mirror the PhysicsFS error taxonomy so ported
// applications can match on symbolic names rather than opaque error text.
type ErrorCode int

// Error codes, grouped roughly by lifecycle stage: initialization,
// argument validation, resolution, and I/O.
const (
	ErrOK ErrorCode = iota
	ErrOther
	ErrOutOfMemory
	ErrNotInitialized
	ErrIsInitialized
	ErrArgv0IsNull
	ErrUnsupported
	ErrPastEOF
	ErrFilesStillOpen
	ErrInvalidArgument
	ErrNotMounted
	ErrNotFound
	ErrSymlinkForbidden
	ErrNoWriteDir
	ErrOpenForReading
	ErrOpenForWriting
	ErrNotAFile
	ErrReadOnly
	ErrCorrupt
	ErrSymlinkLoop
	ErrIO
	ErrPermission
	ErrNoSpace
	ErrBadFilename
	ErrBusy
	ErrDirNotEmpty
	ErrOSError
	ErrDuplicate
	ErrBadPassword
	ErrAppCallback
)

//nolint:gochecknoglobals
var errorText = map[ErrorCode]string{
	ErrOK:               "operation was successful",
	ErrOther:            "unspecified error",
	ErrOutOfMemory:      "process ran out of memory",
	ErrNotInitialized:   "library not initialized",
	ErrIsInitialized:    "library already initialized",
	ErrArgv0IsNull:      "argv[0] was nil/empty",
	ErrUnsupported:      "operation not supported",
	ErrPastEOF:          "attempted to access past end of file",
	ErrFilesStillOpen:   "files still open",
	ErrInvalidArgument:  "invalid argument",
	ErrNotMounted:       "requested archive/dir not mounted",
	ErrNotFound:         "file (or entry) not found",
	ErrSymlinkForbidden: "symbolic links are disabled",
	ErrNoWriteDir:       "write directory is not set",
	ErrOpenForReading:   "file open for reading",
	ErrOpenForWriting:   "file open for writing",
	ErrNotAFile:         "not a file",
	ErrReadOnly:         "read-only filesystem",
	ErrCorrupt:          "corrupted file",
	ErrSymlinkLoop:      "infinite symbolic link loop",
	ErrIO:               "i/o error",
	ErrPermission:       "permission denied",
	ErrNoSpace:          "insufficient storage space",
	ErrBadFilename:      "filename is illegal or insecure",
	ErrBusy:             "tried to modify a file the OS needs elsewhere",
	ErrDirNotEmpty:      "directory isn't empty",
	ErrOSError:          "OS reported an error",
	ErrDuplicate:        "duplicate entry",
	ErrBadPassword:      "bad password",
	ErrAppCallback:      "application callback reported an error",
}

// String returns the English description of the error code.
func (c ErrorCode) String() string {
	if s, ok := errorText[c]; ok {
		return s
	}

	return "unknown error"
}

// Error is the structured error type returned by all physfs-go operations.
// It satisfies errors.Is against both another *Error of the same Code and
// against a bare ErrorCode wrapped with [Code], and errors.As for callers
// that want the code without parsing strings.
type Error struct {
	Code ErrorCode
	Op   string // operation name, e.g. "mount", "openRead"
	Path string // path/source involved, if any
	Err  error  // wrapped underlying error, if any (I/O errors etc.)
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("physfs: %s %q: %s: %v", e.Op, e.Path, e.Code, e.Err)
	case e.Path != "":
		return fmt.Sprintf("physfs: %s %q: %s", e.Op, e.Path, e.Code)
	case e.Err != nil:
		return fmt.Sprintf("physfs: %s: %s: %v", e.Op, e.Code, e.Err)
	default:
		return fmt.Sprintf("physfs: %s: %s", e.Op, e.Code)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case *Error:
		return t.Code == e.Code
	case codeMatcher:
		return ErrorCode(t) == e.Code
	default:
		return false
	}
}

// codeMatcher lets callers write errors.Is(err, errcode.Code(errcode.ErrNotFound)).
type codeMatcher ErrorCode

func (c codeMatcher) Error() string { return ErrorCode(c).String() }

// Code wraps an ErrorCode so it can be used as the target of errors.Is.
func Code(c ErrorCode) error { return codeMatcher(c) }

// New builds an *Error carrying its code, op, and path; the caller's
// Library records it against its last-error state.
func New(code ErrorCode, op, path string, wrapped error) *Error {
	return &Error{Code: code, Op: op, Path: path, Err: wrapped}
}
