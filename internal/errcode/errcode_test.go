package errcode

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// Expectation: Error.Error should format with path and wrapped error when
// both are present, and degrade gracefully when either is absent.
func Test_Error_Error_Formatting(t *testing.T) {
	t.Parallel()

	full := New(ErrIO, "openRead", "a.txt", io.ErrUnexpectedEOF)
	require.Contains(t, full.Error(), "openRead")
	require.Contains(t, full.Error(), "a.txt")
	require.Contains(t, full.Error(), io.ErrUnexpectedEOF.Error())

	noPath := New(ErrOther, "mount", "", io.ErrClosedPipe)
	require.NotContains(t, noPath.Error(), `""`)

	bare := New(ErrNotFound, "stat", "b.txt", nil)
	require.Equal(t, `physfs: stat "b.txt": file (or entry) not found`, bare.Error())
}

// Expectation: errors.Is should match both another *Error with the same
// Code and a Code()-wrapped ErrorCode, and reject everything else.
func Test_Error_Is_Success(t *testing.T) {
	t.Parallel()

	err := New(ErrNotFound, "stat", "x", nil)

	require.True(t, errors.Is(err, New(ErrNotFound, "other", "y", nil)))
	require.True(t, errors.Is(err, Code(ErrNotFound)))
	require.False(t, errors.Is(err, Code(ErrIO)))
	require.False(t, errors.Is(err, io.EOF))
}

// Expectation: Unwrap should expose the wrapped underlying error.
func Test_Error_Unwrap_Success(t *testing.T) {
	t.Parallel()

	err := New(ErrIO, "openRead", "x", io.ErrUnexpectedEOF)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

// Expectation: String returns the registered description, falling back to
// a generic message for an out-of-range code.
func Test_ErrorCode_String_UnknownFallback(t *testing.T) {
	t.Parallel()

	require.Equal(t, "file (or entry) not found", ErrNotFound.String())
	require.Equal(t, "unknown error", ErrorCode(9999).String())
}
