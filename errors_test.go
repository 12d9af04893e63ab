package physfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Expectation: GetErrorByCode should return the code's English description,
// matching ErrorCode.String.
func Test_GetErrorByCode_Success(t *testing.T) {
	t.Parallel()

	require.Equal(t, ErrNotFound.String(), GetErrorByCode(ErrNotFound))
	require.NotEmpty(t, GetErrorByCode(ErrIO))
}
