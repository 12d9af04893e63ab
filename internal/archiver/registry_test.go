package archiver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-physfs/physfs/internal/iosource"
)

type fakeArchiver struct {
	ext string
}

func (f *fakeArchiver) Extension() string        { return f.ext }
func (f *fakeArchiver) Description() string      { return "fake " + f.ext }
func (f *fakeArchiver) SupportsSymlinks() bool    { return false }
func (f *fakeArchiver) OpenArchive(iosource.Source, string, bool) (any, Claim, error) {
	return nil, ClaimNone, nil
}
func (f *fakeArchiver) Enumerate(any, string, EnumCallback, string) error { return nil }
func (f *fakeArchiver) OpenRead(any, string) (iosource.Source, error)     { return nil, nil }
func (f *fakeArchiver) OpenWrite(any, string) (iosource.Source, error)    { return nil, nil }
func (f *fakeArchiver) OpenAppend(any, string) (iosource.Source, error)   { return nil, nil }
func (f *fakeArchiver) Remove(any, string) error                         { return nil }
func (f *fakeArchiver) Mkdir(any, string) error                          { return nil }
func (f *fakeArchiver) Stat(any, string) (Stat, error)                   { return Stat{}, nil }
func (f *fakeArchiver) CloseArchive(any) error                           { return nil }

func desc(ext string) Descriptor {
	return Descriptor{Archiver: &fakeArchiver{ext: ext}, Author: "test", RegisteredAt: time.Now()}
}

// Expectation: a fresh Registry has no registered archivers.
func Test_NewRegistry_Empty(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	require.Empty(t, r.Supported())
	require.Empty(t, r.All())
}

// Expectation: Register should make the archiver discoverable by extension
// and through All.
func Test_Registry_Register_Success(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(desc("zip"))

	require.Len(t, r.Supported(), 1)
	require.Len(t, r.All(), 1)
	require.Len(t, r.ByExtension("zip"), 1)
	require.Empty(t, r.ByExtension("7z"))
}

// Expectation: registering the same extension twice keeps both, with the
// most recently registered one first.
func Test_Registry_Register_Shadowing_Success(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	first := desc("zip")
	second := desc("zip")
	r.Register(first)
	r.Register(second)

	matches := r.ByExtension("zip")
	require.Len(t, matches, 2)
	require.Same(t, second.Archiver, matches[0])
	require.Same(t, first.Archiver, matches[1])
}

// Expectation: Deregister removes the first archiver matching ext and
// reports true; a second call for the same extension with nothing left
// reports false.
func Test_Registry_Deregister_Success(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(desc("zip"))

	require.True(t, r.Deregister("zip"))
	require.Empty(t, r.Supported())
	require.False(t, r.Deregister("zip"))
}

// Expectation: All returns archivers across every registered extension, in
// registration order (most-recent-first, per Register).
func Test_Registry_All_Success(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(desc("zip"))
	r.Register(desc("7z"))

	all := r.All()
	require.Len(t, all, 2)
	require.Equal(t, "7z", all[0].Extension())
	require.Equal(t, "zip", all[1].Extension())
}

// Expectation: concurrent Register/Supported calls do not race.
func Test_Registry_ConcurrentAccess_Success(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			r.Register(desc("zip"))
		}
	}()

	for i := 0; i < 50; i++ {
		_ = r.Supported()
	}
	<-done

	require.Len(t, r.Supported(), 50)
}
