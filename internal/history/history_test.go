package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// tick returns a clock that advances one minute per call.
func tick() func() time.Time {
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func tempPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "nested", "history.json")
}

func TestOpenMissingFileIsEmpty(t *testing.T) {
	l := Open(tempPath(t), 0)
	assert.Empty(t, l.Recent(5))
	assert.Equal(t, DefaultCap, l.Cap())
}

func TestOpenRaisesSmallCap(t *testing.T) {
	l := Open(tempPath(t), 2)
	assert.Equal(t, MinCap, l.Cap())
}

func TestRecordAndReload(t *testing.T) {
	path := tempPath(t)
	l := Open(path, 10, WithClock(tick()))

	require.NoError(t, l.Record("dev-ro"))
	require.NoError(t, l.Record("prod-ro"))
	require.NoError(t, l.Record("dev-ro"))

	assert.Equal(t, []string{"dev-ro", "prod-ro"}, l.Recent(5))

	reloaded := Open(path, 10)
	entries := reloaded.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "dev-ro", entries[0].Profile)
	assert.Equal(t, 2, entries[0].UseCount)
	assert.Equal(t, "prod-ro", entries[1].Profile)
	assert.Equal(t, 1, entries[1].UseCount)
	assert.True(t, entries[0].LastUsedAt.After(entries[1].LastUsedAt))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestRecordEnforcesCapOldestFirst(t *testing.T) {
	l := Open(tempPath(t), 5, WithClock(tick()))

	for i := 0; i < 8; i++ {
		require.NoError(t, l.Record(fmt.Sprintf("p%d", i)))
	}

	assert.Equal(t, []string{"p7", "p6", "p5", "p4", "p3"}, l.Recent(10))
}

func TestRecentBound(t *testing.T) {
	l := Open(tempPath(t), 6, WithClock(tick()))
	ids := []string{"a", "b", "a", "c", "d", "e", "f", "g", "b", "h", "a"}

	for _, id := range ids {
		require.NoError(t, l.Record(id))
		for _, n := range []int{0, 1, 3, 6, 20} {
			recent := l.Recent(n)
			assert.LessOrEqual(t, len(recent), min(n, l.Cap()))

			seen := map[string]bool{}
			for _, r := range recent {
				assert.False(t, seen[r], "duplicate %s", r)
				seen[r] = true
			}
		}
	}
	assert.Equal(t, []string{"a", "h", "b", "g", "f", "e"}, l.Recent(10))
}

func TestRecordEmptyIdentifier(t *testing.T) {
	l := Open(tempPath(t), 5)
	assert.ErrorIs(t, l.Record("  "), ErrEmptyIdentifier)
}

func TestRecordClockSkewKeepsOrder(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), // clock went back
	}
	i := 0
	l := Open(tempPath(t), 5, WithClock(func() time.Time {
		now := times[i]
		i++
		return now
	}))

	require.NoError(t, l.Record("first"))
	require.NoError(t, l.Record("second"))

	entries := l.Entries()
	assert.Equal(t, "second", entries[0].Profile)
	assert.False(t, entries[0].LastUsedAt.Before(entries[1].LastUsedAt))
}

func TestCorruptHistoryRecoversAndLogs(t *testing.T) {
	path := tempPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	core, logs := observer.New(zapcore.DebugLevel)
	l := Open(path, 5, WithLogger(zap.New(core)))

	assert.Empty(t, l.Recent(5))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	err, ok := entry.ContextMap()["error"].(string)
	require.True(t, ok)
	assert.Contains(t, err, ErrCorrupt.Error())

	// the ledger stays usable and overwrites the bad file
	require.NoError(t, l.Record("dev-ro"))
	assert.Equal(t, []string{"dev-ro"}, Open(path, 5).Recent(5))
}

func TestLegacyHistoryIsMigrated(t *testing.T) {
	path := tempPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	legacy := `{"recent_profiles": ["c", "b", "a", "b", ""]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0600))

	l := Open(path, 5)
	assert.Equal(t, []string{"c", "b", "a"}, l.Recent(5))
}

func TestDuplicateEntriesOnDiskAreMerged(t *testing.T) {
	path := tempPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	content := `{"version": 1, "entries": [
		{"profile": "a", "last_used_at": "2024-01-01T00:00:00Z", "use_count": 3},
		{"profile": "b", "last_used_at": "2024-01-03T00:00:00Z", "use_count": 0},
		{"profile": "a", "last_used_at": "2024-01-02T00:00:00Z", "use_count": 1}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	entries := Open(path, 5).Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Profile)
	assert.Equal(t, 1, entries[0].UseCount)
	assert.Equal(t, "a", entries[1].Profile)
	assert.Equal(t, 1, entries[1].UseCount)
}

func TestClear(t *testing.T) {
	path := tempPath(t)
	l := Open(path, 5)
	require.NoError(t, l.Record("a"))
	require.NoError(t, l.Clear())

	assert.Empty(t, l.Recent(5))
	assert.Empty(t, Open(path, 5).Entries())
}

type failingFS struct {
	OSFileSystem
	renameErr error
	removed   []string
}

func (f *failingFS) Rename(oldpath, newpath string) error {
	return f.renameErr
}

func (f *failingFS) Remove(name string) error {
	f.removed = append(f.removed, name)
	return f.OSFileSystem.Remove(name)
}

func TestSaveFailureCleansUpTempFile(t *testing.T) {
	path := tempPath(t)
	fs := &failingFS{renameErr: errors.New("disk full")}
	l := Open(path, 5, WithFileSystem(fs))

	err := l.Record("a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []string{path + ".tmp"}, fs.removed)
}
