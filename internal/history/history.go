// Package history keeps a small, capped ledger of recently selected profiles.
//
// The ledger is an ordered JSON file. Entries are unique by profile
// identifier and kept most recent first; when the cap is exceeded the entry
// with the oldest LastUsedAt is evicted. A missing, unreadable or corrupt file
// is treated as an empty history and never reported as an error.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultCap is the number of entries kept when no cap is configured.
	DefaultCap = 10
	// MinCap is the smallest accepted cap; the selector shows up to five
	// recent profiles and the ledger must be able to hold them.
	MinCap = 5

	fileVersion = 1
)

var (
	// ErrCorrupt is logged when the history file cannot be decoded
	ErrCorrupt = errors.New("history file corrupt")

	// ErrEmptyIdentifier is returned when recording an empty profile identifier
	ErrEmptyIdentifier = errors.New("empty profile identifier")
)

// Entry records the use of one profile.
type Entry struct {
	Profile    string    `json:"profile"`
	LastUsedAt time.Time `json:"last_used_at"`
	UseCount   int       `json:"use_count"`
}

// fileFormat is the on-disk layout. RecentProfiles is the legacy layout, a
// bare list of identifiers most recent first, and is only ever read.
type fileFormat struct {
	Version        int      `json:"version"`
	Entries        []Entry  `json:"entries"`
	RecentProfiles []string `json:"recent_profiles,omitempty"`
}

// Ledger is a capped, recency ordered set of history entries backed by a file.
type Ledger struct {
	path    string
	cap     int
	fs      FileSystem
	log     *zap.Logger
	now     func() time.Time
	entries []Entry // most recent first, LastUsedAt non-increasing
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithFileSystem replaces the OS file system.
func WithFileSystem(fs FileSystem) Option {
	return func(l *Ledger) { l.fs = fs }
}

// WithLogger sets the logger used to report recovered load failures.
func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// DefaultPath returns ~/.aws/awsps_history.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	return filepath.Join(home, ".aws", "awsps_history.json"), nil
}

// Open loads the ledger at path. A capacity below MinCap is raised to MinCap
// and zero selects DefaultCap.
func Open(path string, capacity int, opts ...Option) *Ledger {
	if capacity == 0 {
		capacity = DefaultCap
	}
	if capacity < MinCap {
		capacity = MinCap
	}

	l := &Ledger{
		path: path,
		cap:  capacity,
		fs:   &OSFileSystem{},
		log:  zap.NewNop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	entries, err := l.load()
	if err != nil {
		l.log.Debug("starting with empty history", zap.String("path", path), zap.Error(err))
		entries = nil
	}
	l.entries = entries
	l.evict()
	return l
}

func (l *Ledger) load() ([]Entry, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	entries := f.Entries
	if len(entries) == 0 && len(f.RecentProfiles) > 0 {
		entries = migrateLegacy(f.RecentProfiles, l.now())
		l.log.Debug("migrated legacy history", zap.Int("entries", len(entries)))
	}
	return normalize(entries), nil
}

// migrateLegacy turns an ordered identifier list into entries one second
// apart so the original order survives sorting.
func migrateLegacy(ids []string, now time.Time) []Entry {
	entries := make([]Entry, 0, len(ids))
	for i, id := range ids {
		entries = append(entries, Entry{
			Profile:    id,
			LastUsedAt: now.Add(-time.Duration(i) * time.Second),
			UseCount:   1,
		})
	}
	return entries
}

// normalize drops blank identifiers, sorts by LastUsedAt descending and keeps
// the most recent entry of each identifier.
func normalize(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastUsedAt.After(entries[j].LastUsedAt)
	})

	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		e.Profile = strings.TrimSpace(e.Profile)
		if e.Profile == "" || seen[e.Profile] {
			continue
		}
		if e.UseCount < 1 {
			e.UseCount = 1
		}
		seen[e.Profile] = true
		out = append(out, e)
	}
	return out
}

// Cap returns the retention cap.
func (l *Ledger) Cap() int {
	return l.cap
}

// Path returns the backing file path.
func (l *Ledger) Path() string {
	return l.path
}

// Recent returns up to n identifiers, most recent first.
func (l *Ledger) Recent(n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = l.entries[i].Profile
	}
	return ids
}

// Entries returns a copy of all entries, most recent first.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Record marks identifier as just used and persists the ledger.
func (l *Ledger) Record(identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return ErrEmptyIdentifier
	}

	usedAt := l.now()
	// keep LastUsedAt non-increasing along the slice even if the clock moved back
	if len(l.entries) > 0 && usedAt.Before(l.entries[0].LastUsedAt) {
		usedAt = l.entries[0].LastUsedAt
	}

	entry := Entry{Profile: identifier, LastUsedAt: usedAt, UseCount: 1}
	for i, e := range l.entries {
		if e.Profile == identifier {
			entry.UseCount = e.UseCount + 1
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			break
		}
	}

	l.entries = append([]Entry{entry}, l.entries...)
	l.evict()
	return l.save()
}

// Clear removes every entry and persists the empty ledger.
func (l *Ledger) Clear() error {
	l.entries = nil
	return l.save()
}

// evict drops the oldest entries until the cap holds. Entries are ordered by
// LastUsedAt descending, so the oldest is always last.
func (l *Ledger) evict() {
	for len(l.entries) > l.cap {
		dropped := l.entries[len(l.entries)-1]
		l.entries = l.entries[:len(l.entries)-1]
		l.log.Debug("evicted history entry", zap.String("profile", dropped.Profile))
	}
}

func (l *Ledger) save() error {
	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(fileFormat{Version: fileVersion, Entries: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	if err := l.fs.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := l.fs.WriteFile(tmp, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := l.fs.Rename(tmp, l.path); err != nil {
		_ = l.fs.Remove(tmp)
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}
