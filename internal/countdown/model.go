// Package countdown holds the authoritative event list and derives the
// filtered, sorted, time-annotated projection the screen renders.
package countdown

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klabast/wb-services/countdown/internal/event"
	"github.com/klabast/wb-services/countdown/internal/storage"
)

// visibilityWindow is how far past its start an event stays visible.
// Older events disappear from the projection but stay persisted.
const visibilityWindow = 24 * time.Hour

// Millisecond sizes for the countdown breakdown.
const (
	millisPerDay    = 86_400_000
	millisPerHour   = 3_600_000
	millisPerMinute = 60_000
)

// Model owns the in-memory event collection. Every mutation rewrites the
// full persisted set; persistence failures are logged and swallowed so the
// screen never shows an error state. The mutex restores the original
// single-writer discipline under a concurrent HTTP host.
type Model struct {
	mu     sync.Mutex
	store  storage.StringSetStore
	loc    *time.Location
	events []event.Record
}

// NewModel returns a model persisting through store and parsing event
// times in loc (nil means the device's local zone).
func NewModel(store storage.StringSetStore, loc *time.Location) *Model {
	if loc == nil {
		loc = time.Local
	}
	return &Model{store: store, loc: loc}
}

// Location returns the zone event times are parsed in.
func (m *Model) Location() *time.Location {
	return m.loc
}

// Load reads and decodes the persisted set, dropping members that fail to
// decode. A store read failure yields an empty collection. Called once at
// startup.
func (m *Model) Load(ctx context.Context) {
	members, err := m.store.GetStringSet(ctx, storage.EventsKey)
	if err != nil {
		log.Printf("Error loading events, starting empty: %v", err)
		members = nil
	}

	records := make([]event.Record, 0, len(members))
	for _, member := range members {
		rec, err := event.Decode(member)
		if err != nil {
			log.Printf("Dropping malformed event record %q: %v", member, err)
			continue
		}
		records = append(records, rec)
	}

	m.mu.Lock()
	m.events = records
	m.mu.Unlock()
}

// Add appends a record built from the form fields and persists the
// result. Any blank field makes the whole call a no-op.
func (m *Model) Add(ctx context.Context, name, date, tm string) bool {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(date) == "" || strings.TrimSpace(tm) == "" {
		log.Printf("Ignoring event with blank field")
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event.Record{Name: name, Date: date, Time: tm})
	m.persistLocked(ctx)
	return true
}

// Delete removes the first value-equal match and persists the result. It
// reports whether anything was removed.
func (m *Model) Delete(ctx context.Context, rec event.Record) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.events {
		if m.events[i] == rec {
			m.events = append(m.events[:i], m.events[i+1:]...)
			m.persistLocked(ctx)
			return true
		}
	}
	return false
}

// Events returns a copy of the full collection in insertion order,
// including records the 24h filter hides.
func (m *Model) Events() []event.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]event.Record, len(m.events))
	copy(records, m.events)
	return records
}

// persistLocked rewrites the whole persisted set. Caller must hold mu. A
// failed save leaves disk state stale until the next successful one.
func (m *Model) persistLocked(ctx context.Context) {
	members := make([]string, len(m.events))
	for i, rec := range m.events {
		members[i] = rec.Encode()
	}
	if err := m.store.PutStringSet(ctx, storage.EventsKey, members); err != nil {
		log.Printf("Error saving events: %v", err)
	}
}

// Entry is one projected row.
type Entry struct {
	Record          event.Record
	StartsAt        time.Time
	Parsed          bool
	Finished        bool
	RemainingMillis int64
	Days            int64
	Hours           int64
	Minutes         int64
}

// Visible computes the display projection for the given instant without
// mutating the collection. Parseable records more than 24 hours past are
// hidden; records whose date/time fail to parse sort last and carry no
// countdown.
func (m *Model) Visible(now time.Time) []Entry {
	records := m.Events()

	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		start, err := rec.StartTime(m.loc)
		if err != nil {
			log.Printf("Cannot parse start time for %q: %v", rec.Name, err)
			entries = append(entries, Entry{Record: rec})
			continue
		}
		if now.Sub(start) > visibilityWindow {
			continue
		}

		e := Entry{Record: rec, StartsAt: start, Parsed: true}
		e.RemainingMillis = start.Sub(now).Milliseconds()
		if e.RemainingMillis <= 0 {
			e.Finished = true
		} else {
			e.Days = e.RemainingMillis / millisPerDay
			e.Hours = e.RemainingMillis / millisPerHour % 24
			e.Minutes = e.RemainingMillis / millisPerMinute % 60
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Parsed != entries[j].Parsed {
			return entries[i].Parsed
		}
		return entries[i].StartsAt.Before(entries[j].StartsAt)
	})
	return entries
}
