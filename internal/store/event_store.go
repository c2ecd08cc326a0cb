package store

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"carevoice/internal/models"
	"carevoice/internal/storage"
)

// EventsFile is the event store filename within the data directory.
const EventsFile = "events.json"

// EventStore keeps the rolling trigger history: an in-memory newest-first
// sequence reconciled with events.json on every write. Events older than the
// retention window are dropped from both on every mutation.
type EventStore struct {
	path    string
	mu      sync.Mutex
	history []models.Event
}

// NewEventStore creates an event store backed by events.json under dataPath.
// The file is read once here; malformed entries are skipped silently and an
// absent or corrupt file yields an empty history.
func NewEventStore(dataPath string) *EventStore {
	s := &EventStore{path: filepath.Join(dataPath, EventsFile)}
	s.history = s.loadFromFile(time.Now())
	return s
}

// loadFromFile reads the persisted event sequence, keeping only entries that
// parse and fall within the retention window.
func (s *EventStore) loadFromFile(now time.Time) []models.Event {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	var events []models.Event
	for _, entry := range raw {
		var evt models.Event
		if err := json.Unmarshal(entry, &evt); err != nil {
			continue
		}
		if evt.Expired(now) {
			continue
		}
		events = append(events, evt)
	}
	return events
}

// persist rewrites events.json with the current history. Write failures are
// logged and otherwise swallowed.
func (s *EventStore) persist() {
	history := s.history
	if history == nil {
		history = []models.Event{}
	}
	if err := storage.Save(s.path, history); err != nil {
		log.Printf("event store: %v", err)
	}
}

// prune drops expired events from the in-memory sequence, returning the
// dropped events. Caller holds the lock.
func (s *EventStore) prune(now time.Time) []models.Event {
	var kept, dropped []models.Event
	for _, evt := range s.history {
		if evt.Expired(now) {
			dropped = append(dropped, evt)
			continue
		}
		kept = append(kept, evt)
	}
	s.history = kept
	return dropped
}

// Add inserts a newly stamped event at the front of the sequence, prunes
// expired events from memory and file, and persists. It returns the events
// dropped by the prune pass.
func (s *EventStore) Add(evt models.Event) []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append([]models.Event{evt}, s.history...)
	dropped := s.prune(time.Now())
	s.persist()
	return dropped
}

// Prune drops expired events and persists the remaining sequence. It returns
// the dropped events.
func (s *EventStore) Prune(now time.Time) []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := s.prune(now)
	s.persist()
	return dropped
}

// Recent returns up to limit events, newest first. A non-positive limit
// returns the whole history.
func (s *EventStore) Recent(limit int) []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.history)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.Event, n)
	copy(out, s.history[:n])
	return out
}

// ForUsers returns up to limit events belonging to any of the given user IDs,
// newest first.
func (s *EventStore) ForUsers(userIDs []string, limit int) []models.Event {
	ids := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		ids[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Event
	for _, evt := range s.history {
		if !ids[evt.UserID] {
			continue
		}
		out = append(out, evt)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Replace swaps the entire history, for restores. Expired events are dropped
// on the way in.
func (s *EventStore) Replace(events []models.Event, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = events
	s.prune(now)
	s.persist()
}

// Len returns the number of events currently held.
func (s *EventStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
