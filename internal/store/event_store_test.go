package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"carevoice/internal/models"
)

func newEvent(ts time.Time, button, userID string) models.Event {
	return models.Event{
		TS:       models.FormatTime(ts),
		Source:   models.SourceUI,
		Button:   button,
		Language: "en",
		Text:     "I need help",
		DeviceID: "unknown",
		UserID:   userID,
	}
}

func readEventsFile(t *testing.T, dataPath string) []models.Event {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dataPath, EventsFile))
	if err != nil {
		t.Fatalf("failed to read events file: %v", err)
	}
	var events []models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		t.Fatalf("events file is not valid JSON: %v", err)
	}
	return events
}

func TestAddInsertsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	s := NewEventStore(dir)
	now := time.Now()

	s.Add(newEvent(now.Add(-2*time.Minute), "BTN1", "u1"))
	s.Add(newEvent(now.Add(-1*time.Minute), "BTN2", "u1"))
	s.Add(newEvent(now, "BTN3", "u1"))

	events := s.Recent(0)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Button != "BTN3" || events[2].Button != "BTN1" {
		t.Errorf("events not newest-first: %v, %v, %v", events[0].Button, events[1].Button, events[2].Button)
	}
}

func TestAddPrunesExpiredFromMemoryAndFile(t *testing.T) {
	dir := t.TempDir()
	s := NewEventStore(dir)
	now := time.Now()

	old := newEvent(now.Add(-8*24*time.Hour), "BTN1", "u1")
	// Bypass Add's prune to plant an expired event.
	s.history = append(s.history, old)
	s.persist()

	dropped := s.Add(newEvent(now, "BTN2", "u1"))

	if len(dropped) != 1 || dropped[0].Button != "BTN1" {
		t.Fatalf("dropped = %v, want the expired BTN1 event", dropped)
	}
	for _, evt := range s.Recent(0) {
		if evt.Button == "BTN1" {
			t.Error("expired event still in memory after prune")
		}
	}
	for _, evt := range readEventsFile(t, dir) {
		if evt.Button == "BTN1" {
			t.Error("expired event still in file after prune")
		}
	}
}

func TestPersistAndReloadPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	s := NewEventStore(dir)
	now := time.Now()

	s.Add(newEvent(now.Add(-3*time.Hour), "BTN1", "u1"))
	s.Add(newEvent(now.Add(-2*time.Hour), "BTN2", "u1"))
	s.Add(newEvent(now.Add(-1*time.Hour), "BTN3", "u1"))

	reloaded := NewEventStore(dir)
	events := reloaded.Recent(0)
	if len(events) != 3 {
		t.Fatalf("reload yielded %d events, want 3", len(events))
	}
	want := []string{"BTN3", "BTN2", "BTN1"}
	for i, button := range want {
		if events[i].Button != button {
			t.Errorf("events[%d].Button = %s, want %s", i, events[i].Button, button)
		}
	}
}

func TestLoadSkipsMalformedEntries(t *testing.T) {
	dir := t.TempDir()
	raw := `[
		{"ts": "` + models.FormatTime(time.Now()) + `", "source": "UI", "button": "BTN1", "language": "en", "text": "I need help", "device_id": "d1", "user_id": "u1"},
		{"ts": "garbage", "source": "UI", "button": "BTN2"},
		"not even an object",
		{"ts": "` + models.FormatTime(time.Now().Add(-time.Hour)) + `", "source": "DEVICE", "button": "BTN3", "language": "fr", "text": "J'ai besoin d'eau", "device_id": "d2", "user_id": "u1"}
	]`
	if err := os.WriteFile(filepath.Join(dir, EventsFile), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewEventStore(dir)
	events := s.Recent(0)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (malformed entries skipped)", len(events))
	}
}

func TestLoadCorruptFileYieldsEmptyHistory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, EventsFile), []byte("{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewEventStore(dir)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for corrupt file", s.Len())
	}
}

func TestLoadDropsEventsOutsideWindow(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	events := []models.Event{
		newEvent(now, "BTN1", "u1"),
		newEvent(now.Add(-10*24*time.Hour), "BTN2", "u1"),
	}
	data, _ := json.Marshal(events)
	if err := os.WriteFile(filepath.Join(dir, EventsFile), data, 0644); err != nil {
		t.Fatal(err)
	}

	s := NewEventStore(dir)
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if s.Recent(1)[0].Button != "BTN1" {
		t.Error("kept the wrong event")
	}
}

func TestForUsersFilters(t *testing.T) {
	dir := t.TempDir()
	s := NewEventStore(dir)
	now := time.Now()

	s.Add(newEvent(now.Add(-3*time.Minute), "BTN1", "alice"))
	s.Add(newEvent(now.Add(-2*time.Minute), "BTN2", "bob"))
	s.Add(newEvent(now.Add(-1*time.Minute), "BTN3", "alice"))

	events := s.ForUsers([]string{"alice"}, 0)
	if len(events) != 2 {
		t.Fatalf("got %d events for alice, want 2", len(events))
	}
	for _, evt := range events {
		if evt.UserID != "alice" {
			t.Errorf("event for %s leaked into alice's history", evt.UserID)
		}
	}

	limited := s.ForUsers([]string{"alice", "bob"}, 2)
	if len(limited) != 2 {
		t.Errorf("limit ignored: got %d events, want 2", len(limited))
	}
}

func TestRecentLimit(t *testing.T) {
	dir := t.TempDir()
	s := NewEventStore(dir)
	now := time.Now()

	for i := 0; i < 5; i++ {
		s.Add(newEvent(now.Add(time.Duration(i)*time.Second), "BTN1", "u1"))
	}

	if got := len(s.Recent(3)); got != 3 {
		t.Errorf("Recent(3) returned %d events", got)
	}
	if got := len(s.Recent(0)); got != 5 {
		t.Errorf("Recent(0) returned %d events, want all 5", got)
	}
}
