package archive

import (
	"path/filepath"
	"testing"
	"time"

	"carevoice/internal/models"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open("sqlite", DialectConfig{Path: filepath.Join(t.TempDir(), "archive.db")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestStoreAndQuery(t *testing.T) {
	a := openTestArchive(t)
	now := time.Now()

	events := []models.Event{
		{
			TS:       models.FormatTime(now.Add(-9 * 24 * time.Hour)),
			Source:   models.SourceUI,
			Button:   "BTN1",
			Language: "en",
			Text:     "I need help",
			DeviceID: "d1",
			UserID:   "alice",
		},
		{
			TS:       models.FormatTime(now.Add(-8 * 24 * time.Hour)),
			Source:   models.SourceDevice,
			Button:   "BTN3",
			Language: "fr",
			Text:     "J'ai besoin d'eau",
			DeviceID: "d2",
			UserID:   "alice",
		},
		{
			TS:       models.FormatTime(now.Add(-8 * 24 * time.Hour)),
			Source:   models.SourceUI,
			Button:   "BTN2",
			Language: "en",
			Text:     "Medicines please",
			DeviceID: "d1",
			UserID:   "bob",
		},
	}

	if err := a.Store(events); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	count, err := a.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}

	got, err := a.EventsForUser("alice", 10)
	if err != nil {
		t.Fatalf("EventsForUser() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("EventsForUser(alice) returned %d events, want 2", len(got))
	}
	if got[0].Button != "BTN3" {
		t.Errorf("newest archived event = %s, want BTN3", got[0].Button)
	}
}

func TestStoreEmptySliceIsNoop(t *testing.T) {
	a := openTestArchive(t)

	if err := a.Store(nil); err != nil {
		t.Fatalf("Store(nil) error = %v", err)
	}
	count, err := a.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("Count() = %d after empty store, want 0", count)
	}
}

func TestOpenRejectsUnknownType(t *testing.T) {
	if _, err := Open("oracle", DialectConfig{}); err == nil {
		t.Error("Open() accepted an unsupported archive type")
	}
}
