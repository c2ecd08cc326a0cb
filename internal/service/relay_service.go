package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"carevoice/internal/archive"
	"carevoice/internal/models"
	"carevoice/internal/phrases"
	"carevoice/internal/speech"
	"carevoice/internal/store"
)

// Defaults stamped on trigger events when the caller is anonymous.
const (
	DefaultDeviceID = "unknown"
	DefaultUserID   = "default"
)

// TriggerRequest is one button press to voice and record.
type TriggerRequest struct {
	Button     string
	Language   string
	Source     string
	CustomText string
	DeviceID   string
	UserID     string
}

// RelayService runs the trigger pipeline: resolve the phrase, record the
// event, speak it, and alert caretakers on the emergency button. Speech and
// alerting are best effort; a trigger itself never fails.
type RelayService struct {
	events   *store.EventStore
	accounts *AccountService
	speech   *speech.Dispatcher
	archive  *archive.Archive
	email    *EmailService
	now      func() time.Time
}

// NewRelayService creates a relay service. archive may be nil to disable
// retention of pruned events.
func NewRelayService(events *store.EventStore, accounts *AccountService, dispatcher *speech.Dispatcher, arc *archive.Archive, email *EmailService) *RelayService {
	return &RelayService{
		events:   events,
		accounts: accounts,
		speech:   dispatcher,
		archive:  arc,
		email:    email,
		now:      time.Now,
	}
}

// Trigger resolves and voices a button press and returns the recorded event.
// Custom text overrides the phrase table; an unknown button still records and
// speaks a placeholder phrase.
func (s *RelayService) Trigger(ctx context.Context, req TriggerRequest) models.Event {
	button := strings.ToUpper(strings.TrimSpace(req.Button))

	var text string
	if req.CustomText != "" {
		text = req.CustomText
	} else if phrase, ok := phrases.Resolve(button, req.Language); ok {
		text = phrase
	} else {
		text = fmt.Sprintf("Unknown button %s", button)
	}

	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = DefaultDeviceID
	}
	userID := req.UserID
	if userID == "" {
		userID = DefaultUserID
	}

	evt := models.Event{
		TS:       models.FormatTime(s.now()),
		Source:   req.Source,
		Button:   button,
		Language: req.Language,
		Text:     text,
		DeviceID: deviceID,
		UserID:   userID,
	}

	dropped := s.events.Add(evt)
	s.archiveEvents(dropped)

	if userID != DefaultUserID {
		s.accounts.TouchDevice(userID, deviceID)
	}

	s.speech.Speak(text, req.Language)

	if button == phrases.EmergencyButton {
		s.alertCaretakers(ctx, userID, text, evt.TS)
	}

	return evt
}

// History returns recent events visible to the given user: their own plus
// those of every account they look after. A non-positive limit returns all.
func (s *RelayService) History(userID string, limit int) []models.Event {
	if userID == "" || userID == DefaultUserID {
		return s.events.Recent(limit)
	}
	accessible := s.accounts.AccessibleAccounts(userID)
	// Anonymous device triggers stay visible to every signed-in user.
	accessible = append(accessible, DefaultUserID)
	return s.events.ForUsers(accessible, limit)
}

// ArchivedHistory returns events for one account that aged out of the
// retention window, for caretaker review. An empty target means the viewer's
// own account. Without a configured archive the result is empty.
func (s *RelayService) ArchivedHistory(viewerID, targetID string, limit int) ([]models.Event, error) {
	if targetID == "" {
		targetID = viewerID
	}
	if !s.accounts.CanAccess(viewerID, targetID) {
		return nil, ErrNotAuthorized
	}
	if s.archive == nil {
		return []models.Event{}, nil
	}
	return s.archive.EventsForUser(targetID, limit)
}

// PruneExpired drops events older than the retention window, moving them to
// the archive when one is configured.
func (s *RelayService) PruneExpired() int {
	dropped := s.events.Prune(s.now())
	s.archiveEvents(dropped)
	return len(dropped)
}

func (s *RelayService) archiveEvents(events []models.Event) {
	if s.archive == nil || len(events) == 0 {
		return
	}
	if err := s.archive.Store(events); err != nil {
		log.Printf("relay: failed to archive %d pruned events: %v", len(events), err)
	}
}

// alertCaretakers emails every caretaker on the account. Failures are logged;
// the trigger has already been recorded and spoken.
func (s *RelayService) alertCaretakers(ctx context.Context, userID, phrase, when string) {
	if s.email == nil || !s.email.IsEnabled() || userID == DefaultUserID {
		return
	}

	user, ok := s.accounts.User(userID)
	if !ok {
		return
	}

	for _, caretakerID := range user.Caretakers {
		caretaker, ok := s.accounts.User(caretakerID)
		if !ok || caretaker.Email == "" {
			continue
		}
		if err := s.email.SendEmergencyAlert(ctx, caretaker.Email, user.Name, phrase, when); err != nil {
			log.Printf("relay: emergency alert to %s failed: %v", caretaker.Email, err)
		}
	}
}
