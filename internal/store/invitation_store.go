package store

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"carevoice/internal/models"
	"carevoice/internal/storage"
)

// InvitationsFile is the invitation store filename within the data directory.
const InvitationsFile = "invitations.json"

// InvitationStore persists caretaker invitations, keyed by invitation code.
type InvitationStore struct {
	path string
	mu   sync.Mutex
}

// NewInvitationStore creates an invitation store backed by invitations.json
// under dataPath.
func NewInvitationStore(dataPath string) *InvitationStore {
	return &InvitationStore{path: filepath.Join(dataPath, InvitationsFile)}
}

func (s *InvitationStore) load() map[string]*models.Invitation {
	invitations := make(map[string]*models.Invitation)
	storage.Load(s.path, &invitations)
	return invitations
}

func (s *InvitationStore) save(invitations map[string]*models.Invitation) {
	if err := storage.Save(s.path, invitations); err != nil {
		log.Printf("invitation store: %v", err)
	}
}

// All returns the full invitation table.
func (s *InvitationStore) All() map[string]*models.Invitation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Replace swaps the entire invitation table, for restores.
func (s *InvitationStore) Replace(invitations map[string]*models.Invitation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if invitations == nil {
		invitations = map[string]*models.Invitation{}
	}
	s.save(invitations)
}

// Get retrieves an invitation by code.
func (s *InvitationStore) Get(code string) (*models.Invitation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.load()[code]
	return inv, ok
}

// Insert adds an invitation and persists the store.
func (s *InvitationStore) Insert(inv *models.Invitation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invitations := s.load()
	invitations[inv.Code] = inv
	s.save(invitations)
}

// MarkUsed records that an invitation was redeemed by the given user. It
// returns false when the code does not exist.
func (s *InvitationStore) MarkUsed(code, userID string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	invitations := s.load()
	inv, ok := invitations[code]
	if !ok {
		return false
	}
	inv.UsedAt = models.FormatTime(now)
	inv.UsedBy = userID
	s.save(invitations)
	return true
}

// DeleteExpired removes invitations past their expiry, returning how many
// were dropped.
func (s *InvitationStore) DeleteExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	invitations := s.load()
	removed := 0
	for code, inv := range invitations {
		if inv.IsExpired(now) {
			delete(invitations, code)
			removed++
		}
	}
	if removed > 0 {
		s.save(invitations)
	}
	return removed
}
