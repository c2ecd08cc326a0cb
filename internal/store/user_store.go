// Package store implements the durable stores behind the relay: users and
// events, each a JSON file rewritten in full on every mutation. Store
// operations are load-modify-save cycles; a mutex serializes them within this
// process, but concurrent processes racing on the same file remain last
// writer wins.
package store

import (
	"log"
	"path/filepath"
	"sync"

	"carevoice/internal/models"
	"carevoice/internal/storage"
)

// UsersFile is the user store filename within the data directory.
const UsersFile = "users.json"

// UserStore handles persistence for user accounts, keyed by user ID.
type UserStore struct {
	path string
	mu   sync.Mutex
}

// NewUserStore creates a user store backed by users.json under dataPath.
func NewUserStore(dataPath string) *UserStore {
	return &UserStore{path: filepath.Join(dataPath, UsersFile)}
}

// load reads the user table from disk. A missing or corrupt file yields an
// empty table.
func (s *UserStore) load() map[string]*models.User {
	users := make(map[string]*models.User)
	storage.Load(s.path, &users)
	return users
}

// save rewrites the user table. Write failures are logged and otherwise
// swallowed: callers see the in-memory result of their operation.
func (s *UserStore) save(users map[string]*models.User) {
	if err := storage.Save(s.path, users); err != nil {
		log.Printf("user store: %v", err)
	}
}

// All returns the full user table.
func (s *UserStore) All() map[string]*models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Replace swaps the entire user table, for restores.
func (s *UserStore) Replace(users map[string]*models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if users == nil {
		users = map[string]*models.User{}
	}
	s.save(users)
}

// Get retrieves a user by ID.
func (s *UserStore) Get(id string) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.load()[id]
	return user, ok
}

// FindByEmail retrieves a user and its ID by email address.
func (s *UserStore) FindByEmail(email string) (string, *models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, user := range s.load() {
		if user.Email == email {
			return id, user, true
		}
	}
	return "", nil, false
}

// Insert adds a new user record and persists the store.
func (s *UserStore) Insert(id string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	users[id] = user
	s.save(users)
}

// Update applies mutate to the user with the given ID and persists the store.
// It returns false when the user does not exist, in which case nothing is
// written.
func (s *UserStore) Update(id string, mutate func(*models.User)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	user, ok := users[id]
	if !ok {
		return false
	}
	mutate(user)
	s.save(users)
	return true
}
