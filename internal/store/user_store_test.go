package store

import (
	"testing"
	"time"

	"carevoice/internal/models"
)

func testUser(email string) *models.User {
	return &models.User{
		Email:     email,
		Name:      "Test User",
		Theme:     models.ThemeLight,
		CreatedAt: models.FormatTime(time.Now()),
		IsPrimary: true,
		Devices:   make(map[string]models.Device),
	}
}

func TestUserStoreInsertAndGet(t *testing.T) {
	s := NewUserStore(t.TempDir())

	s.Insert("id-1", testUser("a@example.com"))

	user, ok := s.Get("id-1")
	if !ok {
		t.Fatal("Get() did not find inserted user")
	}
	if user.Email != "a@example.com" {
		t.Errorf("Email = %q, want a@example.com", user.Email)
	}

	if _, ok := s.Get("id-2"); ok {
		t.Error("Get() found a user that was never inserted")
	}
}

func TestUserStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	NewUserStore(dir).Insert("id-1", testUser("a@example.com"))

	reopened := NewUserStore(dir)
	if _, ok := reopened.Get("id-1"); !ok {
		t.Error("user not found after reopening the store")
	}
}

func TestUserStoreFindByEmail(t *testing.T) {
	s := NewUserStore(t.TempDir())
	s.Insert("id-1", testUser("a@example.com"))
	s.Insert("id-2", testUser("b@example.com"))

	id, user, ok := s.FindByEmail("b@example.com")
	if !ok {
		t.Fatal("FindByEmail() did not find user")
	}
	if id != "id-2" || user.Email != "b@example.com" {
		t.Errorf("FindByEmail() = %q, %q", id, user.Email)
	}

	if _, _, ok := s.FindByEmail("missing@example.com"); ok {
		t.Error("FindByEmail() found a user for an unregistered email")
	}
}

func TestUserStoreUpdate(t *testing.T) {
	s := NewUserStore(t.TempDir())
	s.Insert("id-1", testUser("a@example.com"))

	ok := s.Update("id-1", func(u *models.User) {
		u.Theme = models.ThemeDark
	})
	if !ok {
		t.Fatal("Update() returned false for existing user")
	}

	user, _ := s.Get("id-1")
	if user.Theme != models.ThemeDark {
		t.Errorf("Theme = %q, want dark", user.Theme)
	}

	if s.Update("missing", func(u *models.User) {}) {
		t.Error("Update() returned true for missing user")
	}
}

func TestUserStoreMissingFileIsEmpty(t *testing.T) {
	s := NewUserStore(t.TempDir())
	if len(s.All()) != 0 {
		t.Error("All() should be empty with no backing file")
	}
}

func TestInvitationStoreLifecycle(t *testing.T) {
	s := NewInvitationStore(t.TempDir())
	now := time.Now()

	inv := &models.Invitation{
		Code:      "abc123",
		Email:     "care@example.com",
		InvitedBy: "id-1",
		CreatedAt: models.FormatTime(now),
		ExpiresAt: models.FormatTime(now.Add(72 * time.Hour)),
	}
	s.Insert(inv)

	got, ok := s.Get("abc123")
	if !ok {
		t.Fatal("Get() did not find invitation")
	}
	if got.IsUsed() {
		t.Error("new invitation reported as used")
	}

	if !s.MarkUsed("abc123", "id-2", now) {
		t.Fatal("MarkUsed() returned false")
	}
	got, _ = s.Get("abc123")
	if !got.IsUsed() || got.UsedBy != "id-2" {
		t.Errorf("invitation not marked used: %+v", got)
	}

	if s.MarkUsed("nope", "id-2", now) {
		t.Error("MarkUsed() returned true for unknown code")
	}
}

func TestInvitationStoreDeleteExpired(t *testing.T) {
	s := NewInvitationStore(t.TempDir())
	now := time.Now()

	s.Insert(&models.Invitation{Code: "live", ExpiresAt: models.FormatTime(now.Add(time.Hour))})
	s.Insert(&models.Invitation{Code: "dead", ExpiresAt: models.FormatTime(now.Add(-time.Hour))})

	if removed := s.DeleteExpired(now); removed != 1 {
		t.Fatalf("DeleteExpired() = %d, want 1", removed)
	}
	if _, ok := s.Get("live"); !ok {
		t.Error("live invitation was removed")
	}
	if _, ok := s.Get("dead"); ok {
		t.Error("expired invitation survived")
	}
}
