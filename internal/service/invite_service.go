package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"carevoice/internal/models"
	"carevoice/internal/security"
	"carevoice/internal/store"
	"carevoice/internal/validation"
)

// InvitationDuration is how long an invitation code stays redeemable.
const InvitationDuration = 7 * 24 * time.Hour

// InviteService creates caretaker invitations for people who do not have an
// account yet. Redemption happens during signup.
type InviteService struct {
	invitations *store.InvitationStore
	users       *store.UserStore
	email       *EmailService
	now         func() time.Time
}

// NewInviteService creates a new invite service
func NewInviteService(invitations *store.InvitationStore, users *store.UserStore, email *EmailService) *InviteService {
	return &InviteService{
		invitations: invitations,
		users:       users,
		email:       email,
		now:         time.Now,
	}
}

// Invite creates an invitation from inviterID to the given email address and
// sends it when email is configured. Addresses that already have an account
// are rejected; the caretaker can be added directly instead.
func (s *InviteService) Invite(ctx context.Context, inviterID, email string) (*models.Invitation, error) {
	inviter, ok := s.users.Get(inviterID)
	if !ok {
		return nil, ErrUserNotFound
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if _, _, exists := s.users.FindByEmail(email); exists {
		return nil, ErrEmailTaken
	}

	code, err := security.GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation code: %w", err)
	}

	now := s.now()
	inv := &models.Invitation{
		Code:      code,
		Email:     email,
		InvitedBy: inviterID,
		CreatedAt: models.FormatTime(now),
		ExpiresAt: models.FormatTime(now.Add(InvitationDuration)),
	}
	s.invitations.Insert(inv)

	if s.email != nil {
		if err := s.email.SendInvitationEmail(ctx, email, inviter.Name, code); err != nil {
			log.Printf("invite: failed to email invitation to %s: %v", email, err)
		}
	}

	return inv, nil
}

// Accept validates an invitation code for the signed-up user and links them
// as caretaker on the inviter's account. Signup normally does this inline;
// Accept covers users who signed up without the code.
func (s *InviteService) Accept(code, userID string) error {
	inv, ok := s.invitations.Get(code)
	if !ok || inv.IsUsed() || inv.IsExpired(s.now()) {
		return ErrInvalidInvitation
	}
	if _, ok := s.users.Get(userID); !ok {
		return ErrUserNotFound
	}

	s.invitations.MarkUsed(code, userID, s.now())
	s.users.Update(inv.InvitedBy, func(u *models.User) {
		if !u.HasCaretaker(userID) {
			u.Caretakers = append(u.Caretakers, userID)
		}
	})
	return nil
}

// CleanupExpired removes invitations past their expiry.
func (s *InviteService) CleanupExpired() int {
	return s.invitations.DeleteExpired(s.now())
}
