package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"carevoice/internal/models"
	"carevoice/internal/security"
	"carevoice/internal/store"
	"carevoice/internal/validation"
)

// Business errors surfaced to API clients. The error text is the
// user-facing message.
var (
	ErrEmailTaken          = errors.New("Email already registered")
	ErrEmailNotFound       = errors.New("Email not found")
	ErrIncorrectPassword   = errors.New("Incorrect password")
	ErrUserNotFound        = errors.New("User not found")
	ErrCaretakerNotFound   = errors.New("Caretaker email not found")
	ErrCaretakerExists     = errors.New("Caretaker already added")
	ErrSecurityAnswer      = errors.New("Security answer is incorrect")
	ErrInvalidInvitation   = errors.New("Invalid or expired invitation code")
	ErrNotAuthorized       = errors.New("Not authorized for this account")
	ErrMissingOAuthProfile = errors.New("missing oauth provider information")
)

// SecurityQuestions are the questions offered at signup for password
// recovery.
var SecurityQuestions = []string{
	"What is your mother's maiden name?",
	"What was the name of your first pet?",
	"In what city were you born?",
	"What is the name of the street you grew up on?",
	"What is your favorite book?",
	"What was the make of your first car?",
	"What is your favorite movie?",
	"What school did you attend for primary school?",
}

// SignupParams carries everything a new account needs.
type SignupParams struct {
	Email            string
	Password         string
	Name             string
	Phone            string
	SecurityQuestion string
	SecurityAnswer   string
	Primary          bool
	InviteCode       string
}

// AccountService handles account business logic: signup, login, devices,
// caretakers, profile preferences and password recovery.
type AccountService struct {
	users       *store.UserStore
	invitations *store.InvitationStore
	now         func() time.Time
}

// NewAccountService creates a new account service
func NewAccountService(users *store.UserStore, invitations *store.InvitationStore) *AccountService {
	return &AccountService{
		users:       users,
		invitations: invitations,
		now:         time.Now,
	}
}

// Signup creates a new user account and returns its ID. An invitation code,
// when present, links the new user as caretaker on the inviter's account.
func (s *AccountService) Signup(params SignupParams) (string, error) {
	if err := validation.ValidateEmail(params.Email); err != nil {
		return "", err
	}
	if _, _, exists := s.users.FindByEmail(params.Email); exists {
		return "", ErrEmailTaken
	}
	if err := validation.ValidatePassword(params.Password); err != nil {
		return "", err
	}

	var inv *models.Invitation
	if params.InviteCode != "" {
		found, ok := s.invitations.Get(params.InviteCode)
		if !ok || found.IsUsed() || found.IsExpired(s.now()) {
			return "", ErrInvalidInvitation
		}
		inv = found
	}

	userID := security.NewUserID()
	user := &models.User{
		Email:              params.Email,
		PasswordHash:       security.HashSecret(params.Password),
		Name:               params.Name,
		Phone:              params.Phone,
		Theme:              models.ThemeLight,
		SecurityQuestion:   params.SecurityQuestion,
		SecurityAnswerHash: security.HashSecurityAnswer(params.SecurityAnswer),
		CreatedAt:          models.FormatTime(s.now()),
		IsPrimary:          params.Primary,
		Devices:            map[string]models.Device{},
		Caretakers:         []string{},
		Family:             []string{},
	}
	s.users.Insert(userID, user)

	if inv != nil {
		s.invitations.MarkUsed(inv.Code, userID, s.now())
		if !s.users.Update(inv.InvitedBy, func(u *models.User) {
			u.Caretakers = append(u.Caretakers, userID)
		}) {
			log.Printf("signup: inviter %s no longer exists, code %s orphaned", inv.InvitedBy, inv.Code)
		}
	}

	return userID, nil
}

// Login authenticates a user by email and password and returns the user ID.
func (s *AccountService) Login(email, password string) (string, *models.User, error) {
	id, user, ok := s.users.FindByEmail(email)
	if !ok {
		return "", nil, ErrEmailNotFound
	}
	if !security.CheckSecret(password, user.PasswordHash) {
		return "", nil, ErrIncorrectPassword
	}
	return id, user, nil
}

// OAuthLogin authenticates or creates a user from an OAuth provider profile
// and returns the user ID.
func (s *AccountService) OAuthLogin(provider, subject, email, name string) (string, *models.User, error) {
	if provider == "" || subject == "" {
		return "", nil, ErrMissingOAuthProfile
	}
	if err := validation.ValidateEmail(email); err != nil {
		return "", nil, err
	}

	for id, user := range s.users.All() {
		if user.OAuthProvider == provider && user.OAuthSubject == subject {
			return id, user, nil
		}
	}

	if id, user, ok := s.users.FindByEmail(email); ok {
		if user.OAuthProvider != "" && user.OAuthProvider != provider {
			return "", nil, ErrEmailTaken
		}
		s.users.Update(id, func(u *models.User) {
			u.OAuthProvider = provider
			u.OAuthSubject = subject
		})
		user.OAuthProvider = provider
		user.OAuthSubject = subject
		return id, user, nil
	}

	if name == "" {
		name = strings.Split(email, "@")[0]
	}
	userID := security.NewUserID()
	user := &models.User{
		Email: email,
		// Random throwaway secret so the password login path never matches.
		PasswordHash:  security.HashSecret(security.NewOAuthState()),
		Name:          name,
		Theme:         models.ThemeLight,
		CreatedAt:     models.FormatTime(s.now()),
		IsPrimary:     true,
		OAuthProvider: provider,
		OAuthSubject:  subject,
		Devices:       map[string]models.Device{},
		Caretakers:    []string{},
		Family:        []string{},
	}
	s.users.Insert(userID, user)
	return userID, user, nil
}

// RegisterDevice upserts a device (tablet, button box) on a user's account,
// generating a friendly name when none is given. Registration always stamps
// both registered-at and last-seen with the current time.
func (s *AccountService) RegisterDevice(userID, deviceID, deviceName string) (string, error) {
	if deviceName == "" {
		generated, err := security.GenerateDeviceName()
		if err != nil {
			return "", fmt.Errorf("failed to generate device name: %w", err)
		}
		deviceName = generated
	}

	now := models.FormatTime(s.now())
	ok := s.users.Update(userID, func(u *models.User) {
		if u.Devices == nil {
			u.Devices = map[string]models.Device{}
		}
		u.Devices[deviceID] = models.Device{
			Name:         deviceName,
			RegisteredAt: now,
			LastSeen:     now,
		}
	})
	if !ok {
		return "", ErrUserNotFound
	}
	return fmt.Sprintf("Device '%s' registered", deviceName), nil
}

// TouchDevice updates a registered device's last-seen time. Unknown users or
// devices are ignored.
func (s *AccountService) TouchDevice(userID, deviceID string) {
	s.users.Update(userID, func(u *models.User) {
		device, ok := u.Devices[deviceID]
		if !ok {
			return
		}
		device.LastSeen = models.FormatTime(s.now())
		u.Devices[deviceID] = device
	})
}

// Devices lists the devices registered on a user's account.
func (s *AccountService) Devices(userID string) []models.DeviceInfo {
	user, ok := s.users.Get(userID)
	if !ok {
		return []models.DeviceInfo{}
	}
	devices := make([]models.DeviceInfo, 0, len(user.Devices))
	for id, device := range user.Devices {
		devices = append(devices, models.DeviceInfo{ID: id, Device: device})
	}
	return devices
}

// AddCaretaker grants an existing account, found by email, access to the
// user's account.
func (s *AccountService) AddCaretaker(userID, caretakerEmail string) (string, error) {
	if _, ok := s.users.Get(userID); !ok {
		return "", ErrUserNotFound
	}

	caretakerID, _, ok := s.users.FindByEmail(caretakerEmail)
	if !ok {
		return "", ErrCaretakerNotFound
	}

	var added bool
	s.users.Update(userID, func(u *models.User) {
		if u.HasCaretaker(caretakerID) {
			return
		}
		u.Caretakers = append(u.Caretakers, caretakerID)
		added = true
	})
	if !added {
		return "", ErrCaretakerExists
	}
	return fmt.Sprintf("Caretaker %s added", caretakerEmail), nil
}

// AccessibleAccounts returns the user IDs this user may view: their own
// account plus every account listing them as caretaker.
func (s *AccountService) AccessibleAccounts(userID string) []string {
	accessible := []string{userID}
	for id, user := range s.users.All() {
		if id != userID && user.HasCaretaker(userID) {
			accessible = append(accessible, id)
		}
	}
	return accessible
}

// CanAccess reports whether viewer may see target's account.
func (s *AccountService) CanAccess(viewerID, targetID string) bool {
	if viewerID == targetID {
		return true
	}
	target, ok := s.users.Get(targetID)
	return ok && target.HasCaretaker(viewerID)
}

// SetTheme stores the user's theme preference, normalized to light or dark.
func (s *AccountService) SetTheme(userID, theme string) error {
	if !s.users.Update(userID, func(u *models.User) {
		u.Theme = validation.ValidateTheme(theme)
	}) {
		return ErrUserNotFound
	}
	return nil
}

// Profile returns the public fields of a user's account.
func (s *AccountService) Profile(userID string) (models.Profile, error) {
	user, ok := s.users.Get(userID)
	if !ok {
		return models.Profile{}, ErrUserNotFound
	}
	return user.Profile(), nil
}

// Medicines returns the user's medicine list.
func (s *AccountService) Medicines(userID string) []models.Medicine {
	user, ok := s.users.Get(userID)
	if !ok || user.Medicines == nil {
		return []models.Medicine{}
	}
	return user.Medicines
}

// SetMedicines replaces the user's medicine list.
func (s *AccountService) SetMedicines(userID string, medicines []models.Medicine) error {
	if !s.users.Update(userID, func(u *models.User) {
		u.Medicines = medicines
	}) {
		return ErrUserNotFound
	}
	return nil
}

// VerifySecurityAnswer checks a password-recovery answer against the stored
// digest and returns the account's user ID on success. Answers are compared
// case-insensitively with surrounding whitespace ignored.
func (s *AccountService) VerifySecurityAnswer(email, answer string) (string, error) {
	id, user, ok := s.users.FindByEmail(email)
	if !ok {
		return "", ErrEmailNotFound
	}
	if user.SecurityAnswerHash != security.HashSecurityAnswer(answer) {
		return "", ErrSecurityAnswer
	}
	return id, nil
}

// ResetPassword sets a new password after security verification, applying
// the same policy as signup.
func (s *AccountService) ResetPassword(userID, newPassword string) error {
	if _, ok := s.users.Get(userID); !ok {
		return ErrUserNotFound
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}
	s.users.Update(userID, func(u *models.User) {
		u.PasswordHash = security.HashSecret(newPassword)
	})
	return nil
}

// User looks up an account by ID.
func (s *AccountService) User(userID string) (*models.User, bool) {
	return s.users.Get(userID)
}
