package service

import (
	"errors"
	"testing"
	"time"

	"carevoice/internal/models"
	"carevoice/internal/security"
	"carevoice/internal/store"
	"carevoice/internal/validation"
)

func newTestAccounts(t *testing.T) *AccountService {
	t.Helper()
	dir := t.TempDir()
	return NewAccountService(store.NewUserStore(dir), store.NewInvitationStore(dir))
}

func signupParams(email string) SignupParams {
	return SignupParams{
		Email:            email,
		Password:         "Passw0rd!",
		Name:             "Test User",
		Phone:            "555-0100",
		SecurityQuestion: SecurityQuestions[0],
		SecurityAnswer:   "Smith",
		Primary:          true,
	}
}

func TestSignup(t *testing.T) {
	svc := newTestAccounts(t)

	userID, err := svc.Signup(signupParams("alice@example.com"))
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if userID == "" {
		t.Fatal("Signup() returned empty user ID")
	}

	user, ok := svc.User(userID)
	if !ok {
		t.Fatal("created user not found in store")
	}
	if user.PasswordHash != security.HashSecret("Passw0rd!") {
		t.Error("password hash mismatch")
	}
	if user.Theme != models.ThemeLight {
		t.Errorf("Theme = %q, want light", user.Theme)
	}
	if user.CreatedAt == "" {
		t.Error("CreatedAt not set")
	}
	if !user.IsPrimary {
		t.Error("IsPrimary not set")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newTestAccounts(t)

	if _, err := svc.Signup(signupParams("alice@example.com")); err != nil {
		t.Fatalf("first Signup() error = %v", err)
	}
	if _, err := svc.Signup(signupParams("alice@example.com")); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("second Signup() error = %v, want ErrEmailTaken", err)
	}
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	svc := newTestAccounts(t)

	params := signupParams("alice@example.com")
	params.Password = "short"
	_, err := svc.Signup(params)

	var vErr validation.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Signup() error = %v, want validation error", err)
	}
	if vErr.Message != "Password must be at least 7 characters" {
		t.Errorf("message = %q", vErr.Message)
	}
}

func TestSignupWithInvitation(t *testing.T) {
	dir := t.TempDir()
	users := store.NewUserStore(dir)
	invitations := store.NewInvitationStore(dir)
	svc := NewAccountService(users, invitations)

	inviterID, err := svc.Signup(signupParams("inviter@example.com"))
	if err != nil {
		t.Fatalf("inviter Signup() error = %v", err)
	}

	now := time.Now()
	invitations.Insert(&models.Invitation{
		Code:      "abc123",
		Email:     "invitee@example.com",
		InvitedBy: inviterID,
		CreatedAt: models.FormatTime(now),
		ExpiresAt: models.FormatTime(now.Add(24 * time.Hour)),
	})

	params := signupParams("invitee@example.com")
	params.InviteCode = "abc123"
	inviteeID, err := svc.Signup(params)
	if err != nil {
		t.Fatalf("invitee Signup() error = %v", err)
	}

	inviter, _ := users.Get(inviterID)
	if !inviter.HasCaretaker(inviteeID) {
		t.Error("invitee not added as caretaker on inviter account")
	}
	inv, _ := invitations.Get("abc123")
	if !inv.IsUsed() || inv.UsedBy != inviteeID {
		t.Errorf("invitation not marked used: %+v", inv)
	}
}

func TestSignupWithBadInvitation(t *testing.T) {
	svc := newTestAccounts(t)

	params := signupParams("alice@example.com")
	params.InviteCode = "nope"
	if _, err := svc.Signup(params); !errors.Is(err, ErrInvalidInvitation) {
		t.Errorf("Signup() error = %v, want ErrInvalidInvitation", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newTestAccounts(t)
	userID, _ := svc.Signup(signupParams("alice@example.com"))

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid credentials", "alice@example.com", "Passw0rd!", nil},
		{"wrong password", "alice@example.com", "Wr0ngpass!", ErrIncorrectPassword},
		{"unknown email", "bob@example.com", "Passw0rd!", ErrEmailNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, _, err := svc.Login(tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && id != userID {
				t.Errorf("Login() id = %q, want %q", id, userID)
			}
		})
	}
}

func TestRegisterDevice(t *testing.T) {
	svc := newTestAccounts(t)
	userID, _ := svc.Signup(signupParams("alice@example.com"))

	msg, err := svc.RegisterDevice(userID, "dev-1", "Kitchen Tablet")
	if err != nil {
		t.Fatalf("RegisterDevice() error = %v", err)
	}
	if msg != "Device 'Kitchen Tablet' registered" {
		t.Errorf("message = %q", msg)
	}

	devices := svc.Devices(userID)
	if len(devices) != 1 || devices[0].ID != "dev-1" || devices[0].Name != "Kitchen Tablet" {
		t.Fatalf("Devices() = %+v", devices)
	}

	// Re-registering is an upsert: both timestamps move to the current time.
	later := time.Now().Add(24 * time.Hour)
	svc.now = func() time.Time { return later }
	if _, err := svc.RegisterDevice(userID, "dev-1", "Renamed Tablet"); err != nil {
		t.Fatalf("re-register error = %v", err)
	}
	devices = svc.Devices(userID)
	if devices[0].Name != "Renamed Tablet" {
		t.Errorf("Name = %q after re-register", devices[0].Name)
	}
	want := models.FormatTime(later)
	if devices[0].RegisteredAt != want {
		t.Errorf("RegisteredAt = %q after re-register, want %q", devices[0].RegisteredAt, want)
	}
	if devices[0].LastSeen != want {
		t.Errorf("LastSeen = %q after re-register, want %q", devices[0].LastSeen, want)
	}
}

func TestRegisterDeviceGeneratesName(t *testing.T) {
	svc := newTestAccounts(t)
	userID, _ := svc.Signup(signupParams("alice@example.com"))

	if _, err := svc.RegisterDevice(userID, "dev-1", ""); err != nil {
		t.Fatalf("RegisterDevice() error = %v", err)
	}
	devices := svc.Devices(userID)
	if len(devices) != 1 || devices[0].Name == "" {
		t.Errorf("expected a generated device name, got %+v", devices)
	}
}

func TestRegisterDeviceUnknownUser(t *testing.T) {
	svc := newTestAccounts(t)
	if _, err := svc.RegisterDevice("missing", "dev-1", "Tablet"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("RegisterDevice() error = %v, want ErrUserNotFound", err)
	}
}

func TestAddCaretaker(t *testing.T) {
	svc := newTestAccounts(t)
	aliceID, _ := svc.Signup(signupParams("alice@example.com"))
	bobID, _ := svc.Signup(signupParams("bob@example.com"))

	msg, err := svc.AddCaretaker(aliceID, "bob@example.com")
	if err != nil {
		t.Fatalf("AddCaretaker() error = %v", err)
	}
	if msg != "Caretaker bob@example.com added" {
		t.Errorf("message = %q", msg)
	}

	alice, _ := svc.User(aliceID)
	if !alice.HasCaretaker(bobID) {
		t.Error("bob not on alice's caretaker list")
	}

	if _, err := svc.AddCaretaker(aliceID, "bob@example.com"); !errors.Is(err, ErrCaretakerExists) {
		t.Errorf("duplicate AddCaretaker() error = %v, want ErrCaretakerExists", err)
	}
	if _, err := svc.AddCaretaker(aliceID, "carol@example.com"); !errors.Is(err, ErrCaretakerNotFound) {
		t.Errorf("unknown caretaker error = %v, want ErrCaretakerNotFound", err)
	}
	if _, err := svc.AddCaretaker("missing", "bob@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user error = %v, want ErrUserNotFound", err)
	}
}

func TestAccessibleAccounts(t *testing.T) {
	svc := newTestAccounts(t)
	aliceID, _ := svc.Signup(signupParams("alice@example.com"))
	bobID, _ := svc.Signup(signupParams("bob@example.com"))
	svc.AddCaretaker(aliceID, "bob@example.com")

	accessible := svc.AccessibleAccounts(bobID)
	if len(accessible) != 2 {
		t.Fatalf("AccessibleAccounts() = %v, want bob + alice", accessible)
	}
	if accessible[0] != bobID {
		t.Errorf("own account should come first, got %v", accessible)
	}

	if !svc.CanAccess(bobID, aliceID) {
		t.Error("caretaker should access the account")
	}
	if svc.CanAccess(aliceID, bobID) {
		t.Error("access is not symmetric")
	}
}

func TestThemeAndProfile(t *testing.T) {
	svc := newTestAccounts(t)
	userID, _ := svc.Signup(signupParams("alice@example.com"))

	if err := svc.SetTheme(userID, "dark"); err != nil {
		t.Fatalf("SetTheme() error = %v", err)
	}
	profile, err := svc.Profile(userID)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.Theme != models.ThemeDark {
		t.Errorf("Theme = %q, want dark", profile.Theme)
	}
	if profile.Email != "alice@example.com" || profile.Name != "Test User" {
		t.Errorf("Profile = %+v", profile)
	}

	// Garbage theme normalizes to light.
	svc.SetTheme(userID, "neon")
	profile, _ = svc.Profile(userID)
	if profile.Theme != models.ThemeLight {
		t.Errorf("Theme = %q, want light", profile.Theme)
	}

	if err := svc.SetTheme("missing", "dark"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("SetTheme() error = %v, want ErrUserNotFound", err)
	}
}

func TestMedicines(t *testing.T) {
	svc := newTestAccounts(t)
	userID, _ := svc.Signup(signupParams("alice@example.com"))

	if got := svc.Medicines(userID); len(got) != 0 {
		t.Errorf("new account Medicines() = %v, want empty", got)
	}

	meds := []models.Medicine{
		{Name: "Aspirin", Dosage: "75mg", Schedule: "morning"},
		{Name: "Metformin", Dosage: "500mg", Schedule: "morning, evening"},
	}
	if err := svc.SetMedicines(userID, meds); err != nil {
		t.Fatalf("SetMedicines() error = %v", err)
	}

	got := svc.Medicines(userID)
	if len(got) != 2 || got[0].Name != "Aspirin" || got[1].Dosage != "500mg" {
		t.Errorf("Medicines() = %+v", got)
	}

	if err := svc.SetMedicines("missing", meds); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("SetMedicines() error = %v, want ErrUserNotFound", err)
	}
}

func TestPasswordRecovery(t *testing.T) {
	svc := newTestAccounts(t)
	userID, _ := svc.Signup(signupParams("alice@example.com"))

	// Answer matching ignores case and surrounding whitespace.
	id, err := svc.VerifySecurityAnswer("alice@example.com", "  SMITH ")
	if err != nil {
		t.Fatalf("VerifySecurityAnswer() error = %v", err)
	}
	if id != userID {
		t.Errorf("id = %q, want %q", id, userID)
	}

	if _, err := svc.VerifySecurityAnswer("alice@example.com", "jones"); !errors.Is(err, ErrSecurityAnswer) {
		t.Errorf("wrong answer error = %v, want ErrSecurityAnswer", err)
	}
	if _, err := svc.VerifySecurityAnswer("bob@example.com", "smith"); !errors.Is(err, ErrEmailNotFound) {
		t.Errorf("unknown email error = %v, want ErrEmailNotFound", err)
	}

	if err := svc.ResetPassword(userID, "weak"); err == nil {
		t.Error("ResetPassword() accepted a weak password")
	}
	if err := svc.ResetPassword(userID, "N3wpass!"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if _, _, err := svc.Login("alice@example.com", "N3wpass!"); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}
	if _, _, err := svc.Login("alice@example.com", "Passw0rd!"); !errors.Is(err, ErrIncorrectPassword) {
		t.Errorf("Login() with old password error = %v, want ErrIncorrectPassword", err)
	}
}

func TestOAuthLogin(t *testing.T) {
	svc := newTestAccounts(t)

	// First login creates the account.
	id, user, err := svc.OAuthLogin("google", "sub-1", "alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("OAuthLogin() error = %v", err)
	}
	if user.Name != "Alice" || user.OAuthProvider != "google" {
		t.Errorf("user = %+v", user)
	}

	// Second login finds the same account.
	id2, _, err := svc.OAuthLogin("google", "sub-1", "alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("repeat OAuthLogin() error = %v", err)
	}
	if id2 != id {
		t.Errorf("repeat login id = %q, want %q", id2, id)
	}

	// Password login with a signed-up account links the provider.
	bobID, _ := svc.Signup(signupParams("bob@example.com"))
	linkedID, linked, err := svc.OAuthLogin("facebook", "sub-2", "bob@example.com", "")
	if err != nil {
		t.Fatalf("link OAuthLogin() error = %v", err)
	}
	if linkedID != bobID || linked.OAuthProvider != "facebook" {
		t.Errorf("linked = %q %+v", linkedID, linked)
	}

	// A different provider cannot take over a linked account.
	if _, _, err := svc.OAuthLogin("google", "sub-3", "bob@example.com", ""); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("provider conflict error = %v, want ErrEmailTaken", err)
	}

	if _, _, err := svc.OAuthLogin("", "", "alice@example.com", ""); !errors.Is(err, ErrMissingOAuthProfile) {
		t.Errorf("missing profile error = %v, want ErrMissingOAuthProfile", err)
	}
}
