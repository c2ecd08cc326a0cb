package models

// Theme preferences
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// User represents an account in the user store. Accounts are keyed by an
// opaque identifier in the store file; the identifier is not repeated inside
// the record.
type User struct {
	Email              string            `json:"email"`
	PasswordHash       string            `json:"password_hash"`
	Name               string            `json:"name"`
	Phone              string            `json:"phone"`
	Theme              string            `json:"theme"`
	SecurityQuestion   string            `json:"security_question"`
	SecurityAnswerHash string            `json:"security_answer_hash"`
	CreatedAt          string            `json:"created_at"`
	IsPrimary          bool              `json:"is_primary"`
	OAuthProvider      string            `json:"oauth_provider,omitempty"`
	OAuthSubject       string            `json:"oauth_subject,omitempty"`
	Devices            map[string]Device `json:"devices"`
	Caretakers         []string          `json:"caretakers"`
	Family             []string          `json:"family"`
	Medicines          []Medicine        `json:"medicines,omitempty"`
}

// HasCaretaker reports whether the given user ID is on this account's
// caretaker list.
func (u *User) HasCaretaker(userID string) bool {
	for _, id := range u.Caretakers {
		if id == userID {
			return true
		}
	}
	return false
}

// Device is a registered device (tablet, button box) owned by one user.
type Device struct {
	Name         string `json:"name"`
	RegisteredAt string `json:"registered_at"`
	LastSeen     string `json:"last_seen"`
}

// DeviceInfo is a device record paired with its identifier, for listing.
type DeviceInfo struct {
	ID string `json:"id"`
	Device
}

// Medicine is one entry on a user's medicine list.
type Medicine struct {
	Name     string `json:"name"`
	Dosage   string `json:"dosage,omitempty"`
	Schedule string `json:"schedule,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Profile is the public view of a user record.
type Profile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Theme string `json:"theme"`
}

// Profile returns the public fields of the user.
func (u *User) Profile() Profile {
	theme := u.Theme
	if theme == "" {
		theme = ThemeLight
	}
	return Profile{
		Email: u.Email,
		Name:  u.Name,
		Phone: u.Phone,
		Theme: theme,
	}
}
