package models

import "time"

// Invitation invites an email address to become a caretaker for the inviting
// user's account. The invitee redeems the code during signup.
type Invitation struct {
	Code      string `json:"code"`
	Email     string `json:"email"`
	InvitedBy string `json:"invited_by"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
	UsedAt    string `json:"used_at,omitempty"`
	UsedBy    string `json:"used_by,omitempty"`
}

// IsExpired checks if the invitation has expired.
func (i *Invitation) IsExpired(now time.Time) bool {
	expires, err := time.ParseInLocation(TimeLayout, i.ExpiresAt, time.Local)
	if err != nil {
		return true
	}
	return now.After(expires)
}

// IsUsed checks if the invitation has already been redeemed.
func (i *Invitation) IsUsed() bool {
	return i.UsedAt != ""
}
