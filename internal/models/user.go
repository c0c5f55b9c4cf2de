package models

import "time"

// User: владелец админки. Создаётся вне API (cmd/createuser).
type User struct {
	ID                     string     `json:"id"`
	Username               string     `json:"username"`
	Email                  string     `json:"email"`
	PasswordHash           string     `json:"-"`
	ResetPasswordTokenHash *string    `json:"-"`
	ResetPasswordExpiry    *time.Time `json:"-"`
	CreatedAt              time.Time  `json:"created_at"`
}

// HasPendingReset: пара (hash, expiry) выставлена. Валидность по времени
// проверяется отдельно.
func (u *User) HasPendingReset() bool {
	return u.ResetPasswordTokenHash != nil && u.ResetPasswordExpiry != nil
}

// SetReset выставляет пару целиком.
func (u *User) SetReset(tokenHash string, expiry time.Time) {
	u.ResetPasswordTokenHash = &tokenHash
	u.ResetPasswordExpiry = &expiry
}

// ClearReset снимает пару целиком.
func (u *User) ClearReset() {
	u.ResetPasswordTokenHash = nil
	u.ResetPasswordExpiry = nil
}

// Public: то, что можно отдавать клиенту.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
