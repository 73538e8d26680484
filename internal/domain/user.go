package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole maps raw input to the closed role set, defaulting to RoleUser.
func ParseRole(raw string) Role {
	if raw == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

type User struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	Email              string     `db:"email" json:"email"`
	Name               string     `db:"name" json:"name"`
	Role               Role       `db:"role" json:"role"`
	Active             bool       `db:"active" json:"active"`
	GoogleID           *string    `db:"google_id" json:"google_id,omitempty"`
	Image              *string    `db:"image" json:"image,omitempty"`
	PasswordHash       []byte     `db:"password_hash" json:"-"`
	PasswordSalt       []byte     `db:"password_salt" json:"-"`
	PasswordChangedAt  *time.Time `db:"password_changed_at" json:"-"`
	ResetCodeHash      *string    `db:"reset_code_hash" json:"-"`
	ResetCodeExpiresAt *time.Time `db:"reset_code_expires_at" json:"-"`
	ResetCodeVerified  bool       `db:"reset_code_verified" json:"-"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// HasPassword reports whether the account can authenticate with a password.
// OAuth-only accounts carry no hash until the user creates one.
func (u *User) HasPassword() bool {
	return len(u.PasswordHash) > 0
}

// PasswordFresh reports whether a token issued at iat (unix seconds) is still
// acceptable. A password change after issuance invalidates the token; the
// change timestamp is truncated to whole seconds before comparison.
func (u *User) PasswordFresh(iat int64) bool {
	if u.PasswordChangedAt == nil {
		return true
	}
	return u.PasswordChangedAt.Unix() <= iat
}

// Sanitized is the client-visible projection of a user record.
func (u *User) Sanitized() map[string]any {
	out := map[string]any{
		"id":           u.ID,
		"email":        u.Email,
		"name":         u.Name,
		"role":         u.Role,
		"active":       u.Active,
		"has_password": u.HasPassword(),
	}
	if u.GoogleID != nil {
		out["google_id"] = *u.GoogleID
	}
	if u.Image != nil {
		out["image"] = *u.Image
	}
	return out
}
