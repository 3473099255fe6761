package domain

import "time"

// User is the directory aggregate. The MySQL row is the source of truth;
// the cached copy is a derived view and may be absent or stale.
type User struct {
	UserID     int64     `json:"user_id"`
	Nickname   string    `json:"nickname"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	Avatar     bool      `json:"avatar"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewUser carries the caller-supplied fields of a create request. The
// identifier is assigned externally, not by this service.
type NewUser struct {
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
}

// UserUpdate is a partial update. Nil fields are left untouched.
type UserUpdate struct {
	Nickname   *string `json:"nickname"`
	IsActive   *bool   `json:"is_active"`
	IsVerified *bool   `json:"is_verified"`
	Avatar     *bool   `json:"avatar"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u UserUpdate) IsEmpty() bool {
	return u.Nickname == nil && u.IsActive == nil && u.IsVerified == nil && u.Avatar == nil
}
