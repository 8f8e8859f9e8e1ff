package models

import (
	"strconv"
	"time"
)

// Role determines which slices of the order ledger a user may touch.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User represents a registered account. The role is fixed at creation.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at,omitempty" db:"created_at"`
}

// Session is the resolved caller identity for one request. A session with a
// token but no user belongs to a guest (anonymous cart owner).
type Session struct {
	Token     string    `json:"-" db:"token"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty" db:"expires_at"`
}

// IsAuthenticated reports whether the session belongs to a registered user.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.User != nil
}

// IsAdmin reports whether the session belongs to an admin user.
func (s *Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.Role == RoleAdmin
}

// UserID returns the owning user id, or 0 for guests.
func (s *Session) UserID() int64 {
	if !s.IsAuthenticated() {
		return 0
	}
	return s.User.ID
}

// CartOwnerKey identifies the cart belonging to this session: registered
// users keep their cart across devices, guests are keyed by session token.
func (s *Session) CartOwnerKey() string {
	if s.IsAuthenticated() {
		return "user:" + strconv.FormatInt(s.User.ID, 10)
	}
	return "session:" + s.Token
}
