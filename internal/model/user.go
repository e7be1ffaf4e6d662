// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// There is no password — identity is an opaque session token minted at
// registration and carried in a cookie. All of a user's data hangs off
// that token, which makes SessionID as sensitive as a credential.
//
// WHY json:"-" ON SessionID?
// The token IS the authentication. Serialising it in GET /api/users would
// hand every caller the keys to every account. The only place the token
// ever leaves the server is the Set-Cookie header on registration.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"` // unique across all users
	SessionID string    `json:"-"`     // opaque session token, never serialised
	CreatedAt time.Time `json:"created_at"`
}
