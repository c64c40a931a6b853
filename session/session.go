// Package session owns the dashboard's in-memory view of who is signed in.
//
// Manager is the single writer of both the Snapshot and the credential
// store. Everything else reads a Snapshot through Manager.Snapshot or
// Manager.Subscribe.
package session

import (
	"errors"
	"time"
)

var (
	// ErrLoginRejected is returned by Login when the backend refused the
	// attempt or returned an unusable credential.
	ErrLoginRejected = errors.New("login rejected")

	// ErrExpired marks a credential whose claims have lapsed.
	ErrExpired = errors.New("credential expired")

	// ErrInvalidAttributes marks stored attributes that cannot back a
	// session: an unknown role or a missing user id.
	ErrInvalidAttributes = errors.New("invalid session attributes")

	// ErrNotPersisted is returned by Login when the credential store did
	// not hold the new credential after writing it.
	ErrNotPersisted = errors.New("credential store did not persist the credential")
)

// Status is the hydration state of a Manager.
type Status int

const (
	// Initializing means the credential store has not been read yet.
	Initializing Status = iota
	// Ready means the identity (or its absence) is known.
	Ready
)

func (s Status) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Role names a dashboard audience
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Roles lists every known role
var Roles = []Role{RoleAdmin, RoleTeacher, RoleStudent}

// Valid reports whether r is one of Roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Identity is the signed-in user as reconstructed from the credential and
// its persisted attributes.
type Identity struct {
	ID             string
	Role           Role
	Subject        string
	ExpiresAt      time.Time
	ProfilePicture string
	// Claims holds any further claims embedded in the credential.
	Claims map[string]any
}

// HasRole reports whether the identity holds any of roles
func (i *Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// DisplayName is the subject claim, or the user id when the credential
// carries none.
func (i *Identity) DisplayName() string {
	if i.Subject != "" {
		return i.Subject
	}
	return i.ID
}

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	Status   Status
	Identity *Identity
}

// Authenticated reports whether the snapshot carries an identity
func (s Snapshot) Authenticated() bool {
	return s.Status == Ready && s.Identity != nil
}

// LoginResult is what the backend returns for a successful login.
type LoginResult struct {
	AccessToken    string
	Role           Role
	ID             string
	ProfilePicture string
}
