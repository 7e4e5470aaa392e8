// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package session defines the client session domain: the roles recognized by
the platform, the user projection derived from a credential, and the
authentication state the rest of the gateway consumes.

# Architecture

The session is the only mutable state this gateway owns. It has exactly one
writer (the auth service) and many readers (guards, proxy handlers). Readers
receive an immutable [State] snapshot through the request context and never
mutate it.
*/
package session

// # Roles

// Role is the authorization profile embedded in a platform credential.
//
// The set is closed. There is deliberately no privilege ordering between
// roles: route access is decided by explicit allow-lists, never by rank
// comparison.
type Role string

const (
	// RoleGeneralAdministrator manages administrators and subscriptions.
	RoleGeneralAdministrator Role = "general_administrator"

	// RoleAdministrator manages users and health units within its scope.
	RoleAdministrator Role = "administrator"

	// RoleProfessional performs attendances and runs predictions.
	RoleProfessional Role = "professional"
)

// All enumerates every role the platform issues.
func All() []Role {
	return []Role{RoleGeneralAdministrator, RoleAdministrator, RoleProfessional}
}

// Known reports whether r is part of the closed role set.
func (r Role) Known() bool {
	switch r {
	case RoleGeneralAdministrator, RoleAdministrator, RoleProfessional:
		return true
	}
	return false
}

// # User Projection

// User is the session-side projection of the authenticated actor.
//
// It is derived entirely from credential claims at the moment of login or
// restoration and is never independently fetched from the platform.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Profile Role   `json:"profile"`
	AdminID string `json:"admin_id,omitempty"`
}

// # Persistence Record

// Record is the single document persisted per session.
//
// Token and User are deliberately stored together in one record so that a
// reader can never observe one without the other, eliminating the
// inconsistent-read race a two-key layout would allow.
type Record struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// # Authentication State

// State is the immutable snapshot guards and handlers evaluate.
//
// # Invariant
//
// IsAuthenticated is true if and only if User is non-nil and Token is
// non-empty. No intermediate shape is ever constructed; use [Authenticated]
// and [Anonymous] instead of struct literals.
type State struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	User            *User  `json:"user"`
	Token           string `json:"token,omitempty"`
}

// Authenticated builds the state for a restored or freshly logged-in actor.
func Authenticated(user User, token string) State {
	return State{IsAuthenticated: true, User: &user, Token: token}
}

// Anonymous builds the unauthenticated state.
func Anonymous() State {
	return State{}
}

// Valid reports whether the state satisfies the session invariant.
func (s State) Valid() bool {
	if s.IsAuthenticated {
		return s.User != nil && s.Token != ""
	}
	return s.User == nil && s.Token == ""
}
