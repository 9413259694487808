package handler

import (
	"errors"
	"net/http"
)

var errUnauthenticated = errors.New("unauthenticated")

// Authenticator supplies the verified identity of a request. Identity
// verification itself happens in an upstream collaborator (auth proxy or
// SDK middleware); handlers only consume its result.
type Authenticator interface {
	// UserID returns the authenticated user, or errUnauthenticated-compatible
	// error when the request carries no verified identity.
	UserID(r *http.Request) (string, error)
	// IsAdmin reports whether the authenticated user may mutate the catalog.
	IsAdmin(r *http.Request) bool
}

// HeaderAuth trusts identity headers set by an upstream auth proxy that has
// already verified the session.
type HeaderAuth struct {
	UserHeader string
	RoleHeader string
}

func NewHeaderAuth() HeaderAuth {
	return HeaderAuth{UserHeader: "X-User-Id", RoleHeader: "X-User-Role"}
}

func (a HeaderAuth) UserID(r *http.Request) (string, error) {
	id := r.Header.Get(a.UserHeader)
	if id == "" {
		return "", errUnauthenticated
	}
	return id, nil
}

func (a HeaderAuth) IsAdmin(r *http.Request) bool {
	return r.Header.Get(a.RoleHeader) == "admin"
}
