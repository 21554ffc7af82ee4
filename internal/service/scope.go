package service

import "errors"

// ErrMissingIdentity is returned when a call carries no authenticated user.
var ErrMissingIdentity = errors.New("missing user identity")

// Scope binds a call to the authenticated user. Every read and write in this
// package is filtered by Scope.UserID, so one user can never observe or
// mutate another user's rows.
type Scope struct {
	UserID int64
}

// NewScope returns a Scope for userID, or ErrMissingIdentity when the id is
// not a valid user id.
func NewScope(userID int64) (Scope, error) {
	s := Scope{UserID: userID}
	if err := s.check(); err != nil {
		return Scope{}, err
	}
	return s, nil
}

func (s Scope) check() error {
	if s.UserID <= 0 {
		return ErrMissingIdentity
	}
	return nil
}
