package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when an activity, user or token cannot be located.
	ErrNotFound = errors.New("not found")
	// ErrAlreadySigned is returned when a signature is requested for a confirmed activity.
	ErrAlreadySigned = errors.New("activity already signed")
	// ErrVersionConflict is returned by stores when a collection changed since it was read.
	ErrVersionConflict = errors.New("collection version conflict")
	// ErrUsernameTaken is returned on signup with an existing username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken is returned on signup with an email already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned by Login for unknown users or wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAlreadyFriends is returned when adding a friend who is already listed.
	ErrAlreadyFriends = errors.New("already friends")
	// ErrSelfFriend is returned when a user tries to add themselves.
	ErrSelfFriend = errors.New("cannot add yourself")
)

// ValidationError lists the request fields that are missing or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Is makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DependencyError wraps a failure of the store or the notifier.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

func dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	var dep *DependencyError
	if errors.As(err, &dep) {
		return err
	}
	return &DependencyError{Op: op, Err: err}
}
