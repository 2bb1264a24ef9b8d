package services

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDenied is returned when the acting user is not an admin of the
	// target school (or of any school, for dashboard resolution).
	ErrDenied = errors.New("not a school admin")

	// ErrNoAdmins rejects any update that would leave a school without
	// at least one admin.
	ErrNoAdmins = errors.New("a school must have at least one admin")

	// ErrUnknownAdmin rejects admin lists referencing users that do not
	// exist.
	ErrUnknownAdmin = errors.New("admin list references an unknown user")

	// ErrNameRequired rejects school and event creation without a name.
	ErrNameRequired = errors.New("name is required")
)
