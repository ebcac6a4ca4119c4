package service

import "errors"

// Service errors. The API layer maps each of them to a status code; callers
// match them with errors.Is.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so that login failures do not disclose which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountPending is returned when an account has not been approved yet.
	ErrAccountPending = errors.New("account is pending approval")

	// ErrAccountDisabled is returned when an account has been disabled by an admin.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrAdminExists is returned when bootstrapping an admin while one already exists.
	ErrAdminExists = errors.New("an admin account already exists")

	// ErrUpstream wraps failures of the media provider.
	ErrUpstream = errors.New("upstream media provider failed")

	// ErrMediaDisabled is returned by uploads when no media storage is configured.
	ErrMediaDisabled = errors.New("media uploads are not configured")

	// ErrFileTooLarge is returned when an upload exceeds its size limit.
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")

	// ErrUnsupportedMediaType is returned when an upload has a disallowed type.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrTooManyFiles is returned when a batch upload has too many files.
	ErrTooManyFiles = errors.New("too many files in one upload")

	// ErrEmptyFile is returned when an upload has no content.
	ErrEmptyFile = errors.New("file is empty")
)
