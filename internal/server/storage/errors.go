package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this username already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrTokenNotFound indicates that refresh token was not found
	ErrTokenNotFound = errors.New("refresh token not found")

	// ErrCommunityNotFound indicates that community was not found
	ErrCommunityNotFound = errors.New("community not found")

	// ErrAlreadyMember indicates that user is already a member of the community
	ErrAlreadyMember = errors.New("already a member")

	// ErrRequestAlreadyPending indicates that an access request is already pending
	ErrRequestAlreadyPending = errors.New("access request already pending")

	// ErrPackageNotFound indicates that SCORM package was not found
	ErrPackageNotFound = errors.New("scorm package not found")

	// ErrRecordNotFound indicates that a user-stats record was not found
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnknownLookup indicates that lookup table name is not recognized
	ErrUnknownLookup = errors.New("unknown lookup table")
)
