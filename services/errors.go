package services

import "errors"

// Sentinel errors returned by the checkout and reconciliation services.
// Handlers map these onto HTTP statuses; anything else is a 500.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrPurchaseNotFound   = errors.New("purchase not found")
	ErrSessionNotFound    = errors.New("checkout session not found")
	ErrMissingPurchaseRef = errors.New("purchase id missing from session metadata")
	ErrAlreadyEnrolled    = errors.New("user already enrolled in this course")
)
