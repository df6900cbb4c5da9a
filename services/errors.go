package services

import (
	"errors"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrAbuseCheck = errors.New("abuse check failed")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream failure")
	ErrStore      = errors.New("store failure")
)

// ValidationError carries the message shown to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// AbuseError is returned by the captcha gate; Message is user facing.
type AbuseError struct {
	Message string
}

func (e *AbuseError) Error() string { return e.Message }

func (e *AbuseError) Is(target error) bool { return target == ErrAbuseCheck }

var (
	ErrInvalidCaptcha     error = &AbuseError{Message: "Invalid CAPTCHA"}
	ErrCaptchaScoreTooLow error = &AbuseError{Message: "CAPTCHA score too low, please try again"}
)
