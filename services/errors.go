package services

import "errors"

// Sentinel errors for control flow; handlers map these onto HTTP statuses.
var (
	ErrInvalidURL          = errors.New("invalid url")
	ErrInvalidValidity     = errors.New("invalid validity")
	ErrInvalidShortcode    = errors.New("invalid shortcode")
	ErrCodeTaken           = errors.New("shortcode already exists")
	ErrNotFound            = errors.New("not found")
	ErrLinkExpired         = errors.New("link expired")
	ErrGenerationExhausted = errors.New("could not generate shortcode")
)
