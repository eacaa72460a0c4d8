package models

import "errors"

var (
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrMissingAPIKey    = errors.New("LLM API key not configured")
	ErrInsufficientData = errors.New("insufficient price history")
)
