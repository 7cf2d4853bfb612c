package service

import "errors"

var (
	ErrInvalidIdentifier = errors.New("invalid product identifier")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrSessionRequired   = errors.New("session required")
	ErrCheckoutInFlight  = errors.New("checkout already in progress")
)
