package service

import "errors"

var (
	ErrNameRequired  = errors.New("name is required")
	ErrEmptyOrder    = errors.New("order has no lines, nothing to submit")
	ErrUnknownStatus = errors.New("unknown order status")
)
