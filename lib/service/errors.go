package service

import "errors"

// Sentinel errors for the request boundary. Controllers map these onto the
// responses taxonomy; anything wrapped keeps its cause for the logs.
var (
	ErrFileNotFound       = errors.New("file not found")
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrTooManyOutstanding = errors.New("too many outstanding invoices")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrGateway            = errors.New("payment gateway error")
	ErrStore              = errors.New("store error")
)
