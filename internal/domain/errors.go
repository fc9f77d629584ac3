package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrQuotaExceeded   = errors.New("quota exceeded")
	ErrUnsupportedPlan = errors.New("unsupported plan")
	ErrInvalidResource = errors.New("invalid resource")
	ErrMissingTable    = errors.New("table does not exist")
)
