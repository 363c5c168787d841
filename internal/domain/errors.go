package domain

import "errors"

var (
	ErrNoData      = errors.New("no datasets found")
	ErrUnavailable = errors.New("datasets unavailable")
)
