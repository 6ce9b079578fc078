package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken     = errors.New("INVALID_TOKEN")
	ErrCatalogSource    = errors.New("CATALOG_SOURCE_UNAVAILABLE")
	ErrReloadInProgress = errors.New("RELOAD_IN_PROGRESS")
)
