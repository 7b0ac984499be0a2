package storefront

import "github.com/kailas-cloud/storefront/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound     = domain.ErrNotFound
	ErrUnknownTable = domain.ErrUnknownTable
	ErrInvalidSeed  = domain.ErrInvalidSeed
)
