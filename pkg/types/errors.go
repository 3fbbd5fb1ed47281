package types

import "errors"

var (
	ErrUnknownSortKey = errors.New("unknown sort key")
	ErrUnknownFacet   = errors.New("unknown facet")
	ErrDuplicateId    = errors.New("duplicate entry id")
	ErrRankOrder      = errors.New("rank is not strictly increasing")
	ErrEntryNotFound  = errors.New("entry not found")
)
