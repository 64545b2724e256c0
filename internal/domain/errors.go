package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoProducts is returned when the catalog feed is reachable but
	// returns zero product records for the query
	ErrNoProducts = errors.New("no products found in catalog feed")

	// ErrNoOptions is returned when products were found but the variant
	// filters eliminated every (product, SKU item) candidate
	ErrNoOptions = errors.New("no variant options match the given filters")

	// ErrFeedUnavailable is returned when the catalog feed request fails
	// (network, TLS, non-success status)
	ErrFeedUnavailable = errors.New("catalog feed request failed")

	// ErrRelayUnavailable is returned when fetching image bytes fails
	ErrRelayUnavailable = errors.New("image fetch failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
