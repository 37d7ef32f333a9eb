package catalog

import "errors"

// Sentinel errors for catalog operations. Missing models are reported with unifai.ErrModelNotFound.
var (
	// ErrFetchFailed indicates the Fetcher could not retrieve the manifest.
	ErrFetchFailed = errors.New("catalog: fetch failed")
	// ErrHTTPStatus indicates an unexpected HTTP status when using HTTPFetcher.
	ErrHTTPStatus = errors.New("catalog: unexpected HTTP status")
	// ErrNotFound is returned by a Fetcher when no manifest exists for the provider.
	ErrNotFound = errors.New("catalog: no manifest found")
	// ErrInvalidName indicates a provider or model id unsafe for paths and cache keys.
	ErrInvalidName = errors.New("catalog: invalid name")
	// ErrDuplicateModel indicates two manifests declare the same provider and id.
	ErrDuplicateModel = errors.New("catalog: duplicate model")
)
