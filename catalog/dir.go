package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirFetcher reads provider manifests from {dir}/{provider}.yaml, falling back to .yml.
// Combine with Remote and WithTTL(0) for a lazily loaded on-disk catalog; Remote.EvictAll reloads.
type DirFetcher struct {
	dir string
}

var _ Fetcher = DirFetcher{}

// NewDirFetcher returns a fetcher over dir.
func NewDirFetcher(dir string) DirFetcher {
	return DirFetcher{dir: dir}
}

// Fetch returns the manifest for provider.
func (d DirFetcher) Fetch(ctx context.Context, provider string) ([]byte, error) {
	if err := ValidateName(provider); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, ext := range []string{".yaml", ".yml"} {
		data, err := os.ReadFile(filepath.Join(d.dir, provider+ext)) // #nosec G304 -- provider is validated
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, provider)
}
