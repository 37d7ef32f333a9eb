package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/skosovsky/unifai"
	"github.com/skosovsky/unifai/model"
)

const defaultTTL = 5 * time.Minute

// Fetcher returns the raw YAML manifest for one provider.
// Return an error wrapping ErrNotFound when the provider has no manifest.
type Fetcher interface {
	Fetch(ctx context.Context, provider string) ([]byte, error)
}

// Option configures a Remote catalog.
type Option func(*Remote)

// WithTTL sets the cache TTL. Default is 5 minutes; TTL <= 0 never expires.
func WithTTL(d time.Duration) Option {
	return func(r *Remote) {
		r.ttl = d
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Remote) {
		if l != nil {
			r.logger = l
		}
	}
}

type cacheEntry struct {
	models    *Static
	expiresAt time.Time
}

// Remote loads provider manifests via a Fetcher and caches them with a TTL.
// Safe for concurrent use.
type Remote struct {
	fetcher Fetcher
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time
	mu      sync.RWMutex
	cache   map[string]*cacheEntry
	sf      singleflight.Group
}

var _ Catalog = (*Remote)(nil)

// NewRemote returns a Remote catalog over fetcher. Panics if fetcher is nil.
func NewRemote(fetcher Fetcher, opts ...Option) *Remote {
	if fetcher == nil {
		panic("catalog: Fetcher must not be nil")
	}
	r := &Remote{
		fetcher: fetcher,
		ttl:     defaultTTL,
		logger:  slog.Default(),
		now:     time.Now,
		cache:   make(map[string]*cacheEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// detachCancel returns a context that survives cancellation of parent but keeps
// its deadline, so one caller giving up does not fail a fetch shared with others.
func detachCancel(parent context.Context) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(parent)
	if dl, ok := parent.Deadline(); ok {
		return context.WithDeadline(ctx, dl)
	}
	return context.WithCancel(ctx)
}

// GetModel returns the model from the provider's manifest, fetching it on miss or expiry.
func (r *Remote) GetModel(ctx context.Context, provider, id string) (*model.Model, error) {
	if err := ValidateName(provider); err != nil {
		return nil, err
	}
	if err := ValidateName(id); err != nil {
		return nil, err
	}
	models, err := r.provider(ctx, provider)
	if err != nil {
		return nil, err
	}
	return models.GetModel(ctx, provider, id)
}

// List returns every model of provider, fetching the manifest if needed.
func (r *Remote) List(ctx context.Context, provider string, capability model.Capability) ([]model.Model, error) {
	if err := ValidateName(provider); err != nil {
		return nil, err
	}
	models, err := r.provider(ctx, provider)
	if err != nil {
		return nil, err
	}
	return models.List(Filter{Provider: provider, Capability: capability}), nil
}

func (r *Remote) provider(ctx context.Context, provider string) (*Static, error) {
	r.mu.RLock()
	ent, ok := r.cache[provider]
	r.mu.RUnlock()
	if ok && r.valid(ent) {
		return ent.models, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, shared := r.sf.Do(provider, func() (any, error) {
		fetchCtx, cancel := detachCancel(ctx)
		defer cancel()
		data, err := r.fetcher.Fetch(fetchCtx, provider)
		if err != nil {
			return nil, err
		}
		parsed, err := model.ParseBytes(data)
		if err != nil {
			return nil, err
		}
		for _, m := range parsed {
			if m.Provider != provider {
				return nil, fmt.Errorf("%w: manifest for %q declares model %s/%s", model.ErrInvalidManifest, provider, m.Provider, m.ID)
			}
		}
		models, err := NewStatic(parsed...)
		if err != nil {
			return nil, err
		}
		r.store(provider, models)
		return models, nil
	})
	if err != nil {
		r.logger.Debug("catalog: fetch manifest", "provider", provider, "error", err)
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: provider %q: %w", unifai.ErrModelNotFound, provider, err)
		}
		return nil, err
	}
	r.logger.Debug("catalog: manifest loaded", "provider", provider, "shared", shared)
	return v.(*Static), nil
}

func (r *Remote) valid(ent *cacheEntry) bool {
	return r.ttl <= 0 || r.now().Before(ent.expiresAt)
}

func (r *Remote) store(provider string, models *Static) {
	var expiresAt time.Time
	if r.ttl > 0 {
		expiresAt = r.now().Add(r.ttl)
	}
	r.mu.Lock()
	r.cache[provider] = &cacheEntry{models: models, expiresAt: expiresAt}
	r.mu.Unlock()
}

// Evict drops one provider's cached manifest.
func (r *Remote) Evict(provider string) {
	r.mu.Lock()
	delete(r.cache, provider)
	r.mu.Unlock()
}

// EvictAll clears the cache.
func (r *Remote) EvictAll() {
	r.mu.Lock()
	r.cache = make(map[string]*cacheEntry)
	r.mu.Unlock()
}

// Close calls Close on the Fetcher if it implements it.
func (r *Remote) Close() error {
	if c, ok := r.fetcher.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
