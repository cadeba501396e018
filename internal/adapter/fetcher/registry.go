package fetcher

import "github.com/cwygoda/mediagrabber/internal/domain"

// Registry holds the registered platform fetchers.
type Registry struct {
	fetchers map[domain.Platform]domain.MediaFetcher
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[domain.Platform]domain.MediaFetcher)}
}

// Register adds a fetcher, keyed by its platform.
func (r *Registry) Register(f domain.MediaFetcher) {
	r.fetchers[f.Platform()] = f
}

// ForPlatform returns the fetcher for a platform, or nil.
func (r *Registry) ForPlatform(p domain.Platform) domain.MediaFetcher {
	return r.fetchers[p]
}

// Fetchers returns the platform-to-fetcher map.
func (r *Registry) Fetchers() map[domain.Platform]domain.MediaFetcher {
	return r.fetchers
}
