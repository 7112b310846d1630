// Package cachesync drops cached search data after catalog changes. With a
// shared Redis cache this keeps every API instance in step.
package cachesync

import (
	"context"

	"cennik/internal/cache"
	"cennik/internal/logger"
	"cennik/internal/models"
	"cennik/internal/search"
)

type Processor struct {
	cache  cache.Cache
	logger *logger.Logger
}

func New(c cache.Cache, logger *logger.Logger) *Processor {
	return &Processor{cache: c, logger: logger}
}

func (p *Processor) CatalogUpdated(ctx context.Context, event models.Event) error {
	p.logger.Debug("Invalidating search index after %s for %s", event.Type, event.ProducerSlug)
	return p.cache.Delete(ctx, search.IndexCacheKey)
}
