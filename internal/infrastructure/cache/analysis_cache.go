// Package cache holds the in-process cache for overlap analysis results.
// Analysis over the demo datasets is cheap but not free; the dashboard polls,
// so identical requests within the TTL are served from memory.
package cache

import (
	"fmt"

	gocache "github.com/patrickmn/go-cache"

	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/pkg/constants"
)

// AnalysisResult is the cached output of one overlap analysis run.
type AnalysisResult struct {
	Records    []models.OverlapRecord
	PairErrors []models.PairError
}

// AnalysisCache caches analysis results keyed by dataset version and
// threshold. Entries expire after the analysis TTL; a dataset reload changes
// the version and naturally misses.
type AnalysisCache struct {
	store *gocache.Cache
}

// NewAnalysisCache creates an AnalysisCache with the standard TTL.
func NewAnalysisCache() *AnalysisCache {
	return &AnalysisCache{
		store: gocache.New(constants.AnalysisCacheTTL, constants.AnalysisCacheCleanup),
	}
}

// Key builds the cache key for a dataset version and threshold.
func Key(datasetVersion string, minOverlapPercent float64) string {
	return fmt.Sprintf("%s|%.4f", datasetVersion, minOverlapPercent)
}

// Get returns the cached result for the key, if present.
func (c *AnalysisCache) Get(key string) (*AnalysisResult, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	result, ok := v.(*AnalysisResult)
	return result, ok
}

// Put stores a result under the key.
func (c *AnalysisCache) Put(key string, result *AnalysisResult) {
	c.store.SetDefault(key, result)
}

// Flush drops every cached result.
func (c *AnalysisCache) Flush() {
	c.store.Flush()
}
