package memory

import (
	"strings"
	"time"

	"wspace-be/pkg/websearch"

	"github.com/patrickmn/go-cache"
)

// SearchCache keeps recent web search results keyed by normalized query.
type SearchCache struct {
	cache *cache.Cache
}

func NewSearchCache(ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SearchCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func cacheKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

func (r *SearchCache) Save(query string, results []websearch.Result) {
	r.cache.Set(cacheKey(query), results, cache.DefaultExpiration)
}

func (r *SearchCache) Get(query string) ([]websearch.Result, bool) {
	if x, found := r.cache.Get(cacheKey(query)); found {
		return x.([]websearch.Result), true
	}
	return nil, false
}
