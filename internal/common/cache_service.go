package common

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheService is the go-cache backed CacheInterface.
type CacheService struct {
	cache *cache.Cache
}

var _ CacheInterface = (*CacheService)(nil)

func NewCacheService(defaultExpiration, cleanUpInterval time.Duration) *CacheService {
	return &CacheService{cache: cache.New(defaultExpiration, cleanUpInterval)}
}

func (cs *CacheService) Set(key string, value interface{}, duration time.Duration) {
	cs.cache.Set(key, value, duration)
}

func (cs *CacheService) Add(key string, value interface{}, duration time.Duration) error {
	return cs.cache.Add(key, value, duration)
}

func (cs *CacheService) Get(key string) (interface{}, bool) {
	return cs.cache.Get(key)
}

func (cs *CacheService) Delete(key string) {
	cs.cache.Delete(key)
}

func (cs *CacheService) DeletePrefix(prefix string) {
	for key := range cs.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			cs.cache.Delete(key)
		}
	}
}
