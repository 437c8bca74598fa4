// Package cache holds objects that are expensive to build and never change
// once built, such as parsed letter distributions.
package cache

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type cache struct {
	sync.Mutex
	objects map[string]any
}

type loadFunc func(key string) (any, error)

// GlobalObjectCache is shared by the whole process.
var GlobalObjectCache = newCache()

func newCache() *cache {
	return &cache{objects: make(map[string]any)}
}

func (c *cache) get(key string, fn loadFunc) (any, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	log.Debug().Str("key", key).Msg("loading into cache")
	obj, err := fn(key)
	if err != nil {
		return nil, err
	}
	c.objects[key] = obj
	return obj, nil
}

// Load returns the object cached under key, calling fn to build it on
// first use. Failed loads are not cached.
func Load(key string, fn loadFunc) (any, error) {
	return GlobalObjectCache.get(key, fn)
}
