package mock

import "github.com/fwojciec/siteask"

var _ siteask.Cache = (*Cache)(nil)

// Cache is a mock implementation of siteask.Cache.
type Cache struct {
	GetFn   func(key string) (*siteask.Response, bool)
	SetFn   func(key string, resp *siteask.Response)
	FlushFn func()
	StatsFn func() siteask.CacheStats
}

func (c *Cache) Get(key string) (*siteask.Response, bool) {
	return c.GetFn(key)
}

func (c *Cache) Set(key string, resp *siteask.Response) {
	c.SetFn(key, resp)
}

func (c *Cache) Flush() {
	c.FlushFn()
}

func (c *Cache) Stats() siteask.CacheStats {
	return c.StatsFn()
}
