package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// defaultOperationTimeout bounds individual Redis round-trips.
	defaultOperationTimeout = 5 * time.Second

	// sectionListTTL covers the storefront read path; every composer
	// mutation invalidates the key explicitly, so the TTL is only a
	// backstop against missed invalidations.
	sectionListTTL = 10 * time.Minute

	pageTTL = 1 * time.Hour
)

var ErrCacheMiss = errors.New("cache miss")

type Cache struct {
	client  *redis.Client
	enabled bool
}

func NewCache(addr string, enable bool) (*Cache, error) {
	if !enable {
		return &Cache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client:  client,
		enabled: true,
	}, nil
}

func (c *Cache) operationContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), defaultOperationTimeout)
}

func (c *Cache) Set(key string, value interface{}, expiration time.Duration) error {
	if !c.enabled {
		return nil
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, expiration).Err()
}

func (c *Cache) Get(key string, dest interface{}) error {
	if !c.enabled {
		return ErrCacheMiss
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrCacheMiss
	} else if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Cache) Delete(key string) error {
	if !c.enabled {
		return nil
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	return c.client.Del(ctx, key).Err()
}

func (c *Cache) DeletePattern(pattern string) error {
	if !c.enabled {
		return nil
	}

	ctx, cancel := c.operationContext()
	defer cancel()

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) Close() error {
	if !c.enabled {
		return nil
	}
	return c.client.Close()
}

// Section list caching for the storefront renderer.

func sectionListKey(pageID uint) string {
	return fmt.Sprintf("page:%d:sections", pageID)
}

func (c *Cache) CachePageSections(pageID uint, sections interface{}) error {
	return c.Set(sectionListKey(pageID), sections, sectionListTTL)
}

func (c *Cache) GetCachedPageSections(pageID uint, dest interface{}) error {
	return c.Get(sectionListKey(pageID), dest)
}

func (c *Cache) InvalidatePageSections(pageID uint) error {
	return c.Delete(sectionListKey(pageID))
}

func (c *Cache) CachePage(pageID uint, page interface{}) error {
	return c.Set(fmt.Sprintf("page:%d", pageID), page, pageTTL)
}

func (c *Cache) GetCachedPage(pageID uint, dest interface{}) error {
	return c.Get(fmt.Sprintf("page:%d", pageID), dest)
}

func (c *Cache) InvalidatePage(pageID uint) error {
	if err := c.Delete(fmt.Sprintf("page:%d", pageID)); err != nil {
		return err
	}
	return c.InvalidatePageSections(pageID)
}

func (c *Cache) InvalidateStorePages(storeID uint) error {
	return c.DeletePattern(fmt.Sprintf("store:%d:pages*", storeID))
}

func (c *Cache) CacheStorePages(storeID uint, pages interface{}) error {
	return c.Set(fmt.Sprintf("store:%d:pages", storeID), pages, 5*time.Minute)
}

func (c *Cache) GetCachedStorePages(storeID uint, dest interface{}) error {
	return c.Get(fmt.Sprintf("store:%d:pages", storeID), dest)
}
