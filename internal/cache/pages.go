package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const pagePrefix = "page:"

// PageKey derives the cache key for an imported job page.
func PageKey(url string) string {
	return pagePrefix + digest(url)
}

// GetPage returns the cached extracted text of url. ok is false on a miss.
func (c *ScoreCache) GetPage(ctx context.Context, url string) (text string, ok bool, err error) {
	text, err = c.client.Get(ctx, PageKey(url)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read cached page: %w", err)
	}
	return text, true, nil
}

// SetPage stores the extracted text of url.
func (c *ScoreCache) SetPage(ctx context.Context, url, text string) error {
	if err := c.client.Set(ctx, PageKey(url), text, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache page: %w", err)
	}
	return nil
}
