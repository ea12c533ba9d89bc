// Package cache stores computed ATS results and imported job pages in Redis
// keyed by content hashes of their inputs.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DheerajKumar97/Interview-Vault-AI-Powered-Interview-Tracker-with-ATS-Scoring-Interview-Prep-Alerts-Notifications/internal/ats"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a score stays cached when no TTL is configured.
const DefaultTTL = 24 * time.Hour

const keyPrefix = "ats:"

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	// Fingerprint is the scoring engine's configuration hash. Results cached
	// under one fingerprint are never served to an engine with another.
	Fingerprint string
}

// ScoreCache wraps a Redis client.
type ScoreCache struct {
	client      *redis.Client
	ttl         time.Duration
	fingerprint string
}

// New creates a cache over a fresh Redis client.
func New(opts Options) *ScoreCache {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return NewWithClient(client, opts.TTL).WithFingerprint(opts.Fingerprint)
}

// NewWithClient wraps an existing client. A non-positive ttl uses DefaultTTL.
func NewWithClient(client *redis.Client, ttl time.Duration) *ScoreCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ScoreCache{client: client, ttl: ttl}
}

// WithFingerprint returns a cache sharing c's connection whose score keys are
// scoped to the given engine fingerprint.
func (c *ScoreCache) WithFingerprint(fingerprint string) *ScoreCache {
	scoped := *c
	scoped.fingerprint = fingerprint
	return &scoped
}

// Ping tests the Redis connection
func (c *ScoreCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *ScoreCache) Close() error {
	return c.client.Close()
}

// Key derives the cache key for one scoring input under an engine fingerprint.
func Key(fingerprint string, in ats.Input) string {
	if fingerprint == "" {
		fingerprint = "unscoped"
	}
	return keyPrefix + fingerprint + ":" + digest(in.ResumeText) + ":" + digest(in.JobDescriptionText) + ":" + digest(in.JobTitle)
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached result, or (nil, nil) on a miss.
func (c *ScoreCache) Get(ctx context.Context, in ats.Input) (*ats.Result, error) {
	data, err := c.client.Get(ctx, Key(c.fingerprint, in)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached score: %w", err)
	}

	var result ats.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached score: %w", err)
	}
	return &result, nil
}

// Set stores a result under the input's key.
func (c *ScoreCache) Set(ctx context.Context, in ats.Input, result *ats.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode score: %w", err)
	}
	if err := c.client.Set(ctx, Key(c.fingerprint, in), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache score: %w", err)
	}
	return nil
}
