package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ummet-social/moderation-hub/internal/config"
)

func TestRedisOptions(t *testing.T) {
	t.Run("URL 优先", func(t *testing.T) {
		opts, err := redisOptions(config.RedisConfig{
			URL:      "redis://:secret@cache.internal:6380/2",
			Host:     "ignored",
			Port:     1,
			PoolSize: 7,
		})
		require.NoError(t, err)
		assert.Equal(t, "cache.internal:6380", opts.Addr)
		assert.Equal(t, "secret", opts.Password)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 7, opts.PoolSize)
	})

	t.Run("Host 和 Port", func(t *testing.T) {
		opts, err := redisOptions(config.RedisConfig{
			Host:        "localhost",
			Port:        6379,
			DB:          1,
			DialTimeout: time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, "localhost:6379", opts.Addr)
		assert.Equal(t, 1, opts.DB)
		assert.Equal(t, time.Second, opts.DialTimeout)
	})

	t.Run("非法 URL", func(t *testing.T) {
		_, err := redisOptions(config.RedisConfig{URL: "http://nope"})
		assert.Error(t, err)
	})
}
