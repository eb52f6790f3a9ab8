package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ummet-social/moderation-hub/internal/moderation"
	apperrors "github.com/ummet-social/moderation-hub/internal/pkg/errors"
)

func TestBanStatusKey(t *testing.T) {
	assert.Equal(t, "moderation:ban-status:u1", banStatusKey("u1"))
}

func TestStatusEncoding(t *testing.T) {
	expires := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	t.Run("临时封禁", func(t *testing.T) {
		raw, err := encodeStatus(moderation.BanStatus{IsBanned: true, Reason: "spam", ExpiresAt: &expires})
		require.NoError(t, err)
		assert.JSONEq(t, `{"isBanned":true,"reason":"spam","expiresAt":"2026-10-18T09:00:00Z"}`, string(raw))

		status, err := decodeStatus(raw)
		require.NoError(t, err)
		assert.True(t, status.IsBanned)
		assert.True(t, expires.Equal(*status.ExpiresAt))
	})

	t.Run("未封禁", func(t *testing.T) {
		raw, err := encodeStatus(moderation.BanStatus{})
		require.NoError(t, err)
		assert.JSONEq(t, `{"isBanned":false}`, string(raw))
	})

	t.Run("损坏的值", func(t *testing.T) {
		_, err := decodeStatus([]byte("not-json"))
		assert.Error(t, err)
	})
}

func TestBanStatusCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewBanStatusCache(client)
	ctx := context.Background()

	_, found, err := c.Get(ctx, "u1")
	assert.False(t, found)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeRedisError))

	err = c.Set(ctx, "u1", moderation.BanStatus{IsBanned: true}, time.Minute)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeRedisError))

	err = c.Invalidate(ctx, "u1")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeRedisError))
}
