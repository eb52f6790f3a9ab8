// Package cache 基于 Redis 的封禁状态缓存
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ummet-social/moderation-hub/internal/moderation"
	apperrors "github.com/ummet-social/moderation-hub/internal/pkg/errors"
)

const banStatusPrefix = "moderation:ban-status:"

// BanStatusCache 实现 moderation.BanCache
type BanStatusCache struct {
	client *redis.Client
}

var _ moderation.BanCache = (*BanStatusCache)(nil)

// NewBanStatusCache 创建封禁状态缓存
func NewBanStatusCache(client *redis.Client) *BanStatusCache {
	return &BanStatusCache{client: client}
}

// Get 读取缓存，键不存在时 found 为 false
func (c *BanStatusCache) Get(ctx context.Context, userID string) (moderation.BanStatus, bool, error) {
	raw, err := c.client.Get(ctx, banStatusKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return moderation.BanStatus{}, false, nil
	}
	if err != nil {
		return moderation.BanStatus{}, false, apperrors.NewRedisError(err)
	}
	status, err := decodeStatus(raw)
	if err != nil {
		// 无法解析的旧值当作未命中
		return moderation.BanStatus{}, false, nil
	}
	return status, true, nil
}

// Set 写入缓存
func (c *BanStatusCache) Set(ctx context.Context, userID string, status moderation.BanStatus, ttl time.Duration) error {
	raw, err := encodeStatus(status)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, banStatusKey(userID), raw, ttl).Err(); err != nil {
		return apperrors.NewRedisError(err)
	}
	return nil
}

// Invalidate 删除用户的缓存
func (c *BanStatusCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, banStatusKey(userID)).Err(); err != nil {
		return apperrors.NewRedisError(err)
	}
	return nil
}

func banStatusKey(userID string) string {
	return banStatusPrefix + userID
}

func encodeStatus(status moderation.BanStatus) ([]byte, error) {
	return json.Marshal(status)
}

func decodeStatus(raw []byte) (moderation.BanStatus, error) {
	var status moderation.BanStatus
	err := json.Unmarshal(raw, &status)
	return status, err
}
