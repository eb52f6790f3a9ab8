package moderation

import (
	"context"
	"time"

	"github.com/ummet-social/moderation-hub/internal/model"
	"github.com/ummet-social/moderation-hub/internal/pkg/logger"
)

// BanStatus 封禁状态
type BanStatus struct {
	IsBanned  bool       `json:"isBanned"`
	Reason    string     `json:"reason,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// BanFinder 查询生效中的封禁
type BanFinder interface {
	FindActiveByUser(ctx context.Context, userID string, now time.Time) ([]*model.UserBan, error)
}

// BanCache 封禁状态缓存
type BanCache interface {
	Get(ctx context.Context, userID string) (BanStatus, bool, error)
	Set(ctx context.Context, userID string, status BanStatus, ttl time.Duration) error
	Invalidate(ctx context.Context, userID string) error
}

// BanGate 发布内容前的封禁检查
type BanGate struct {
	bans     BanFinder
	cache    BanCache
	cacheTTL time.Duration
	now      func() time.Time
}

// NewBanGate 创建 BanGate，cache 可为 nil
func NewBanGate(bans BanFinder, cache BanCache, cacheTTL time.Duration, clock func() time.Time) *BanGate {
	if clock == nil {
		clock = time.Now
	}
	return &BanGate{
		bans:     bans,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      clock,
	}
}

// CheckBanStatus 查询用户是否处于封禁中
// 查询失败时按未封禁处理。存在多条生效封禁时，返回最近创建的一条。
func (g *BanGate) CheckBanStatus(ctx context.Context, userID string) BanStatus {
	if g.cache != nil {
		status, found, err := g.cache.Get(ctx, userID)
		switch {
		case err != nil:
			logger.Warn().Err(err).Str("user_id", userID).Msg("Ban status cache read failed")
		case found:
			banGateTotal.WithLabelValues("cache", boolLabel(status.IsBanned)).Inc()
			return status
		}
	}

	now := g.now()
	bans, err := g.bans.FindActiveByUser(ctx, userID, now)
	if err != nil {
		banGateTotal.WithLabelValues("error", "false").Inc()
		failOpenTotal.WithLabelValues("check_ban_status").Inc()
		logger.Error().Err(err).Str("user_id", userID).Msg("Ban status check failed, treating user as not banned")
		return BanStatus{IsBanned: false}
	}

	status := BanStatus{IsBanned: false}
	if ban := latestActive(bans, now); ban != nil {
		status = BanStatus{IsBanned: true, Reason: ban.Reason, ExpiresAt: ban.ExpiresAt}
	}
	banGateTotal.WithLabelValues("db", boolLabel(status.IsBanned)).Inc()

	g.store(ctx, userID, status, now)
	return status
}

// store 写入缓存，临时封禁的缓存不超过其剩余时长
func (g *BanGate) store(ctx context.Context, userID string, status BanStatus, now time.Time) {
	// 未封禁的结果不缓存，否则可能覆盖并发自动封禁后的失效
	if g.cache == nil || g.cacheTTL <= 0 || !status.IsBanned {
		return
	}
	ttl := g.cacheTTL
	if status.ExpiresAt != nil {
		if remaining := status.ExpiresAt.Sub(now); remaining < ttl {
			ttl = remaining
		}
	}
	if ttl <= 0 {
		return
	}
	if err := g.cache.Set(ctx, userID, status, ttl); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("Ban status cache write failed")
	}
}

// latestActive 返回 now 时刻生效、创建时间最晚的封禁
func latestActive(bans []*model.UserBan, now time.Time) *model.UserBan {
	var latest *model.UserBan
	for _, ban := range bans {
		if ban == nil || !ban.IsActiveAt(now) {
			continue
		}
		if latest == nil || ban.CreatedAt.After(latest.CreatedAt) {
			latest = ban
		}
	}
	return latest
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
