package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ummet-social/moderation-hub/internal/model"
)

func banAt(reason string, created time.Time, expires *time.Time) *model.UserBan {
	banType := model.BanTypePermanent
	if expires != nil {
		banType = model.BanTypeTemporary
	}
	return &model.UserBan{
		UserID:    "u1",
		Reason:    reason,
		BanType:   string(banType),
		ExpiresAt: expires,
		Active:    true,
		CreatedAt: created,
	}
}

func staticBans(bans ...*model.UserBan) *fakeBanStore {
	return &fakeBanStore{
		FindFunc: func(context.Context, string, time.Time) ([]*model.UserBan, error) {
			return bans, nil
		},
	}
}

func TestCheckBanStatus(t *testing.T) {
	ctx := context.Background()
	past := testNow.Add(-time.Minute)
	future := testNow.Add(time.Hour)

	t.Run("没有封禁", func(t *testing.T) {
		gate := NewBanGate(staticBans(), nil, 0, fixedClock(testNow))
		assert.Equal(t, BanStatus{IsBanned: false}, gate.CheckBanStatus(ctx, "u1"))
	})

	t.Run("已过期的临时封禁", func(t *testing.T) {
		gate := NewBanGate(staticBans(banAt("old", testNow.Add(-25*time.Hour), &past)), nil, 0, fixedClock(testNow))
		assert.False(t, gate.CheckBanStatus(ctx, "u1").IsBanned)
	})

	t.Run("未过期的临时封禁", func(t *testing.T) {
		gate := NewBanGate(staticBans(banAt("spam", testNow.Add(-time.Hour), &future)), nil, 0, fixedClock(testNow))
		status := gate.CheckBanStatus(ctx, "u1")
		assert.True(t, status.IsBanned)
		assert.Equal(t, "spam", status.Reason)
		require.NotNil(t, status.ExpiresAt)
		assert.Equal(t, future, *status.ExpiresAt)
	})

	t.Run("永久封禁", func(t *testing.T) {
		gate := NewBanGate(staticBans(banAt("abuse", testNow.Add(-time.Hour), nil)), nil, 0, fixedClock(testNow))
		status := gate.CheckBanStatus(ctx, "u1")
		assert.True(t, status.IsBanned)
		assert.Nil(t, status.ExpiresAt)
	})

	t.Run("多条封禁取最近创建的一条", func(t *testing.T) {
		gate := NewBanGate(staticBans(
			banAt("first", testNow.Add(-3*time.Hour), nil),
			banAt("latest", testNow.Add(-time.Hour), &future),
			banAt("expired", testNow.Add(-time.Minute), &past),
		), nil, 0, fixedClock(testNow))
		assert.Equal(t, "latest", gate.CheckBanStatus(ctx, "u1").Reason)
	})

	t.Run("查询失败按未封禁处理", func(t *testing.T) {
		bans := &fakeBanStore{
			FindFunc: func(context.Context, string, time.Time) ([]*model.UserBan, error) {
				return nil, errors.New("db down")
			},
		}
		cache := newFakeCache()
		gate := NewBanGate(bans, cache, time.Minute, fixedClock(testNow))

		assert.Equal(t, BanStatus{IsBanned: false}, gate.CheckBanStatus(ctx, "u1"))
		assert.Empty(t, cache.entries, "失败结果不写缓存")
	})
}

func TestCheckBanStatusCache(t *testing.T) {
	ctx := context.Background()
	future := testNow.Add(2 * time.Minute)

	t.Run("命中缓存不查库", func(t *testing.T) {
		bans := staticBans()
		cache := newFakeCache()
		cache.entries["u1"] = BanStatus{IsBanned: true, Reason: "cached"}
		gate := NewBanGate(bans, cache, 5*time.Minute, fixedClock(testNow))

		assert.Equal(t, "cached", gate.CheckBanStatus(ctx, "u1").Reason)
		assert.Equal(t, 0, bans.findCalls)
	})

	t.Run("封禁结果写入缓存", func(t *testing.T) {
		bans := staticBans(banAt("spam", testNow.Add(-time.Hour), nil))
		cache := newFakeCache()
		gate := NewBanGate(bans, cache, 5*time.Minute, fixedClock(testNow))

		gate.CheckBanStatus(ctx, "u1")
		assert.Equal(t, 1, bans.findCalls)
		assert.Equal(t, 5*time.Minute, cache.ttls["u1"])

		assert.True(t, gate.CheckBanStatus(ctx, "u1").IsBanned)
		assert.Equal(t, 1, bans.findCalls)
	})

	t.Run("未封禁结果不写缓存", func(t *testing.T) {
		bans := staticBans()
		cache := newFakeCache()
		gate := NewBanGate(bans, cache, 5*time.Minute, fixedClock(testNow))

		gate.CheckBanStatus(ctx, "u1")
		gate.CheckBanStatus(ctx, "u1")
		assert.Equal(t, 2, bans.findCalls)
		assert.NotContains(t, cache.entries, "u1")
	})

	t.Run("查库期间发生封禁不留下过期缓存", func(t *testing.T) {
		cache := newFakeCache()
		var banned []*model.UserBan
		store := &fakeBanStore{
			FindFunc: func(ctx context.Context, userID string, _ time.Time) ([]*model.UserBan, error) {
				// 读到未封禁之后，自动封禁写库并清除缓存
				snapshot := banned
				banned = append(banned, banAt("auto", testNow, nil))
				_ = cache.Invalidate(ctx, userID)
				return snapshot, nil
			},
		}
		gate := NewBanGate(store, cache, 5*time.Minute, fixedClock(testNow))

		assert.False(t, gate.CheckBanStatus(ctx, "u1").IsBanned)
		assert.True(t, gate.CheckBanStatus(ctx, "u1").IsBanned)
	})

	t.Run("缓存时长不超过封禁剩余时长", func(t *testing.T) {
		cache := newFakeCache()
		gate := NewBanGate(staticBans(banAt("spam", testNow.Add(-time.Hour), &future)), cache, 5*time.Minute, fixedClock(testNow))

		gate.CheckBanStatus(ctx, "u1")
		assert.Equal(t, 2*time.Minute, cache.ttls["u1"])
	})

	t.Run("缓存读取失败时查库", func(t *testing.T) {
		bans := staticBans(banAt("spam", testNow.Add(-time.Hour), nil))
		cache := newFakeCache()
		cache.GetErr = errors.New("redis down")
		gate := NewBanGate(bans, cache, 5*time.Minute, fixedClock(testNow))

		assert.True(t, gate.CheckBanStatus(ctx, "u1").IsBanned)
		assert.Equal(t, 1, bans.findCalls)
	})

	t.Run("缓存写入失败不影响结果", func(t *testing.T) {
		cache := newFakeCache()
		cache.SetErr = errors.New("redis down")
		gate := NewBanGate(staticBans(banAt("spam", testNow.Add(-time.Hour), nil)), cache, 5*time.Minute, fixedClock(testNow))

		assert.True(t, gate.CheckBanStatus(ctx, "u1").IsBanned)
	})

	t.Run("封禁后缓存被清除", func(t *testing.T) {
		store := &fakeBanStore{}
		cache := newFakeCache()
		gate := NewBanGate(store, cache, 5*time.Minute, fixedClock(testNow))
		enforcer := NewEnforcer(EnforcerDeps{
			Bans: store, Reports: &fakeReportStore{}, Cache: cache,
			Sink: &recordingSink{}, Clock: fixedClock(testNow),
		})

		assert.False(t, gate.CheckBanStatus(ctx, "u1").IsBanned)

		store.FindFunc = func(context.Context, string, time.Time) ([]*model.UserBan, error) {
			return store.Created(), nil
		}
		enforcer.Precheck(ctx, "seni öldüreceğim", "u1", model.ContentTypePost)

		status := gate.CheckBanStatus(ctx, "u1")
		assert.True(t, status.IsBanned)
		assert.Equal(t, 5*time.Minute, cache.ttls["u1"])
	})
}
