package repository

import (
	"context"
	"time"

	"github.com/ummet-social/moderation-hub/internal/model"
	"github.com/ummet-social/moderation-hub/internal/pkg/errors"
	"github.com/ummet-social/moderation-hub/internal/pkg/utils"
	"github.com/uptrace/bun"
)

// UserBanRepository 封禁记录数据访问接口
type UserBanRepository interface {
	// Create 创建封禁记录
	Create(ctx context.Context, ban *model.UserBan) error

	// FindActiveByUser 获取用户在 now 时刻生效的封禁，按创建时间倒序
	FindActiveByUser(ctx context.Context, userID string, now time.Time) ([]*model.UserBan, error)

	// ListByUser 获取用户所有 is_active 的封禁记录（包括已过期的临时封禁）
	ListByUser(ctx context.Context, userID string) ([]*model.UserBan, error)
}

// userBanRepository UserBanRepository 实现
type userBanRepository struct {
	*BaseRepository
}

// NewUserBanRepository 创建 UserBanRepository
func NewUserBanRepository(db bun.IDB) UserBanRepository {
	return &userBanRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create 创建封禁记录
func (r *userBanRepository) Create(ctx context.Context, ban *model.UserBan) error {
	if err := ban.Validate(); err != nil {
		return errors.NewInvalidRequest(err.Error())
	}
	if ban.ID == "" {
		ban.ID = utils.GenerateUUID()
	}
	if ban.CreatedAt.IsZero() {
		ban.CreatedAt = time.Now()
	}
	ban.Active = true

	_, err := r.db.NewInsert().
		Model(ban).
		Exec(ctx)

	if err != nil {
		return errors.NewDatabaseError(err)
	}

	return nil
}

// FindActiveByUser 获取生效中的封禁
func (r *userBanRepository) FindActiveByUser(ctx context.Context, userID string, now time.Time) ([]*model.UserBan, error) {
	var bans []*model.UserBan
	err := r.db.NewSelect().
		Model(&bans).
		Where("user_id = ?", userID).
		Where("is_active = TRUE").
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("ban_type = ?", string(model.BanTypePermanent)).
				WhereOr("expires_at > ?", now)
		}).
		Order("created_at DESC", "id DESC").
		Scan(ctx)

	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	return bans, nil
}

// ListByUser 获取用户的封禁历史
func (r *userBanRepository) ListByUser(ctx context.Context, userID string) ([]*model.UserBan, error) {
	var bans []*model.UserBan
	err := r.db.NewSelect().
		Model(&bans).
		Where("user_id = ?", userID).
		Where("is_active = TRUE").
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	return bans, nil
}
