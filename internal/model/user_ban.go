package model

import (
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// UserBan 用户封禁记录
type UserBan struct {
	bun.BaseModel `bun:"table:user_bans,alias:ub"`

	ID       string `bun:"id,pk,type:uuid" json:"id"`
	UserID   string `bun:"user_id,notnull" json:"userId"`
	BannedBy string `bun:"banned_by,notnull" json:"bannedBy"` // 管理员 ID 或 "system"
	Reason   string `bun:"reason,notnull" json:"reason"`
	BanType  string `bun:"ban_type,notnull,default:'temporary'" json:"banType"` // temporary, permanent

	// 永久封禁时为空
	ExpiresAt *time.Time `bun:"expires_at" json:"expiresAt"`
	Active    bool       `bun:"is_active,notnull,default:true" json:"isActive"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// IsPermanent 检查是否为永久封禁
func (b *UserBan) IsPermanent() bool {
	return b.BanType == string(BanTypePermanent)
}

// IsActiveAt 检查封禁在指定时间是否生效
// 生效条件：is_active 为 true，且为永久封禁或尚未过期
func (b *UserBan) IsActiveAt(now time.Time) bool {
	if !b.Active {
		return false
	}
	if b.IsPermanent() {
		return true
	}
	return b.ExpiresAt != nil && b.ExpiresAt.After(now)
}

// Validate 检查封禁类型与过期时间是否一致
func (b *UserBan) Validate() error {
	switch BanType(b.BanType) {
	case BanTypeTemporary:
		if b.ExpiresAt == nil {
			return errors.New("temporary ban requires expires_at")
		}
	case BanTypePermanent:
		if b.ExpiresAt != nil {
			return errors.New("permanent ban must not have expires_at")
		}
	default:
		return errors.New("unknown ban type: " + b.BanType)
	}
	if b.UserID == "" {
		return errors.New("user_id is required")
	}
	return nil
}
