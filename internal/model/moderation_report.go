package model

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// ModerationReport 审核举报记录
// 自动举报的 reporter_id 为 "system"，人工举报为真实用户 ID
type ModerationReport struct {
	bun.BaseModel `bun:"table:reports,alias:r"`

	ID             string `bun:"id,pk,type:uuid" json:"id"`
	ReporterID     string `bun:"reporter_id,notnull" json:"reporterId"`
	ReportedUserID string `bun:"reported_user_id,notnull" json:"reportedUserId"`

	// 通过 SetLink 写入，二者最多有一个非空
	PostID       *string `bun:"post_id" json:"postId"`
	DuaRequestID *string `bun:"dua_request_id" json:"duaRequestId"`

	Reason      string  `bun:"reason,notnull" json:"reason"`
	Description *string `bun:"description" json:"description"`
	Status      string  `bun:"status,notnull,default:'pending'" json:"status"` // pending, reviewed, resolved, dismissed
	AdminNotes  *string `bun:"admin_notes" json:"adminNotes"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

var _ bun.BeforeAppendModelHook = (*ModerationReport)(nil)

// ErrAmbiguousLink 同时关联了帖子和祈祷请求
var ErrAmbiguousLink = errors.New("report cannot link both post_id and dua_request_id")

// SetLink 设置关联内容
func (r *ModerationReport) SetLink(link ContentLink) {
	r.PostID = nil
	r.DuaRequestID = nil
	if id, ok := link.PostID(); ok {
		r.PostID = &id
	}
	if id, ok := link.DuaRequestID(); ok {
		r.DuaRequestID = &id
	}
}

// Link 读取关联内容
func (r *ModerationReport) Link() ContentLink {
	switch {
	case r.PostID != nil && r.DuaRequestID == nil:
		return LinkPost(*r.PostID)
	case r.DuaRequestID != nil && r.PostID == nil:
		return LinkDuaRequest(*r.DuaRequestID)
	default:
		return NoLink()
	}
}

// BeforeAppendModel 写库前校验关联字段
func (r *ModerationReport) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if r.PostID != nil && r.DuaRequestID != nil {
		return ErrAmbiguousLink
	}
	return nil
}
