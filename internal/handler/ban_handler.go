package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ummet-social/moderation-hub/internal/model"
	"github.com/ummet-social/moderation-hub/internal/pkg/errors"
)

// BanHistory 封禁历史查询
type BanHistory interface {
	ListByUser(ctx context.Context, userID string) ([]*model.UserBan, error)
}

// BanCreator 手动封禁
type BanCreator interface {
	ManualBan(ctx context.Context, ban *model.UserBan) error
}

// BanHandler 封禁管理接口
type BanHandler struct {
	creator BanCreator
	history BanHistory
	gate    BanChecker
	now     func() time.Time
}

// NewBanHandler 创建 BanHandler
func NewBanHandler(creator BanCreator, history BanHistory, gate BanChecker) *BanHandler {
	return &BanHandler{creator: creator, history: history, gate: gate, now: time.Now}
}

type banRequest struct {
	BannedBy      string     `json:"bannedBy" binding:"required"`
	Reason        string     `json:"reason" binding:"required,max=1000"`
	BanType       string     `json:"banType" binding:"required,ban_type"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	DurationHours int        `json:"durationHours" binding:"omitempty,min=1"`
}

// Ban 手动封禁用户
// 临时封禁需要 expiresAt 或 durationHours，二者都给时以 durationHours 为准
// POST /api/users/:id/ban
func (h *BanHandler) Ban(c *gin.Context) {
	var req banRequest
	if !bindJSON(c, &req) {
		return
	}

	now := h.now()
	ban := &model.UserBan{
		UserID:    c.Param("id"),
		BannedBy:  req.BannedBy,
		Reason:    req.Reason,
		BanType:   req.BanType,
		ExpiresAt: req.ExpiresAt,
		CreatedAt: now,
	}
	if req.DurationHours > 0 {
		expiresAt := now.Add(time.Duration(req.DurationHours) * time.Hour)
		ban.ExpiresAt = &expiresAt
	}
	if err := ban.Validate(); err != nil {
		respondError(c, errors.NewInvalidRequest(err.Error()))
		return
	}
	if ban.ExpiresAt != nil && !ban.ExpiresAt.After(now) {
		respondError(c, errors.NewInvalidRequest("expiresAt must be in the future"))
		return
	}

	if err := h.creator.ManualBan(c.Request.Context(), ban); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ban)
}

// ListBans 用户的封禁历史，包含已过期的临时封禁
// GET /api/users/:id/bans
func (h *BanHandler) ListBans(c *gin.Context) {
	bans, err := h.history.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if bans == nil {
		bans = []*model.UserBan{}
	}
	c.JSON(http.StatusOK, bans)
}

// Banned 用户当前是否被封禁
// GET /api/users/:id/banned
func (h *BanHandler) Banned(c *gin.Context) {
	status := h.gate.CheckBanStatus(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"banned":    status.IsBanned,
		"reason":    status.Reason,
		"expiresAt": status.ExpiresAt,
	})
}
