package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ummet-social/moderation-hub/internal/model"
	"github.com/ummet-social/moderation-hub/internal/moderation"
	"github.com/ummet-social/moderation-hub/internal/pkg/errors"
)

// BanChecker 发布前的封禁检查
type BanChecker interface {
	CheckBanStatus(ctx context.Context, userID string) moderation.BanStatus
}

// ModerationHandler 打分与执法接口
type ModerationHandler struct {
	scorer   *moderation.Scorer
	enforcer *moderation.Enforcer
	gate     BanChecker
}

// NewModerationHandler 创建 ModerationHandler
func NewModerationHandler(scorer *moderation.Scorer, enforcer *moderation.Enforcer, gate BanChecker) *ModerationHandler {
	if scorer == nil {
		scorer = moderation.NewScorer(nil)
	}
	return &ModerationHandler{scorer: scorer, enforcer: enforcer, gate: gate}
}

type scoreRequest struct {
	Text string `json:"text"`
}

type contentRequest struct {
	Text        string `json:"text"`
	UserID      string `json:"userId" binding:"required"`
	ContentType string `json:"contentType" binding:"required,content_type"`
	ContentID   string `json:"contentId"`
}

type linkRequest struct {
	Text        string `json:"text"`
	UserID      string `json:"userId" binding:"required"`
	ContentType string `json:"contentType" binding:"required,content_type"`
	ContentID   string `json:"contentId" binding:"required"`
}

// PrecheckResponse 发布前检查结果
type PrecheckResponse struct {
	Allowed       bool              `json:"allowed"`
	ReviewPending bool              `json:"reviewPending"`
	Confidence    int               `json:"confidence"`
	Action        moderation.Action `json:"action"`
}

// LinkResponse 关联审核结果
type LinkResponse struct {
	Linked   bool   `json:"linked"`
	ReportID string `json:"reportId,omitempty"`
}

// Score 只打分，不执行任何副作用
// POST /api/moderation/score
func (h *ModerationHandler) Score(c *gin.Context) {
	var req scoreRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.scorer.Score(req.Text))
}

// Precheck 内容保存前调用：封禁检查 + 第一阶段审核
// 被封禁返回 403，内容被拒绝返回 400
// POST /api/moderation/precheck
func (h *ModerationHandler) Precheck(c *gin.Context) {
	var req contentRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	if status := h.gate.CheckBanStatus(ctx, req.UserID); status.IsBanned {
		details := map[string]interface{}{"reason": status.Reason}
		if status.ExpiresAt != nil {
			details["expiresAt"] = status.ExpiresAt
		}
		respondError(c, errors.NewUserBanned(moderation.MessageUserBanned).WithDetails(details))
		return
	}

	d := h.enforcer.Precheck(ctx, req.Text, req.UserID, model.ContentType(req.ContentType))
	outcome := d.Outcome()
	if !outcome.Allowed {
		respondError(c, errors.NewContentRejected(outcome.Reason))
		return
	}

	c.JSON(http.StatusOK, PrecheckResponse{
		Allowed:       true,
		ReviewPending: d.State() == moderation.StatePending,
		Confidence:    d.Result.Confidence,
		Action:        d.Result.Action,
	})
}

// Link 内容保存后调用：为需要人工审核的内容创建举报
// 两次请求之间不保留状态，这里重新打分恢复第一阶段的结论；同一内容重复调用返回已有举报
// POST /api/moderation/link
func (h *ModerationHandler) Link(c *gin.Context) {
	var req linkRequest
	if !bindJSON(c, &req) {
		return
	}

	d := h.enforcer.Restore(req.Text, req.UserID, model.ContentType(req.ContentType))
	h.enforcer.LinkReview(c.Request.Context(), d, req.ContentID)

	resp := LinkResponse{}
	if report := d.Report(); report != nil {
		resp.Linked = true
		resp.ReportID = report.ID
	}
	c.JSON(http.StatusOK, resp)
}

// Enforce 单次调用的审核，不做封禁检查
// POST /api/moderation/enforce
func (h *ModerationHandler) Enforce(c *gin.Context) {
	var req contentRequest
	if !bindJSON(c, &req) {
		return
	}
	res := h.enforcer.Enforce(c.Request.Context(), req.Text, req.UserID, model.ContentType(req.ContentType), req.ContentID)
	c.JSON(http.StatusOK, res)
}
