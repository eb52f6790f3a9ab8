package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ummet-social/moderation-hub/internal/model"
	"github.com/ummet-social/moderation-hub/internal/pkg/errors"
	"github.com/ummet-social/moderation-hub/internal/repository"
)

// ReportStore 举报读写
type ReportStore interface {
	Create(ctx context.Context, report *model.ModerationReport) error
	GetByID(ctx context.Context, id string) (*model.ModerationReport, error)
	UpdateStatus(ctx context.Context, id string, status model.ReportStatus, adminNotes *string) (*model.ModerationReport, error)
	List(ctx context.Context, opts *repository.ListOptions) ([]*model.ModerationReport, error)
}

// ReportHandler 举报接口
type ReportHandler struct {
	reports ReportStore
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reports ReportStore) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type createReportRequest struct {
	ReporterID     string  `json:"reporterId" binding:"required"`
	ReportedUserID string  `json:"reportedUserId" binding:"required"`
	PostID         *string `json:"postId"`
	DuaRequestID   *string `json:"duaRequestId"`
	Reason         string  `json:"reason" binding:"required,report_reason"`
	Description    *string `json:"description" binding:"omitempty,max=2000"`
}

type updateStatusRequest struct {
	Status     string  `json:"status" binding:"required,report_status"`
	AdminNotes *string `json:"adminNotes" binding:"omitempty,max=2000"`
}

// ReportList 举报列表响应
type ReportList struct {
	Items      []*model.ModerationReport `json:"items"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"pageSize"`
	Total      int                       `json:"total"`
	TotalPages int                       `json:"totalPages"`
	HasMore    bool                      `json:"hasMore"`
}

// Create 用户举报
// POST /api/reports
func (h *ReportHandler) Create(c *gin.Context) {
	var req createReportRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.PostID != nil && req.DuaRequestID != nil {
		respondError(c, errors.NewInvalidRequest(model.ErrAmbiguousLink.Error()))
		return
	}

	report := &model.ModerationReport{
		ReporterID:     req.ReporterID,
		ReportedUserID: req.ReportedUserID,
		Reason:         req.Reason,
		Description:    req.Description,
	}
	switch {
	case req.PostID != nil:
		report.SetLink(model.LinkPost(*req.PostID))
	case req.DuaRequestID != nil:
		report.SetLink(model.LinkDuaRequest(*req.DuaRequestID))
	}

	if err := h.reports.Create(c.Request.Context(), report); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// List 举报列表，按创建时间倒序
// GET /api/reports?page=1&page_size=50&status=pending
func (h *ReportHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page < 1 {
		page = 1
	}

	status := c.Query("status")
	if status != "" && !model.ReportStatus(status).IsValid() {
		respondError(c, errors.NewInvalidRequest("invalid report status: "+status))
		return
	}

	opts := repository.NewListOptions().WithPagination(page, pageSize).WithStatus(status)
	reports, err := h.reports.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	if reports == nil {
		reports = []*model.ModerationReport{}
	}

	p := opts.Pagination
	c.JSON(http.StatusOK, ReportList{
		Items:      reports,
		Page:       p.Page,
		PageSize:   p.GetLimit(),
		Total:      p.Total,
		TotalPages: p.TotalPages(),
		HasMore:    p.HasMore(),
	})
}

// Get 举报详情
// GET /api/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.reports.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// UpdateStatus 管理员处理举报
// PATCH /api/reports/:id/status
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.reports.UpdateStatus(c.Request.Context(), c.Param("id"), model.ReportStatus(req.Status), req.AdminNotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
