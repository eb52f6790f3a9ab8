package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/ummet-social/moderation-hub/internal/model"
	"github.com/ummet-social/moderation-hub/internal/pkg/errors"
	"github.com/ummet-social/moderation-hub/internal/pkg/utils"
	"github.com/uptrace/bun"
)

// ReportRepository 举报数据访问接口
type ReportRepository interface {
	// Create 创建举报，状态固定为 pending
	Create(ctx context.Context, report *model.ModerationReport) error

	// GetByID 根据 ID 获取举报
	GetByID(ctx context.Context, id string) (*model.ModerationReport, error)

	// FindLinked 查找同一举报人针对同一内容的最早一条举报，不存在时返回 nil, nil
	FindLinked(ctx context.Context, reporterID string, link model.ContentLink) (*model.ModerationReport, error)

	// UpdateStatus 更新举报状态和管理员备注
	UpdateStatus(ctx context.Context, id string, status model.ReportStatus, adminNotes *string) (*model.ModerationReport, error)

	// List 获取举报列表（默认按创建时间倒序），opts.Status 非空时按状态过滤
	List(ctx context.Context, opts *ListOptions) ([]*model.ModerationReport, error)
}

// reportRepository ReportRepository 实现
type reportRepository struct {
	*BaseRepository
}

// NewReportRepository 创建 ReportRepository
func NewReportRepository(db bun.IDB) ReportRepository {
	return &reportRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create 创建举报
func (r *reportRepository) Create(ctx context.Context, report *model.ModerationReport) error {
	if report.ID == "" {
		report.ID = utils.GenerateUUID()
	}
	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now
	report.Status = string(model.ReportStatusPending)

	_, err := r.db.NewInsert().
		Model(report).
		Exec(ctx)

	if err != nil {
		if stderrors.Is(err, model.ErrAmbiguousLink) {
			return errors.NewInvalidRequest(err.Error())
		}
		return errors.NewDatabaseError(err)
	}

	return nil
}

// GetByID 根据 ID 获取举报
func (r *reportRepository) GetByID(ctx context.Context, id string) (*model.ModerationReport, error) {
	// 非 UUID 的 id 在 Postgres 里会触发类型转换错误
	if !utils.IsUUID(id) {
		return nil, errors.NewNotFoundError("Report")
	}
	report := new(model.ModerationReport)
	err := r.db.NewSelect().
		Model(report).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("Report")
		}
		return nil, errors.NewDatabaseError(err)
	}

	return report, nil
}

// FindLinked 查找已关联同一内容的举报
func (r *reportRepository) FindLinked(ctx context.Context, reporterID string, link model.ContentLink) (*model.ModerationReport, error) {
	if link.IsNone() {
		return nil, nil
	}

	report := new(model.ModerationReport)
	query := r.db.NewSelect().
		Model(report).
		Where("reporter_id = ?", reporterID)
	if postID, ok := link.PostID(); ok {
		query = query.Where("post_id = ?", postID)
	} else {
		duaRequestID, _ := link.DuaRequestID()
		query = query.Where("dua_request_id = ?", duaRequestID)
	}

	err := query.Order("created_at ASC").Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.NewDatabaseError(err)
	}

	return report, nil
}

// UpdateStatus 更新举报状态
func (r *reportRepository) UpdateStatus(ctx context.Context, id string, status model.ReportStatus, adminNotes *string) (*model.ModerationReport, error) {
	if !status.IsValid() {
		return nil, errors.NewInvalidRequest("invalid report status: " + string(status))
	}
	if !utils.IsUUID(id) {
		return nil, errors.NewNotFoundError("Report")
	}

	report := new(model.ModerationReport)
	result, err := r.db.NewUpdate().
		Model(report).
		Set("status = ?", string(status)).
		Set("admin_notes = ?", adminNotes).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, errors.NewNotFoundError("Report")
	}

	return report, nil
}

// List 获取举报列表
func (r *reportRepository) List(ctx context.Context, opts *ListOptions) ([]*model.ModerationReport, error) {
	if opts == nil {
		opts = NewListOptions()
	}

	var reports []*model.ModerationReport
	query := r.db.NewSelect().Model(&reports)

	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}

	if opts.OrderBy != "" {
		query = query.Order(opts.OrderBy)
	} else {
		query = query.Order("created_at DESC")
	}

	if opts.Pagination != nil {
		query = query.
			Limit(opts.Pagination.GetLimit()).
			Offset(opts.Pagination.GetOffset())
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	if opts.Pagination != nil {
		opts.Pagination.Total = total
	}

	return reports, nil
}
