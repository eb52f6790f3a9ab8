// Package repository 封禁与举报的数据访问层
package repository

import (
	"github.com/uptrace/bun"
)

// BaseRepository 所有 Repository 共用的数据库句柄
// 使用 bun.IDB，既可以传 *bun.DB，也可以传事务
type BaseRepository struct {
	db bun.IDB
}

// NewBaseRepository 创建基础 Repository
func NewBaseRepository(db bun.IDB) *BaseRepository {
	return &BaseRepository{db: db}
}

// Pagination 分页参数
type Pagination struct {
	Page     int // 从 1 开始
	PageSize int
	Total    int // 由查询方法填充
}

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// GetOffset 计算偏移量
func (p *Pagination) GetOffset() int {
	if p.Page < 1 {
		p.Page = 1
	}
	return (p.Page - 1) * p.GetLimit()
}

// GetLimit 每页数量，非法值回落到默认值，并限制在 maxPageSize 以内
func (p *Pagination) GetLimit() int {
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p.PageSize
}

// HasMore 是否还有下一页
func (p *Pagination) HasMore() bool {
	return p.Page*p.GetLimit() < p.Total
}

// TotalPages 总页数
func (p *Pagination) TotalPages() int {
	limit := p.GetLimit()
	return (p.Total + limit - 1) / limit
}

// ListOptions 列表查询选项
type ListOptions struct {
	Pagination *Pagination
	OrderBy    string // 如 "created_at DESC"
	Status     string // 按状态过滤，空表示不过滤
}

// NewListOptions 默认第一页、按创建时间倒序
func NewListOptions() *ListOptions {
	return &ListOptions{
		Pagination: &Pagination{
			Page:     1,
			PageSize: defaultPageSize,
		},
		OrderBy: "created_at DESC",
	}
}

// WithPagination 设置分页参数
func (o *ListOptions) WithPagination(page, pageSize int) *ListOptions {
	o.Pagination = &Pagination{
		Page:     page,
		PageSize: pageSize,
	}
	return o
}

// WithStatus 按状态过滤
func (o *ListOptions) WithStatus(status string) *ListOptions {
	o.Status = status
	return o
}
