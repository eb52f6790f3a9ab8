package repository

import (
	"sync"

	"github.com/uptrace/bun"
)

// Factory Repository 工厂（依赖注入容器）
// 使用 sync.Once 保证并发安全的懒加载
type Factory struct {
	db *bun.DB

	userBanRepo UserBanRepository
	userBanOnce sync.Once
	reportRepo  ReportRepository
	reportOnce  sync.Once
}

// NewFactory 创建 Repository 工厂
func NewFactory(db *bun.DB) *Factory {
	return &Factory{db: db}
}

// UserBan 获取 UserBan Repository（并发安全）
func (f *Factory) UserBan() UserBanRepository {
	f.userBanOnce.Do(func() {
		f.userBanRepo = NewUserBanRepository(f.db)
	})
	return f.userBanRepo
}

// Report 获取 Report Repository（并发安全）
func (f *Factory) Report() ReportRepository {
	f.reportOnce.Do(func() {
		f.reportRepo = NewReportRepository(f.db)
	})
	return f.reportRepo
}
