package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ummet-social/moderation-hub/internal/config"
	"github.com/ummet-social/moderation-hub/internal/pkg/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// NewPostgres 创建 PostgreSQL 数据库连接
func NewPostgres(cfg config.DatabaseConfig) (*bun.DB, error) {
	// 创建连接器
	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.BuildDSN()),
		pgdriver.WithDialTimeout(cfg.ConnectTimeout),
		pgdriver.WithReadTimeout(cfg.QueryTimeout),
		pgdriver.WithWriteTimeout(cfg.QueryTimeout),
	)

	// 创建 sql.DB
	sqlDB := sql.OpenDB(connector)

	// 设置连接池参数
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// 创建 Bun DB
	db := bun.NewDB(sqlDB, pgdialect.New())

	// 测试连接
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.DBName).
		Msg("PostgreSQL connected")

	return db, nil
}

// ClosePostgres 关闭数据库连接
func ClosePostgres(db *bun.DB) error {
	if db != nil {
		logger.Info().Msg("Closing PostgreSQL connection")
		return db.Close()
	}
	return nil
}
