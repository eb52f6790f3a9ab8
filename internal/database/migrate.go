package database

import (
	"context"
	"fmt"

	"github.com/ummet-social/moderation-hub/internal/model"
	"github.com/ummet-social/moderation-hub/internal/pkg/logger"
	"github.com/uptrace/bun"
)

// Migrate 创建审核相关的表和索引（已存在则跳过）
func Migrate(ctx context.Context, db *bun.DB) error {
	models := []interface{}{
		(*model.UserBan)(nil),
		(*model.ModerationReport)(nil),
	}

	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []*bun.CreateIndexQuery{
		db.NewCreateIndex().
			Model((*model.UserBan)(nil)).
			Index("idx_user_bans_user_active").
			Column("user_id", "is_active").
			IfNotExists(),
		db.NewCreateIndex().
			Model((*model.ModerationReport)(nil)).
			Index("idx_reports_status_created").
			Column("status", "created_at").
			IfNotExists(),
		db.NewCreateIndex().
			Model((*model.ModerationReport)(nil)).
			Index("idx_reports_reporter_post").
			Column("reporter_id", "post_id").
			IfNotExists(),
		db.NewCreateIndex().
			Model((*model.ModerationReport)(nil)).
			Index("idx_reports_reporter_dua_request").
			Column("reporter_id", "dua_request_id").
			IfNotExists(),
	}

	for _, idx := range indexes {
		if _, err := idx.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	logger.Info().Int("tables", len(models)).Msg("Database schema ensured")
	return nil
}
