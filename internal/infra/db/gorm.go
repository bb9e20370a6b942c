package db

import (
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/config"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.PostgresDSN()), Options(cfg.IsProd()))
}

// ユニーク制約違反を gorm.ErrDuplicatedKey に変換する
func Options(quiet bool) *gorm.Config {
	c := &gorm.Config{TranslateError: true}
	if quiet {
		c.Logger = logger.Default.LogMode(logger.Silent)
	}
	return c
}

// テーブル定義（順番は外部キーの依存順）
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Dispute{},
		&model.DisputeMessage{},
		&model.Review{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return backfillSearchText(db)
}

// search_text追加前の行を埋める（論理削除済みも含む）
func backfillSearchText(db *gorm.DB) error {
	var batch []model.Product
	return db.Unscoped().
		Where("search_text IS NULL OR search_text = ''").
		FindInBatches(&batch, 200, func(_ *gorm.DB, _ int) error {
			for _, p := range batch {
				if err := db.Unscoped().Model(&model.Product{}).
					Where("id = ?", p.ID).
					UpdateColumn("search_text", p.SearchSource()).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
}
