package repository

import (
	"context"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// order_items JOIN orders で商品ごとの数量を集計する
func (r *InventoryGormRepository) itemsOf(ctx context.Context, productID int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ?", productID).
		Where("orders.deleted_at IS NULL")
}

// キャンセル以外（waiting_to_meet + met_and_exchanged）
func (r *InventoryGormRepository) SumOrderedQuantity(ctx context.Context, productID int64) (int64, error) {
	var sum int64
	err := r.itemsOf(ctx, productID).
		Where("orders.status <> ?", model.OrderStatusCancelled).
		Select("CAST(COALESCE(SUM(order_items.quantity), 0) AS BIGINT)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

// 両者確認済みのみ
func (r *InventoryGormRepository) SumSoldQuantity(ctx context.Context, productID int64) (int64, error) {
	var sum int64
	err := r.itemsOf(ctx, productID).
		Where("orders.buyer_confirmed = ? AND orders.seller_confirmed = ?", true, true).
		Select("CAST(COALESCE(SUM(order_items.quantity), 0) AS BIGINT)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

// 調整履歴作成
func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	return r.db.WithContext(ctx).Create(&adj).Error
}
