package repository

import (
	"context"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
)

// 在庫は注文から都度集計する（カウンタは持たない）
type InventoryRepository interface {
	// キャンセル・論理削除以外の注文の数量合計
	SumOrderedQuantity(ctx context.Context, productID int64) (int64, error)

	// 買い手・売り手の両方が確認済みの注文の数量合計
	SumSoldQuantity(ctx context.Context, productID int64) (int64, error)

	// 出品数量の変更履歴
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
