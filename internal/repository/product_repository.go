package repository

import (
	"context"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
)

// 一覧検索
type ProductListQuery struct {
	Page      int
	Limit     int
	Q         string
	Category  string
	Campus    string
	Condition string
	SellerID  *int64
	Sort      string
}

// 出品の永続化（保存・取得）だけを約束。
// 論理削除されたものは FindByID / ListPublic に出てこない。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	//論理削除済みも含めて取得（過去の注文の参照用）
	FindByIDUnscoped(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64, deletedBy int64) error
}
