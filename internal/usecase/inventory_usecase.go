package usecase

import (
	"context"
	"errors"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	repo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"
)

// 在庫は注文から都度集計する
type InventoryUsecase struct {
	products  repo.ProductRepository
	inventory repo.InventoryRepository
}

func NewInventoryUsecase(products repo.ProductRepository, inventory repo.InventoryRepository) *InventoryUsecase {
	return &InventoryUsecase{products: products, inventory: inventory}
}

func (u *InventoryUsecase) Snapshot(ctx context.Context, productID int64) (model.InventorySnapshot, error) {
	if productID <= 0 {
		return model.InventorySnapshot{}, errInvalid("invalid product id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.InventorySnapshot{}, errNotFound()
	}
	if err != nil {
		return model.InventorySnapshot{}, errDB()
	}

	snap, err := reconcile(ctx, u.inventory, p)
	if err != nil {
		return model.InventorySnapshot{}, errDB()
	}
	return snap, nil
}

// 出品数と注文の集計から在庫を出す（Tx内でもTx外でも使う）
func reconcile(ctx context.Context, inv repo.InventoryRepository, p model.Product) (model.InventorySnapshot, error) {
	ordered, err := inv.SumOrderedQuantity(ctx, p.ID)
	if err != nil {
		return model.InventorySnapshot{}, err
	}
	sold, err := inv.SumSoldQuantity(ctx, p.ID)
	if err != nil {
		return model.InventorySnapshot{}, err
	}
	return model.NewInventorySnapshot(p.ID, p.Quantity, ordered, sold), nil
}
