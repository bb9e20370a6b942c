package repository

import (
	"context"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
)

type ReviewRepository interface {
	// 同じ注文に2件目なら ErrDuplicateReview
	Create(ctx context.Context, review *model.Review) error
	FindByOrderID(ctx context.Context, orderID int64) (model.Review, error)
	ListBySellerID(ctx context.Context, sellerID int64) ([]model.Review, error)
}
