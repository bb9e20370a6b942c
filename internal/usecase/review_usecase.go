package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	repo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"
)

const maxReviewComment = 1000

type ReviewUsecase struct {
	orders  repo.OrderRepository
	reviews repo.ReviewRepository
	clock   Clock
}

func NewReviewUsecase(orders repo.OrderRepository, reviews repo.ReviewRepository, clock Clock) *ReviewUsecase {
	return &ReviewUsecase{orders: orders, reviews: reviews, clock: clock}
}

type CreateReviewInput struct {
	Rating  int
	Comment string
}

type SellerReviewsOutput struct {
	Reviews []model.Review            `json:"reviews"`
	Summary model.SellerRatingSummary `json:"summary"`
}

// 受け渡しが完了した注文に、買い手が1回だけ書ける
func (u *ReviewUsecase) Create(ctx context.Context, buyerID int64, orderID int64, in CreateReviewInput) (model.Review, error) {
	if buyerID <= 0 {
		return model.Review{}, errUnauthorized()
	}
	if orderID <= 0 {
		return model.Review{}, errInvalid("invalid id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, errInvalid("rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if utf8.RuneCountInString(comment) > maxReviewComment {
		return model.Review{}, errInvalid("comment too long")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Review{}, errNotFound()
	}
	if err != nil {
		return model.Review{}, errDB()
	}
	if !o.IsBuyer(buyerID) {
		if o.IsSeller(buyerID) {
			return model.Review{}, errForbidden()
		}
		return model.Review{}, errNotFound()
	}
	if o.Status != model.OrderStatusMetAndExchanged {
		return model.Review{}, errConflict("order is not completed")
	}

	now := u.clock.Now()
	rv := &model.Review{
		OrderID:   o.ID,
		BuyerID:   buyerID,
		SellerID:  o.PrimarySellerID(),
		Rating:    in.Rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, repo.ErrDuplicateReview) {
			return model.Review{}, errConflict("order already reviewed")
		}
		return model.Review{}, errDB()
	}
	return *rv, nil
}

func (u *ReviewUsecase) ListForSeller(ctx context.Context, sellerID int64) (SellerReviewsOutput, error) {
	if sellerID <= 0 {
		return SellerReviewsOutput{}, errInvalid("invalid id")
	}
	items, err := u.reviews.ListBySellerID(ctx, sellerID)
	if err != nil {
		return SellerReviewsOutput{}, errDB()
	}
	return SellerReviewsOutput{
		Reviews: items,
		Summary: model.SummarizeReviews(sellerID, items),
	}, nil
}
