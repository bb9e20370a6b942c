package repository

import (
	"context"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	repo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"

	"gorm.io/gorm"
)

type reviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) repo.ReviewRepository {
	return &reviewGormRepository{db: db}
}

// order_idのユニーク制約で二重投稿を防ぐ
func (r *reviewGormRepository) Create(ctx context.Context, review *model.Review) error {
	err := r.db.WithContext(ctx).Create(review).Error
	if isUniqueViolation(err) {
		return repo.ErrDuplicateReview
	}
	return err
}

func (r *reviewGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&rv).Error
	if isNotFound(err) {
		return model.Review{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Review{}, err
	}
	return rv, nil
}

func (r *reviewGormRepository) ListBySellerID(ctx context.Context, sellerID int64) ([]model.Review, error) {
	items := []model.Review{}
	if err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).Order("id desc").Find(&items).Error; err != nil {
		return []model.Review{}, err
	}
	return items, nil
}
