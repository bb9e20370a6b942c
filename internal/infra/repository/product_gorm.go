package repository

import (
	"context"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	repo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 論理削除されていない出品を、検索/絞り込み/ソート/ページング付きで返す。
// q はsearch_textと同じ正規化をかけて部分一致。
func (r *ProductGormRepository) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	page, limit := normalizePage(q.Page, q.Limit)

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	if kw := model.SearchKey(q.Q); kw != "" {
		tx = tx.Where(`search_text LIKE ? ESCAPE '\'`, "%"+model.EscapeLike(kw)+"%")
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Campus != "" {
		tx = tx.Where("campus = ?", q.Campus)
	}
	if q.Condition != "" {
		tx = tx.Where("condition = ?", q.Condition)
	}
	if q.SellerID != nil {
		tx = tx.Where("seller_id = ?", *q.SellerID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	switch q.Sort {
	case "price_asc":
		tx = tx.Order("price asc").Order("id asc")
	case "price_desc":
		tx = tx.Order("price desc").Order("id desc")
	case "oldest":
		tx = tx.Order("created_at asc").Order("id asc")
	default:
		tx = tx.Order("created_at desc").Order("id desc")
	}

	products := []model.Product{}
	offset := (page - 1) * limit
	if err := tx.Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if isNotFound(err) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) FindByIDUnscoped(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Unscoped().First(&p, id).Error
	if isNotFound(err) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 出品者スナップショットとIDは変えない（imagesのserializerを効かせるため構造体で更新）
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	p.SearchText = p.SearchSource()
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", p.ID).
		Select("title", "description", "price", "category", "condition", "images", "status", "campus", "quantity", "search_text").
		Updates(&p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// deleted_byを記録してから論理削除
func (r *ProductGormRepository) SoftDelete(ctx context.Context, id int64, deletedBy int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).Where("id = ?", id).Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return tx.Delete(&model.Product{}, id).Error
	})
}
