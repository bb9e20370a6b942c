package repository

import (
	"context"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	repo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"

	"gorm.io/gorm"
)

type DisputeGormRepository struct {
	db *gorm.DB
}

func NewDisputeGormRepository(db *gorm.DB) *DisputeGormRepository {
	return &DisputeGormRepository{db: db}
}

func preloadMessages(db *gorm.DB) *gorm.DB {
	return db.Preload("Messages", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("dispute_messages.id asc")
	})
}

func (r *DisputeGormRepository) Create(ctx context.Context, d *model.Dispute) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DisputeGormRepository) FindByID(ctx context.Context, disputeID int64) (model.Dispute, error) {
	var d model.Dispute
	err := preloadMessages(r.db.WithContext(ctx)).Where("id = ?", disputeID).First(&d).Error
	if isNotFound(err) {
		return model.Dispute{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Dispute{}, err
	}
	return d, nil
}

// 買い手・売り手どちらかとして関わる紛争
func (r *DisputeGormRepository) ListByParticipant(ctx context.Context, userID int64) ([]model.Dispute, error) {
	items := []model.Dispute{}
	err := preloadMessages(r.db.WithContext(ctx)).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.Dispute{}, err
	}
	return items, nil
}

func (r *DisputeGormRepository) ListAdmin(ctx context.Context, f repo.DisputeListFilter) ([]model.Dispute, int64, error) {
	page, limit := normalizePage(f.Page, f.Limit)

	q := r.db.WithContext(ctx).Model(&model.Dispute{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Dispute{}, 0, err
	}

	items := []model.Dispute{}
	offset := (page - 1) * limit
	if err := preloadMessages(q).Order("id desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Dispute{}, 0, err
	}
	return items, total, nil
}

func (r *DisputeGormRepository) AppendMessage(ctx context.Context, msg *model.DisputeMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// 読んだ時点から別の管理者が更新していたら false
func (r *DisputeGormRepository) UpdateStatus(ctx context.Context, disputeID int64, change repo.DisputeStatusChange) (bool, error) {
	values := map[string]interface{}{
		"status": change.To,
	}
	if change.To == model.DisputeResolved || change.To == model.DisputeClosed {
		values["resolution"] = change.Resolution
		values["resolved_by"] = change.ResolvedBy
		values["resolved_at"] = change.At
	}

	res := r.db.WithContext(ctx).Model(&model.Dispute{}).
		Where("id = ? AND status = ?", disputeID, change.From).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DisputeGormRepository) SoftDelete(ctx context.Context, disputeID int64, deletedBy int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Dispute{}).Where("id = ?", disputeID).Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return tx.Delete(&model.Dispute{}, disputeID).Error
	})
}
