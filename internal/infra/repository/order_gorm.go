package repository

import (
	"context"
	"time"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	repo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("order_items.id asc")
	})
}

// 明細も同時にINSERT
func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	err := r.db.WithContext(ctx).Create(order).Error
	if isUniqueViolation(err) {
		return repo.ErrDuplicateOrderNumber
	}
	return err
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := preloadItems(r.db.WithContext(ctx)).Where("id = ?", orderID).First(&o).Error
	if isNotFound(err) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)
	return r.paginate(q, page, limit)
}

// 自分の出品を含む注文
func (r *OrderGormRepository) ListBySellerID(ctx context.Context, sellerID int64, page int, limit int) ([]model.Order, int64, error) {
	sub := r.db.WithContext(ctx).Model(&model.OrderItem{}).Select("order_id").Where("seller_id = ?", sellerID)
	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("id IN (?)", sub)
	return r.paginate(q, page, limit)
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})

	//status 絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	//user_id 絞り込み
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	//期間絞り込み
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	return r.paginate(q, f.Page, f.Limit)
}

func (r *OrderGormRepository) paginate(q *gorm.DB, page int, limit int) ([]model.Order, int64, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	items := []model.Order{}
	offset := (page - 1) * limit
	if err := preloadItems(q).Order("id desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}
	return items, total, nil
}

// 1回のUPDATEでフラグを立て、相手のフラグがtrueならステータスも進める。
// 同時に両者が確認しても行ロックで直列化されるので、両方trueのままwaiting_to_meetにはならない。
func (r *OrderGormRepository) Confirm(ctx context.Context, orderID int64, role model.PartyRole) (bool, error) {
	flag, other := "buyer_confirmed", "seller_confirmed"
	if role == model.PartySeller {
		flag, other = "seller_confirmed", "buyer_confirmed"
	}

	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusWaitingToMeet).
		Where("(dispute_id IS NULL OR NOT EXISTS (SELECT 1 FROM disputes WHERE disputes.id = orders.dispute_id AND disputes.status IN ? AND disputes.deleted_at IS NULL))",
			model.ActiveDisputeStatuses()).
		Updates(map[string]interface{}{
			flag:     true,
			"status": gorm.Expr("CASE WHEN "+other+" = ? THEN ? ELSE status END", true, model.OrderStatusMetAndExchanged),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderGormRepository) Cancel(ctx context.Context, orderID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusWaitingToMeet).
		Update("status", model.OrderStatusCancelled)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// 状態を初期に戻し、待ち合わせ・支払いも消す
func (r *OrderGormRepository) Reset(ctx context.Context, orderID int64) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":           model.OrderStatusWaitingToMeet,
			"buyer_confirmed":  false,
			"seller_confirmed": false,
			"meetup_location":  "",
			"meetup_time":      nil,
			"payment_method":   model.PaymentMethod(""),
			"payment_status":   model.PaymentStatusNone,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) SetDispute(ctx context.Context, orderID int64, disputeID int64) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("dispute_id", disputeID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) UpdateMeetup(ctx context.Context, orderID int64, location string, at *time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusWaitingToMeet).
		Updates(map[string]interface{}{
			"meetup_location": location,
			"meetup_time":     at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderGormRepository) UpdatePayment(ctx context.Context, orderID int64, method model.PaymentMethod, status model.PaymentStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusWaitingToMeet).
		Updates(map[string]interface{}{
			"payment_method": method,
			"payment_status": status,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// 監査のため物理削除はしない
func (r *OrderGormRepository) SoftDelete(ctx context.Context, orderID int64, deletedBy int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Order{}).Where("id = ?", orderID).Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return tx.Delete(&model.Order{}, orderID).Error
	})
}
