package repository

import (
	"context"
	"time"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

// 状態を変える操作はすべて1行の条件付きUPDATEで行う。
// 戻り値の bool は条件に合って更新されたかどうか。
type OrderRepository interface {
	// 明細ごと作成。注文番号が重複したら ErrDuplicateOrderNumber
	Create(ctx context.Context, order *model.Order) error

	// 明細をpreloadして返す（論理削除済みは ErrNotFound）
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	ListBySellerID(ctx context.Context, sellerID int64, page int, limit int) ([]model.Order, int64, error)
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)

	// 自分の確認フラグを立て、両方trueならmet_and_exchangedにする（waiting_to_meet かつ有効な紛争なしのときだけ）
	Confirm(ctx context.Context, orderID int64, role model.PartyRole) (bool, error)

	// waiting_to_meet のときだけ cancelled にする
	Cancel(ctx context.Context, orderID int64) (bool, error)

	// 管理者による強制リセット
	Reset(ctx context.Context, orderID int64) error

	SetDispute(ctx context.Context, orderID int64, disputeID int64) error

	UpdateMeetup(ctx context.Context, orderID int64, location string, at *time.Time) (bool, error)
	UpdatePayment(ctx context.Context, orderID int64, method model.PaymentMethod, status model.PaymentStatus) (bool, error)

	SoftDelete(ctx context.Context, orderID int64, deletedBy int64) error
}
