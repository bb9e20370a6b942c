package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	repo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	users     repo.UserRepository
	auditRepo repo.AuditLogRepository
	clock     Clock
}

func NewAdminOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, users repo.UserRepository, auditRepo repo.AuditLogRepository, clock Clock) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orders: orders, users: users, auditRepo: auditRepo, clock: clock}
}

// 注文一覧（全ユーザー）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (OrderListOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return OrderListOutput{}, errInvalid("invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return OrderListOutput{}, errInvalid("invalid limit")
	}
	if f.Status != "" && !model.OrderStatus(f.Status).Valid() {
		return OrderListOutput{}, errInvalid("invalid status")
	}

	items, total, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return OrderListOutput{}, errDB()
	}
	return OrderListOutput{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// 強制的にwaiting_to_meetへ戻す（確認フラグ・待ち合わせ・支払いも消す）
func (u *AdminOrderUsecase) Reset(ctx context.Context, actorAdminUserID int64, orderID int64) (model.Order, error) {
	if orderID <= 0 {
		return model.Order{}, errInvalid("invalid id")
	}
	if err := u.requireAdmin(ctx, actorAdminUserID); err != nil {
		return model.Order{}, err
	}

	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return errDB()
		}

		if err := r.Orders().Reset(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound()
			}
			return errDB()
		}

		after, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return errDB()
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionResetOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   orderStateJSON(before),
			AfterJSON:    orderStateJSON(after),
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return errDB()
		}

		out = after
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}

// 論理削除（履歴は残す）
func (u *AdminOrderUsecase) Delete(ctx context.Context, actorAdminUserID int64, orderID int64) error {
	if orderID <= 0 {
		return errInvalid("invalid id")
	}
	if err := u.requireAdmin(ctx, actorAdminUserID); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return errDB()
		}

		if err := r.Orders().SoftDelete(ctx, orderID, actorAdminUserID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound()
			}
			return errDB()
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionDeleteOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   orderStateJSON(before),
			AfterJSON:    `{"deleted":true}`,
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return errDB()
		}
		return nil
	})
}

// Action/ResourceTypeはカンマ区切りで複数指定できる（大文字小文字は問わない）
// 監査ログに残すactorは有効なADMINに限る（CLIからはIDを直接渡すため）
func (u *AdminOrderUsecase) requireAdmin(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return errUnauthorized()
	}
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return errForbidden()
	}
	if err != nil || user == nil {
		return errDB()
	}
	if !user.IsAdmin() || !user.IsActive {
		return errForbidden()
	}
	return nil
}

// Action/ResourceTypeはカンマ区切りで複数指定できる（大文字小文字は問わない）
type AuditLogListInput struct {
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

func (u *AdminOrderUsecase) ListAuditLogs(ctx context.Context, in AuditLogListInput) ([]model.AuditLog, error) {
	f := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		CreatedFrom: in.From,
		CreatedTo:   in.To,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	for _, a := range splitList(in.Action) {
		action := model.AuditAction(strings.ToUpper(a))
		if !action.Valid() {
			return []model.AuditLog{}, errInvalid("invalid action")
		}
		f.Actions = append(f.Actions, action)
	}
	for _, rt := range splitList(in.ResourceType) {
		resource := model.AuditResourceType(strings.ToLower(rt))
		if !resource.Valid() {
			return []model.AuditLog{}, errInvalid("invalid resource_type")
		}
		f.ResourceTypes = append(f.ResourceTypes, resource)
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedTo.Before(*f.CreatedFrom) {
		return []model.AuditLog{}, errInvalid("to is before from")
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, errDB()
	}
	return logs, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// 監査ログに残す状態
func orderStateJSON(o model.Order) string {
	b, err := json.Marshal(map[string]interface{}{
		"status":           o.Status,
		"buyer_confirmed":  o.BuyerConfirmed,
		"seller_confirmed": o.SellerConfirmed,
		"meetup_location":  o.MeetupLocation,
		"payment_method":   o.PaymentMethod,
		"payment_status":   o.PaymentStatus,
	})
	if err != nil {
		return "{}"
	}
	return string(b)
}

// 期間パラメータ（RFC3339）。空ならnil。
func ParseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
