package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	repo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"
)

// 注文番号が重複したときの試行回数
const orderNumberAttempts = 3

type OrderUsecase struct {
	tx       repo.TransactionManager
	orders   repo.OrderRepository
	products repo.ProductRepository
	disputes repo.DisputeRepository
	clock    Clock
	suffix   SuffixGenerator
	prefix   string
	logger   *slog.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	products repo.ProductRepository,
	disputes repo.DisputeRepository,
	clock Clock,
	suffix SuffixGenerator,
	prefix string,
	logger *slog.Logger,
) *OrderUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderUsecase{
		tx:       tx,
		orders:   orders,
		products: products,
		disputes: disputes,
		clock:    clock,
		suffix:   suffix,
		prefix:   prefix,
		logger:   logger,
	}
}

type PlaceOrderItem struct {
	ProductID int64
	Quantity  int64
}

type PlaceOrderInput struct {
	Items          []PlaceOrderItem
	MeetupLocation string
}

type OrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// 在庫チェック、明細のスナップショット、注文番号の採番までを1トランザクションで行う。
// 注文番号が衝突したらトランザクションごとやり直す。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (model.Order, error) {
	if userID <= 0 {
		return model.Order{}, errUnauthorized()
	}
	lines, err := mergeLines(in.Items)
	if err != nil {
		return model.Order{}, err
	}
	location := strings.TrimSpace(in.MeetupLocation)
	if len(location) > 255 {
		return model.Order{}, errInvalid("meetup_location too long")
	}

	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		var created model.Order
		err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			now := u.clock.Now()

			items := make([]model.OrderItem, 0, len(lines))
			for _, l := range lines {
				p, err := r.Products().FindByID(ctx, l.ProductID)
				if errors.Is(err, repo.ErrNotFound) {
					return errInvalid(fmt.Sprintf("product %d not found", l.ProductID))
				}
				if err != nil {
					return errDB()
				}
				if p.SellerID == userID {
					return errInvalid("cannot order your own listing")
				}

				ordered, err := r.Inventory().SumOrderedQuantity(ctx, p.ID)
				if err != nil {
					return errDB()
				}
				if l.Quantity > model.AvailableQuantity(p.Quantity, ordered) {
					return errInvalid(fmt.Sprintf("insufficient quantity for product %d", p.ID))
				}

				items = append(items, model.NewLineItem(p, l.Quantity, now))
			}

			number := model.NewOrderNumber(u.prefix, now, u.suffix.NewSuffix())
			order := model.NewOrder(userID, number, items, now)
			order.MeetupLocation = location

			if err := r.Orders().Create(ctx, &order); err != nil {
				if errors.Is(err, repo.ErrDuplicateOrderNumber) {
					return err
				}
				return errDB()
			}
			created = order
			return nil
		})
		if errors.Is(err, repo.ErrDuplicateOrderNumber) {
			u.logger.WarnContext(ctx, "order number collision",
				slog.Int64("user_id", userID),
				slog.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return model.Order{}, err
		}
		return created, nil
	}

	return model.Order{}, NewHTTPError(http.StatusInternalServerError, "could not allocate order number")
}

// 同じ商品は数量を合算する（順番は最初に出てきた順）
func mergeLines(in []PlaceOrderItem) ([]PlaceOrderItem, error) {
	if len(in) == 0 {
		return nil, errInvalid("items required")
	}

	index := make(map[int64]int, len(in))
	out := make([]PlaceOrderItem, 0, len(in))
	for _, it := range in {
		if it.ProductID <= 0 {
			return nil, errInvalid("invalid product_id")
		}
		if it.Quantity < 1 {
			return nil, errInvalid("quantity must be >= 1")
		}
		if i, ok := index[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out, nil
}

// 買い手・売り手のそれぞれが受け渡しを確認する。
// 両方そろったらmet_and_exchangedになる（判定はUPDATE文の中）。
func (u *OrderUsecase) Confirm(ctx context.Context, actor Actor, orderID int64) (model.Order, error) {
	o, err := u.load(ctx, actor, orderID)
	if err != nil {
		return model.Order{}, err
	}
	role, ok := o.PartyRole(actor.UserID)
	if !ok {
		return model.Order{}, errForbidden()
	}

	switch o.Status {
	case model.OrderStatusCancelled:
		return model.Order{}, errConflict("order is cancelled")
	case model.OrderStatusMetAndExchanged:
		return o, nil
	}

	active, err := u.hasActiveDispute(ctx, o)
	if err != nil {
		return model.Order{}, err
	}
	if active {
		return model.Order{}, errConflict("order has an active dispute")
	}

	applied, err := u.orders.Confirm(ctx, o.ID, role)
	if err != nil {
		return model.Order{}, errDB()
	}

	after, err := u.reload(ctx, o.ID)
	if err != nil {
		return model.Order{}, err
	}
	if applied {
		return after, nil
	}

	// 読んでから更新するまでの間に状態が変わった
	switch after.Status {
	case model.OrderStatusCancelled:
		return model.Order{}, errConflict("order is cancelled")
	case model.OrderStatusMetAndExchanged:
		return after, nil
	}
	return model.Order{}, errConflict("order has an active dispute")
}

// 買い手・売り手・管理者のみ。キャンセル済みなら何もしない。
func (u *OrderUsecase) Cancel(ctx context.Context, actor Actor, orderID int64) (model.Order, error) {
	o, err := u.load(ctx, actor, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if _, ok := o.PartyRole(actor.UserID); !ok && !actor.IsAdmin() {
		return model.Order{}, errForbidden()
	}

	switch o.Status {
	case model.OrderStatusCancelled:
		return o, nil
	case model.OrderStatusMetAndExchanged:
		return model.Order{}, errConflict("order already completed")
	}

	if _, err := u.orders.Cancel(ctx, o.ID); err != nil {
		return model.Order{}, errDB()
	}

	after, err := u.reload(ctx, o.ID)
	if err != nil {
		return model.Order{}, err
	}
	if after.Status == model.OrderStatusMetAndExchanged {
		return model.Order{}, errConflict("order already completed")
	}
	return after, nil
}

// 当事者と管理者以外には存在しない扱い
func (u *OrderUsecase) Get(ctx context.Context, actor Actor, orderID int64) (model.Order, error) {
	o, err := u.load(ctx, actor, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if _, ok := o.PartyRole(actor.UserID); !ok && !actor.IsAdmin() {
		return model.Order{}, errNotFound()
	}
	if err := u.markRemovedListings(ctx, &o); err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// 明細は注文時のスナップショットなので、元の出品が消えていても表示はできる。
// 削除済みかどうかだけ論理削除済みの行から引く。
func (u *OrderUsecase) markRemovedListings(ctx context.Context, o *model.Order) error {
	deleted := make(map[int64]bool, len(o.Items))
	for i := range o.Items {
		id := o.Items[i].ProductID
		gone, seen := deleted[id]
		if !seen {
			p, err := u.products.FindByIDUnscoped(ctx, id)
			switch {
			case errors.Is(err, repo.ErrNotFound):
				gone = true
			case err != nil:
				return errDB()
			default:
				gone = p.DeletedAt.Valid
			}
			deleted[id] = gone
		}
		o.Items[i].ProductDeleted = gone
	}
	return nil
}

func (u *OrderUsecase) ListMine(ctx context.Context, userID int64, p Page) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, errUnauthorized()
	}
	p = p.normalize()
	items, total, err := u.orders.ListByUserID(ctx, userID, p.Page, p.Limit)
	if err != nil {
		return OrderListOutput{}, errDB()
	}
	return OrderListOutput{Items: items, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

// 自分の出品を含む注文
func (u *OrderUsecase) ListSelling(ctx context.Context, userID int64, p Page) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, errUnauthorized()
	}
	p = p.normalize()
	items, total, err := u.orders.ListBySellerID(ctx, userID, p.Page, p.Limit)
	if err != nil {
		return OrderListOutput{}, errDB()
	}
	return OrderListOutput{Items: items, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

type UpdateMeetupInput struct {
	Location string
	Time     *time.Time
}

func (u *OrderUsecase) UpdateMeetup(ctx context.Context, actor Actor, orderID int64, in UpdateMeetupInput) (model.Order, error) {
	location := strings.TrimSpace(in.Location)
	if location == "" || len(location) > 255 {
		return model.Order{}, errInvalid("invalid location")
	}

	o, err := u.load(ctx, actor, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if _, ok := o.PartyRole(actor.UserID); !ok {
		return model.Order{}, errForbidden()
	}
	if o.Status != model.OrderStatusWaitingToMeet {
		return model.Order{}, errConflict("order is not waiting to meet")
	}

	var at *time.Time
	if in.Time != nil {
		t := in.Time.UTC()
		at = &t
	}
	applied, err := u.orders.UpdateMeetup(ctx, o.ID, location, at)
	if err != nil {
		return model.Order{}, errDB()
	}
	if !applied {
		return model.Order{}, errConflict("order is not waiting to meet")
	}
	return u.reload(ctx, o.ID)
}

// 支払い方法の登録のみ（決済はしない）
func (u *OrderUsecase) UpdatePayment(ctx context.Context, actor Actor, orderID int64, method string) (model.Order, error) {
	m := model.PaymentMethod(strings.TrimSpace(method))
	if !m.Valid() {
		return model.Order{}, errInvalid("invalid payment method")
	}

	o, err := u.load(ctx, actor, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if !o.IsBuyer(actor.UserID) {
		return model.Order{}, errForbidden()
	}
	if o.Status != model.OrderStatusWaitingToMeet {
		return model.Order{}, errConflict("order is not waiting to meet")
	}

	applied, err := u.orders.UpdatePayment(ctx, o.ID, m, model.PaymentStatusPending)
	if err != nil {
		return model.Order{}, errDB()
	}
	if !applied {
		return model.Order{}, errConflict("order is not waiting to meet")
	}
	return u.reload(ctx, o.ID)
}

func (u *OrderUsecase) load(ctx context.Context, actor Actor, orderID int64) (model.Order, error) {
	if actor.UserID <= 0 {
		return model.Order{}, errUnauthorized()
	}
	if orderID <= 0 {
		return model.Order{}, errInvalid("invalid id")
	}
	return u.reload(ctx, orderID)
}

func (u *OrderUsecase) reload(ctx context.Context, orderID int64) (model.Order, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, errNotFound()
	}
	if err != nil {
		return model.Order{}, errDB()
	}
	return o, nil
}

func (u *OrderUsecase) hasActiveDispute(ctx context.Context, o model.Order) (bool, error) {
	if o.DisputeID == nil {
		return false, nil
	}
	d, err := u.disputes.FindByID(ctx, *o.DisputeID)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errDB()
	}
	return d.Status.IsActive(), nil
}
