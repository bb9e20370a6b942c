package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	repo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminOrderUsecase_Reset(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.listing(t, "sofa", "200", 1)
	o, err := f.orders.PlaceOrder(ctx, f.buyer.ID, PlaceOrderInput{Items: []PlaceOrderItem{{ProductID: p.ID, Quantity: 1}}})
	require.NoError(t, err)
	_, err = f.orders.UpdatePayment(ctx, actorOf(f.buyer), o.ID, "card")
	require.NoError(t, err)
	_, err = f.orders.Cancel(ctx, actorOf(f.buyer), o.ID)
	require.NoError(t, err)

	o, err = f.admin.Reset(ctx, f.root.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusWaitingToMeet, o.Status)
	assert.False(t, o.BuyerConfirmed)
	assert.False(t, o.SellerConfirmed)
	assert.Empty(t, o.PaymentMethod)

	// リセット後は再び在庫を確保している
	snap, err := f.inventory.Snapshot(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, snap.Available)

	action := model.AuditActionResetOrder
	logs, err := f.admin.ListAuditLogs(ctx, AuditLogListInput{Action: string(action)})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, f.root.ID, logs[0].ActorUserID)
	assert.Contains(t, logs[0].BeforeJSON, `"status":"cancelled"`)
	assert.Contains(t, logs[0].AfterJSON, `"status":"waiting_to_meet"`)

	_, err = f.admin.Reset(ctx, f.root.ID, 9999)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestAdminOrderUsecase_DeleteHidesOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.listing(t, "table", "50", 2)
	o, err := f.orders.PlaceOrder(ctx, f.buyer.ID, PlaceOrderInput{Items: []PlaceOrderItem{{ProductID: p.ID, Quantity: 2}}})
	require.NoError(t, err)

	require.NoError(t, f.admin.Delete(ctx, f.root.ID, o.ID))

	_, err = f.orders.Get(ctx, actorOf(f.buyer), o.ID)
	assertHTTPStatus(t, err, http.StatusNotFound)

	// 論理削除された注文は在庫の集計に含めない
	snap, err := f.inventory.Snapshot(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Available)

	list, err := f.admin.List(ctx, repo.AdminOrderListFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestAdminOrderUsecase_List_Validation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.admin.List(ctx, repo.AdminOrderListFilter{Page: 0, Limit: 10})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	_, err = f.admin.List(ctx, repo.AdminOrderListFilter{Page: 1, Limit: 10, Status: "PAID"})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestAdminUserUsecase_ForceLogoutAndPromote(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	out, err := f.adminUser.ForceLogout(ctx, f.root.ID, f.buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, out.NewTokenVersion)

	_, err = f.adminUser.ForceLogout(ctx, f.root.ID, 9999)
	assertHTTPStatus(t, err, http.StatusNotFound)

	u, err := f.adminUser.PromoteAdmin(ctx, 0, " Other@Campus.edu ")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	var stored model.User
	require.NoError(t, f.db.First(&stored, f.other.ID).Error)
	assert.Equal(t, model.RoleAdmin, stored.Role)
	assert.Equal(t, 1, stored.TokenVersion)

	_, err = f.adminUser.PromoteAdmin(ctx, 0, "nobody@campus.edu")
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestAdminOrderUsecase_Reset_RequiresAdminActor(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.listing(t, "fan", "12", 1)
	o, err := f.orders.PlaceOrder(ctx, f.buyer.ID, PlaceOrderInput{Items: []PlaceOrderItem{{ProductID: p.ID, Quantity: 1}}})
	require.NoError(t, err)
	_, err = f.orders.Cancel(ctx, actorOf(f.buyer), o.ID)
	require.NoError(t, err)

	_, err = f.admin.Reset(ctx, f.buyer.ID, o.ID)
	assertHTTPStatus(t, err, http.StatusForbidden)
	_, err = f.admin.Reset(ctx, 9999, o.ID)
	assertHTTPStatus(t, err, http.StatusForbidden)
	err = f.admin.Delete(ctx, f.seller.ID, o.ID)
	assertHTTPStatus(t, err, http.StatusForbidden)

	// 停止中の管理者も不可
	require.NoError(t, f.db.Model(&model.User{}).Where("id = ?", f.root.ID).Update("is_active", false).Error)
	_, err = f.admin.Reset(ctx, f.root.ID, o.ID)
	assertHTTPStatus(t, err, http.StatusForbidden)

	got, err := f.orders.Get(ctx, actorOf(f.buyer), o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, got.Status)

	logs, err := f.admin.ListAuditLogs(ctx, AuditLogListInput{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAdminOrderUsecase_ListAuditLogs_Filters(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.listing(t, "mirror", "30", 2)
	o, err := f.orders.PlaceOrder(ctx, f.buyer.ID, PlaceOrderInput{Items: []PlaceOrderItem{{ProductID: p.ID, Quantity: 1}}})
	require.NoError(t, err)
	_, err = f.admin.Reset(ctx, f.root.ID, o.ID)
	require.NoError(t, err)
	_, err = f.adminUser.ForceLogout(ctx, f.root.ID, f.buyer.ID)
	require.NoError(t, err)

	logs, err := f.admin.ListAuditLogs(ctx, AuditLogListInput{Action: "reset_order, force_logout"})
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = f.admin.ListAuditLogs(ctx, AuditLogListInput{ResourceType: "order,dispute"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.AuditActionResetOrder, logs[0].Action)

	_, err = f.admin.ListAuditLogs(ctx, AuditLogListInput{Action: "drop_table"})
	assertHTTPStatus(t, err, http.StatusBadRequest)
	_, err = f.admin.ListAuditLogs(ctx, AuditLogListInput{ResourceType: "cart"})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	from := testNow.Add(time.Hour)
	to := testNow
	_, err = f.admin.ListAuditLogs(ctx, AuditLogListInput{From: &from, To: &to})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}
