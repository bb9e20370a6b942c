package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/infra/dbtest"
	repo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderGormRepository_Create_DuplicateOrderNumber(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	buyer := seedUser(t, db, "buyer@example.edu")
	seller := seedUser(t, db, "seller@example.edu")
	p := seedProduct(t, db, seller.ID, "lamp", 3)

	seedOrder(t, db, buyer.ID, "ORD-20250301120000-AAAA", p, 1)

	dup := model.NewOrder(buyer.ID, "ORD-20250301120000-AAAA", []model.OrderItem{model.NewLineItem(p, 1, testNow)}, testNow)
	err := NewOrderGormRepository(db).Create(ctx, &dup)
	assert.ErrorIs(t, err, repo.ErrDuplicateOrderNumber)
}

func TestOrderGormRepository_FindByID_PreloadsItems(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	buyer := seedUser(t, db, "buyer@example.edu")
	seller := seedUser(t, db, "seller@example.edu")
	p := seedProduct(t, db, seller.ID, "desk", 2)
	o := seedOrder(t, db, buyer.ID, "ORD-1", p, 2)

	got, err := NewOrderGormRepository(db).FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "desk", got.Items[0].Name)
	assert.Equal(t, seller.ID, got.Items[0].SellerID)
	assert.Equal(t, "25.00", model.FormatMoney(got.TotalAmount))
	assert.Equal(t, model.OrderStatusWaitingToMeet, got.Status)

	_, err = NewOrderGormRepository(db).FindByID(ctx, 9999)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestOrderGormRepository_Confirm_BothFlagsCompleteOrder(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := NewOrderGormRepository(db)
	buyer := seedUser(t, db, "buyer@example.edu")
	seller := seedUser(t, db, "seller@example.edu")
	p := seedProduct(t, db, seller.ID, "bike", 1)
	o := seedOrder(t, db, buyer.ID, "ORD-1", p, 1)

	applied, err := r.Confirm(ctx, o.ID, model.PartyBuyer)
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := r.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.BuyerConfirmed)
	assert.False(t, got.SellerConfirmed)
	assert.Equal(t, model.OrderStatusWaitingToMeet, got.Status)

	applied, err = r.Confirm(ctx, o.ID, model.PartySeller)
	require.NoError(t, err)
	assert.True(t, applied)

	got, err = r.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.BothConfirmed())
	assert.Equal(t, model.OrderStatusMetAndExchanged, got.Status)

	// 完了後は条件に合わない
	applied, err = r.Confirm(ctx, o.ID, model.PartyBuyer)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestOrderGormRepository_Confirm_Concurrent(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := NewOrderGormRepository(db)
	buyer := seedUser(t, db, "buyer@example.edu")
	seller := seedUser(t, db, "seller@example.edu")
	p := seedProduct(t, db, seller.ID, "chair", 10)

	for i := 0; i < 5; i++ {
		o := seedOrder(t, db, buyer.ID, "ORD-C-"+string(rune('A'+i)), p, 1)

		var wg sync.WaitGroup
		for _, role := range []model.PartyRole{model.PartyBuyer, model.PartySeller} {
			wg.Add(1)
			go func(role model.PartyRole) {
				defer wg.Done()
				_, err := r.Confirm(ctx, o.ID, role)
				assert.NoError(t, err)
			}(role)
		}
		wg.Wait()

		got, err := r.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.True(t, got.BothConfirmed())
		assert.Equal(t, model.OrderStatusMetAndExchanged, got.Status)
	}
}

func TestOrderGormRepository_Confirm_BlockedByActiveDispute(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := NewOrderGormRepository(db)
	disputes := NewDisputeGormRepository(db)
	buyer := seedUser(t, db, "buyer@example.edu")
	seller := seedUser(t, db, "seller@example.edu")
	p := seedProduct(t, db, seller.ID, "phone", 1)
	o := seedOrder(t, db, buyer.ID, "ORD-1", p, 1)

	o, err := r.FindByID(ctx, o.ID)
	require.NoError(t, err)
	d := model.NewDispute(o, buyer.ID, model.PartyBuyer, "item broken", testNow)
	require.NoError(t, disputes.Create(ctx, &d))
	require.NoError(t, r.SetDispute(ctx, o.ID, d.ID))

	applied, err := r.Confirm(ctx, o.ID, model.PartyBuyer)
	require.NoError(t, err)
	assert.False(t, applied)

	// 解決後は確認できる
	ok, err := disputes.UpdateStatus(ctx, d.ID, repo.DisputeStatusChange{
		From: model.DisputeOpen, To: model.DisputeResolved, Resolution: "refunded", At: testNow,
	})
	require.NoError(t, err)
	require.True(t, ok)

	applied, err = r.Confirm(ctx, o.ID, model.PartyBuyer)
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestOrderGormRepository_Cancel(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := NewOrderGormRepository(db)
	buyer := seedUser(t, db, "buyer@example.edu")
	seller := seedUser(t, db, "seller@example.edu")
	p := seedProduct(t, db, seller.ID, "book", 1)
	o := seedOrder(t, db, buyer.ID, "ORD-1", p, 1)

	applied, err := r.Cancel(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = r.Cancel(ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = r.Confirm(ctx, o.ID, model.PartyBuyer)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestOrderGormRepository_Reset_ClearsTransientFields(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := NewOrderGormRepository(db)
	buyer := seedUser(t, db, "buyer@example.edu")
	seller := seedUser(t, db, "seller@example.edu")
	p := seedProduct(t, db, seller.ID, "tv", 1)
	o := seedOrder(t, db, buyer.ID, "ORD-1", p, 1)

	at := testNow.Add(24 * time.Hour)
	ok, err := r.UpdateMeetup(ctx, o.ID, "library", &at)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = r.UpdatePayment(ctx, o.ID, model.PaymentCash, model.PaymentStatusPending)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = r.Confirm(ctx, o.ID, model.PartyBuyer)
	require.NoError(t, err)
	_, err = r.Confirm(ctx, o.ID, model.PartySeller)
	require.NoError(t, err)

	require.NoError(t, r.Reset(ctx, o.ID))

	got, err := r.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusWaitingToMeet, got.Status)
	assert.False(t, got.BuyerConfirmed)
	assert.False(t, got.SellerConfirmed)
	assert.Empty(t, got.MeetupLocation)
	assert.Nil(t, got.MeetupTime)
	assert.Equal(t, model.PaymentStatusNone, got.PaymentStatus)

	assert.ErrorIs(t, r.Reset(ctx, 9999), repo.ErrNotFound)
}

func TestOrderGormRepository_ListBySellerID(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := NewOrderGormRepository(db)
	buyer := seedUser(t, db, "buyer@example.edu")
	s1 := seedUser(t, db, "s1@example.edu")
	s2 := seedUser(t, db, "s2@example.edu")
	p1 := seedProduct(t, db, s1.ID, "a", 5)
	p2 := seedProduct(t, db, s2.ID, "b", 5)

	seedOrder(t, db, buyer.ID, "ORD-1", p1, 1)
	seedOrder(t, db, buyer.ID, "ORD-2", p2, 1)
	seedOrder(t, db, buyer.ID, "ORD-3", p1, 2)

	items, total, err := r.ListBySellerID(ctx, s1.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "ORD-3", items[0].OrderNumber)
	assert.NotEmpty(t, items[0].Items)

	mine, total, err := r.ListByUserID(ctx, buyer.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, mine, 2)
}

func TestOrderGormRepository_SoftDelete(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := NewOrderGormRepository(db)
	buyer := seedUser(t, db, "buyer@example.edu")
	seller := seedUser(t, db, "seller@example.edu")
	admin := seedUser(t, db, "admin@example.edu")
	p := seedProduct(t, db, seller.ID, "fan", 1)
	o := seedOrder(t, db, buyer.ID, "ORD-1", p, 1)

	require.NoError(t, r.SoftDelete(ctx, o.ID, admin.ID))

	_, err := r.FindByID(ctx, o.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, r.SoftDelete(ctx, o.ID, admin.ID), repo.ErrNotFound)
}
