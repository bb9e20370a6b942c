package usecase

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/infra/dbtest"
	infra "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/infra/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 5, 10, 8, 30, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// 指定した順にサフィックスを返し、尽きたら連番
type sequenceSuffix struct {
	mu   sync.Mutex
	vals []string
	n    int
}

func (s *sequenceSuffix) NewSuffix() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	if len(s.vals) > 0 {
		v := s.vals[0]
		s.vals = s.vals[1:]
		return v
	}
	return fmt.Sprintf("seq%05d", s.n)
}

type fixture struct {
	db        *gorm.DB
	orders    *OrderUsecase
	admin     *AdminOrderUsecase
	adminUser *AdminUserUsecase
	inventory *InventoryUsecase
	products  *ProductUsecase
	disputes  *DisputeUsecase
	reviews   *ReviewUsecase

	buyer  model.User
	seller model.User
	other  model.User
	root   model.User
}

func newFixture(t *testing.T, suffix SuffixGenerator) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	if suffix == nil {
		suffix = &sequenceSuffix{}
	}
	clock := fixedClock{testNow}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tx := infra.NewTxManagerGorm(db)
	orderRepo := infra.NewOrderGormRepository(db)
	productRepo := infra.NewProductGormRepository(db)
	inventoryRepo := infra.NewInventoryGormRepository(db)
	disputeRepo := infra.NewDisputeGormRepository(db)
	userRepo := infra.NewUserGormRepository(db)
	auditRepo := infra.NewAuditLogGormRepository(db)
	reviewRepo := infra.NewReviewGormRepository(db)

	f := &fixture{
		db:        db,
		orders:    NewOrderUsecase(tx, orderRepo, productRepo, disputeRepo, clock, suffix, "ORD", logger),
		admin:     NewAdminOrderUsecase(tx, orderRepo, userRepo, auditRepo, clock),
		adminUser: NewAdminUserUsecase(userRepo, auditRepo, clock),
		inventory: NewInventoryUsecase(productRepo, inventoryRepo),
		products:  NewProductUsecase(tx, productRepo, inventoryRepo, userRepo),
		disputes:  NewDisputeUsecase(tx, disputeRepo, clock),
		reviews:   NewReviewUsecase(orderRepo, reviewRepo, clock),
	}
	f.buyer = f.user(t, "buyer@campus.edu", model.RoleUser)
	f.seller = f.user(t, "seller@campus.edu", model.RoleUser)
	f.other = f.user(t, "other@campus.edu", model.RoleUser)
	f.root = f.user(t, "root@campus.edu", model.RoleAdmin)
	return f
}

func (f *fixture) user(t *testing.T, email string, role model.Role) model.User {
	t.Helper()
	u := model.User{Email: email, PasswordHash: "x", Name: email, Campus: "main", Role: role, IsActive: true}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) listing(t *testing.T, title string, price string, qty int64) model.Product {
	t.Helper()
	p := model.Product{
		SellerID:  f.seller.ID,
		Title:     title,
		Price:     decimal.RequireFromString(price),
		Condition: model.ConditionLikeNew,
		Images:    []string{"https://img.example/" + title + ".jpg"},
		Status:    model.ListingAvailable,
		Campus:    "main",
		Quantity:  qty,
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func actorOf(u model.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, status, he.Status, he.Message)
}
