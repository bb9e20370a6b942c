package repository

import (
	"context"
	"testing"
	"time"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, db *gorm.DB, email string) model.User {
	t.Helper()
	u := model.User{Email: email, PasswordHash: "x", Name: email, Role: model.RoleUser, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedProduct(t *testing.T, db *gorm.DB, sellerID int64, title string, qty int64) model.Product {
	t.Helper()
	p := model.Product{
		SellerID:  sellerID,
		Title:     title,
		Price:     decimal.RequireFromString("12.50"),
		Condition: model.ConditionGood,
		Images:    []string{"https://img.example/" + title + ".png"},
		Status:    model.ListingAvailable,
		Campus:    "main",
		Quantity:  qty,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedOrder(t *testing.T, db *gorm.DB, buyerID int64, number string, p model.Product, qty int64) model.Order {
	t.Helper()
	o := model.NewOrder(buyerID, number, []model.OrderItem{model.NewLineItem(p, qty, testNow)}, testNow)
	require.NoError(t, NewOrderGormRepository(db).Create(context.Background(), &o))
	return o
}
