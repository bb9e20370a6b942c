package repository

import (
	"context"
	"testing"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/infra/dbtest"
	repo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewGormRepository_OnePerOrder(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := NewReviewGormRepository(db)

	first := &model.Review{OrderID: 1, BuyerID: 2, SellerID: 3, Rating: 5, CreatedAt: testNow, UpdatedAt: testNow}
	require.NoError(t, r.Create(ctx, first))

	second := &model.Review{OrderID: 1, BuyerID: 2, SellerID: 3, Rating: 1, CreatedAt: testNow, UpdatedAt: testNow}
	assert.ErrorIs(t, r.Create(ctx, second), repo.ErrDuplicateReview)

	got, err := r.ListBySellerID(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Rating)

	_, err = r.FindByOrderID(ctx, 2)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUserGormRepository_EmailTaken(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := NewUserGormRepository(db)

	require.NoError(t, r.Create(ctx, &model.User{Email: "a@example.edu", PasswordHash: "x", Name: "a", Role: model.RoleUser, IsActive: true}))
	err := r.Create(ctx, &model.User{Email: "a@example.edu", PasswordHash: "x", Name: "b", Role: model.RoleUser, IsActive: true})
	assert.ErrorIs(t, err, repo.ErrEmailTaken)

	u, err := r.FindByEmail(ctx, "a@example.edu")
	require.NoError(t, err)
	require.NoError(t, r.IncrementTokenVersion(ctx, u.ID))

	u, err = r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.TokenVersion)

	_, err = r.FindByEmail(ctx, "none@example.edu")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
