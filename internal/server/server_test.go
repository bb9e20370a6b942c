package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/config"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/infra/dbtest"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type apiClient struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T) (*apiClient, *gorm.DB) {
	t.Helper()
	gdb := dbtest.Open(t)
	cfg := config.Config{
		JWTSecret:          "test_secret",
		AccessTokenTTL:     15 * time.Minute,
		FEURL:              "http://localhost:5173",
		RateLimitRPS:       1000,
		RateLimitBurst:     1000,
		RateLimitExpiresIn: time.Minute,
		OrderNumberPrefix:  "ORD",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e, err := Build(cfg, gdb, logger, usecase.SystemClock{}, usecase.UUIDSuffixGenerator{})
	require.NoError(t, err)
	return &apiClient{t: t, e: e}, gdb
}

func (a *apiClient) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *apiClient) decode(rec *httptest.ResponseRecorder, dst interface{}) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

// 登録してログインし、access tokenを返す
func (a *apiClient) signup(email string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"password": "correct-horse-1",
		"name":     email,
		"campus":   "main",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return a.login(email)
}

func (a *apiClient) login(email string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "correct-horse-1",
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Token struct {
			AccessToken string `json:"access_token"`
		} `json:"token"`
	}
	a.decode(rec, &out)
	require.NotEmpty(a.t, out.Token.AccessToken)
	return out.Token.AccessToken
}

func TestHealth(t *testing.T) {
	api, _ := newTestServer(t)

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/ready", "", nil).Code)
}

func TestMarketplaceFlow(t *testing.T) {
	api, gdb := newTestServer(t)

	seller := api.signup("seller@campus.edu")
	buyer := api.signup("buyer@campus.edu")

	rec := api.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email": "seller@campus.edu", "password": "correct-horse-1", "name": "dup",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// 出品
	rec = api.do(http.MethodPost, "/products", seller, map[string]interface{}{
		"title":     "Desk Lamp",
		"price":     "12.50",
		"condition": "Good",
		"campus":    "main",
		"quantity":  3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product struct {
		ID    int64  `json:"id"`
		Price string `json:"price"`
	}
	api.decode(rec, &product)
	assert.Equal(t, "12.50", product.Price)

	// 未ログインでは出品できない
	rec = api.do(http.MethodPost, "/products", "", map[string]interface{}{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// 注文（2個）
	rec = api.do(http.MethodPost, "/orders", buyer, map[string]interface{}{
		"items": []map[string]int64{{"product_id": product.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order struct {
		ID          int64  `json:"id"`
		Status      string `json:"status"`
		TotalAmount string `json:"total_amount"`
	}
	api.decode(rec, &order)
	assert.Equal(t, string(model.OrderStatusWaitingToMeet), order.Status)
	assert.Equal(t, "25.00", order.TotalAmount)

	// 詳細は金額2桁のまま在庫も返す
	rec = api.do(http.MethodGet, fmt.Sprintf("/products/%d", product.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var detail struct {
		Price     string `json:"price"`
		Inventory struct {
			Available int64 `json:"available"`
		} `json:"inventory"`
	}
	api.decode(rec, &detail)
	assert.Equal(t, "12.50", detail.Price)
	assert.Equal(t, int64(1), detail.Inventory.Available)

	// 残り1個なので2個は買えない
	rec = api.do(http.MethodPost, "/orders", buyer, map[string]interface{}{
		"items": []map[string]int64{{"product_id": product.ID, "quantity": 2}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 自分の出品は買えない
	rec = api.do(http.MethodPost, "/orders", seller, map[string]interface{}{
		"items": []map[string]int64{{"product_id": product.ID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	orderPath := fmt.Sprintf("/orders/%d", order.ID)
	rec = api.do(http.MethodPatch, orderPath+"/confirm", buyer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	api.decode(rec, &order)
	assert.Equal(t, string(model.OrderStatusWaitingToMeet), order.Status)

	rec = api.do(http.MethodPatch, orderPath+"/confirm", seller, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	api.decode(rec, &order)
	assert.Equal(t, string(model.OrderStatusMetAndExchanged), order.Status)

	rec = api.do(http.MethodPatch, orderPath+"/cancel", buyer, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// 在庫（注文から集計）
	rec = api.do(http.MethodGet, fmt.Sprintf("/products/%d/inventory", product.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "inventory_after_exchange", rec.Body.Bytes())

	// レビュー
	rec = api.do(http.MethodPost, orderPath+"/review", buyer, map[string]interface{}{"rating": 5, "comment": "bright"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sellerUser model.User
	require.NoError(t, gdb.Where("email = ?", "seller@campus.edu").First(&sellerUser).Error)
	rec = api.do(http.MethodGet, fmt.Sprintf("/sellers/%d/reviews", sellerUser.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reviews struct {
		Summary model.SellerRatingSummary `json:"summary"`
	}
	api.decode(rec, &reviews)
	assert.Equal(t, 1, reviews.Summary.TotalReviews)
	assert.Equal(t, 5.0, reviews.Summary.AverageRating)
}

func TestAdminRoutes(t *testing.T) {
	api, gdb := newTestServer(t)

	buyer := api.signup("buyer@campus.edu")
	api.signup("root@campus.edu")
	require.NoError(t, gdb.Model(&model.User{}).
		Where("email = ?", "root@campus.edu").
		Update("role", model.RoleAdmin).Error)
	// ロール変更後にログインし直す
	root := api.login("root@campus.edu")

	rec := api.do(http.MethodGet, "/admin/orders", buyer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodGet, "/admin/orders?page=1&limit=10", root, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var buyerUser model.User
	require.NoError(t, gdb.Where("email = ?", "buyer@campus.edu").First(&buyerUser).Error)

	rec = api.do(http.MethodPost, fmt.Sprintf("/admin/users/%d/force-logout", buyerUser.ID), root, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// 古いトークンは使えない
	rec = api.do(http.MethodGet, "/orders", buyer, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodGet, "/orders", api.login("buyer@campus.edu"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/admin/audit-logs?action=force_logout", root, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var logs []model.AuditLog
	api.decode(rec, &logs)
	require.Len(t, logs, 1)
	assert.Equal(t, buyerUser.ID, logs[0].ResourceID)

	rec = api.do(http.MethodGet, "/admin/audit-logs?action=force_logout,bogus", root, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
