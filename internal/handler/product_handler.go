package handler

import (
	"net/http"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/config"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/middleware"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products の公開API + 出品者の作成・更新・削除
type ProductHandler struct {
	uc        *usecase.ProductUsecase
	inventory *usecase.InventoryUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase, inventory *usecase.InventoryUsecase) *ProductHandler {
	return &ProductHandler{uc: uc, inventory: inventory}
}

// 作成・更新のリクエストボディ（priceは文字列でも数値でも受ける）
type ProductRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       jsonDecimal `json:"price"`
	Category    string      `json:"category"`
	Condition   string      `json:"condition"`
	Images      []string    `json:"images"`
	Campus      string      `json:"campus"`
	Quantity    int64       `json:"quantity"`
}

func (r ProductRequest) input() usecase.ProductInput {
	return usecase.ProductInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       string(r.Price),
		Category:    r.Category,
		Condition:   r.Condition,
		Images:      r.Images,
		Campus:      r.Campus,
		Quantity:    r.Quantity,
	}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)
	e.GET("/products/:id/inventory", h.inventorySnapshot)

	g := e.Group("/products")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *ProductHandler) list(c echo.Context) error {
	// page（default 1）
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	// limit（default 20）
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}
	sellerID, ok := queryInt64Ptr(c, "seller_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid seller_id"})
	}

	out, err := h.uc.ListPublicProducts(c.Request().Context(), usecase.ListProductsInput{
		Page:      page,
		Limit:     limit,
		Q:         c.QueryParam("q"),
		Category:  c.QueryParam("category"),
		Campus:    c.QueryParam("campus"),
		Condition: c.QueryParam("condition"),
		SellerID:  sellerID,
		Sort:      c.QueryParam("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	p, err := h.uc.GetProductDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

// 注文から都度集計した在庫
func (h *ProductHandler) inventorySnapshot(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	snap, err := h.inventory.Snapshot(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *ProductHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateProduct(c.Request().Context(), userID, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateProduct(c.Request().Context(), userID, id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 出品者本人か管理者
func (h *ProductHandler) delete(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
