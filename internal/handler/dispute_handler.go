package handler

import (
	"net/http"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/config"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/middleware"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 注文の当事者が使う紛争API
type DisputeHandler struct {
	uc *usecase.DisputeUsecase
}

func NewDisputeHandler(uc *usecase.DisputeUsecase) *DisputeHandler {
	return &DisputeHandler{uc: uc}
}

type DisputeOpenRequest struct {
	Reason string `json:"reason"`
}

type DisputeMessageRequest struct {
	Text string `json:"text"`
}

func (h *DisputeHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	authed := []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
	}

	e.POST("/orders/:id/disputes", h.open, authed...)

	g := e.Group("/disputes", authed...)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.POST("/:id/messages", h.addMessage)
	g.POST("/:id/withdraw", h.withdraw)
}

func (h *DisputeHandler) open(c echo.Context) error {
	actor, orderID, ok := actorAndID(c)
	if !ok {
		return nil
	}

	var req DisputeOpenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Open(c.Request().Context(), actor, orderID, req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *DisputeHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMine(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DisputeHandler) detail(c echo.Context) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return nil
	}

	out, err := h.uc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DisputeHandler) addMessage(c echo.Context) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return nil
	}

	var req DisputeMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddMessage(c.Request().Context(), actor, id, req.Text)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *DisputeHandler) withdraw(c echo.Context) error {
	actor, id, ok := actorAndID(c)
	if !ok {
		return nil
	}

	out, err := h.uc.Withdraw(c.Request().Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
