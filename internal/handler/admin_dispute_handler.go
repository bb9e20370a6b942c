package handler

import (
	"net/http"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 状態変更の入力。resolvedのときはresolutionが必要。
type DisputeStatusUpdateRequest struct {
	Status     string `json:"status"`
	Resolution string `json:"resolution"`
}

// /admin/disputes
type AdminDisputeHandler struct {
	uc *usecase.DisputeUsecase
}

// DI
func NewAdminDisputeHandler(uc *usecase.DisputeUsecase) *AdminDisputeHandler {
	return &AdminDisputeHandler{uc: uc}
}

func (h *AdminDisputeHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/disputes", h.list)
	admin.GET("/disputes/:id", h.detail)
	admin.PATCH("/disputes/:id/status", h.updateStatus)
	admin.DELETE("/disputes/:id", h.delete)
}

func (h *AdminDisputeHandler) list(c echo.Context) error {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	out, err := h.uc.AdminList(c.Request().Context(), repository.DisputeListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminDisputeHandler) detail(c echo.Context) error {
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

func (h *AdminDisputeHandler) updateStatus(c echo.Context) error {
	adminID, id, ok := adminAndID(c)
	if !ok {
		return nil
	}

	var req DisputeStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AdminUpdateStatus(c.Request().Context(), adminID, id, usecase.UpdateDisputeStatusInput{
		Status:     req.Status,
		Resolution: req.Resolution,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 論理削除（注文からの参照は残る）
func (h *AdminDisputeHandler) delete(c echo.Context) error {
	adminID, id, ok := adminAndID(c)
	if !ok {
		return nil
	}

	if err := h.uc.AdminDelete(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
