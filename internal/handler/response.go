package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/middleware"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func errorJSON(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			slog.ErrorContext(c.Request().Context(), "request failed",
				slog.String("path", c.Path()),
				slog.String("error", he.Message),
			)
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	slog.ErrorContext(c.Request().Context(), "unexpected error",
		slog.String("path", c.Path()),
		slog.Any("error", err),
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// AuthJWTが入れたuser_id
func getUserIDFromContext(c echo.Context) (int64, bool) {
	return middleware.UserIDFrom(c)
}

// user_id + role（roleはTokenVersionGuardがDBの値で上書き済み）
func getActorFromContext(c echo.Context) (usecase.Actor, bool) {
	id, ok := getUserIDFromContext(c)
	if !ok {
		return usecase.Actor{}, false
	}
	role, _ := middleware.RoleFrom(c)
	return usecase.Actor{UserID: id, Role: role}, true
}

// 取れなかったらレスポンスはここで書く
func actorAndID(c echo.Context) (usecase.Actor, int64, bool) {
	actor, ok := getActorFromContext(c)
	if !ok {
		_ = c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return usecase.Actor{}, 0, false
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		_ = c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return usecase.Actor{}, 0, false
	}
	return actor, id, true
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// 空ならdef
func queryInt(c echo.Context, name string, def int) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func queryInt64Ptr(c echo.Context, name string) (*int64, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, false
	}
	return &n, true
}
