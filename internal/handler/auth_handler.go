package handler

import (
	"errors"
	"log/slog"
	"net/http"

	auth "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/usecase/auth_usecase"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/validator"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
}

// DIコンストラクタ
func NewAuthHandler(registerUC *auth.RegisterUserUsecase, loginUC *auth.LoginUsecase) *AuthHandler {
	return &AuthHandler{registerUC: registerUC, loginUC: loginUC}
}

// /auth/register のリクエストボディ。
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Campus   string `json:"campus"`
}

// /auth/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

// RegisterはPOST /auth/registerのハンドラ
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Campus:   req.Campus,
	})
	if err != nil {
		switch {
		case errors.Is(err, validator.ErrInvalidInput),
			errors.Is(err, validator.ErrPasswordTooShort),
			errors.Is(err, validator.ErrWeakPassword):
			return c.JSON(http.StatusBadRequest, errorJSON(err.Error()))
		case errors.Is(err, auth.ErrEmailAlreadyExists):
			return c.JSON(http.StatusConflict, errorJSON("email already exists"))
		default:
			slog.ErrorContext(c.Request().Context(), "register failed", slog.Any("error", err))
			return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
		}
	}

	return c.JSON(http.StatusCreated, out)
}

// LoginはPOST /auth/login のハンドラ。
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("invalid body"))
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, validator.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, errorJSON(err.Error()))
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, errorJSON("invalid credentials"))
		case errors.Is(err, auth.ErrUserInactive):
			return c.JSON(http.StatusForbidden, errorJSON("user is inactive"))
		default:
			slog.ErrorContext(c.Request().Context(), "login failed", slog.Any("error", err))
			return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
		}
	}

	return c.JSON(http.StatusOK, out)
}
