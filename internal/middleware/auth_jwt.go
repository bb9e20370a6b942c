package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/config"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// echo.Contextに入れる値のキー
const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // model.Role
	CtxTokenVersionKey = "token_version" // int
)

var errBadClaims = errors.New("bad claims")

// access tokenから取り出す値（auth.JWTIssuerが入れたsub/role/tv）
type accessClaims struct {
	UserID       int64
	Role         model.Role
	TokenVersion int
}

// Authorization: Bearer <token> を検証してcontextにuser_id/role/tvを入れる。
// roleはここでは仮の値で、TokenVersionGuardがDBの値で上書きする。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	secret := []byte(cfg.JWTSecret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request())
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			claims, err := parseAccessToken(raw, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxUserIDKey, claims.UserID)
			c.Set(CtxUserRoleKey, claims.Role)
			c.Set(CtxTokenVersionKey, claims.TokenVersion)
			return next(c)
		}
	}
}

// AuthJWTより後ろでだけ使う
func UserIDFrom(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxUserIDKey).(int64)
	return id, ok && id > 0
}

func RoleFrom(c echo.Context) (model.Role, bool) {
	role, ok := c.Get(CtxUserRoleKey).(model.Role)
	return role, ok && role.Valid()
}

func tokenVersionFrom(c echo.Context) (int, bool) {
	tv, ok := c.Get(CtxTokenVersionKey).(int)
	return tv, ok && tv >= 0
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get(echo.HeaderAuthorization), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// HS256以外・期限切れ・claim不足はすべてエラー
func parseAccessToken(raw string, secret []byte) (accessClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return accessClaims{}, errBadClaims
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return accessClaims{}, errBadClaims
	}

	var out accessClaims
	if out.UserID, err = claimInt64(mc["sub"]); err != nil || out.UserID <= 0 {
		return accessClaims{}, errBadClaims
	}
	role, ok := mc["role"].(string)
	if out.Role = model.Role(role); !ok || !out.Role.Valid() {
		return accessClaims{}, errBadClaims
	}
	tv, err := claimInt64(mc["tv"])
	if err != nil || tv < 0 || tv > int64(^uint32(0)>>1) {
		return accessClaims{}, errBadClaims
	}
	out.TokenVersion = int(tv)
	return out, nil
}

// JSONの数値はfloat64で来る。subは文字列で発行している。
func claimInt64(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		if t != float64(int64(t)) {
			return 0, errBadClaims
		}
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errBadClaims
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
