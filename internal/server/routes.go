package server

import (
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/config"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/handler"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/middleware"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"

	"github.com/labstack/echo/v4"
)

// ルーティングに必要なもの（cmd/apiで組み立てる）
type Deps struct {
	UserRepo repository.UserRepository

	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Order        *handler.OrderHandler
	Dispute      *handler.DisputeHandler
	Review       *handler.ReviewHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminDispute *handler.AdminDisputeHandler
	AdminUser    *handler.AdminUserHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, d Deps) {
	d.Auth.RegisterRoutes(e)
	d.Product.RegisterRoutes(e, cfg, d.UserRepo)
	d.Order.RegisterRoutes(e, cfg, d.UserRepo)
	d.Dispute.RegisterRoutes(e, cfg, d.UserRepo)
	d.Review.RegisterRoutes(e, cfg, d.UserRepo)

	// /admin 配下は全部「JWT必須 + token_version一致 + ADMIN限定」
	admin := e.Group(
		"/admin",
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(d.UserRepo),
		middleware.AdminRoleGuard(),
	)
	d.AdminOrder.RegisterRoutes(admin)
	d.AdminDispute.RegisterRoutes(admin)
	d.AdminUser.RegisterRoutes(admin)
}
