package server

import (
	"log/slog"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/config"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/handler"
	infraRepo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/infra/repository"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/usecase"
	auth "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// bcryptのコスト
const passwordHashCost = 12

// Repository → Usecase → Handler を組み立てる
func Wire(cfg config.Config, gormDB *gorm.DB, logger *slog.Logger, clock usecase.Clock, suffix usecase.SuffixGenerator) (Deps, error) {
	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	disputeRepo := infraRepo.NewDisputeGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	tx := infraRepo.NewTxManagerGorm(gormDB)

	//JWT issuer
	issuer, err := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		return Deps{}, err
	}

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, auth.NewBcryptPasswordHasher(passwordHashCost), clock)
	loginUC := auth.NewLoginUsecase(userRepo, auth.NewBcryptPasswordVerifier(), issuer, clock)
	productUC := usecase.NewProductUsecase(tx, productRepo, inventoryRepo, userRepo)
	inventoryUC := usecase.NewInventoryUsecase(productRepo, inventoryRepo)
	orderUC := usecase.NewOrderUsecase(tx, orderRepo, productRepo, disputeRepo, clock, suffix, cfg.OrderNumberPrefix, logger)
	disputeUC := usecase.NewDisputeUsecase(tx, disputeRepo, clock)
	reviewUC := usecase.NewReviewUsecase(orderRepo, reviewRepo, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(tx, orderRepo, userRepo, auditRepo, clock)
	adminUserUC := usecase.NewAdminUserUsecase(userRepo, auditRepo, clock)

	//Handler生成
	return Deps{
		UserRepo:     userRepo,
		Auth:         handler.NewAuthHandler(registerUC, loginUC),
		Product:      handler.NewProductHandler(productUC, inventoryUC),
		Order:        handler.NewOrderHandler(orderUC),
		Dispute:      handler.NewDisputeHandler(disputeUC),
		Review:       handler.NewReviewHandler(reviewUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		AdminDispute: handler.NewAdminDisputeHandler(disputeUC),
		AdminUser:    handler.NewAdminUserHandler(adminUserUC),
	}, nil
}

// DBからechoまで一括で作る（cmd/apiとテストで使う）
func Build(cfg config.Config, gormDB *gorm.DB, logger *slog.Logger, clock usecase.Clock, suffix usecase.SuffixGenerator) (*echo.Echo, error) {
	deps, err := Wire(cfg, gormDB, logger, clock, suffix)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	return New(cfg, logger, sqlDB, deps), nil
}
