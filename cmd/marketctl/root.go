package main

import (
	"log/slog"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/config"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/infra/db"
	infraRepo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/infra/repository"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/usecase"
	auth "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/usecase/auth_usecase"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// サブコマンドで共有する接続とusecase
type app struct {
	logger *slog.Logger
	cfg    config.Config
	db     *gorm.DB
}

func newRootCommand(logger *slog.Logger) *cobra.Command {
	a := &app{logger: logger}
	var envFile string

	cmd := &cobra.Command{
		Use:           "marketctl",
		Short:         "Campus marketplace maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv(envFile)
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gdb, err := db.Connect(cfg)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.db = gdb
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	cmd.AddCommand(newMigrateCommand(a))
	cmd.AddCommand(newSeedCommand(a))
	cmd.AddCommand(newPromoteAdminCommand(a))
	cmd.AddCommand(newResetOrderCommand(a))
	return cmd
}

func (a *app) adminUsers() *usecase.AdminUserUsecase {
	return usecase.NewAdminUserUsecase(
		infraRepo.NewUserGormRepository(a.db),
		infraRepo.NewAuditLogGormRepository(a.db),
		usecase.SystemClock{},
	)
}

func (a *app) adminOrders() *usecase.AdminOrderUsecase {
	return usecase.NewAdminOrderUsecase(
		infraRepo.NewTxManagerGorm(a.db),
		infraRepo.NewOrderGormRepository(a.db),
		infraRepo.NewUserGormRepository(a.db),
		infraRepo.NewAuditLogGormRepository(a.db),
		usecase.SystemClock{},
	)
}

func (a *app) registerUser() *auth.RegisterUserUsecase {
	return auth.NewRegisterUserUsecase(
		infraRepo.NewUserGormRepository(a.db),
		auth.NewBcryptPasswordHasher(12),
		usecase.SystemClock{},
	)
}

func (a *app) products() *usecase.ProductUsecase {
	users := infraRepo.NewUserGormRepository(a.db)
	return usecase.NewProductUsecase(
		infraRepo.NewTxManagerGorm(a.db),
		infraRepo.NewProductGormRepository(a.db),
		infraRepo.NewInventoryGormRepository(a.db),
		users,
	)
}
