package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/infra/db"
	infraRepo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/infra/repository"
	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/seed"

	"github.com/spf13/cobra"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.Migrate(a.db); err != nil {
				return err
			}
			a.logger.Info("migrated")
			return nil
		},
	}
}

func newSeedCommand(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users and listings from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.Load(file)
			if err != nil {
				return err
			}
			s := &seed.Seeder{
				Users:    infraRepo.NewUserGormRepository(a.db),
				Register: a.registerUser(),
				Products: a.products(),
				Admins:   a.adminUsers(),
			}
			res, err := s.Apply(cmd.Context(), f)
			if err != nil {
				return err
			}
			a.logger.Info("seeded",
				slog.Int("users_created", res.UsersCreated),
				slog.Int("users_skipped", res.UsersSkipped),
				slog.Int("listings_created", res.ListingsCreated),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "seed.yaml", "seed file")
	return cmd
}

func newPromoteAdminCommand(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "promote-admin",
		Short: "Grant the ADMIN role to a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			u, err := a.adminUsers().PromoteAdmin(cmd.Context(), 0, email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d (%s) is now %s\n", u.ID, u.Email, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user to promote")
	return cmd
}

func newResetOrderCommand(a *app) *cobra.Command {
	var orderID, actorID int64
	cmd := &cobra.Command{
		Use:   "reset-order",
		Short: "Force an order back to waiting_to_meet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if orderID <= 0 || actorID <= 0 {
				return errors.New("--id and --actor are required")
			}
			o, err := a.adminOrders().Reset(cmd.Context(), actorID, orderID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %s is %s\n", o.OrderNumber, o.Status)
			return nil
		},
	}
	cmd.Flags().Int64Var(&orderID, "id", 0, "order id")
	cmd.Flags().Int64Var(&actorID, "actor", 0, "admin user id recorded in the audit log")
	return cmd
}
