package main

import (
	"fmt"
	"regexp"
	"time"

	"loan-origination/internal/adapter/middleware"
	"loan-origination/internal/adapter/repository/mysql"
	"loan-origination/internal/config"
	"loan-origination/internal/domain/loantype"
	"loan-origination/internal/domain/user"
	"loan-origination/internal/infrastructure/db"
	"loan-origination/internal/infrastructure/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var reUserID = regexp.MustCompile(`^[a-f0-9]{32}$`)

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if _, err := logger.Init(cfg.LogLevel); err != nil {
		return nil, err
	}
	return db.OpenGorm(cfg.DBDriver, cfg.DSN())
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gdb, err := openDB(config.Load())
			if err != nil {
				return err
			}
			if err := mysql.Migrate(gdb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var adminID, adminEmail string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the reference loan type catalog and an optional admin user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var users []user.User
			if adminID != "" {
				if !reUserID.MatchString(adminID) {
					return fmt.Errorf("--admin-id must be 32-char lowercase hex")
				}
				if adminEmail == "" {
					return fmt.Errorf("--admin-email is required with --admin-id")
				}
				users = append(users, user.User{UserID: adminID, Email: adminEmail, Role: user.RoleAdmin})
			}

			gdb, err := openDB(config.Load())
			if err != nil {
				return err
			}
			catalog := loantype.DefaultCatalog()
			if err := mysql.Seed(cmd.Context(), gdb, catalog, users); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d loan types, %d users\n", len(catalog), len(users))
			return nil
		},
	}
	cmd.Flags().StringVar(&adminID, "admin-id", "", "public id of the admin user to upsert")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "e-mail of the admin user")
	return cmd
}

// tokenCmd mints a bearer token signed with JWT_SECRET, for local testing
// against a running server.
func tokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if cfg.JWTSecret == "" {
				return fmt.Errorf("missing JWT_SECRET")
			}
			if !reUserID.MatchString(userID) {
				return fmt.Errorf("--user must be 32-char lowercase hex")
			}
			r := user.Role(role)
			if r != user.RoleCustomer && r != user.RoleAdmin {
				return fmt.Errorf("--role must be customer or admin")
			}
			tok, err := middleware.IssueToken([]byte(cfg.JWTSecret), userID, r, ttl, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "public user id (32-char lowercase hex)")
	cmd.Flags().StringVar(&role, "role", string(user.RoleCustomer), "customer or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
