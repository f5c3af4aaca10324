// Command seed provisions employee accounts. Employees are never
// created through the API, so operators run this against the database
// before bringing up the portal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/oaitse/payportal/internal/auth"
	"github.com/oaitse/payportal/internal/config"
	"github.com/oaitse/payportal/internal/domain"
	"github.com/oaitse/payportal/internal/logging"
	"github.com/oaitse/payportal/internal/store"
)

func main() {
	username := flag.String("username", "", "employee username")
	email := flag.String("email", "", "employee email")
	role := flag.String("role", domain.RoleEmployee, "employee role (employee|admin)")
	password := flag.String("password", "", "initial password")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -username <name> -password <pw> [-email <addr>] [-role employee|admin]")
		os.Exit(2)
	}
	if *role != domain.RoleEmployee && *role != domain.RoleAdmin {
		fmt.Fprintf(os.Stderr, "invalid role %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL must be set")
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	ctx := context.Background()

	st, err := store.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("closing store failed", "error", err)
		}
	}()

	hash, err := auth.NewHasher(cfg.Auth.BcryptCost).Hash(*password)
	if err != nil {
		logger.Error("password hashing failed", "error", err)
		os.Exit(1)
	}

	id, err := st.CreateEmployee(ctx, domain.Employee{
		Username:     *username,
		Email:        *email,
		Role:         *role,
		PasswordHash: hash,
	})
	if err != nil {
		logger.Error("employee creation failed", "error", err, "username", *username)
		os.Exit(1)
	}

	logger.Info("employee created", "id", id, "username", *username, "role", *role)
}
