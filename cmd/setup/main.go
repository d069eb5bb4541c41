// Command setup prepares a storefront database: it applies the schema,
// creates the role catalog and optionally loads fixtures, a superuser and
// role memberships.
package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/georgemunganga/storefront/internal/config"
	"github.com/georgemunganga/storefront/internal/database"
	"github.com/georgemunganga/storefront/internal/logger"
	"github.com/georgemunganga/storefront/internal/modules/auth"
	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/modules/contact"
	"github.com/georgemunganga/storefront/internal/modules/mail"
	"github.com/georgemunganga/storefront/internal/modules/user"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	flags := pflag.NewFlagSet("setup", pflag.ExitOnError)
	migrate := flags.Bool("migrate", true, "apply the database schema")
	roles := flags.Bool("roles", true, "create the Moderators and Content Managers roles")
	fixtures := flags.StringP("fixtures", "f", "", "JSON fixture file with categories, products and contact info")
	owner := flags.String("owner", "", "email of the user who owns fixture products")
	superuser := flags.String("superuser", "", "create an active superuser with this email")
	password := flags.String("password", "", "password for --superuser")
	memberships := flags.StringSlice("add-role", nil, "add a user to a role, as email=Role (repeatable)")
	envFile := flags.String("env", ".env", "optional env file")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		zap.S().Fatalw("connect database", "error", err)
	}
	defer db.Close()

	if *migrate {
		if err := database.Migrate(ctx, db); err != nil {
			zap.S().Fatalw("migrate", "error", err)
		}
		zap.S().Info("schema applied")
	}

	userRepo := user.NewPostgresRepository(db)
	users := user.NewService(userRepo, auth.NewTokens(cfg.JWTSecret, cfg.ActivationTTL), mail.LogMailer{}, cfg.BaseURL)

	if *roles {
		created, err := users.SetupRoles(ctx)
		if err != nil {
			zap.S().Fatalw("setup roles", "error", err)
		}
		for _, r := range created {
			zap.S().Infow("role ready", "role", r.Name, "permissions", r.Permissions)
		}
	}

	if *superuser != "" {
		u, err := users.CreateSuperuser(ctx, *superuser, *password)
		if err != nil {
			zap.S().Fatalw("create superuser", "email", *superuser, "error", err)
		}
		zap.S().Infow("superuser created", "email", u.Email)
	}

	for _, m := range *memberships {
		email, role, ok := strings.Cut(m, "=")
		if !ok {
			zap.S().Fatalw("bad --add-role value, want email=Role", "value", m)
		}
		u, err := userRepo.GetUserByEmail(ctx, email)
		if err != nil {
			zap.S().Fatalw("find user", "email", email, "error", err)
		}
		if err := users.AddToRole(ctx, u.ID, role); err != nil {
			zap.S().Fatalw("add to role", "email", email, "role", role, "error", err)
		}
		zap.S().Infow("role assigned", "email", email, "role", role)
	}

	if *fixtures != "" {
		f, err := os.Open(*fixtures)
		if err != nil {
			zap.S().Fatalw("open fixtures", "error", err)
		}
		defer f.Close()
		data, err := parseFixtures(f)
		if err != nil {
			zap.S().Fatalw("parse fixtures", "error", err)
		}
		loader := &fixtureLoader{
			catalog:  catalog.NewPostgresRepository(db),
			contacts: contact.NewPostgresRepository(db),
		}
		if len(data.Products) > 0 {
			if *owner == "" {
				zap.S().Fatal("--owner is required to load products")
			}
			u, err := userRepo.GetUserByEmail(ctx, *owner)
			if err != nil {
				zap.S().Fatalw("find owner", "email", *owner, "error", err)
			}
			loader.ownerID = u.ID
		}
		if err := loader.Load(ctx, data); err != nil {
			zap.S().Fatalw("load fixtures", "error", err)
		}
		zap.S().Infow("fixtures loaded",
			"categories", len(data.Categories),
			"products", len(data.Products),
			"contacts", len(data.Contacts),
		)
	}
}
