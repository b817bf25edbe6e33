package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/heistgames/tournament-hub/config"
	"github.com/heistgames/tournament-hub/db"
	"github.com/heistgames/tournament-hub/middleware"
	"github.com/heistgames/tournament-hub/models"
	"github.com/heistgames/tournament-hub/repositories"
	"github.com/heistgames/tournament-hub/services"
	"github.com/urfave/cli/v2"
)

// @title HeistGames Tournament Hub API
// @version 1.0
// @description Tournament registration, leaderboards and sponsors for the HeistGames community.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := &cli.App{
		Name:  "tournament-hub",
		Usage: "HeistGames tournament backend",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			usersCommand(),
			tokenCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// setup загружает конфигурацию и ставит JSON-логгер по умолчанию.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func connectDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	opts := db.DefaultOptions()
	opts.MaxOpenConns = cfg.DBMaxOpenConns
	opts.MaxIdleConns = cfg.DBMaxOpenConns

	dbConn, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("database connection established")
	return dbConn, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create tables and constraints if they do not exist",
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			dbConn, err := connectDB(c.Context, cfg, logger)
			if err != nil {
				return err
			}
			defer dbConn.Close()

			if err := db.CreateSchema(c.Context, dbConn); err != nil {
				return err
			}
			logger.Info("schema is up to date")
			return nil
		},
	}
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "manage users",
		Subcommands: []*cli.Command{
			{
				Name:  "create-admin",
				Usage: "create a user with the ADMIN role",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"ADMIN_PASSWORD"}},
					&cli.StringFlag{Name: "first-name", Value: "Admin"},
					&cli.StringFlag{Name: "last-name", Value: "HeistGames"},
				},
				Action: func(c *cli.Context) error {
					cfg, logger, err := setup()
					if err != nil {
						return err
					}
					dbConn, err := connectDB(c.Context, cfg, logger)
					if err != nil {
						return err
					}
					defer dbConn.Close()

					authService := services.NewAuthService(
						repositories.NewPostgresUserRepository(dbConn),
						services.LogMailer{Logger: logger},
						cfg.AuthSecret,
						cfg.PublicURL,
						logger,
					)
					user, err := authService.CreateUser(c.Context, services.CreateUserInput{
						FirstName: c.String("first-name"),
						LastName:  c.String("last-name"),
						Email:     c.String("email"),
						Password:  c.String("password"),
						Role:      models.RoleAdmin,
					})
					if err != nil {
						return err
					}

					fmt.Fprintf(c.App.Writer, "created admin %s (%s)\n", user.Email, user.ID)
					return nil
				},
			},
		},
	}
}

// tokenCommand выпускает токен сессии для ручной проверки API без внешнего провайдера.
func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue a session token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user-id", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "role", Value: string(models.RoleUser)},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
		},
		Action: func(c *cli.Context) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}

			token, err := middleware.NewSessionToken(cfg.AuthSecret, middleware.Session{
				ID:    c.String("user-id"),
				Email: c.String("email"),
				Role:  models.UserRole(c.String("role")),
			}, c.Duration("ttl"))
			if err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
