/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/gnprotocol/config"
	"github.com/humaidq/gnprotocol/db"
	"github.com/humaidq/gnprotocol/models"
	"github.com/humaidq/gnprotocol/routes"
	"github.com/humaidq/gnprotocol/static"
	"github.com/humaidq/gnprotocol/templates"
)

var CmdStart = &cli.Command{
	Name:    "start",
	Aliases: []string{"run"},
	Usage:   "Start the web server",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "port",
			Value:   "8080",
			Sources: cli.EnvVars("PORT"),
			Usage:   "the web server port",
		},
		&cli.StringFlag{
			Name:    "csrf-secret",
			Sources: cli.EnvVars("CSRF_SECRET"),
			Usage:   "secret used to sign CSRF tokens",
		},
		&cli.BoolFlag{
			Name:  "dev",
			Value: false,
			Usage: "enables development mode (templates are read from disk)",
		},
	}, artifactFlags()...),
	Action: start,
}

// appOptions holds everything the web application is built from.
type appOptions struct {
	Artifacts  *models.Artifacts
	AllowList  *config.AllowList
	SiteTitle  string
	CSRFSecret string
	Dev        bool
}

func start(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	allow, err := config.NewAllowList(cfg.Users)
	if err != nil {
		return fmt.Errorf("invalid allow-list: %w", err)
	}
	appLogger.Info("Loaded allow-list", "users", allow.Len())

	dev := cmd.Bool("dev")
	csrfSecret := cmd.String("csrf-secret")
	if csrfSecret == "" {
		if !dev {
			return errCSRFSecretRequired
		}
		csrfSecret = uuid.NewString()
		appLogger.Warn("Using a random CSRF secret in development mode")
	}

	artifacts, err := loadArtifacts(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := newApp(appOptions{
		Artifacts:  artifacts,
		AllowList:  allow,
		SiteTitle:  cfg.SiteTitle,
		CSRFSecret: csrfSecret,
		Dev:        dev,
	})
	if err != nil {
		return err
	}

	port := cmd.String("port")

	// Every task may call a remote scorer in turn.
	writeTimeout := time.Duration(len(models.Tasks))*cfg.RemoteTimeout + 10*time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", port),
		Handler:           f,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      writeTimeout,
		ErrorLog:          requestStdLogger,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Failed to shut down web server", "error", err)
		}
	}()

	appLogger.Info("Starting web server", "port", port, "dev", dev)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server failed: %w", err)
	}

	appLogger.Info("Web server stopped")
	return nil
}

func newApp(opts appOptions) (*flamego.Flame, error) {
	f := flamego.New()
	f.Use(flamego.Recovery())
	f.Use(routes.NoCacheHeaders())

	templateOpts := template.Options{}
	if opts.Dev {
		templateOpts.Directory = "templates"
	} else {
		fs, err := template.EmbedFS(templates.Templates, ".", []string{".html"})
		if err != nil {
			return nil, fmt.Errorf("failed to load templates: %w", err)
		}
		templateOpts.FileSystem = fs
	}

	f.Use(session.Sessioner())
	// RequestLogger reads the session, so it must follow the Sessioner.
	f.Use(routes.RequestLogger)
	f.Use(csrf.Csrfer(csrf.Options{
		Secret: opts.CSRFSecret,
	}))
	f.Use(template.Templater(templateOpts))
	f.Use(flamego.Static(flamego.StaticOptions{
		FileSystem: http.FS(static.Static),
	}))

	f.Use(routes.SiteTitleInjector(opts.SiteTitle))
	f.Use(routes.FlashInjector())
	f.Use(routes.CSRFInjector())
	f.Use(routes.UserContextInjector())

	f.Map(opts.Artifacts)
	f.Map(opts.AllowList)

	configureEmptyNotFoundHandler(f)

	f.Get("/healthz", routes.Healthz)

	f.Get("/login", routes.LoginForm)
	f.Post("/login", csrf.Validate, routes.Login)

	f.Group("", func() {
		f.Get("/", routes.PredictionForm)
		f.Post("/predict", csrf.Validate, routes.Predict)
		f.Get("/logout", routes.Logout)
	}, routes.RequireAuth)

	f.Group("/api", func() {
		f.Post("/predict", routes.PredictAPI)
	}, routes.RequireAPIAuth)

	return f, nil
}

// configureEmptyNotFoundHandler answers unknown paths with a bare 404.
func configureEmptyNotFoundHandler(f *flamego.Flame) {
	f.NotFound(func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
	})
}
