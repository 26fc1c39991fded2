package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	"github.com/shandysiswandi/gounified/internal/identity/usecase"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gounified/internal/pkg/pkglog"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gounified/internal/pkg/pkguid"
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	pkglog.InitLogging(cfg.GetString("log.level"))

	a.config = cfg
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(int(a.config.GetInt("goroutine.max")))

	random := pkguid.NewUnified()
	a.uid = random
	a.sources = map[string]pkguid.Source{
		usecase.SourceRandom: random,
	}

	sf, err := pkguid.NewSnowflake()
	if err != nil {
		slog.Warn("snowflake source disabled", "error", err)
		return
	}
	a.sources[usecase.SourceSnowflake] = pkguid.NewSequenced(sf)
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uid)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (a *App) initClosers() {
	a.addCloser("Goroutine Pool", func(context.Context) error {
		return a.goroutine.Release()
	})
	a.addCloser("Config", func(context.Context) error {
		return a.config.Close()
	})
}
