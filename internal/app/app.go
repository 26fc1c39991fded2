package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/gounified/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gounified/internal/pkg/pkglog"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gounified/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uid       pkguid.StringID
	sources   map[string]pkguid.Source
	goroutine *pkgroutine.Manager

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	closers []closer
}

func New() *App {
	pkglog.InitLogging("info")

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
