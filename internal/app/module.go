package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gounified/internal/identity"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.identity.enabled") {
		closeFn, err := identity.New(identity.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uid,
			Sources:   a.sources,
		})
		if err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
		a.addCloser("Identity", closeFn)
	}
}
