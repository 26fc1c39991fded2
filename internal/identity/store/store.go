// Package store persists analyses. Every backend returns pkgerror.ErrNotFound
// for unknown ids and a CodeConflict business error for duplicate inserts.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/shandysiswandi/gounified/internal/identity/entity"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gounified/unified"
)

//nolint:gochecknoglobals // shared sentinel
var errConflict = pkgerror.NewBusiness("analysis already exists", pkgerror.CodeConflict)

// Store is the set of operations every backend provides.
type Store interface {
	CreateAnalysis(ctx context.Context, a entity.Analysis) error
	UpdateAnalysis(ctx context.Context, id unified.ID, fn func(a *entity.Analysis)) error
	GetAnalysis(ctx context.Context, id unified.ID) (entity.Analysis, error)
	Close(ctx context.Context) error
}

// maxUpdateRetries bounds optimistic read-modify-write loops.
const maxUpdateRetries = 5

// Drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
)

// Open builds the backend named by store.driver.
func Open(ctx context.Context, cfg pkgconfig.Config) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.GetString("store.driver")))

	switch driver {
	case "", DriverMemory:
		return NewInMemoryStore(), nil
	case DriverSQLite:
		return NewSQLiteStore(ctx, cfg.GetString("store.sqlite.path"))
	case DriverRedis:
		return NewRedisStore(ctx, RedisOptions{
			Address:  cfg.GetString("store.redis.address"),
			Password: cfg.GetString("store.redis.password"),
			DB:       int(cfg.GetInt("store.redis.db")),
		})
	case DriverMongo:
		return NewMongoStore(ctx, cfg.GetString("store.mongo.uri"), cfg.GetString("store.mongo.database"))
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
