package pkgconfig

import "io"

// Config is the read-only view of the service configuration.
type Config interface {
	io.Closer

	GetInt(key string) int64
	GetBool(key string) bool
	GetFloat(key string) float64
	GetString(key string) string
	GetBinary(key string) []byte
	GetArray(key string) []string
	GetMap(key string) map[string]string
}

// Defaults are applied before the config file is read.
//
//nolint:gochecknoglobals // static defaults
var Defaults = map[string]any{
	"tz":                             "UTC",
	"log.level":                      "info",
	"server.address.http":            ":8080",
	"goroutine.max":                  100,
	"modules.identity.enabled":       true,
	"identity.id_source":             "random",
	"identity.partition.count":       1024,
	"identity.partition.tier":        "standard",
	"identity.generate.max":          1000,
	"identity.analysis.max_samples":  10_000_000,
	"identity.analysis.alert_spread": 10.0,
	"store.driver":                   "memory",
	"store.sqlite.path":              "gounified.db",
	"store.redis.address":            "localhost:6379",
	"store.redis.password":           "",
	"store.redis.db":                 0,
	"store.mongo.uri":                "mongodb://localhost:27017",
	"store.mongo.database":           "gounified",
}

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "GOUNIFIED"
