package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shandysiswandi/gounified/internal/identity/event"
	"github.com/shandysiswandi/gounified/internal/identity/inbound"
	"github.com/shandysiswandi/gounified/internal/identity/store"
	"github.com/shandysiswandi/gounified/internal/identity/usecase"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gounified/internal/pkg/pkguid"
	"github.com/shandysiswandi/gounified/unified"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
	Sources   map[string]pkguid.Source
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.Context == nil {
		dep.Context = context.Background()
	}

	settings, err := loadSettings(dep.Config)
	if err != nil {
		return nil, err
	}

	storage, err := store.Open(dep.Context, dep.Config)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	bus := event.NewBus(512)
	consumer := event.NewAnalysisConsumer(bus, event.ImbalanceAlerter{
		Threshold: dep.Config.GetFloat("identity.analysis.alert_spread"),
	}, event.ConsumerConfig{
		Workers:     4,
		MaxRetries:  3,
		BaseBackoff: 200 * time.Millisecond,
	})
	consumer.Start()

	if dep.ID == nil {
		dep.ID = pkguid.NewUnified()
	}

	uc := usecase.New(usecase.Dependency{
		Store:    storage,
		Events:   bus,
		Runner:   dep.Goroutine,
		ID:       dep.ID,
		Sources:  dep.Sources,
		Settings: settings,
		RootCtx:  dep.Context,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return func(ctx context.Context) error {
		return errors.Join(consumer.Stop(ctx), storage.Close(ctx))
	}, nil
}

func loadSettings(cfg pkgconfig.Config) (usecase.Settings, error) {
	count := cfg.GetInt("identity.partition.count")
	if count < 1 || count > unified.MaxPartitionCount {
		return usecase.Settings{}, fmt.Errorf("identity.partition.count must be between 1 and %d", unified.MaxPartitionCount)
	}

	tier, err := unified.ParseTier(cfg.GetString("identity.partition.tier"))
	if err != nil {
		return usecase.Settings{}, fmt.Errorf("identity.partition.tier: %w", err)
	}

	return usecase.Settings{
		PartitionCount: uint32(count),
		Tier:           tier,
		GenerateMax:    int(cfg.GetInt("identity.generate.max")),
		MaxSamples:     cfg.GetInt("identity.analysis.max_samples"),
		DefaultSource:  cfg.GetString("identity.id_source"),
	}, nil
}
