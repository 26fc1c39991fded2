package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/shandysiswandi/gounified/internal/identity/entity"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gounified/internal/pkg/pkguid"
	"github.com/shandysiswandi/gounified/unified"
)

// MaxAnalysisKeyLength bounds key analyses to the premium tier.
const MaxAnalysisKeyLength = 3

const ctxCheckEvery = 4096

// statusWriteTimeout bounds status writes made after the task context is done.
const statusWriteTimeout = 5 * time.Second

func (u *Usecase) StartAnalysis(ctx context.Context, in AnalysisInput) (unified.ID, error) {
	if u.store == nil || u.runner == nil {
		return unified.Empty, pkgerror.NewServer(errors.New("missing dependency"))
	}

	a, err := u.planAnalysis(in)
	if err != nil {
		return unified.Empty, err
	}

	_, src, err := u.source(a.Source)
	if err != nil {
		return unified.Empty, err
	}

	if a.ID, err = u.sources[SourceRandom].Next(); err != nil {
		return unified.Empty, pkgerror.NewServer(err)
	}

	if err := u.store.CreateAnalysis(ctx, a); err != nil {
		return unified.Empty, normalizeErr(err)
	}

	u.runner.Go(u.rootCtx, func(ctx context.Context) error {
		if err := u.runAnalysis(ctx, a, src); err != nil {
			slog.ErrorContext(ctx, "analysis failed", "analysis_id", a.ID, "error", err)
			return err
		}
		return nil
	})

	return a.ID, nil
}

func (u *Usecase) planAnalysis(in AnalysisInput) (entity.Analysis, error) {
	if in.Samples < 1 || in.Samples > u.settings.MaxSamples {
		return entity.Analysis{}, pkgerror.NewOutOfRange(
			fmt.Errorf("samples must be between 1 and %d", u.settings.MaxSamples))
	}

	a := entity.Analysis{
		Status:   entity.AnalysisStatusQueued,
		Strategy: entity.Strategy(strings.ToUpper(strings.TrimSpace(string(in.Strategy)))),
		Source:   strings.ToLower(strings.TrimSpace(in.Source)),
		Samples:  in.Samples,
	}
	if a.Strategy == "" {
		a.Strategy = entity.StrategyKey
	}
	if a.Source == "" {
		a.Source = u.settings.DefaultSource
	}

	switch a.Strategy {
	case entity.StrategyKey:
		a.Length = in.Length
		if a.Length == 0 {
			tier := u.settings.Tier
			if in.Tier != "" {
				t, err := unified.ParseTier(in.Tier)
				if err != nil {
					return entity.Analysis{}, pkgerror.FromIdentifier(err)
				}
				tier = t
			}
			a.Length = tier.Length()
		}
		if a.Length < 1 || a.Length > MaxAnalysisKeyLength {
			return entity.Analysis{}, pkgerror.NewOutOfRange(
				fmt.Errorf("length must be between 1 and %d", MaxAnalysisKeyLength))
		}
		a.Partitions = unified.PrefixBuckets(a.Length)
	case entity.StrategyNumber:
		a.Count = in.Count
		if a.Count == 0 {
			a.Count = u.settings.PartitionCount
		}
		if a.Count > unified.MaxPartitionCount {
			return entity.Analysis{}, pkgerror.NewOutOfRange(
				fmt.Errorf("count must be between 1 and %d", unified.MaxPartitionCount))
		}
		a.Partitions = int(a.Count)
	default:
		return entity.Analysis{}, pkgerror.NewInvalidInput(fmt.Errorf("unknown strategy %q", in.Strategy))
	}

	return a, nil
}

func (u *Usecase) runAnalysis(ctx context.Context, a entity.Analysis, src pkguid.Source) error {
	// status writes outlive cancellation of ctx
	statusCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
	defer cancel()

	startedAt := u.clock.Now().Unix()
	if err := u.store.UpdateAnalysis(statusCtx, a.ID, func(m *entity.Analysis) {
		m.Status = entity.AnalysisStatusProcessing
		m.StartedAt = startedAt
	}); err != nil {
		return err
	}

	buckets, err := sample(ctx, a, src)
	endedAt := u.clock.Now().Unix()
	if err != nil {
		if upErr := u.store.UpdateAnalysis(statusCtx, a.ID, func(m *entity.Analysis) {
			m.Status = entity.AnalysisStatusFailed
			m.Err = err.Error()
			m.EndedAt = endedAt
		}); upErr != nil {
			return errors.Join(err, upErr)
		}
		return err
	}

	a.Buckets = buckets
	summarize(&a)

	if err := u.store.UpdateAnalysis(statusCtx, a.ID, func(m *entity.Analysis) {
		m.Status = entity.AnalysisStatusDone
		m.Buckets = a.Buckets
		m.Min, m.Max, m.Mean, m.Spread = a.Min, a.Max, a.Mean, a.Spread
		m.EndedAt = endedAt
	}); err != nil {
		return err
	}

	if u.events != nil {
		event := entity.AnalysisCompletedEvent{
			EventID:    u.eventID(),
			AnalysisID: a.ID,
			Strategy:   a.Strategy,
			Partitions: a.Partitions,
			Samples:    a.Samples,
			Spread:     a.Spread,
		}
		if pubErr := u.events.Publish(ctx, event); pubErr != nil {
			slog.WarnContext(ctx, "failed to publish event", "analysis_id", a.ID, "event_id", event.EventID, "error", pubErr)
		}
	}

	return nil
}

func (u *Usecase) eventID() string {
	if u.id != nil {
		return u.id.Generate()
	}
	return unified.NewID().String()
}

// sample draws a.Samples identifiers from src and counts them per partition label.
func sample(ctx context.Context, a entity.Analysis, src pkguid.Source) (map[string]int64, error) {
	buckets := make(map[string]int64, a.Partitions)

	for i := int64(0); i < a.Samples; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		id, err := src.Next()
		if err != nil {
			return nil, err
		}

		var label string
		if a.Strategy == entity.StrategyNumber {
			label, err = id.PartitionNumberString(a.Count)
		} else {
			label, err = id.PartitionKey(a.Length)
		}
		if err != nil {
			return nil, err
		}
		buckets[label]++
	}

	return buckets, nil
}

// summarize fills Min, Max, Mean and Spread. Partitions that received no
// sample count as zero.
func summarize(a *entity.Analysis) {
	if a.Partitions < 1 {
		return
	}

	a.Mean = float64(a.Samples) / float64(a.Partitions)
	a.Min, a.Max = math.MaxInt64, 0
	for _, n := range a.Buckets {
		a.Min = min(a.Min, n)
		a.Max = max(a.Max, n)
	}
	if len(a.Buckets) < a.Partitions || len(a.Buckets) == 0 {
		a.Min = 0
	}

	dev := math.Max(float64(a.Max)-a.Mean, a.Mean-float64(a.Min))
	a.Spread = dev / a.Mean * 100
}
