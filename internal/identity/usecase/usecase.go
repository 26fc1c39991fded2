package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shandysiswandi/gounified/internal/identity/entity"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gounified/internal/pkg/pkguid"
	"github.com/shandysiswandi/gounified/unified"
)

type Store interface {
	CreateAnalysis(ctx context.Context, a entity.Analysis) error
	UpdateAnalysis(ctx context.Context, id unified.ID, fn func(a *entity.Analysis)) error
	GetAnalysis(ctx context.Context, id unified.ID) (entity.Analysis, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.AnalysisCompletedEvent) error
}

type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store    Store
	Events   EventPublisher
	Runner   Runner
	Clock    Clock
	ID       pkguid.StringID
	Sources  map[string]pkguid.Source
	Settings Settings
	RootCtx  context.Context
}

type Usecase struct {
	store    Store
	events   EventPublisher
	runner   Runner
	clock    Clock
	id       pkguid.StringID
	sources  map[string]pkguid.Source
	settings Settings
	rootCtx  context.Context
}

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	settings := dep.Settings
	if settings.PartitionCount == 0 {
		settings.PartitionCount = 1024
	}
	if !settings.Tier.Valid() {
		settings.Tier = unified.TierStandard
	}
	if settings.GenerateMax < 1 {
		settings.GenerateMax = 1000
	}
	if settings.MaxSamples < 1 {
		settings.MaxSamples = 10_000_000
	}
	if settings.DefaultSource == "" {
		settings.DefaultSource = SourceRandom
	}

	sources := maps.Clone(dep.Sources)
	if sources == nil {
		sources = map[string]pkguid.Source{}
	}
	if _, ok := sources[SourceRandom]; !ok {
		sources[SourceRandom] = pkguid.NewUnified()
	}

	return &Usecase{
		store:    dep.Store,
		events:   dep.Events,
		runner:   dep.Runner,
		clock:    clock,
		id:       dep.ID,
		sources:  sources,
		settings: settings,
		rootCtx:  root,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Generator sources.
const (
	SourceRandom    = "random"
	SourceSnowflake = "snowflake"
)

func (u *Usecase) Describe(ctx context.Context, raw string) (Description, error) {
	id, err := parseID(raw)
	if err != nil {
		return Description{}, err
	}

	keys := make(map[string]string, 3)
	for _, t := range []unified.Tier{unified.TierBasic, unified.TierStandard, unified.TierPremium} {
		key, _ := id.TierKey(t)
		keys[t.String()] = key
	}

	count := u.settings.PartitionCount
	number, err := id.PartitionNumber(count)
	if err != nil {
		return Description{}, pkgerror.FromIdentifier(err)
	}
	label, _ := id.PartitionNumberString(count)

	return Description{
		ID:             id,
		Uint64:         id.Uint64(),
		Int64:          id.Int64(),
		Empty:          id.IsEmpty(),
		TierKeys:       keys,
		PartitionCount: count,
		Partition:      number,
		PartitionLabel: label,
	}, nil
}

func (u *Usecase) Generate(ctx context.Context, in GenerateInput) (GenerateResult, error) {
	if in.Count < 1 || in.Count > u.settings.GenerateMax {
		return GenerateResult{}, pkgerror.NewOutOfRange(
			fmt.Errorf("count must be between 1 and %d", u.settings.GenerateMax))
	}

	name, src, err := u.source(in.Source)
	if err != nil {
		return GenerateResult{}, err
	}

	ids := make([]unified.ID, 0, in.Count)
	for i := 0; i < in.Count; i++ {
		id, err := src.Next()
		if err != nil {
			slog.ErrorContext(ctx, "failed to generate identifier", "source", name, "error", err)
			return GenerateResult{}, pkgerror.NewServer(err)
		}
		ids = append(ids, id)
	}

	return GenerateResult{Source: name, IDs: ids}, nil
}

func (u *Usecase) Derive(ctx context.Context, in DeriveInput) (unified.ID, error) {
	var (
		id  unified.ID
		err error
	)

	kind := strings.ToLower(strings.TrimSpace(in.Kind))
	switch kind {
	case KindText:
		id, err = unified.FromText(in.Value)
	case KindBytes:
		b, decErr := base64.StdEncoding.DecodeString(in.Value)
		if decErr != nil {
			return unified.Empty, pkgerror.NewInvalidFormat(fmt.Errorf("bytes must be base64: %w", decErr))
		}
		id, err = unified.FromBytes(b)
	case KindUUID:
		g, parseErr := uuid.Parse(strings.TrimSpace(in.Value))
		if parseErr != nil {
			return unified.Empty, pkgerror.NewInvalidFormat(parseErr)
		}
		id, err = unified.FromUUID(g)
	case KindUint64, KindRaw:
		n, parseErr := strconv.ParseUint(strings.TrimSpace(in.Value), 10, 64)
		if parseErr != nil {
			return unified.Empty, pkgerror.NewInvalidFormat(parseErr)
		}
		if kind == KindRaw {
			return unified.FromRaw(n), nil
		}
		id, err = unified.FromUint64(n)
	case KindInt64, KindRawInt64:
		n, parseErr := strconv.ParseInt(strings.TrimSpace(in.Value), 10, 64)
		if parseErr != nil {
			return unified.Empty, pkgerror.NewInvalidFormat(parseErr)
		}
		if kind == KindRawInt64 {
			return unified.FromRawInt64(n), nil
		}
		id, err = unified.FromInt64(n)
	default:
		return unified.Empty, pkgerror.NewInvalidInput(fmt.Errorf("unknown kind %q", in.Kind))
	}

	if err != nil {
		return unified.Empty, pkgerror.FromIdentifier(err)
	}
	return id, nil
}

func (u *Usecase) Compare(ctx context.Context, in CompareInput) (CompareResult, error) {
	left, err := parseID(in.Left)
	if err != nil {
		return CompareResult{}, err
	}

	res := CompareResult{Left: left}
	kind := strings.ToLower(strings.TrimSpace(in.RightKind))
	if kind == "" {
		kind = KindID
	}

	switch kind {
	case KindID:
		right, err := parseID(in.Right)
		if err != nil {
			return CompareResult{}, err
		}
		res.Order, res.Equal = left.Compare(right), left.Equal(right)
	case KindUint64:
		n, err := strconv.ParseUint(strings.TrimSpace(in.Right), 10, 64)
		if err != nil {
			return CompareResult{}, pkgerror.NewInvalidFormat(err)
		}
		res.Order, res.Equal = left.CompareUint64(n), left.EqualUint64(n)
	case KindInt64:
		n, err := strconv.ParseInt(strings.TrimSpace(in.Right), 10, 64)
		if err != nil {
			return CompareResult{}, pkgerror.NewInvalidFormat(err)
		}
		res.Order, res.Equal = left.CompareInt64(n), left.EqualInt64(n)
	case KindString:
		order, err := left.CompareString(in.Right)
		if err != nil {
			return CompareResult{}, pkgerror.FromIdentifier(err)
		}
		res.Order, res.Equal = order, left.EqualString(in.Right)
	default:
		return CompareResult{}, pkgerror.NewInvalidInput(fmt.Errorf("unknown right_kind %q", in.RightKind))
	}

	return res, nil
}

func (u *Usecase) Partitions(ctx context.Context, raw string, q PartitionQuery) (PartitionResult, error) {
	id, err := parseID(raw)
	if err != nil {
		return PartitionResult{}, err
	}

	tier := u.settings.Tier
	if q.Tier != "" {
		if tier, err = unified.ParseTier(q.Tier); err != nil {
			return PartitionResult{}, pkgerror.FromIdentifier(err)
		}
	}

	length := q.Length
	if length == 0 {
		length = tier.Length()
	}

	count := q.Count
	if count == 0 {
		count = u.settings.PartitionCount
	}

	res := PartitionResult{ID: id, Length: length, Tier: tier, Count: count}
	if res.Key, err = id.PartitionKey(length); err != nil {
		return PartitionResult{}, pkgerror.FromIdentifier(err)
	}
	if res.TierKey, err = id.TierKey(tier); err != nil {
		return PartitionResult{}, pkgerror.FromIdentifier(err)
	}
	if res.Number, err = id.PartitionNumber(count); err != nil {
		return PartitionResult{}, pkgerror.FromIdentifier(err)
	}
	if res.NumberLabel, err = id.PartitionNumberString(count); err != nil {
		return PartitionResult{}, pkgerror.FromIdentifier(err)
	}

	return res, nil
}

func (u *Usecase) Validate(ctx context.Context, raw string) ValidateResult {
	id, ok := unified.TryParse(raw)
	return ValidateResult{Valid: ok, ID: id}
}

func (u *Usecase) GetAnalysis(ctx context.Context, raw string) (entity.Analysis, error) {
	id, err := parseID(raw)
	if err != nil {
		return entity.Analysis{}, err
	}
	if id.IsEmpty() {
		return entity.Analysis{}, pkgerror.NewInvalidInput(errors.New("analysis id is required"))
	}

	a, err := u.store.GetAnalysis(ctx, id)
	if err != nil {
		return entity.Analysis{}, mapStoreErr(err)
	}
	return a, nil
}

func (u *Usecase) source(name string) (string, pkguid.Source, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = u.settings.DefaultSource
	}

	src, ok := u.sources[name]
	if !ok {
		return "", nil, pkgerror.NewInvalidInput(fmt.Errorf("unknown source %q", name))
	}
	return name, src, nil
}

func parseID(raw string) (unified.ID, error) {
	id, err := unified.Parse(raw)
	if err != nil {
		return unified.Empty, pkgerror.FromIdentifier(err)
	}
	return id, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewBusiness("analysis not found", pkgerror.CodeNotFound)
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
