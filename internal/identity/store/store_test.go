package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/shandysiswandi/gounified/internal/identity/entity"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gounified/unified"
)

// runStoreContract checks the behavior every backend shares.
func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("CreateAnalysis_Duplicate", func(t *testing.T) {
		a := entity.Analysis{
			ID:       unified.NewID(),
			Status:   entity.AnalysisStatusQueued,
			Strategy: entity.StrategyKey,
			Length:   1,
		}

		if err := store.CreateAnalysis(ctx, a); err != nil {
			t.Fatalf("CreateAnalysis() err = %v", err)
		}

		err := store.CreateAnalysis(ctx, a)
		var perr *pkgerror.Error
		if !errors.As(err, &perr) {
			t.Fatalf("CreateAnalysis() expected pkgerror.Error, got %T (%v)", err, err)
		}
		if perr.Code() != pkgerror.CodeConflict {
			t.Fatalf("CreateAnalysis() error code = %v, want %v", perr.Code(), pkgerror.CodeConflict)
		}
	})

	t.Run("UpdateAnalysis_And_GetAnalysis", func(t *testing.T) {
		a := entity.Analysis{
			ID:         unified.NewID(),
			Status:     entity.AnalysisStatusQueued,
			Strategy:   entity.StrategyNumber,
			Source:     "random",
			Count:      4,
			Samples:    8,
			Partitions: 4,
		}
		if err := store.CreateAnalysis(ctx, a); err != nil {
			t.Fatalf("CreateAnalysis() err = %v", err)
		}

		buckets := map[string]int64{"0": 1, "1": 2, "2": 2, "3": 3}
		err := store.UpdateAnalysis(ctx, a.ID, func(m *entity.Analysis) {
			m.Status = entity.AnalysisStatusDone
			m.Buckets = buckets
			m.Min, m.Max, m.Mean, m.Spread = 1, 3, 2, 50
			m.StartedAt, m.EndedAt = 123, 456
		})
		if err != nil {
			t.Fatalf("UpdateAnalysis() err = %v", err)
		}

		got, err := store.GetAnalysis(ctx, a.ID)
		if err != nil {
			t.Fatalf("GetAnalysis() err = %v", err)
		}

		want := a
		want.Status = entity.AnalysisStatusDone
		want.Buckets = buckets
		want.Min, want.Max, want.Mean, want.Spread = 1, 3, 2, 50
		want.StartedAt, want.EndedAt = 123, 456
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("GetAnalysis() = %+v, want %+v", got, want)
		}
	})

	t.Run("UpdateAnalysis_Concurrent", func(t *testing.T) {
		a := entity.Analysis{ID: unified.NewID(), Status: entity.AnalysisStatusQueued, Strategy: entity.StrategyKey}
		if err := store.CreateAnalysis(ctx, a); err != nil {
			t.Fatalf("CreateAnalysis() err = %v", err)
		}

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := store.UpdateAnalysis(ctx, a.ID, func(m *entity.Analysis) { m.Samples++ })
				if err != nil {
					t.Errorf("UpdateAnalysis() err = %v", err)
				}
			}()
		}
		wg.Wait()

		got, err := store.GetAnalysis(ctx, a.ID)
		if err != nil {
			t.Fatalf("GetAnalysis() err = %v", err)
		}
		if got.Samples != 4 {
			t.Fatalf("GetAnalysis() samples = %d, want 4", got.Samples)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		missing := unified.NewID()

		if _, err := store.GetAnalysis(ctx, missing); !errors.Is(err, pkgerror.ErrNotFound) {
			t.Fatalf("GetAnalysis() err = %v, want ErrNotFound", err)
		}

		err := store.UpdateAnalysis(ctx, missing, func(*entity.Analysis) {})
		if !errors.Is(err, pkgerror.ErrNotFound) {
			t.Fatalf("UpdateAnalysis() err = %v, want ErrNotFound", err)
		}
	})
}

func TestInMemoryStore(t *testing.T) {
	t.Parallel()
	runStoreContract(t, NewInMemoryStore())
}

func TestInMemoryStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore()
	a := entity.Analysis{ID: unified.FromRaw(1), Buckets: map[string]int64{"0": 1}}
	if err := store.CreateAnalysis(ctx, a); err != nil {
		t.Fatalf("CreateAnalysis() err = %v", err)
	}

	got, _ := store.GetAnalysis(ctx, a.ID)
	got.Buckets["0"] = 99
	a.Buckets["0"] = 42

	again, _ := store.GetAnalysis(ctx, a.ID)
	if again.Buckets["0"] != 1 {
		t.Fatalf("stored buckets were mutated: %v", again.Buckets)
	}
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()

	store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "analyses.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() err = %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	runStoreContract(t, store)
}

func TestSQLiteStore_RequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := NewSQLiteStore(context.Background(), " "); err == nil {
		t.Fatal("NewSQLiteStore() expected error for blank path")
	}
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), RedisOptions{Address: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisStore() err = %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	runStoreContract(t, store)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("GOUNIFIED_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("GOUNIFIED_TEST_MONGO_URI not set")
	}

	store, err := NewMongoStore(context.Background(), uri, "gounified_test")
	if err != nil {
		t.Fatalf("NewMongoStore() err = %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	runStoreContract(t, store)
}

type mapConfig map[string]string

func (m mapConfig) GetInt(string) int64             { return 0 }
func (m mapConfig) GetBool(string) bool             { return false }
func (m mapConfig) GetFloat(string) float64         { return 0 }
func (m mapConfig) GetString(key string) string     { return m[key] }
func (m mapConfig) GetBinary(key string) []byte     { return []byte(m[key]) }
func (m mapConfig) GetArray(string) []string        { return nil }
func (m mapConfig) GetMap(string) map[string]string { return nil }
func (m mapConfig) Close() error                    { return nil }

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	s, err := Open(ctx, mapConfig{})
	if err != nil {
		t.Fatalf("Open() default err = %v", err)
	}
	if _, ok := s.(*InMemoryStore); !ok {
		t.Fatalf("Open() default = %T, want *InMemoryStore", s)
	}

	s, err = Open(ctx, mapConfig{
		"store.driver":      "SQLite",
		"store.sqlite.path": filepath.Join(t.TempDir(), "open.db"),
	})
	if err != nil {
		t.Fatalf("Open() sqlite err = %v", err)
	}
	if _, ok := s.(*SQLiteStore); !ok {
		t.Fatalf("Open() sqlite = %T, want *SQLiteStore", s)
	}
	_ = s.Close(ctx)

	if _, err := Open(ctx, mapConfig{"store.driver": "cassandra"}); err == nil {
		t.Fatal("Open() expected error for unknown driver")
	}
}
