package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shandysiswandi/gounified/internal/identity/entity"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gounified/unified"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func mockMongoStore(mt *mtest.T) *MongoStore {
	return &MongoStore{client: mt.Client, coll: mt.Coll}
}

func mockNamespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func findResponse(mt *mtest.T, docs ...analysisDocument) bson.D {
	mt.Helper()

	batch := make([]bson.D, 0, len(docs))
	for _, d := range docs {
		raw, err := bson.Marshal(d)
		if err != nil {
			mt.Fatalf("marshal: %v", err)
		}
		var doc bson.D
		if err := bson.Unmarshal(raw, &doc); err != nil {
			mt.Fatalf("unmarshal: %v", err)
		}
		batch = append(batch, doc)
	}
	return mtest.CreateCursorResponse(0, mockNamespace(mt), mtest.FirstBatch, batch...)
}

func replaceResponse(matched int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: matched}, bson.E{Key: "nModified", Value: matched})
}

func TestMongoStore_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	id := unified.FromRaw(12)

	mt.Run("UpdateRetriesOnVersionMismatch", func(mt *mtest.T) {
		store := mockMongoStore(mt)
		doc := toDocument(entity.Analysis{ID: id, Status: entity.AnalysisStatusQueued})
		moved := doc
		moved.Version = 1
		moved.Samples = 100

		mt.AddMockResponses(
			findResponse(mt, doc),
			replaceResponse(0),
			findResponse(mt, moved),
			replaceResponse(1),
		)

		calls := 0
		err := store.UpdateAnalysis(ctx, id, func(m *entity.Analysis) {
			calls++
			m.Samples++
		})
		if err != nil {
			mt.Fatalf("UpdateAnalysis() err = %v", err)
		}
		if calls != 2 {
			mt.Fatalf("UpdateAnalysis() ran fn %d times, want 2", calls)
		}

		var versions []int64
		var samples int64
		for evt := mt.GetStartedEvent(); evt != nil; evt = mt.GetStartedEvent() {
			if evt.CommandName != "update" {
				continue
			}
			versions = append(versions, evt.Command.Lookup("updates", "0", "q", "version").AsInt64())
			samples = evt.Command.Lookup("updates", "0", "u", "samples").AsInt64()
		}
		if len(versions) != 2 || versions[0] != 0 || versions[1] != 1 {
			mt.Fatalf("replace filters used versions %v, want [0 1]", versions)
		}
		if samples != 101 {
			mt.Fatalf("last replace wrote samples = %d, want 101", samples)
		}
	})

	mt.Run("UpdateGivesUpUnderContention", func(mt *mtest.T) {
		store := mockMongoStore(mt)
		doc := toDocument(entity.Analysis{ID: id})
		for i := 0; i < maxUpdateRetries; i++ {
			mt.AddMockResponses(findResponse(mt, doc), replaceResponse(0))
		}

		err := store.UpdateAnalysis(ctx, id, func(*entity.Analysis) {})
		if err == nil || !strings.Contains(err.Error(), "too much contention") {
			mt.Fatalf("UpdateAnalysis() err = %v, want contention error", err)
		}
	})

	mt.Run("NotFound", func(mt *mtest.T) {
		store := mockMongoStore(mt)
		mt.AddMockResponses(findResponse(mt), findResponse(mt))

		if _, err := store.GetAnalysis(ctx, id); !errors.Is(err, pkgerror.ErrNotFound) {
			mt.Fatalf("GetAnalysis() err = %v, want ErrNotFound", err)
		}
		if err := store.UpdateAnalysis(ctx, id, func(*entity.Analysis) {}); !errors.Is(err, pkgerror.ErrNotFound) {
			mt.Fatalf("UpdateAnalysis() err = %v, want ErrNotFound", err)
		}
	})

	mt.Run("CreateDuplicate", func(mt *mtest.T) {
		store := mockMongoStore(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := store.CreateAnalysis(ctx, entity.Analysis{ID: id})
		var perr *pkgerror.Error
		if !errors.As(err, &perr) || perr.Code() != pkgerror.CodeConflict {
			mt.Fatalf("CreateAnalysis() err = %v, want conflict", err)
		}
	})

	mt.Run("GetDecodesDocument", func(mt *mtest.T) {
		store := mockMongoStore(mt)
		want := entity.Analysis{
			ID:         id,
			Status:     entity.AnalysisStatusDone,
			Strategy:   entity.StrategyNumber,
			Count:      4,
			Partitions: 4,
			Buckets:    map[string]int64{"0": 2, "3": 1},
		}
		mt.AddMockResponses(findResponse(mt, toDocument(want)))

		got, err := store.GetAnalysis(ctx, id)
		if err != nil {
			mt.Fatalf("GetAnalysis() err = %v", err)
		}
		if got.ID != want.ID || got.Status != want.Status || got.Count != want.Count || got.Buckets["0"] != 2 {
			mt.Fatalf("GetAnalysis() = %+v, want %+v", got, want)
		}
	})
}
