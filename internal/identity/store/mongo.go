package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shandysiswandi/gounified/internal/identity/entity"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gounified/unified"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoCollection     = "analyses"
	mongoConnectTimeout = 10 * time.Second
)

// MongoStore keeps analyses in one collection keyed by the canonical id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type analysisDocument struct {
	ID         string           `bson:"_id"`
	Status     string           `bson:"status"`
	Strategy   string           `bson:"strategy"`
	Source     string           `bson:"source"`
	Length     int              `bson:"length"`
	Count      int64            `bson:"count"`
	Samples    int64            `bson:"samples"`
	Partitions int              `bson:"partitions"`
	Buckets    map[string]int64 `bson:"buckets,omitempty"`
	Min        int64            `bson:"min"`
	Max        int64            `bson:"max"`
	Mean       float64          `bson:"mean"`
	Spread     float64          `bson:"spread"`
	Err        string           `bson:"err,omitempty"`
	StartedAt  int64            `bson:"started_at"`
	EndedAt    int64            `bson:"ended_at"`
	Version    int64            `bson:"version"`
}

func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = "gounified"
	}

	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
	}, nil
}

func (s *MongoStore) CreateAnalysis(ctx context.Context, a entity.Analysis) error {
	_, err := s.coll.InsertOne(ctx, toDocument(a))
	if mongo.IsDuplicateKeyError(err) {
		return errConflict
	}
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// UpdateAnalysis replaces the document only if its version is unchanged
// since it was read. A concurrent writer makes the replace match nothing and
// the read-modify-write is retried.
func (s *MongoStore) UpdateAnalysis(ctx context.Context, id unified.ID, fn func(a *entity.Analysis)) error {
	for i := 0; i < maxUpdateRetries; i++ {
		var before analysisDocument
		err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&before)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return pkgerror.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("find analysis: %w", err)
		}

		a, err := fromDocument(before)
		if err != nil {
			return err
		}
		fn(&a)
		a.ID = id

		after := toDocument(a)
		after.Version = before.Version + 1

		res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": before.ID, "version": before.Version}, after)
		if err != nil {
			return fmt.Errorf("replace analysis: %w", err)
		}
		if res.MatchedCount == 1 {
			return nil
		}
	}

	return fmt.Errorf("update analysis %s: too much contention", id)
}

func (s *MongoStore) GetAnalysis(ctx context.Context, id unified.ID) (entity.Analysis, error) {
	var doc analysisDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity.Analysis{}, pkgerror.ErrNotFound
	}
	if err != nil {
		return entity.Analysis{}, fmt.Errorf("find analysis: %w", err)
	}
	return fromDocument(doc)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func toDocument(a entity.Analysis) analysisDocument {
	return analysisDocument{
		ID:         a.ID.String(),
		Status:     string(a.Status),
		Strategy:   string(a.Strategy),
		Source:     a.Source,
		Length:     a.Length,
		Count:      int64(a.Count),
		Samples:    a.Samples,
		Partitions: a.Partitions,
		Buckets:    a.Buckets,
		Min:        a.Min,
		Max:        a.Max,
		Mean:       a.Mean,
		Spread:     a.Spread,
		Err:        a.Err,
		StartedAt:  a.StartedAt,
		EndedAt:    a.EndedAt,
	}
}

func fromDocument(d analysisDocument) (entity.Analysis, error) {
	id, err := unified.Parse(d.ID)
	if err != nil {
		return entity.Analysis{}, fmt.Errorf("decode analysis id: %w", err)
	}

	return entity.Analysis{
		ID:         id,
		Status:     entity.AnalysisStatus(d.Status),
		Strategy:   entity.Strategy(d.Strategy),
		Source:     d.Source,
		Length:     d.Length,
		Count:      uint32(d.Count), //nolint:gosec // bounded by MaxPartitionCount on write
		Samples:    d.Samples,
		Partitions: d.Partitions,
		Buckets:    d.Buckets,
		Min:        d.Min,
		Max:        d.Max,
		Mean:       d.Mean,
		Spread:     d.Spread,
		Err:        d.Err,
		StartedAt:  d.StartedAt,
		EndedAt:    d.EndedAt,
	}, nil
}
