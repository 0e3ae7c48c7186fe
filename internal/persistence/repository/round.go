package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scrawlhq/scrawl/internal/domain"
	"github.com/scrawlhq/scrawl/internal/persistence/db"
)

// Strokes dominate a round document; budget generously per doc when
// sizing the capped collection.
const roundBytesPerDoc = 256 * 1024

type roundRepository struct {
	db      *mongo.Database
	maxDocs int64
}

func NewRoundRepository(db *mongo.Database, maxDocs int64) domain.RoundRepository {
	return &roundRepository{
		db:      db,
		maxDocs: maxDocs,
	}
}

func (r *roundRepository) Save(ctx context.Context, record *domain.RoundRecord) error {
	collection := r.db.Collection(db.RoundsCollection)

	_, err := collection.InsertOne(ctx, record)
	return err
}

func (r *roundRepository) GetLastByRoomCode(ctx context.Context, roomCode string) (*domain.RoundRecord, error) {
	collection := r.db.Collection(db.RoundsCollection)

	filter := bson.M{"room_code": roomCode}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var record domain.RoundRecord
	if err := collection.FindOne(ctx, filter, opts).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoRounds
		}
		return nil, err
	}

	return &record, nil
}

func (r *roundRepository) EnsureIndexes(ctx context.Context) error {
	if err := createCappedCollection(ctx, r.db, db.RoundsCollection, r.maxDocs, roundBytesPerDoc); err != nil {
		return err
	}

	collection := r.db.Collection(db.RoundsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "room_code", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
