package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scrawlhq/scrawl/internal/domain"
	"github.com/scrawlhq/scrawl/internal/persistence/db"
)

const leaderboardBytesPerDoc = 512

type leaderboardRepository struct {
	db      *mongo.Database
	maxDocs int64
}

func NewLeaderboardRepository(db *mongo.Database, maxDocs int64) domain.LeaderboardRepository {
	return &leaderboardRepository{
		db:      db,
		maxDocs: maxDocs,
	}
}

func (r *leaderboardRepository) SaveEntries(ctx context.Context, entries []domain.LeaderboardEntry) error {
	if len(entries) == 0 {
		return nil
	}

	collection := r.db.Collection(db.LeaderboardsCollection)

	docs := make([]any, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e)
	}

	_, err := collection.InsertMany(ctx, docs)
	return err
}

func (r *leaderboardRepository) MostRecent(ctx context.Context, limit int64) ([]domain.LeaderboardEntry, error) {
	collection := r.db.Collection(db.LeaderboardsCollection)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.LeaderboardEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *leaderboardRepository) EnsureIndexes(ctx context.Context) error {
	if err := createCappedCollection(ctx, r.db, db.LeaderboardsCollection, r.maxDocs, leaderboardBytesPerDoc); err != nil {
		return err
	}

	collection := r.db.Collection(db.LeaderboardsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
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
