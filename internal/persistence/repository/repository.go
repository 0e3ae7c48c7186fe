package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// createCappedCollection makes the collection capped at maxDocs so the
// history trims itself. Re-running against an existing collection is a
// no-op.
func createCappedCollection(ctx context.Context, database *mongo.Database, name string, maxDocs, bytesPerDoc int64) error {
	if maxDocs <= 0 {
		return nil
	}

	opts := options.CreateCollection().
		SetCapped(true).
		SetMaxDocuments(maxDocs).
		SetSizeInBytes(maxDocs * bytesPerDoc)

	err := database.CreateCollection(ctx, name, opts)
	if err == nil {
		return nil
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 48 { // NamespaceExists
		return nil
	}

	return err
}
