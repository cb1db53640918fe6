package migrator

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Index describes a single-field index to ensure on a collection.
type Index struct {
	Name   string
	Field  string
	Unique bool
}

// Model converts the Index into the driver's IndexModel (ascending order).
func (i Index) Model() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: i.Field, Value: 1}},
		Options: options.Index().SetName(i.Name).SetUnique(i.Unique),
	}
}

// EnsureIndexes creates every index on coll. CreateMany is idempotent for
// identical definitions, so it is safe to run on each deploy.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection, indexes ...Index) ([]string, error) {
	if len(indexes) == 0 {
		return nil, nil
	}

	models := make([]mongo.IndexModel, len(indexes))
	for i, idx := range indexes {
		models[i] = idx.Model()
	}

	names, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
	}
	return names, nil
}
