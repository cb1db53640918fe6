package migrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestIndex_Model(t *testing.T) {
	m := Index{Name: "products_id_unique", Field: "id", Unique: true}.Model()

	assert.Equal(t, bson.D{{Key: "id", Value: 1}}, m.Keys)
	require.NotNil(t, m.Options)
	require.NotNil(t, m.Options.Name)
	assert.Equal(t, "products_id_unique", *m.Options.Name)
	require.NotNil(t, m.Options.Unique)
	assert.True(t, *m.Options.Unique)
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no indexes is a no-op", func(mt *mtest.T) {
		names, err := EnsureIndexes(context.Background(), mt.Coll)
		require.NoError(mt, err)
		assert.Empty(mt, names)
	})

	mt.Run("creates indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		names, err := EnsureIndexes(context.Background(), mt.Coll,
			Index{Name: "products_id_unique", Field: "id", Unique: true},
			Index{Name: "products_price", Field: "price"},
		)
		require.NoError(mt, err)
		assert.Equal(mt, []string{"products_id_unique", "products_price"}, names)
	})

	mt.Run("propagates server errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    85,
			Name:    "IndexOptionsConflict",
			Message: "index already exists with different options",
		}))

		_, err := EnsureIndexes(context.Background(), mt.Coll, Index{Name: "products_id_unique", Field: "id", Unique: true})
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to create indexes")
	})
}
