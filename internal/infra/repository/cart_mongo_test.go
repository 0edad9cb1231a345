package repository

import (
	"context"
	"testing"
	"time"

	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// 送った delete/update の先頭要素のフィルタ
func sentFilter(mt *mtest.T, batchKey string) bson.Raw {
	mt.Helper()

	evt := mt.GetStartedEvent()
	require.NotNil(mt, evt)
	first := evt.Command.Lookup(batchKey).Array().Index(0).Value().Document()
	return first.Lookup("q").Document()
}

func TestCartMongoRepository_DeleteByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("owner filter and not found", func(mt *mtest.T) {
		r := NewCartMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := r.DeleteByID(context.Background(), "u1", "line-1")
		assert.ErrorIs(mt, err, repo.ErrNotFound)

		q := sentFilter(mt, "deletes")
		assert.Equal(mt, "line-1", q.Lookup("_id").StringValue())
		assert.Equal(mt, "u1", q.Lookup("user_id").StringValue())
	})

	mt.Run("deleted", func(mt *mtest.T) {
		r := NewCartMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, r.DeleteByID(context.Background(), "u1", "line-1"))
	})
}

func TestCartMongoRepository_UpdateQuantity_NoMatchIsNotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no match", func(mt *mtest.T) {
		r := NewCartMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := r.UpdateQuantity(context.Background(), "line-1", 3)
		assert.ErrorIs(mt, err, repo.ErrNotFound)

		q := sentFilter(mt, "updates")
		assert.Equal(mt, "line-1", q.Lookup("_id").StringValue())
	})
}

func TestCartMongoRepository_ListByUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("scoped and newest first", func(mt *mtest.T) {
		r := NewCartMongoRepository(mt.DB)

		newer := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
		older := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		ns := mt.DB.Name() + "." + cartLinesCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "l2"}, {Key: "user_id", Value: "u1"}, {Key: "product_id", Value: "p2"}, {Key: "quantity", Value: int64(1)}, {Key: "created_at", Value: newer}},
			bson.D{{Key: "_id", Value: "l1"}, {Key: "user_id", Value: "u1"}, {Key: "product_id", Value: "p1"}, {Key: "quantity", Value: int64(2)}, {Key: "created_at", Value: older}},
		))

		lines, err := r.ListByUser(context.Background(), "u1")
		require.NoError(mt, err)
		require.Len(mt, lines, 2)
		assert.Equal(mt, "l2", lines[0].ID)
		assert.Equal(mt, int64(2), lines[1].Quantity)
		assert.True(mt, lines[0].CreatedAt.Equal(newer))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "u1", evt.Command.Lookup("filter", "user_id").StringValue())

		sort := evt.Command.Lookup("sort").Document()
		keys, err := sort.Elements()
		require.NoError(mt, err)
		require.Len(mt, keys, 2)
		assert.Equal(mt, "created_at", keys[0].Key())
		assert.Equal(mt, int64(-1), keys[0].Value().AsInt64())
		assert.Equal(mt, "_id", keys[1].Key())
		assert.Equal(mt, int64(-1), keys[1].Value().AsInt64())
	})
}
