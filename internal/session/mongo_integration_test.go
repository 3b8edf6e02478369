//go:build integration

package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markjakearzadon/rxmate-checkout/internal/db"
	"github.com/markjakearzadon/rxmate-checkout/internal/models"
)

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGOURI")
	if uri == "" {
		t.Skip("MONGOURI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := db.Connect(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	database := client.Database("rxmate_test_" + uuid.NewString()[:8])
	t.Cleanup(func() { _ = database.Drop(context.Background()) })

	store := NewMongoStore(database, time.Hour)
	require.NoError(t, store.EnsureIndexes(ctx))

	_, err = store.Load(ctx, "sid")
	assert.ErrorIs(t, err, ErrNotFound)

	tc := models.TransactionContext{Reference: "RX_1_abcdefghi", Form: models.FormSnapshot{Email: "a@b.com"}}
	require.NoError(t, store.Save(ctx, "sid", tc))
	require.NoError(t, store.Save(ctx, "sid", models.TransactionContext{Reference: "RX_2_abcdefghi"}))

	got, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "RX_2_abcdefghi", got.Reference)

	require.NoError(t, store.Clear(ctx, "sid"))
	_, err = store.Load(ctx, "sid")
	assert.ErrorIs(t, err, ErrNotFound)
}
