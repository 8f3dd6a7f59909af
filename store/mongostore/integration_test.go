//go:build integration
// +build integration

package mongostore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feira-troca/backend/store"
	"github.com/feira-troca/backend/store/storetest"
)

func TestMongoStore(t *testing.T) {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetDirect(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	for _, tc := range []struct {
		name string
		opts Options
	}{
		{name: "transactions", opts: Options{Transactions: true}},
		{name: "compensated", opts: Options{Transactions: false}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			storetest.Run(t, func(t *testing.T) store.Store {
				db := client.Database("feira_" + tc.name)
				require.NoError(t, db.Drop(ctx))
				s := &Store{client: client, db: db, opts: tc.opts}
				require.NoError(t, s.Migrate(ctx))
				return s
			})
		})
	}
}
