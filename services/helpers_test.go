package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feira-troca/backend/models"
	"github.com/feira-troca/backend/store"
	"github.com/feira-troca/backend/store/memstore"
)

var errInjected = errors.New("injected failure")

// faultyStore counts item operations and can fail item creation or the nth
// SetOwner call.
type faultyStore struct {
	store.Store
	failSetOwnerAt int
	failItemCreate bool
	counts         *counts
}

type counts struct {
	lookups  int
	setOwner int
}

func newFaultyStore(inner store.Store, failSetOwnerAt int) *faultyStore {
	return &faultyStore{Store: inner, failSetOwnerAt: failSetOwnerAt, counts: &counts{}}
}

func (f *faultyStore) Items() store.Items {
	return &faultyItems{Items: f.Store.Items(), f: f}
}

func (f *faultyStore) WithinTx(ctx context.Context, fn store.TxFunc) error {
	return f.Store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		return fn(ctx, &faultyStore{
			Store:          tx,
			failSetOwnerAt: f.failSetOwnerAt,
			failItemCreate: f.failItemCreate,
			counts:         f.counts,
		})
	})
}

type faultyItems struct {
	store.Items
	f *faultyStore
}

func (i *faultyItems) Create(ctx context.Context, item *models.Item) error {
	if i.f.failItemCreate {
		return errInjected
	}
	return i.Items.Create(ctx, item)
}

func (i *faultyItems) FindByNameAndOwner(ctx context.Context, name, owner string) (*models.Item, error) {
	i.f.counts.lookups++
	return i.Items.FindByNameAndOwner(ctx, name, owner)
}

func (i *faultyItems) SetOwner(ctx context.Context, id uint64, owner string) error {
	i.f.counts.setOwner++
	if i.f.counts.setOwner == i.f.failSetOwnerAt {
		return errInjected
	}
	return i.Items.SetOwner(ctx, id, owner)
}

func mustCreateItem(t *testing.T, s store.Store, name, owner string) *models.Item {
	t.Helper()
	item := &models.Item{Name: name, Owner: owner}
	require.NoError(t, s.Items().Create(context.Background(), item))
	return item
}

func newMemStore() store.Store {
	return memstore.New()
}

// compensatedStore runs transactions through store.RunCompensated instead of
// the backend's own transactions.
type compensatedStore struct {
	store.Store
}

func (c *compensatedStore) WithinTx(ctx context.Context, fn store.TxFunc) error {
	return store.RunCompensated(ctx, c.Store, fn)
}
