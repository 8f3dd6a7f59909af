// Package storetest is a behavioural suite shared by every store backend.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feira-troca/backend/models"
	"github.com/feira-troca/backend/store"
)

// Factory returns an empty store. Cleanup belongs to the factory.
type Factory func(t *testing.T) store.Store

// Run executes the suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("items", func(t *testing.T) { testItems(t, newStore(t)) })
	t.Run("items first match", func(t *testing.T) { testItemsFirstMatch(t, newStore(t)) })
	t.Run("traders", func(t *testing.T) { testTraders(t, newStore(t)) })
	t.Run("proposals", func(t *testing.T) { testProposals(t, newStore(t)) })
	t.Run("tx commit", func(t *testing.T) { testTxCommit(t, newStore(t)) })
	t.Run("tx rollback", func(t *testing.T) { testTxRollback(t, newStore(t)) })
	t.Run("ping", func(t *testing.T) { require.NoError(t, newStore(t).Ping(context.Background())) })
}

func testItems(t *testing.T, s store.Store) {
	ctx := context.Background()
	items := s.Items()

	tomato := &models.Item{Name: "Tomato", Description: "ripe", ImgURL: "tomato.png", Owner: "Alice"}
	bread := &models.Item{Name: "Bread", Owner: "Bob"}
	require.NoError(t, items.Create(ctx, tomato))
	require.NoError(t, items.Create(ctx, bread))
	assert.NotZero(t, tomato.ID)
	assert.Greater(t, bread.ID, tomato.ID)

	all, err := items.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Tomato", all[0].Name)
	assert.Equal(t, "tomato.png", all[0].ImgURL)

	alice, err := items.ListByOwner(ctx, "Alice")
	require.NoError(t, err)
	require.Len(t, alice, 1)
	assert.Equal(t, tomato.ID, alice[0].ID)

	nobody, err := items.ListByOwner(ctx, "Carol")
	require.NoError(t, err)
	assert.Empty(t, nobody)

	found, err := items.FindByNameAndOwner(ctx, "Bread", "Bob")
	require.NoError(t, err)
	assert.Equal(t, bread.ID, found.ID)

	_, err = items.FindByNameAndOwner(ctx, "Bread", "Alice")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, items.SetOwner(ctx, tomato.ID, "Bob"))
	got, err := items.Get(ctx, tomato.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Owner)

	assert.ErrorIs(t, items.SetOwner(ctx, 9999, "Bob"), store.ErrNotFound)
	_, err = items.Get(ctx, 9999)
	assert.ErrorIs(t, err, store.ErrNotFound)

	updated, err := items.UpdateOwnerByName(ctx, "Bread", "Carol")
	require.NoError(t, err)
	assert.Equal(t, bread.ID, updated.ID)
	assert.Equal(t, "Carol", updated.Owner)

	_, err = items.UpdateOwnerByName(ctx, "Cheese", "Carol")
	assert.ErrorIs(t, err, store.ErrNotFound)

	deleted, err := items.DeleteByName(ctx, "Bread")
	require.NoError(t, err)
	assert.Equal(t, bread.ID, deleted.ID)

	_, err = items.DeleteByName(ctx, "Bread")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, items.Delete(ctx, tomato.ID))
	all, err = items.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testItemsFirstMatch(t *testing.T, s store.Store) {
	ctx := context.Background()
	items := s.Items()

	first := &models.Item{Name: "Apple", Owner: "Alice"}
	second := &models.Item{Name: "Apple", Owner: "Bob"}
	require.NoError(t, items.Create(ctx, first))
	require.NoError(t, items.Create(ctx, second))

	found, err := items.FindByName(ctx, "Apple")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = items.FindByName(ctx, "Cheese")
	assert.ErrorIs(t, err, store.ErrNotFound)

	updated, err := items.UpdateOwnerByName(ctx, "Apple", "Carol")
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)

	deleted, err := items.DeleteByName(ctx, "Apple")
	require.NoError(t, err)
	assert.Equal(t, first.ID, deleted.ID)
	assert.Equal(t, "Carol", deleted.Owner)

	rest, err := items.List(ctx)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, second.ID, rest[0].ID)
}

func testTraders(t *testing.T, s store.Store) {
	ctx := context.Background()
	traders := s.Traders()

	alice := &models.Trader{Name: "Alice", Password: "hash"}
	bob := &models.Trader{Name: "Bob", Password: "hash"}
	require.NoError(t, traders.Create(ctx, alice))
	require.NoError(t, traders.Create(ctx, bob))
	assert.NotZero(t, alice.ID)
	assert.Greater(t, bob.ID, alice.ID)

	all, err := traders.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alice", all[0].Name)
	assert.Equal(t, "hash", all[0].Password)

	found, err := traders.FindByName(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, found.ID)

	_, err = traders.FindByName(ctx, "Carol")
	assert.ErrorIs(t, err, store.ErrNotFound)

	deleted, err := traders.DeleteByName(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, deleted.ID)

	_, err = traders.DeleteByName(ctx, "Alice")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, traders.Delete(ctx, bob.ID))
	all, err = traders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testProposals(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	a := &models.Item{ID: 1}
	b := &models.Item{ID: 2}
	older := models.NewProposal(a, b, now)
	newer := models.NewProposal(b, a, now.Add(time.Second))
	require.NoError(t, s.Proposals().Create(ctx, newer))
	require.NoError(t, s.Proposals().Create(ctx, older))

	got, err := s.Proposals().Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.ProposingItemID)
	assert.Equal(t, uint64(2), got.ReceivingItemID)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.WithinDuration(t, now, got.CreatedAt, time.Second)

	pending, err := s.Proposals().ListByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, older.ID, pending[0].ID)
	assert.Equal(t, newer.ID, pending[1].ID)

	later := now.Add(time.Minute)
	require.NoError(t, s.Proposals().UpdateStatus(ctx, older.ID, models.StatusAccepted, later))

	got, err = s.Proposals().Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)
	assert.WithinDuration(t, later, got.UpdatedAt, time.Second)

	pending, err = s.Proposals().ListByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, newer.ID, pending[0].ID)

	_, err = s.Proposals().Get(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	assert.ErrorIs(t, err, store.ErrNotFound)
	err = s.Proposals().UpdateStatus(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", models.StatusAccepted, later)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testTxCommit(t *testing.T, s store.Store) {
	ctx := context.Background()
	item := &models.Item{Name: "Tomato", Owner: "Alice"}
	require.NoError(t, s.Items().Create(ctx, item))

	err := s.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.Items().SetOwner(ctx, item.ID, "Bob"); err != nil {
			return err
		}
		return tx.Traders().Create(ctx, &models.Trader{Name: "Bob"})
	})
	require.NoError(t, err)

	got, err := s.Items().Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Owner)

	traders, err := s.Traders().List(ctx)
	require.NoError(t, err)
	assert.Len(t, traders, 1)
}

func testTxRollback(t *testing.T, s store.Store) {
	ctx := context.Background()
	item := &models.Item{Name: "Tomato", Owner: "Alice"}
	require.NoError(t, s.Items().Create(ctx, item))
	now := time.Now().UTC()
	p := models.NewProposal(item, item, now)
	require.NoError(t, s.Proposals().Create(ctx, p))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.Items().SetOwner(ctx, item.ID, "Bob"); err != nil {
			return err
		}
		if err := tx.Items().Create(ctx, &models.Item{Name: "Bread", Owner: "Bob"}); err != nil {
			return err
		}
		if err := tx.Proposals().UpdateStatus(ctx, p.ID, models.StatusAccepted, now); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Items().Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Owner)

	all, err := s.Items().List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	gotP, err := s.Proposals().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, gotP.Status)
}
