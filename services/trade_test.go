package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feira-troca/backend/models"
	"github.com/feira-troca/backend/store"
)

func owners(t *testing.T, s store.Store, ids ...uint64) []string {
	t.Helper()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		it, err := s.Items().Get(context.Background(), id)
		require.NoError(t, err)
		out = append(out, it.Owner)
	}
	return out
}

func tomatoForBread(t *testing.T, s store.Store) (*models.Item, *models.Item) {
	t.Helper()
	return mustCreateItem(t, s, "Tomato", "Alice"), mustCreateItem(t, s, "Bread", "Bob")
}

func propose(t *testing.T, svc *TradeService) *models.Proposal {
	t.Helper()
	p, err := svc.ProposeTrade(context.Background(), ProposeTradeInput{
		ProposingItem: &ItemRef{Name: "Tomato", Owner: "Alice"},
		ReceivingItem: &ItemRef{Name: "Bread", Owner: "Bob"},
	})
	require.NoError(t, err)
	return p
}

func TestProposeTradeValidatesBeforeLookup(t *testing.T) {
	tests := []struct {
		name string
		in   ProposeTradeInput
	}{
		{"both missing", ProposeTradeInput{}},
		{"receiving missing", ProposeTradeInput{ProposingItem: &ItemRef{Name: "Tomato", Owner: "Alice"}}},
		{"proposing missing", ProposeTradeInput{ReceivingItem: &ItemRef{Name: "Bread", Owner: "Bob"}}},
		{"empty name", ProposeTradeInput{
			ProposingItem: &ItemRef{Owner: "Alice"},
			ReceivingItem: &ItemRef{Name: "Bread", Owner: "Bob"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFaultyStore(newMemStore(), 0)
			_, err := NewTradeService(s).ProposeTrade(context.Background(), tt.in)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Zero(t, s.counts.lookups)
		})
	}
}

func TestProposeTradeNamesMissingSide(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	mustCreateItem(t, s, "Tomato", "Alice")
	mustCreateItem(t, s, "Bread", "Bob")
	svc := NewTradeService(s)

	_, err := svc.ProposeTrade(ctx, ProposeTradeInput{
		ProposingItem: &ItemRef{Name: "Tomato", Owner: "Bob"},
		ReceivingItem: &ItemRef{Name: "Bread", Owner: "Bob"},
	})
	var ne *NotFoundError
	require.ErrorAs(t, err, &ne)
	assert.Contains(t, ne.Message, "Item proposto")

	_, err = svc.ProposeTrade(ctx, ProposeTradeInput{
		ProposingItem: &ItemRef{Name: "Tomato", Owner: "Alice"},
		ReceivingItem: &ItemRef{Name: "Cheese", Owner: "Bob"},
	})
	require.ErrorAs(t, err, &ne)
	assert.Contains(t, ne.Message, "Item recebido")

	pending, err := svc.ListPendingProposals(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProposeTradeCreatesPendingProposal(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	tomato, bread := tomatoForBread(t, s)
	svc := NewTradeService(s)

	p := propose(t, svc)
	assert.Len(t, p.ID, 26)
	assert.Equal(t, models.StatusPending, p.Status)
	assert.Equal(t, tomato.ID, p.ProposingItemID)
	assert.Equal(t, bread.ID, p.ReceivingItemID)

	pending, err := svc.ListPendingProposals(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, p.ID, pending[0].ID)
	require.NotNil(t, pending[0].ProposingItem)
	assert.Equal(t, "Tomato", pending[0].ProposingItem.Name)
	require.NotNil(t, pending[0].ReceivingItem)
	assert.Equal(t, "Bob", pending[0].ReceivingItem.Owner)
}

func TestProposeTradeAllowsSelfTrade(t *testing.T) {
	s := newMemStore()
	mustCreateItem(t, s, "Tomato", "Alice")
	p, err := NewTradeService(s).ProposeTrade(context.Background(), ProposeTradeInput{
		ProposingItem: &ItemRef{Name: "Tomato", Owner: "Alice"},
		ReceivingItem: &ItemRef{Name: "Tomato", Owner: "Alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, p.ProposingItemID, p.ReceivingItemID)
}

func TestListPendingResolvesDeletedItemToNil(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	tomatoForBread(t, s)
	svc := NewTradeService(s)
	propose(t, svc)

	_, err := NewCatalogService(s).DeleteItem(ctx, "Bread", "")
	require.NoError(t, err)

	pending, err := svc.ListPendingProposals(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.NotNil(t, pending[0].ProposingItem)
	assert.Nil(t, pending[0].ReceivingItem)
}

func TestListPendingOrderedByCreation(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	tomatoForBread(t, s)
	svc := NewTradeService(s)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first := propose(t, svc)
	second := propose(t, svc)

	pending, err := svc.ListPendingProposals(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)
}

func TestAcceptTradeSwapsOwners(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	tomato, bread := tomatoForBread(t, s)
	svc := NewTradeService(s)
	p := propose(t, svc)

	accepted, err := svc.AcceptTrade(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, accepted.Status)
	assert.Equal(t, "Bob", accepted.ProposingItem.Owner)
	assert.Equal(t, "Alice", accepted.ReceivingItem.Owner)

	assert.Equal(t, []string{"Bob", "Alice"}, owners(t, s, tomato.ID, bread.ID))

	stored, err := s.Proposals().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, stored.Status)

	pending, err := svc.ListPendingProposals(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestAcceptTradeErrors(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	tomato, bread := tomatoForBread(t, s)
	svc := NewTradeService(s)

	_, err := svc.AcceptTrade(ctx, "", "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = svc.AcceptTrade(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", "")
	var ne *NotFoundError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, []string{"Alice", "Bob"}, owners(t, s, tomato.ID, bread.ID))
}

func TestAcceptTradeTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	tomato, bread := tomatoForBread(t, s)
	svc := NewTradeService(s)
	p := propose(t, svc)

	_, err := svc.AcceptTrade(ctx, p.ID, "")
	require.NoError(t, err)

	_, err = svc.AcceptTrade(ctx, p.ID, "")
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"Bob", "Alice"}, owners(t, s, tomato.ID, bread.ID))
}

func TestAcceptTradeMissingItem(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	tomato, _ := tomatoForBread(t, s)
	svc := NewTradeService(s)
	p := propose(t, svc)

	require.NoError(t, s.Items().Delete(ctx, p.ReceivingItemID))

	_, err := svc.AcceptTrade(ctx, p.ID, "")
	var ne *NotFoundError
	require.ErrorAs(t, err, &ne)
	assert.Contains(t, ne.Message, "receiving")
	assert.Equal(t, []string{"Alice"}, owners(t, s, tomato.ID))

	stored, err := s.Proposals().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPending())
}

func TestAcceptTradeRollsBackWhenSecondWriteFails(t *testing.T) {
	ctx := context.Background()
	mem := newMemStore()
	tomato, bread := tomatoForBread(t, mem)
	p := propose(t, NewTradeService(mem))

	faulty := newFaultyStore(mem, 2)
	_, err := NewTradeService(faulty).AcceptTrade(ctx, p.ID, "")

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, errInjected)
	assert.Equal(t, 2, faulty.counts.setOwner)

	assert.Equal(t, []string{"Alice", "Bob"}, owners(t, mem, tomato.ID, bread.ID))
	stored, err := mem.Proposals().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPending())
}

func TestAcceptTradeCompensatedRollback(t *testing.T) {
	ctx := context.Background()
	mem := newMemStore()
	tomato, bread := tomatoForBread(t, mem)
	p := propose(t, NewTradeService(mem))

	faulty := &compensatedStore{newFaultyStore(mem, 2)}
	_, err := NewTradeService(faulty).AcceptTrade(ctx, p.ID, "")
	require.ErrorIs(t, err, errInjected)

	assert.Equal(t, []string{"Alice", "Bob"}, owners(t, mem, tomato.ID, bread.ID))
}

func TestTradeActorChecks(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	tomato, bread := tomatoForBread(t, s)
	svc := NewTradeService(s)

	_, err := svc.ProposeTrade(ctx, ProposeTradeInput{
		ProposingItem: &ItemRef{Name: "Tomato", Owner: "Alice"},
		ReceivingItem: &ItemRef{Name: "Bread", Owner: "Bob"},
		Actor:         "Bob",
	})
	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)

	p, err := svc.ProposeTrade(ctx, ProposeTradeInput{
		ProposingItem: &ItemRef{Name: "Tomato", Owner: "Alice"},
		ReceivingItem: &ItemRef{Name: "Bread", Owner: "Bob"},
		Actor:         "Alice",
	})
	require.NoError(t, err)

	_, err = svc.AcceptTrade(ctx, p.ID, "Alice")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"Alice", "Bob"}, owners(t, s, tomato.ID, bread.ID))

	_, err = svc.AcceptTrade(ctx, p.ID, "Bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "Alice"}, owners(t, s, tomato.ID, bread.ID))
}
