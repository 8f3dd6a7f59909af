// Package memstore keeps all records in process memory. It backs the
// "memory" storage driver and the HTTP and service tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/feira-troca/backend/models"
	"github.com/feira-troca/backend/store"
)

type state struct {
	items      map[uint64]models.Item
	traders    map[uint64]models.Trader
	proposals  map[string]models.Proposal
	nextItem   uint64
	nextTrader uint64
}

func newState() *state {
	return &state{
		items:     make(map[uint64]models.Item),
		traders:   make(map[uint64]models.Trader),
		proposals: make(map[string]models.Proposal),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.items {
		c.items[k] = v
	}
	for k, v := range st.traders {
		c.traders[k] = v
	}
	for k, v := range st.proposals {
		c.proposals[k] = v
	}
	c.nextItem = st.nextItem
	c.nextTrader = st.nextTrader
	return c
}

type db struct {
	mu sync.Mutex
	st *state
}

// Store is safe for concurrent use. Transactions serialize with every other
// operation and work on a copy that replaces the live state on commit.
type Store struct {
	db *db
	tx *state
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{db: &db{st: newState()}}
}

func (s *Store) do(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return fn(s.db.st)
}

func (s *Store) Items() store.Items         { return itemRepo{s} }
func (s *Store) Traders() store.Traders     { return traderRepo{s} }
func (s *Store) Proposals() store.Proposals { return proposalRepo{s} }

func (s *Store) WithinTx(ctx context.Context, fn store.TxFunc) error {
	if s.tx != nil {
		return fn(ctx, s)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	work := s.db.st.clone()
	if err := fn(ctx, &Store{db: s.db, tx: work}); err != nil {
		return err
	}
	s.db.st = work
	return nil
}

func (s *Store) Ping(ctx context.Context) error  { return ctx.Err() }
func (s *Store) Close(ctx context.Context) error { return nil }

func sortedItems(st *state, keep func(models.Item) bool) []models.Item {
	out := make([]models.Item, 0, len(st.items))
	for _, it := range st.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func firstItem(st *state, keep func(models.Item) bool) (models.Item, bool) {
	matches := sortedItems(st, keep)
	if len(matches) == 0 {
		return models.Item{}, false
	}
	return matches[0], true
}

type itemRepo struct{ s *Store }

func (r itemRepo) Create(ctx context.Context, item *models.Item) error {
	return r.s.do(func(st *state) error {
		st.nextItem++
		item.ID = st.nextItem
		st.items[item.ID] = *item
		return nil
	})
}

func (r itemRepo) Get(ctx context.Context, id uint64) (*models.Item, error) {
	var out models.Item
	err := r.s.do(func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return store.ErrNotFound
		}
		out = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r itemRepo) List(ctx context.Context) ([]models.Item, error) {
	var out []models.Item
	err := r.s.do(func(st *state) error {
		out = sortedItems(st, func(models.Item) bool { return true })
		return nil
	})
	return out, err
}

func (r itemRepo) ListByOwner(ctx context.Context, owner string) ([]models.Item, error) {
	var out []models.Item
	err := r.s.do(func(st *state) error {
		out = sortedItems(st, func(it models.Item) bool { return it.Owner == owner })
		return nil
	})
	return out, err
}

func (r itemRepo) FindByNameAndOwner(ctx context.Context, name, owner string) (*models.Item, error) {
	var out models.Item
	err := r.s.do(func(st *state) error {
		it, ok := firstItem(st, func(it models.Item) bool { return it.Name == name && it.Owner == owner })
		if !ok {
			return store.ErrNotFound
		}
		out = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r itemRepo) FindByName(ctx context.Context, name string) (*models.Item, error) {
	var out models.Item
	err := r.s.do(func(st *state) error {
		it, ok := firstItem(st, func(it models.Item) bool { return it.Name == name })
		if !ok {
			return store.ErrNotFound
		}
		out = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r itemRepo) DeleteByName(ctx context.Context, name string) (*models.Item, error) {
	var out models.Item
	err := r.s.do(func(st *state) error {
		it, ok := firstItem(st, func(it models.Item) bool { return it.Name == name })
		if !ok {
			return store.ErrNotFound
		}
		delete(st.items, it.ID)
		out = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r itemRepo) UpdateOwnerByName(ctx context.Context, name, owner string) (*models.Item, error) {
	var out models.Item
	err := r.s.do(func(st *state) error {
		it, ok := firstItem(st, func(it models.Item) bool { return it.Name == name })
		if !ok {
			return store.ErrNotFound
		}
		it.Owner = owner
		st.items[it.ID] = it
		out = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r itemRepo) SetOwner(ctx context.Context, id uint64, owner string) error {
	return r.s.do(func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return store.ErrNotFound
		}
		it.Owner = owner
		st.items[id] = it
		return nil
	})
}

func (r itemRepo) Delete(ctx context.Context, id uint64) error {
	return r.s.do(func(st *state) error {
		if _, ok := st.items[id]; !ok {
			return store.ErrNotFound
		}
		delete(st.items, id)
		return nil
	})
}

type traderRepo struct{ s *Store }

func sortedTraders(st *state) []models.Trader {
	out := make([]models.Trader, 0, len(st.traders))
	for _, tr := range st.traders {
		out = append(out, tr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func firstTraderByName(st *state, name string) (models.Trader, bool) {
	for _, tr := range sortedTraders(st) {
		if tr.Name == name {
			return tr, true
		}
	}
	return models.Trader{}, false
}

func (r traderRepo) Create(ctx context.Context, trader *models.Trader) error {
	return r.s.do(func(st *state) error {
		st.nextTrader++
		trader.ID = st.nextTrader
		stored := *trader
		stored.Inventory = nil
		st.traders[trader.ID] = stored
		return nil
	})
}

func (r traderRepo) List(ctx context.Context) ([]models.Trader, error) {
	var out []models.Trader
	err := r.s.do(func(st *state) error {
		out = sortedTraders(st)
		return nil
	})
	return out, err
}

func (r traderRepo) FindByName(ctx context.Context, name string) (*models.Trader, error) {
	var out models.Trader
	err := r.s.do(func(st *state) error {
		tr, ok := firstTraderByName(st, name)
		if !ok {
			return store.ErrNotFound
		}
		out = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r traderRepo) DeleteByName(ctx context.Context, name string) (*models.Trader, error) {
	var out models.Trader
	err := r.s.do(func(st *state) error {
		tr, ok := firstTraderByName(st, name)
		if !ok {
			return store.ErrNotFound
		}
		delete(st.traders, tr.ID)
		out = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r traderRepo) Delete(ctx context.Context, id uint64) error {
	return r.s.do(func(st *state) error {
		if _, ok := st.traders[id]; !ok {
			return store.ErrNotFound
		}
		delete(st.traders, id)
		return nil
	})
}

type proposalRepo struct{ s *Store }

func (r proposalRepo) Create(ctx context.Context, p *models.Proposal) error {
	return r.s.do(func(st *state) error {
		stored := *p
		stored.ProposingItem = nil
		stored.ReceivingItem = nil
		st.proposals[p.ID] = stored
		return nil
	})
}

func (r proposalRepo) Get(ctx context.Context, id string) (*models.Proposal, error) {
	var out models.Proposal
	err := r.s.do(func(st *state) error {
		p, ok := st.proposals[id]
		if !ok {
			return store.ErrNotFound
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r proposalRepo) ListByStatus(ctx context.Context, status models.ProposalStatus) ([]models.Proposal, error) {
	var out []models.Proposal
	err := r.s.do(func(st *state) error {
		for _, p := range st.proposals {
			if p.Status == status {
				out = append(out, p)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].ID < out[j].ID
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
		return nil
	})
	return out, err
}

func (r proposalRepo) UpdateStatus(ctx context.Context, id string, status models.ProposalStatus, at time.Time) error {
	return r.s.do(func(st *state) error {
		p, ok := st.proposals[id]
		if !ok {
			return store.ErrNotFound
		}
		p.Status = status
		p.UpdatedAt = at
		st.proposals[id] = p
		return nil
	})
}
