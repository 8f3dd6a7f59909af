package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/feira-troca/backend/models"
)

// RunCompensated gives fn a view of s that journals an undo step for every
// create, owner change and status change. If fn fails, the steps run in
// reverse order. It stands in for WithinTx on backends without transactions;
// concurrent writers can still observe the intermediate state.
func RunCompensated(ctx context.Context, s Store, fn TxFunc) error {
	j := &journal{Store: s}
	err := fn(ctx, j)
	if err == nil {
		return nil
	}
	if uerr := j.rollback(context.WithoutCancel(ctx)); uerr != nil {
		return errors.Join(err, fmt.Errorf("compensate: %w", uerr))
	}
	return err
}

type undoFunc func(ctx context.Context) error

type journal struct {
	Store
	steps []undoFunc
}

func (j *journal) record(step undoFunc) {
	j.steps = append(j.steps, step)
}

func (j *journal) rollback(ctx context.Context) error {
	var errs []error
	for i := len(j.steps) - 1; i >= 0; i-- {
		if err := j.steps[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	j.steps = nil
	return errors.Join(errs...)
}

func (j *journal) Items() Items         { return &journalItems{Items: j.Store.Items(), j: j} }
func (j *journal) Traders() Traders     { return &journalTraders{Traders: j.Store.Traders(), j: j} }
func (j *journal) Proposals() Proposals { return &journalProposals{Proposals: j.Store.Proposals(), j: j} }

// WithinTx joins the surrounding journal.
func (j *journal) WithinTx(ctx context.Context, fn TxFunc) error {
	return fn(ctx, j)
}

type journalItems struct {
	Items
	j *journal
}

func (r *journalItems) Create(ctx context.Context, item *models.Item) error {
	if err := r.Items.Create(ctx, item); err != nil {
		return err
	}
	id := item.ID
	r.j.record(func(ctx context.Context) error { return r.Items.Delete(ctx, id) })
	return nil
}

func (r *journalItems) SetOwner(ctx context.Context, id uint64, owner string) error {
	prev, err := r.Items.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.Items.SetOwner(ctx, id, owner); err != nil {
		return err
	}
	r.j.record(func(ctx context.Context) error { return r.Items.SetOwner(ctx, id, prev.Owner) })
	return nil
}

type journalTraders struct {
	Traders
	j *journal
}

func (r *journalTraders) Create(ctx context.Context, trader *models.Trader) error {
	if err := r.Traders.Create(ctx, trader); err != nil {
		return err
	}
	id := trader.ID
	r.j.record(func(ctx context.Context) error { return r.Traders.Delete(ctx, id) })
	return nil
}

type journalProposals struct {
	Proposals
	j *journal
}

func (r *journalProposals) UpdateStatus(ctx context.Context, id string, status models.ProposalStatus, at time.Time) error {
	prev, err := r.Proposals.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.Proposals.UpdateStatus(ctx, id, status, at); err != nil {
		return err
	}
	r.j.record(func(ctx context.Context) error {
		return r.Proposals.UpdateStatus(ctx, id, prev.Status, prev.UpdatedAt)
	})
	return nil
}
