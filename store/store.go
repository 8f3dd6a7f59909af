// Package store defines the storage handle shared by the services. Backends
// live in the gormstore, mongostore and memstore subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/feira-troca/backend/models"
)

// ErrNotFound is returned when a single-record lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// Items is the item collection. "First" always means lowest item id.
type Items interface {
	Create(ctx context.Context, item *models.Item) error
	Get(ctx context.Context, id uint64) (*models.Item, error)
	List(ctx context.Context) ([]models.Item, error)
	ListByOwner(ctx context.Context, owner string) ([]models.Item, error)
	FindByNameAndOwner(ctx context.Context, name, owner string) (*models.Item, error)
	// FindByName returns the first item with name.
	FindByName(ctx context.Context, name string) (*models.Item, error)
	// DeleteByName removes the first item with name and returns it.
	DeleteByName(ctx context.Context, name string) (*models.Item, error)
	// UpdateOwnerByName sets owner on the first item with name and returns it.
	UpdateOwnerByName(ctx context.Context, name, owner string) (*models.Item, error)
	SetOwner(ctx context.Context, id uint64, owner string) error
	Delete(ctx context.Context, id uint64) error
}

type Traders interface {
	Create(ctx context.Context, trader *models.Trader) error
	List(ctx context.Context) ([]models.Trader, error)
	FindByName(ctx context.Context, name string) (*models.Trader, error)
	DeleteByName(ctx context.Context, name string) (*models.Trader, error)
	Delete(ctx context.Context, id uint64) error
}

type Proposals interface {
	Create(ctx context.Context, p *models.Proposal) error
	Get(ctx context.Context, id string) (*models.Proposal, error)
	// ListByStatus returns proposals oldest first.
	ListByStatus(ctx context.Context, status models.ProposalStatus) ([]models.Proposal, error)
	UpdateStatus(ctx context.Context, id string, status models.ProposalStatus, at time.Time) error
}

// TxFunc receives a store whose writes commit or roll back together.
type TxFunc func(ctx context.Context, tx Store) error

type Store interface {
	Items() Items
	Traders() Traders
	Proposals() Proposals
	// WithinTx runs fn atomically. A non-nil error from fn undoes every write
	// made through tx and is returned unchanged.
	WithinTx(ctx context.Context, fn TxFunc) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Migrator is implemented by backends that need schema or index setup.
type Migrator interface {
	Migrate(ctx context.Context) error
}
