package services

import (
	"context"
	"errors"

	"github.com/feira-troca/backend/models"
	"github.com/feira-troca/backend/store"
)

// CatalogService manages items and traders.
type CatalogService struct {
	store store.Store
}

func NewCatalogService(s store.Store) *CatalogService {
	return &CatalogService{store: s}
}

type CreateTraderInput struct {
	Name      string
	Password  string
	Inventory []models.Item
}

type CreateItemInput struct {
	Name        string
	Description string
	ImgURL      string
	Owner       string
	// Actor is the authenticated trader, empty when auth is off.
	Actor string
}

// CreateTrader stores the trader with a hashed password. Inventory entries
// become items owned by the new trader, written in the same transaction.
func (s *CatalogService) CreateTrader(ctx context.Context, in CreateTraderInput) (*models.Trader, error) {
	trader := &models.Trader{Name: in.Name}
	if err := trader.HashPassword(in.Password); err != nil {
		return nil, &PersistenceError{Message: "Erro ao salvar feirante", Err: err}
	}

	inventory := make([]models.Item, 0, len(in.Inventory))
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		// The callback may be retried on transient transaction errors.
		inventory = inventory[:0]
		if err := tx.Traders().Create(ctx, trader); err != nil {
			return err
		}
		for _, it := range in.Inventory {
			item := models.Item{
				Name:        it.Name,
				Description: it.Description,
				ImgURL:      it.ImgURL,
				Owner:       trader.Name,
			}
			if err := tx.Items().Create(ctx, &item); err != nil {
				return err
			}
			inventory = append(inventory, item)
		}
		return nil
	})
	if err != nil {
		return nil, persistence("Erro ao salvar feirante", err)
	}

	trader.Inventory = inventory
	return trader, nil
}

func (s *CatalogService) CreateItem(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	if in.Actor != "" && in.Owner != in.Actor {
		return nil, &ForbiddenError{Message: "traders can only list items they own"}
	}
	item := &models.Item{
		Name:        in.Name,
		Description: in.Description,
		ImgURL:      in.ImgURL,
		Owner:       in.Owner,
	}
	if err := s.store.Items().Create(ctx, item); err != nil {
		return nil, persistence("Erro ao salvar item", err)
	}
	return item, nil
}

func (s *CatalogService) ListItems(ctx context.Context) ([]models.Item, error) {
	items, err := s.store.Items().List(ctx)
	if err != nil {
		return nil, persistence("failed to fetch items", err)
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

func (s *CatalogService) ListItemsByOwner(ctx context.Context, owner string) ([]models.Item, error) {
	items, err := s.store.Items().ListByOwner(ctx, owner)
	if err != nil {
		return nil, persistence("failed to fetch items", err)
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

// ListTraders returns every trader with the inventory resolved from items.
func (s *CatalogService) ListTraders(ctx context.Context) ([]models.Trader, error) {
	traders, err := s.store.Traders().List(ctx)
	if err != nil {
		return nil, persistence("failed to fetch traders", err)
	}
	items, err := s.store.Items().List(ctx)
	if err != nil {
		return nil, persistence("failed to fetch traders", err)
	}

	byOwner := make(map[string][]models.Item)
	for _, it := range items {
		byOwner[it.Owner] = append(byOwner[it.Owner], it)
	}
	for i := range traders {
		traders[i].Inventory = byOwner[traders[i].Name]
		if traders[i].Inventory == nil {
			traders[i].Inventory = []models.Item{}
		}
	}
	if traders == nil {
		traders = []models.Trader{}
	}
	return traders, nil
}

// DeleteTrader removes the first trader named name. A nil trader with a nil
// error means nothing matched. The trader's items are kept. A non-empty actor
// may only delete their own record.
func (s *CatalogService) DeleteTrader(ctx context.Context, name, actor string) (*models.Trader, error) {
	if actor != "" && actor != name {
		return nil, &ForbiddenError{Message: "traders can only delete their own account"}
	}

	trader, err := s.store.Traders().DeleteByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("failed to delete trader", err)
	}

	inventory, err := s.ListItemsByOwner(ctx, trader.Name)
	if err != nil {
		return nil, err
	}
	trader.Inventory = inventory
	return trader, nil
}

// DeleteItem removes the first item named name, or returns nil, nil. A
// non-empty actor must own that item.
func (s *CatalogService) DeleteItem(ctx context.Context, name, actor string) (*models.Item, error) {
	var deleted *models.Item
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := checkItemOwner(ctx, tx, name, actor); err != nil {
			return err
		}
		item, err := tx.Items().DeleteByName(ctx, name)
		if err != nil {
			return err
		}
		deleted = item
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("failed to delete item", err)
	}
	return deleted, nil
}

// ReassignItemOwner moves the first item named name to newOwner, or returns
// nil, nil when no item has that name. A non-empty actor must own that item.
func (s *CatalogService) ReassignItemOwner(ctx context.Context, name, newOwner, actor string) (*models.Item, error) {
	var updated *models.Item
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := checkItemOwner(ctx, tx, name, actor); err != nil {
			return err
		}
		item, err := tx.Items().UpdateOwnerByName(ctx, name, newOwner)
		if err != nil {
			return err
		}
		updated = item
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("failed to update item", err)
	}
	return updated, nil
}

func checkItemOwner(ctx context.Context, tx store.Store, name, actor string) error {
	if actor == "" {
		return nil
	}
	item, err := tx.Items().FindByName(ctx, name)
	if err != nil {
		return err
	}
	if item.Owner != actor {
		return &ForbiddenError{Message: "only the owner can change this item"}
	}
	return nil
}
