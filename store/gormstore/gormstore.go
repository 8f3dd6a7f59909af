// Package gormstore implements store.Store with GORM over MySQL, PostgreSQL
// or SQLite.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/feira-troca/backend/models"
	"github.com/feira-troca/backend/store"
)

type Store struct {
	db *gorm.DB
}

var (
	_ store.Store    = (*Store)(nil)
	_ store.Migrator = (*Store)(nil)
)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Items() store.Items         { return itemRepo{db: s.db} }
func (s *Store) Traders() store.Traders     { return traderRepo{db: s.db} }
func (s *Store) Proposals() store.Proposals { return proposalRepo{db: s.db} }

func (s *Store) WithinTx(ctx context.Context, fn store.TxFunc) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Store{db: tx})
	})
}

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

type itemRepo struct{ db *gorm.DB }

func (r itemRepo) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r itemRepo) Get(ctx context.Context, id uint64) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "item_id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r itemRepo) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).Order("item_id").Find(&items).Error
	return items, err
}

func (r itemRepo) ListByOwner(ctx context.Context, owner string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).Where("owner = ?", owner).Order("item_id").Find(&items).Error
	return items, err
}

func (r itemRepo) FindByNameAndOwner(ctx context.Context, name, owner string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Where("name = ? AND owner = ?", name, owner).
		Order("item_id").
		First(&item).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r itemRepo) FindByName(ctx context.Context, name string) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("item_id").First(&item).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r itemRepo) DeleteByName(ctx context.Context, name string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name = ?", name).Order("item_id").First(&item).Error; err != nil {
			return notFound(err)
		}
		return tx.Delete(&models.Item{}, "item_id = ?", item.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r itemRepo) UpdateOwnerByName(ctx context.Context, name, owner string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name = ?", name).Order("item_id").First(&item).Error; err != nil {
			return notFound(err)
		}
		item.Owner = owner
		return tx.Model(&models.Item{}).Where("item_id = ?", item.ID).Update("owner", owner).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r itemRepo) SetOwner(ctx context.Context, id uint64, owner string) error {
	res := r.db.WithContext(ctx).Model(&models.Item{}).Where("item_id = ?", id).Update("owner", owner)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r itemRepo) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&models.Item{}, "item_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type traderRepo struct{ db *gorm.DB }

func (r traderRepo) Create(ctx context.Context, trader *models.Trader) error {
	return r.db.WithContext(ctx).Create(trader).Error
}

func (r traderRepo) List(ctx context.Context) ([]models.Trader, error) {
	var traders []models.Trader
	err := r.db.WithContext(ctx).Order("feirante_id").Find(&traders).Error
	return traders, err
}

func (r traderRepo) FindByName(ctx context.Context, name string) (*models.Trader, error) {
	var trader models.Trader
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("feirante_id").First(&trader).Error; err != nil {
		return nil, notFound(err)
	}
	return &trader, nil
}

func (r traderRepo) DeleteByName(ctx context.Context, name string) (*models.Trader, error) {
	var trader models.Trader
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name = ?", name).Order("feirante_id").First(&trader).Error; err != nil {
			return notFound(err)
		}
		return tx.Delete(&models.Trader{}, "feirante_id = ?", trader.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &trader, nil
}

func (r traderRepo) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&models.Trader{}, "feirante_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type proposalRepo struct{ db *gorm.DB }

func (r proposalRepo) Create(ctx context.Context, p *models.Proposal) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r proposalRepo) Get(ctx context.Context, id string) (*models.Proposal, error) {
	var p models.Proposal
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r proposalRepo) ListByStatus(ctx context.Context, status models.ProposalStatus) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at, id").
		Find(&proposals).Error
	return proposals, err
}

func (r proposalRepo) UpdateStatus(ctx context.Context, id string, status models.ProposalStatus, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
