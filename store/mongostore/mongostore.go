// Package mongostore implements store.Store on MongoDB. Item and trader ids
// come from a counters collection, one document per sequence.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feira-troca/backend/models"
	"github.com/feira-troca/backend/store"
)

const (
	collItems     = "items"
	collTraders   = "traders"
	collProposals = "proposals"
	collCounters  = "counters"

	seqItem   = "itemId"
	seqTrader = "feiranteId"
)

type Options struct {
	// Transactions selects multi-document transactions for WithinTx. Turn it
	// off on standalone servers; writes are then compensated on failure.
	Transactions bool
}

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	opts   Options
}

var (
	_ store.Store    = (*Store)(nil)
	_ store.Migrator = (*Store)(nil)
)

func New(client *mongo.Client, database string, opts Options) *Store {
	return &Store{client: client, db: client.Database(database), opts: opts}
}

func (s *Store) Items() store.Items         { return itemRepo{s} }
func (s *Store) Traders() store.Traders     { return traderRepo{s} }
func (s *Store) Proposals() store.Proposals { return proposalRepo{s} }

func (s *Store) WithinTx(ctx context.Context, fn store.TxFunc) error {
	if !s.opts.Transactions {
		return store.RunCompensated(ctx, s, fn)
	}
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx, s)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

func (s *Store) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collItems: {
			{Keys: bson.D{{Key: "name", Value: 1}, {Key: "owner", Value: 1}}},
			{Keys: bson.D{{Key: "owner", Value: 1}}},
		},
		collTraders: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		collProposals: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}
	for coll, idx := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) nextSeq(ctx context.Context, name string) (uint64, error) {
	var counter struct {
		Seq uint64 `bson:"seq"`
	}
	err := s.db.Collection(collCounters).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: name}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: 1}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s: %w", name, err)
	}
	return counter.Seq, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

var byID = bson.D{{Key: "_id", Value: 1}}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, sort bson.D) ([]T, error) {
	cur, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type itemRepo struct{ s *Store }

func (r itemRepo) coll() *mongo.Collection { return r.s.db.Collection(collItems) }

func (r itemRepo) Create(ctx context.Context, item *models.Item) error {
	id, err := r.s.nextSeq(ctx, seqItem)
	if err != nil {
		return err
	}
	item.ID = id
	_, err = r.coll().InsertOne(ctx, item)
	return err
}

func (r itemRepo) Get(ctx context.Context, id uint64) (*models.Item, error) {
	var item models.Item
	if err := r.coll().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&item); err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r itemRepo) List(ctx context.Context) ([]models.Item, error) {
	return findAll[models.Item](ctx, r.coll(), bson.D{}, byID)
}

func (r itemRepo) ListByOwner(ctx context.Context, owner string) ([]models.Item, error) {
	return findAll[models.Item](ctx, r.coll(), bson.D{{Key: "owner", Value: owner}}, byID)
}

func (r itemRepo) FindByNameAndOwner(ctx context.Context, name, owner string) (*models.Item, error) {
	var item models.Item
	err := r.coll().FindOne(ctx,
		bson.D{{Key: "name", Value: name}, {Key: "owner", Value: owner}},
		options.FindOne().SetSort(byID),
	).Decode(&item)
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r itemRepo) FindByName(ctx context.Context, name string) (*models.Item, error) {
	var item models.Item
	err := r.coll().FindOne(ctx,
		bson.D{{Key: "name", Value: name}},
		options.FindOne().SetSort(byID),
	).Decode(&item)
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r itemRepo) DeleteByName(ctx context.Context, name string) (*models.Item, error) {
	var item models.Item
	err := r.coll().FindOneAndDelete(ctx,
		bson.D{{Key: "name", Value: name}},
		options.FindOneAndDelete().SetSort(byID),
	).Decode(&item)
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r itemRepo) UpdateOwnerByName(ctx context.Context, name, owner string) (*models.Item, error) {
	var item models.Item
	err := r.coll().FindOneAndUpdate(ctx,
		bson.D{{Key: "name", Value: name}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "owner", Value: owner}}}},
		options.FindOneAndUpdate().SetSort(byID).SetReturnDocument(options.After),
	).Decode(&item)
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r itemRepo) SetOwner(ctx context.Context, id uint64, owner string) error {
	res, err := r.coll().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "owner", Value: owner}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r itemRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.coll().DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

type traderRepo struct{ s *Store }

func (r traderRepo) coll() *mongo.Collection { return r.s.db.Collection(collTraders) }

func (r traderRepo) Create(ctx context.Context, trader *models.Trader) error {
	id, err := r.s.nextSeq(ctx, seqTrader)
	if err != nil {
		return err
	}
	trader.ID = id
	_, err = r.coll().InsertOne(ctx, trader)
	return err
}

func (r traderRepo) List(ctx context.Context) ([]models.Trader, error) {
	return findAll[models.Trader](ctx, r.coll(), bson.D{}, byID)
}

func (r traderRepo) FindByName(ctx context.Context, name string) (*models.Trader, error) {
	var trader models.Trader
	err := r.coll().FindOne(ctx, bson.D{{Key: "name", Value: name}}, options.FindOne().SetSort(byID)).Decode(&trader)
	if err != nil {
		return nil, notFound(err)
	}
	return &trader, nil
}

func (r traderRepo) DeleteByName(ctx context.Context, name string) (*models.Trader, error) {
	var trader models.Trader
	err := r.coll().FindOneAndDelete(ctx,
		bson.D{{Key: "name", Value: name}},
		options.FindOneAndDelete().SetSort(byID),
	).Decode(&trader)
	if err != nil {
		return nil, notFound(err)
	}
	return &trader, nil
}

func (r traderRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.coll().DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

type proposalRepo struct{ s *Store }

func (r proposalRepo) coll() *mongo.Collection { return r.s.db.Collection(collProposals) }

func (r proposalRepo) Create(ctx context.Context, p *models.Proposal) error {
	_, err := r.coll().InsertOne(ctx, p)
	return err
}

func (r proposalRepo) Get(ctx context.Context, id string) (*models.Proposal, error) {
	var p models.Proposal
	if err := r.coll().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r proposalRepo) ListByStatus(ctx context.Context, status models.ProposalStatus) ([]models.Proposal, error) {
	sort := bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	return findAll[models.Proposal](ctx, r.coll(), bson.D{{Key: "status", Value: status}}, sort)
}

func (r proposalRepo) UpdateStatus(ctx context.Context, id string, status models.ProposalStatus, at time.Time) error {
	res, err := r.coll().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}, {Key: "updatedAt", Value: at}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
