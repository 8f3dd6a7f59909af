package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/feira-troca/backend/models"
	"github.com/feira-troca/backend/store"
)

// ItemRef names an item by its name and current owner.
type ItemRef struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

type ProposeTradeInput struct {
	ProposingItem *ItemRef
	ReceivingItem *ItemRef
	// Actor is the authenticated trader, empty when auth is off.
	Actor string
}

// TradeService runs the propose/list/accept workflow over proposals.
type TradeService struct {
	store store.Store
	now   func() time.Time
}

func NewTradeService(s store.Store) *TradeService {
	return &TradeService{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// ProposeTrade records a pending proposal between two existing items.
func (s *TradeService) ProposeTrade(ctx context.Context, in ProposeTradeInput) (*models.Proposal, error) {
	if in.ProposingItem == nil || in.ProposingItem.Name == "" ||
		in.ReceivingItem == nil || in.ReceivingItem.Name == "" {
		return nil, &ValidationError{Message: "Dados da troca incompletos"}
	}

	proposing, err := s.store.Items().FindByNameAndOwner(ctx, in.ProposingItem.Name, in.ProposingItem.Owner)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, persistence("Erro ao criar a proposta de troca", err)
	}
	receiving, rerr := s.store.Items().FindByNameAndOwner(ctx, in.ReceivingItem.Name, in.ReceivingItem.Owner)
	if rerr != nil && !errors.Is(rerr, store.ErrNotFound) {
		return nil, persistence("Erro ao criar a proposta de troca", rerr)
	}

	if proposing == nil {
		return nil, &NotFoundError{Message: fmt.Sprintf(
			"Item proposto '%s' do dono '%s' não foi encontrado", in.ProposingItem.Name, in.ProposingItem.Owner)}
	}
	if receiving == nil {
		return nil, &NotFoundError{Message: fmt.Sprintf(
			"Item recebido '%s' do dono '%s' não foi encontrado", in.ReceivingItem.Name, in.ReceivingItem.Owner)}
	}
	if in.Actor != "" && proposing.Owner != in.Actor {
		return nil, &ForbiddenError{Message: "only the owner of the proposing item can propose this trade"}
	}

	proposal := models.NewProposal(proposing, receiving, s.now())
	if err := s.store.Proposals().Create(ctx, proposal); err != nil {
		return nil, persistence("Erro ao criar a proposta de troca", err)
	}
	proposal.ProposingItem = proposing
	proposal.ReceivingItem = receiving
	return proposal, nil
}

// ListPendingProposals returns pending proposals with both items resolved to
// their current records. A deleted item resolves to nil.
func (s *TradeService) ListPendingProposals(ctx context.Context) ([]models.Proposal, error) {
	proposals, err := s.store.Proposals().ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, persistence("Erro ao buscar propostas", err)
	}

	cache := make(map[uint64]*models.Item)
	resolve := func(id uint64) (*models.Item, error) {
		if it, ok := cache[id]; ok {
			return it, nil
		}
		it, err := s.store.Items().Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			it, err = nil, nil
		}
		if err != nil {
			return nil, err
		}
		cache[id] = it
		return it, nil
	}

	for i := range proposals {
		p := &proposals[i]
		if p.ProposingItem, err = resolve(p.ProposingItemID); err != nil {
			return nil, persistence("Erro ao buscar propostas", err)
		}
		if p.ReceivingItem, err = resolve(p.ReceivingItemID); err != nil {
			return nil, persistence("Erro ao buscar propostas", err)
		}
	}
	if proposals == nil {
		proposals = []models.Proposal{}
	}
	return proposals, nil
}

// AcceptTrade swaps the owners of the two items and marks the proposal
// accepted, all in one transaction. Only pending proposals can be accepted.
func (s *TradeService) AcceptTrade(ctx context.Context, id, actor string) (*models.Proposal, error) {
	if id == "" {
		return nil, &ValidationError{Message: "tradeId is required"}
	}

	var accepted *models.Proposal
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx store.Store) error {
		p, err := tx.Proposals().Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return &NotFoundError{Message: "Proposta de troca não encontrada"}
		}
		if err != nil {
			return err
		}
		if !p.IsPending() {
			return &ConflictError{Message: fmt.Sprintf("trade proposal is already %s", p.Status)}
		}

		proposing, err := loadItem(ctx, tx, p.ProposingItemID, "proposing")
		if err != nil {
			return err
		}
		receiving, err := loadItem(ctx, tx, p.ReceivingItemID, "receiving")
		if err != nil {
			return err
		}
		if actor != "" && receiving.Owner != actor {
			return &ForbiddenError{Message: "only the owner of the receiving item can accept this trade"}
		}

		proposing.Owner, receiving.Owner = receiving.Owner, proposing.Owner
		if err := tx.Items().SetOwner(ctx, proposing.ID, proposing.Owner); err != nil {
			return err
		}
		if err := tx.Items().SetOwner(ctx, receiving.ID, receiving.Owner); err != nil {
			return err
		}

		now := s.now()
		if err := tx.Proposals().UpdateStatus(ctx, p.ID, models.StatusAccepted, now); err != nil {
			return err
		}
		p.Status = models.StatusAccepted
		p.UpdatedAt = now
		p.ProposingItem = proposing
		p.ReceivingItem = receiving
		accepted = p
		return nil
	})
	if err != nil {
		return nil, persistence("Erro ao aceitar a troca", err)
	}
	return accepted, nil
}

func loadItem(ctx context.Context, tx store.Store, id uint64, side string) (*models.Item, error) {
	item, err := tx.Items().Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{Message: fmt.Sprintf("%s item no longer exists", side)}
	}
	return item, err
}
