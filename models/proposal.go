package models

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type ProposalStatus string

const (
	StatusPending  ProposalStatus = "Pendente"
	StatusAccepted ProposalStatus = "accepted"
)

// Proposal asks to exchange ProposingItemID for ReceivingItemID. The item
// pointers are filled on read with the live records and are never stored.
type Proposal struct {
	ID              string         `gorm:"primaryKey;size:26" bson:"_id" json:"id"`
	ProposingItemID uint64         `gorm:"index" bson:"proposingItem" json:"proposingItemId"`
	ReceivingItemID uint64         `gorm:"index" bson:"receivingItem" json:"receivingItemId"`
	Status          ProposalStatus `gorm:"size:32;index" bson:"status" json:"status"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`

	ProposingItem *Item `gorm:"-" bson:"-" json:"proposingItem"`
	ReceivingItem *Item `gorm:"-" bson:"-" json:"receivingItem"`
}

// NewProposal builds a pending proposal between two stored items.
func NewProposal(proposing, receiving *Item, now time.Time) *Proposal {
	return &Proposal{
		ID:              ulid.Make().String(),
		ProposingItemID: proposing.ID,
		ReceivingItemID: receiving.ID,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (p *Proposal) IsPending() bool {
	return p.Status == StatusPending
}
