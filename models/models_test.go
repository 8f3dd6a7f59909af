package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraderPassword(t *testing.T) {
	tr := &Trader{Name: "Alice"}
	require.NoError(t, tr.HashPassword("s3cret"))

	assert.NotEqual(t, "s3cret", tr.Password)
	assert.True(t, tr.CheckPassword("s3cret"))
	assert.False(t, tr.CheckPassword("wrong"))
}

func TestTraderLongPassword(t *testing.T) {
	long := strings.Repeat("x", 100)
	tr := &Trader{Name: "Carol"}
	require.NoError(t, tr.HashPassword(long))

	assert.True(t, tr.CheckPassword(long))
	assert.False(t, tr.CheckPassword(long[:72]))
	assert.False(t, tr.CheckPassword(long+"x"))
}

func TestNewProposal(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	a := &Item{ID: 1, Name: "Tomato", Owner: "Alice"}
	b := &Item{ID: 2, Name: "Bread", Owner: "Bob"}

	p := NewProposal(a, b, now)

	assert.Len(t, p.ID, 26)
	assert.Equal(t, uint64(1), p.ProposingItemID)
	assert.Equal(t, uint64(2), p.ReceivingItemID)
	assert.True(t, p.IsPending())
	assert.Equal(t, now, p.CreatedAt)
	assert.Nil(t, p.ProposingItem)

	other := NewProposal(a, b, now)
	assert.NotEqual(t, p.ID, other.ID)
}
