package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T, ttl time.Duration) *AuthService {
	t.Helper()
	s := newMemStore()
	_, err := NewCatalogService(s).CreateTrader(context.Background(), CreateTraderInput{Name: "Alice", Password: "s3cret"})
	require.NoError(t, err)
	return NewAuthService(s, "test-secret", ttl)
}

func TestLoginIssuesToken(t *testing.T) {
	auth := newAuthFixture(t, time.Hour)

	token, trader, err := auth.Login(context.Background(), "Alice", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Alice", trader.Name)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, trader.ID, claims.FeiranteID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := newAuthFixture(t, time.Hour)
	ctx := context.Background()

	_, _, err := auth.Login(ctx, "Alice", "wrong")
	var ue *UnauthorizedError
	require.ErrorAs(t, err, &ue)

	_, _, err2 := auth.Login(ctx, "Nobody", "s3cret")
	require.ErrorAs(t, err2, &ue)
	assert.Equal(t, err.Error(), err2.Error())

	_, _, err = auth.Login(ctx, "", "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestParseTokenRejectsForeignAndExpired(t *testing.T) {
	auth := newAuthFixture(t, time.Hour)
	other := NewAuthService(newMemStore(), "other-secret", time.Hour)

	token, _, err := auth.Login(context.Background(), "Alice", "s3cret")
	require.NoError(t, err)
	_, err = other.ParseToken(token)
	var ue *UnauthorizedError
	require.ErrorAs(t, err, &ue)

	expired := newAuthFixture(t, -time.Minute)
	token, _, err = expired.Login(context.Background(), "Alice", "s3cret")
	require.NoError(t, err)
	_, err = expired.ParseToken(token)
	require.ErrorAs(t, err, &ue)

	_, err = auth.ParseToken("not-a-token")
	require.ErrorAs(t, err, &ue)
}

func TestTraderJSONHidesPassword(t *testing.T) {
	s := newMemStore()
	svc := NewCatalogService(s)
	trader, err := svc.CreateTrader(context.Background(), CreateTraderInput{Name: "Alice", Password: "s3cret"})
	require.NoError(t, err)

	body, err := json.Marshal(trader)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "s3cret")

	traders, err := svc.ListTraders(context.Background())
	require.NoError(t, err)
	body, err = json.Marshal(traders)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
}
