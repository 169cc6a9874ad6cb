package services

import (
	"testing"

	"matka/draws"
	"matka/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceBetHappyPath(t *testing.T) {
	f := newFixture(t)
	f.fund(f.player, 1000)

	out, err := f.svc.PlaceBet(PlaceBetInput{
		AccountCode: f.player.Code,
		MarketID:    f.market.ID,
		BetType:     draws.BetTypeSingleDigit,
		Number:      "9",
		Session:     draws.SessionOpen,
		Stake:       500,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 500, out.BalanceAfter)
	assert.Equal(t, models.BetStatusPending, out.Bet.Status)
	assert.EqualValues(t, 5000, out.Bet.PotentialWin)
	assert.Equal(t, "2025-06-02", out.Bet.BetDate)

	fresh := f.reload(f.player)
	assert.EqualValues(t, 500, fresh.Balance)
	assert.EqualValues(t, 500, fresh.Exposure)
	assert.Equal(t, fresh.Balance, f.ledgerSum(fresh))

	assert.Equal(t, 1, f.pub.count(EventBetPlaced))
}

func TestPlaceBetPreconditions(t *testing.T) {
	f := newFixture(t)
	f.fund(f.player, 1000)

	base := PlaceBetInput{
		AccountCode: f.player.Code,
		MarketID:    f.market.ID,
		BetType:     draws.BetTypeSingleDigit,
		Number:      "9",
		Session:     draws.SessionOpen,
		Stake:       100,
	}

	bad := base
	bad.Number = "99"
	_, err := f.svc.PlaceBet(bad)
	assert.ErrorIs(t, err, ErrValidation)

	bad = base
	bad.MarketID = 999
	_, err = f.svc.PlaceBet(bad)
	assert.ErrorIs(t, err, ErrNotFound)

	f.setClock(22, 0)
	_, err = f.svc.PlaceBet(base)
	assert.ErrorIs(t, err, ErrBettingClosed)
	f.setClock(10, 0)

	// no rate row anywhere for triple panna
	bad = base
	bad.BetType = draws.BetTypeTriplePanna
	bad.Number = "111"
	_, err = f.svc.PlaceBet(bad)
	assert.ErrorIs(t, err, ErrNoRateConfigured)

	bad = base
	bad.Stake = 5000
	_, err = f.svc.PlaceBet(bad)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// first failure wins and nothing was written along the way
	var betCount int64
	require.NoError(t, f.db.Model(&models.Bet{}).Count(&betCount).Error)
	assert.Zero(t, betCount)
	fresh := f.reload(f.player)
	assert.EqualValues(t, 1000, fresh.Balance)
	assert.Zero(t, fresh.Exposure)
}

func TestPlaceBetMarketRateOverridesGlobal(t *testing.T) {
	f := newFixture(t)
	f.fund(f.player, 1000)
	f.rate(&f.market.ID, draws.BetTypeSingleDigit, "9.5")

	out, err := f.svc.PlaceBet(PlaceBetInput{
		AccountCode: f.player.Code,
		MarketID:    f.market.ID,
		BetType:     draws.BetTypeSingleDigit,
		Number:      "7",
		Session:     draws.SessionOpen,
		Stake:       500,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 4750, out.Bet.PotentialWin)
}

func TestPlaceBetHonorsRegistryClose(t *testing.T) {
	f := newFixture(t)
	f.fund(f.player, 1000)

	registry := NewWindowRegistry()
	f.svc.UseWindowRegistry(registry)
	registry.CloseWindow(f.market.ID, draws.SessionOpen)

	// the clock says open, the scheduler says closed: closed wins
	_, err := f.svc.PlaceBet(PlaceBetInput{
		AccountCode: f.player.Code,
		MarketID:    f.market.ID,
		BetType:     draws.BetTypeSingleDigit,
		Number:      "1",
		Session:     draws.SessionOpen,
		Stake:       100,
	})
	assert.ErrorIs(t, err, ErrBettingClosed)
}

func TestPlaceBetBlockedAccount(t *testing.T) {
	f := newFixture(t)
	f.fund(f.player, 1000)
	require.NoError(t, f.db.Model(f.player).Update("is_blocked", true).Error)

	_, err := f.svc.PlaceBet(PlaceBetInput{
		AccountCode: f.player.Code,
		MarketID:    f.market.ID,
		BetType:     draws.BetTypeSingleDigit,
		Number:      "1",
		Session:     draws.SessionOpen,
		Stake:       100,
	})
	assert.ErrorIs(t, err, ErrAccountBlocked)
}
