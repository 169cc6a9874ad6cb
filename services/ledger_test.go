package services

import (
	"testing"

	"matka/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopupWithdrawReconciles(t *testing.T) {
	f := newFixture(t)

	acc, err := f.svc.Topup(f.player.Code, 5000, "root")
	require.NoError(t, err)
	assert.EqualValues(t, 5000, acc.Balance)

	acc, err = f.svc.Withdraw(f.player.Code, 2000, "root")
	require.NoError(t, err)
	assert.EqualValues(t, 3000, acc.Balance)

	// rejected, not clamped
	_, err = f.svc.Withdraw(f.player.Code, 5000, "root")
	require.ErrorIs(t, err, ErrInsufficientBalance)

	fresh := f.reload(f.player)
	assert.EqualValues(t, 3000, fresh.Balance)
	assert.Equal(t, fresh.Balance, f.ledgerSum(fresh))

	var entries []models.LedgerEntry
	require.NoError(t, f.db.Where("account_id = ?", fresh.ID).Find(&entries).Error)
	assert.Len(t, entries, 2, "the failed withdraw must leave no entry")
}

func TestAdjustRejectsBadAccounts(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Topup("nosuch", 100, "root")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.db.Model(f.player).Update("is_blocked", true).Error)
	_, err = f.svc.Topup(f.player.Code, 100, "root")
	assert.ErrorIs(t, err, ErrAccountBlocked)

	require.NoError(t, f.db.Model(f.player).
		Updates(map[string]any{"is_blocked": false, "is_active": false}).Error)
	_, err = f.svc.Topup(f.player.Code, 100, "root")
	assert.ErrorIs(t, err, ErrAccountInactive)

	_, err = f.svc.Topup(f.player.Code, -5, "root")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterAccountTiers(t *testing.T) {
	f := newFixture(t)

	acc, err := f.svc.RegisterAccount(RegisterAccountInput{
		ParentCode:  f.agent.Code,
		Tier:        models.TierPlayer,
		Name:        "second player",
		DealPercent: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TierPlayer, acc.Tier)
	assert.Equal(t, f.agent.ID, *acc.ParentID)

	// a player cannot hang off a master
	_, err = f.svc.RegisterAccount(RegisterAccountInput{
		ParentCode: f.master.Code,
		Tier:       models.TierPlayer,
		Name:       "wrong parent",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.RegisterAccount(RegisterAccountInput{
		ParentCode:  f.agent.Code,
		Tier:        models.TierPlayer,
		Name:        "bad deal",
		DealPercent: 120,
	})
	assert.ErrorIs(t, err, ErrValidation)
}
