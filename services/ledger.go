package services

import (
	"errors"
	"fmt"

	"matka/models"

	"gorm.io/gorm"
)

// The ledger primitives below run inside a caller-owned transaction on an
// already-locked account row. Every balance mutation writes exactly one
// LedgerEntry in the same transaction, so the entry sum per account always
// reconciles to the stored balance.

func lockAccountByCode(tx *gorm.DB, code string) (*models.Account, error) {
	var acc models.Account
	if err := forUpdate(tx).Where("code = ?", code).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: account %s", ErrNotFound, code)
		}
		return nil, err
	}
	return &acc, nil
}

// accountUsable rejects blocked or inactive accounts before any mutation.
func accountUsable(acc *models.Account) error {
	if acc.IsBlocked {
		return fmt.Errorf("%w: account %s", ErrAccountBlocked, acc.Code)
	}
	if !acc.IsActive {
		return fmt.Errorf("%w: account %s", ErrAccountInactive, acc.Code)
	}
	return nil
}

// creditBalance increases the balance and appends the paired entry.
func creditBalance(tx *gorm.DB, acc *models.Account, amount int64, kind, refType, refID, note string) error {
	before := acc.Balance
	acc.Balance += amount
	if err := tx.Model(acc).Update("balance", acc.Balance).Error; err != nil {
		return err
	}
	return appendEntry(tx, acc, models.DirectionCredit, amount, before, kind, refType, refID, note)
}

// debitBalance decreases the balance, rejecting rather than clamping when
// funds are short, and appends the paired entry.
func debitBalance(tx *gorm.DB, acc *models.Account, amount int64, kind, refType, refID, note string) error {
	if acc.Balance < amount {
		return fmt.Errorf("%w: account %s has %d, needs %d",
			ErrInsufficientBalance, acc.Code, acc.Balance, amount)
	}
	before := acc.Balance
	acc.Balance -= amount
	if err := tx.Model(acc).Update("balance", acc.Balance).Error; err != nil {
		return err
	}
	return appendEntry(tx, acc, models.DirectionDebit, amount, before, kind, refType, refID, note)
}

// stakeDebit is the placement debit: balance down, exposure up, one entry.
func stakeDebit(tx *gorm.DB, acc *models.Account, stake int64, refID string) error {
	if err := debitBalance(tx, acc, stake, models.EntryBetPlaced, "bet", refID, "stake debit"); err != nil {
		return err
	}
	return raiseExposure(tx, acc, stake)
}

// releaseExposure drops exposure when a pending stake resolves. Exposure is
// not balance, so no ledger entry is written.
func releaseExposure(tx *gorm.DB, acc *models.Account, amount int64) error {
	acc.Exposure -= amount
	if acc.Exposure < 0 {
		acc.Exposure = 0
	}
	return tx.Model(acc).Update("exposure", acc.Exposure).Error
}

func raiseExposure(tx *gorm.DB, acc *models.Account, amount int64) error {
	acc.Exposure += amount
	return tx.Model(acc).Update("exposure", acc.Exposure).Error
}

func appendEntry(tx *gorm.DB, acc *models.Account, direction string, amount, before int64, kind, refType, refID, note string) error {
	entry := models.LedgerEntry{
		AccountID:     acc.ID,
		Kind:          kind,
		Direction:     direction,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  acc.Balance,
		RefType:       refType,
		RefID:         refID,
		Note:          note,
	}
	return tx.Create(&entry).Error
}
