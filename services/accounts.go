package services

import (
	"errors"
	"fmt"
	"math/rand"

	"matka/models"

	"gorm.io/gorm"
)

// tierParent maps each tier to the tier its parent must have. The admin
// account is the root and has no parent.
var tierParent = map[string]string{
	models.TierMaster: models.TierAdmin,
	models.TierAgent:  models.TierMaster,
	models.TierPlayer: models.TierAgent,
}

const codeLetters = "abcdefghijklmnopqrstuvwxyz0123456789"

func newAccountCode(tier string) string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = codeLetters[rand.Intn(len(codeLetters))]
	}
	return tier[:1] + string(b)
}

type RegisterAccountInput struct {
	ParentCode  string
	Tier        string
	Name        string
	DealPercent float64
}

// RegisterAccount creates an account one tier below its parent. Deal
// percentage is the member's share of house P&L and must sit in [0,100].
func (s *Service) RegisterAccount(in RegisterAccountInput) (*models.Account, error) {
	wantParent, ok := tierParent[in.Tier]
	if !ok {
		return nil, fmt.Errorf("%w: unknown tier %q", ErrValidation, in.Tier)
	}
	if in.DealPercent < 0 || in.DealPercent > 100 {
		return nil, fmt.Errorf("%w: deal percent %v out of range", ErrValidation, in.DealPercent)
	}

	var acc *models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var parent models.Account
		if err := tx.Where("code = ?", in.ParentCode).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: parent account %s", ErrNotFound, in.ParentCode)
			}
			return err
		}
		if parent.Tier != wantParent {
			return fmt.Errorf("%w: %s cannot own a %s account", ErrValidation, parent.Tier, in.Tier)
		}

		acc = &models.Account{
			Code:        newAccountCode(in.Tier),
			Name:        in.Name,
			Tier:        in.Tier,
			ParentID:    &parent.ID,
			DealPercent: in.DealPercent,
		}
		acc.IsActive = true
		return tx.Create(acc).Error
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// Topup credits an account balance outside the betting flow.
func (s *Service) Topup(code string, amount int64, adminCode string) (*models.Account, error) {
	return s.adjustBalance(code, amount, models.EntryTopup, adminCode)
}

// Withdraw debits an account balance outside the betting flow. Exposure is
// untouched; pending stakes stay at risk.
func (s *Service) Withdraw(code string, amount int64, adminCode string) (*models.Account, error) {
	return s.adjustBalance(code, amount, models.EntryWithdraw, adminCode)
}

func (s *Service) adjustBalance(code string, amount int64, kind, adminCode string) (*models.Account, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	var acc *models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		acc, err = lockAccountByCode(tx, code)
		if err != nil {
			return err
		}
		if err := accountUsable(acc); err != nil {
			return err
		}
		note := "manual " + kind + " by " + adminCode
		if kind == models.EntryTopup {
			return creditBalance(tx, acc, amount, kind, "manual", adminCode, note)
		}
		return debitBalance(tx, acc, amount, kind, "manual", adminCode, note)
	})
	if err != nil {
		return nil, err
	}

	s.publish(EventBalanceChanged, map[string]any{
		"account": acc.Code,
		"balance": acc.Balance,
	})
	return acc, nil
}

// Balance returns the account with its current balance and exposure.
func (s *Service) Balance(code string) (*models.Account, error) {
	var acc models.Account
	if err := s.db.Where("code = ?", code).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: account %s", ErrNotFound, code)
		}
		return nil, err
	}
	return &acc, nil
}

// Statement returns the most recent ledger entries for an account, newest
// first.
func (s *Service) Statement(code string, limit int) ([]models.LedgerEntry, error) {
	acc, err := s.Balance(code)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []models.LedgerEntry
	err = s.db.Where("account_id = ?", acc.ID).
		Order("id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
