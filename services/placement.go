package services

import (
	"fmt"

	"matka/draws"
	"matka/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PlaceBetInput struct {
	AccountCode string
	MarketID    uint
	BetType     draws.BetType
	Number      string
	Session     draws.Session
	Stake       int64
}

type PlaceBetOutput struct {
	Bet          models.Bet
	BalanceAfter int64
}

// PlaceBet validates and books one stake. Preconditions run in a fixed
// order and the first failure wins with nothing written: number format,
// market, betting window, payout rate. The debit and the bet row are then
// created in one transaction, so either both exist or neither does.
func (s *Service) PlaceBet(in PlaceBetInput) (*PlaceBetOutput, error) {
	if !in.BetType.Valid() {
		return nil, fmt.Errorf("%w: unknown bet type %q", ErrValidation, in.BetType)
	}
	if !in.Session.Valid() {
		return nil, fmt.Errorf("%w: unknown session %q", ErrValidation, in.Session)
	}
	if in.Stake <= 0 {
		return nil, fmt.Errorf("%w: stake must be positive", ErrValidation)
	}
	if !draws.ValidateNumber(in.BetType, in.Number) {
		return nil, fmt.Errorf("%w: number %q not valid for %s", ErrValidation, in.Number, in.BetType)
	}

	market, err := findMarket(s.db, in.MarketID)
	if err != nil {
		return nil, err
	}
	if !market.IsActive {
		return nil, fmt.Errorf("%w: market %s is disabled", ErrBettingClosed, market.Name)
	}

	now := s.now()
	if !windowOpenAt(market, in.Session, now, s.loc) {
		return nil, fmt.Errorf("%w: %s window of market %s", ErrBettingClosed, in.Session, market.Name)
	}
	if s.windows != nil {
		if open, known := s.windows.IsOpen(in.MarketID, in.Session); known && !open {
			// Scheduler closed it early (result declared); the clock alone
			// is not trusted to reopen it.
			return nil, fmt.Errorf("%w: %s window of market %s", ErrBettingClosed, in.Session, market.Name)
		}
	}

	multiplier, err := resolveRate(s.db, in.MarketID, in.BetType)
	if err != nil {
		return nil, err
	}
	potentialWin := decimal.NewFromInt(in.Stake).Mul(multiplier).Round(0).IntPart()

	bet := models.Bet{
		RefID:        uuid.NewString(),
		MarketID:     in.MarketID,
		BetType:      in.BetType,
		Number:       in.Number,
		Session:      in.Session,
		BetDate:      now.In(s.loc).Format("2006-01-02"),
		Stake:        in.Stake,
		Multiplier:   multiplier,
		PotentialWin: potentialWin,
		Status:       models.BetStatusPending,
	}

	var balanceAfter int64
	err = s.db.Transaction(func(tx *gorm.DB) error {
		acc, err := lockAccountByCode(tx, in.AccountCode)
		if err != nil {
			return err
		}
		if err := accountUsable(acc); err != nil {
			return err
		}
		if err := stakeDebit(tx, acc, in.Stake, bet.RefID); err != nil {
			return err
		}
		bet.AccountID = acc.ID
		balanceAfter = acc.Balance
		return tx.Create(&bet).Error
	})
	if err != nil {
		return nil, err
	}

	// Post-commit, fire-and-forget: a lost notification never unwinds a bet.
	s.publish(EventBalanceChanged, map[string]any{
		"account": in.AccountCode,
		"balance": balanceAfter,
	})
	s.publish(EventBetPlaced, map[string]any{
		"ref_id":  bet.RefID,
		"market":  market.Name,
		"type":    bet.BetType,
		"number":  bet.Number,
		"session": bet.Session,
		"stake":   bet.Stake,
	})

	return &PlaceBetOutput{Bet: bet, BalanceAfter: balanceAfter}, nil
}

// BetsFor lists an account's bets for a civil date, newest first.
func (s *Service) BetsFor(accountCode, date string) ([]models.Bet, error) {
	acc, err := s.Balance(accountCode)
	if err != nil {
		return nil, err
	}
	var bets []models.Bet
	err = s.db.Where("account_id = ? AND bet_date = ?", acc.ID, date).
		Order("id DESC").Find(&bets).Error
	return bets, err
}
