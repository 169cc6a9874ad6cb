package services

import (
	"errors"
	"fmt"

	"matka/draws"
	"matka/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateMarketInput struct {
	Name       string
	OpenTime   string
	CloseTime  string
	ResultTime string
}

// CreateMarket registers a market after checking its schedule is parseable
// and ordered open < close < result.
func (s *Service) CreateMarket(in CreateMarketInput) (*models.Market, error) {
	openMin, err := parseClockTime(in.OpenTime)
	if err != nil {
		return nil, err
	}
	closeMin, err := parseClockTime(in.CloseTime)
	if err != nil {
		return nil, err
	}
	resultMin, err := parseClockTime(in.ResultTime)
	if err != nil {
		return nil, err
	}
	if !(openMin < closeMin && closeMin < resultMin) {
		return nil, fmt.Errorf("%w: market times must be ordered open < close < result", ErrValidation)
	}

	m := &models.Market{
		Name:       in.Name,
		OpenTime:   in.OpenTime,
		CloseTime:  in.CloseTime,
		ResultTime: in.ResultTime,
		IsActive:   true,
	}
	if err := s.db.Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) ListMarkets() ([]models.Market, error) {
	var ms []models.Market
	err := s.db.Order("id").Find(&ms).Error
	return ms, err
}

// SetPayoutRate upserts the multiplier for (market, bet type). A nil market
// sets the global default row.
func (s *Service) SetPayoutRate(marketID *uint, betType draws.BetType, multiplier decimal.Decimal) (*models.PayoutRate, error) {
	if !betType.Valid() {
		return nil, fmt.Errorf("%w: unknown bet type %q", ErrValidation, betType)
	}
	if multiplier.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: multiplier must be positive", ErrValidation)
	}

	var rate models.PayoutRate
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Where("bet_type = ?", betType)
		if marketID == nil {
			q = q.Where("market_id IS NULL")
		} else {
			q = q.Where("market_id = ?", *marketID)
		}
		err := q.First(&rate).Error
		switch {
		case err == nil:
			rate.Multiplier = multiplier
			return tx.Model(&rate).Update("multiplier", multiplier).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			rate = models.PayoutRate{MarketID: marketID, BetType: betType, Multiplier: multiplier}
			return tx.Create(&rate).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// resolveRate finds the multiplier for (market, bet type): the
// market-specific row wins, the global default backs it up, and a miss on
// both is operator misconfiguration.
func resolveRate(tx *gorm.DB, marketID uint, betType draws.BetType) (decimal.Decimal, error) {
	var rate models.PayoutRate
	err := tx.Where("market_id = ? AND bet_type = ?", marketID, betType).First(&rate).Error
	if err == nil {
		return rate.Multiplier, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, err
	}

	err = tx.Where("market_id IS NULL AND bet_type = ?", betType).First(&rate).Error
	if err == nil {
		return rate.Multiplier, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, fmt.Errorf("%w: market %d bet type %s", ErrNoRateConfigured, marketID, betType)
	}
	return decimal.Zero, err
}

func findMarket(tx *gorm.DB, id uint) (*models.Market, error) {
	var m models.Market
	if err := tx.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: market %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &m, nil
}
