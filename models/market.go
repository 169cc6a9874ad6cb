package models

import (
	"matka/draws"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Market is one draw market with its daily schedule. Times are platform
// civil times of day in "HH:MM"; the open window is [open, close) and the
// close window is [close, result).
type Market struct {
	gorm.Model

	Name       string `gorm:"uniqueIndex;size:64" json:"name"`
	OpenTime   string `gorm:"size:5" json:"open_time"`
	CloseTime  string `gorm:"size:5" json:"close_time"`
	ResultTime string `gorm:"size:5" json:"result_time"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`
	IsHoliday  bool   `gorm:"default:false" json:"is_holiday"`
}

// PayoutRate maps a bet type to its win multiplier. A row with MarketID set
// overrides the global default row (MarketID null) for that market.
type PayoutRate struct {
	gorm.Model

	MarketID   *uint           `gorm:"index:idx_rate_market_type,unique" json:"market_id"`
	BetType    draws.BetType   `gorm:"size:16;index:idx_rate_market_type,unique" json:"bet_type"`
	Multiplier decimal.Decimal `gorm:"type:numeric(10,2)" json:"multiplier"`
}
