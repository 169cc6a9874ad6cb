package models

import (
	"time"

	"matka/draws"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BetStatusPending = "pending"
	BetStatusWon     = "won"
	BetStatusLost    = "lost"
)

// Bet is one stake on one number. Created pending by placement, moved to
// won/lost by settlement, and reset to pending by a rollback. The multiplier
// is snapshotted at placement so later rate changes never touch open bets.
type Bet struct {
	gorm.Model

	RefID     string        `gorm:"uniqueIndex;size:64" json:"ref_id"`
	AccountID uint          `gorm:"index" json:"account_id"`
	MarketID  uint          `gorm:"index" json:"market_id"`
	BetType   draws.BetType `gorm:"size:16;index" json:"bet_type"`
	Number    string        `gorm:"size:4" json:"number"`
	Session   draws.Session `gorm:"size:8;index" json:"session"`
	BetDate   string        `gorm:"size:10;index" json:"bet_date"`

	Stake        int64           `json:"stake"`
	Multiplier   decimal.Decimal `gorm:"type:numeric(10,2)" json:"multiplier"`
	PotentialWin int64           `json:"potential_win"`
	WinAmount    int64           `json:"win_amount"`

	Status       string     `gorm:"size:12;index" json:"status"`
	ResultID     *uint      `gorm:"index" json:"result_id"`
	SettlementID *uint      `gorm:"index" json:"settlement_id"`
	RolledBack   bool       `gorm:"default:false" json:"rolled_back"`
	RolledBackAt *time.Time `json:"rolled_back_at"`
}
