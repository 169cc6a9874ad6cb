package models

import (
	"matka/draws"

	"gorm.io/gorm"
)

// DrawResult is the declared outcome of one (market, date, session). The
// panna is immutable once written; Jodi is filled on whichever declaration
// completes the day's pair.
type DrawResult struct {
	gorm.Model

	MarketID   uint          `gorm:"index:idx_result_scope,unique" json:"market_id"`
	ResultDate string        `gorm:"size:10;index:idx_result_scope,unique" json:"result_date"`
	Session    draws.Session `gorm:"size:8;index:idx_result_scope,unique" json:"session"`
	Panna      string        `gorm:"size:3" json:"panna"`
	Single     int           `json:"single"`
	Jodi       string        `gorm:"size:2" json:"jodi"`
	DeclaredBy string        `gorm:"size:32" json:"declared_by"`
	Settled    bool          `gorm:"default:false" json:"settled"`
	RolledBack bool          `gorm:"default:false" json:"rolled_back"`
}

const (
	SettlementActive     = "active"
	SettlementRolledBack = "rolled_back"
)

// Settlement aggregates one settled batch. A zero-bet declaration still
// writes a row so rollback listings and reports see every declaration.
type Settlement struct {
	gorm.Model

	RefID      string        `gorm:"uniqueIndex;size:64" json:"ref_id"`
	ResultID   uint          `gorm:"index" json:"result_id"`
	MarketID   uint          `gorm:"index" json:"market_id"`
	ResultDate string        `gorm:"size:10;index" json:"result_date"`
	Session    draws.Session `gorm:"size:8" json:"session"`

	TotalBets   int    `json:"total_bets"`
	TotalVolume int64  `json:"total_volume"`
	WinnerCount int    `json:"winner_count"`
	LoserCount  int    `json:"loser_count"`
	TotalPayout int64  `json:"total_payout"`
	NetPnl      int64  `json:"net_pnl"`
	Status      string `gorm:"size:16;index" json:"status"`
}

// SettlementEntry is the immutable per-bet audit row of a settlement.
// Rollback flags the aggregates; these rows are never touched.
type SettlementEntry struct {
	gorm.Model

	SettlementID uint   `gorm:"index"`
	BetID        uint   `gorm:"index"`
	AccountID    uint   `gorm:"index"`
	Outcome      string `gorm:"size:8"`
	Stake        int64  `json:"stake"`
	WinAmount    int64  `json:"win_amount"`
}
