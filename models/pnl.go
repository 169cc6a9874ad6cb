package models

import "gorm.io/gorm"

// MemberPnl accumulates one hierarchy member's share of house P&L for one
// (market, date). Settlement increments it per bet; rollback flips
// RolledBack and keeps the values, so reporting must filter on the flag.
type MemberPnl struct {
	gorm.Model

	AccountID  uint   `gorm:"index:idx_member_pnl_scope,unique" json:"account_id"`
	MarketID   uint   `gorm:"index:idx_member_pnl_scope,unique" json:"market_id"`
	PnlDate    string `gorm:"size:10;index:idx_member_pnl_scope,unique" json:"pnl_date"`

	Pnl              int64 `json:"pnl"`
	Volume           int64 `json:"volume"`
	BetCount         int   `json:"bet_count"`
	WinCount         int   `json:"win_count"`
	LossCount        int   `json:"loss_count"`
	CommissionEarned int64 `json:"commission_earned"`
	RolledBack       bool  `gorm:"default:false" json:"rolled_back"`
}
