package models

import "gorm.io/gorm"

// Account tiers, top down. Every account except the admin has a parent one
// tier up; the chain is what the P&L cascade walks.
const (
	TierAdmin  = "admin"
	TierMaster = "master"
	TierAgent  = "agent"
	TierPlayer = "player"
)

type Account struct {
	gorm.Model

	Code        string  `gorm:"uniqueIndex;size:32" json:"code"`
	Name        string  `gorm:"size:64" json:"name"`
	Tier        string  `gorm:"size:16;index" json:"tier"`
	ParentID    *uint   `gorm:"index" json:"parent_id"`
	Balance     int64   `json:"balance"`
	Exposure    int64   `json:"exposure"`
	DealPercent float64 `json:"deal_percent"`
	IsActive    bool    `gorm:"default:true" json:"is_active"`
	IsBlocked   bool    `gorm:"default:false" json:"is_blocked"`

	Entries []LedgerEntry `gorm:"foreignKey:AccountID" json:"-"`
}

// Ledger entry kinds.
const (
	EntryBetPlaced      = "bet_placed"
	EntryBetWon         = "bet_won"
	EntryRollbackDebit  = "rollback_debit"
	EntryRollbackCredit = "rollback_credit"
	EntryTopup          = "topup"
	EntryWithdraw       = "withdraw"
)

const (
	DirectionDebit  = "debit"
	DirectionCredit = "credit"
)

// LedgerEntry is the append-only record of one balance movement. Rows are
// never updated or deleted; the running sum per account reconciles to the
// account balance.
type LedgerEntry struct {
	gorm.Model

	AccountID     uint   `gorm:"index"`
	Kind          string `gorm:"size:24;index"`
	Direction     string `gorm:"size:8"`
	Amount        int64  `json:"amount"`
	BalanceBefore int64  `json:"balance_before"`
	BalanceAfter  int64  `json:"balance_after"`
	RefType       string `gorm:"size:16"`
	RefID         string `gorm:"size:64;index"`
	Note          string `gorm:"size:255"`
}
