package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"matka/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RollbackOutput struct {
	BetsReversed    int `json:"bets_reversed"`
	WinnersReversed int `json:"winners_reversed"`
	LosersReversed  int `json:"losers_reversed"`
}

// RollbackSettlement reverses a settled declaration in one transaction:
// winners give back their payout, losers get their stake back with exposure
// re-raised, every touched bet returns to pending, and the P&L aggregates
// are flagged rolled back with their values kept. A result can be rolled
// back once; a second attempt fails with ErrInvalidState rather than being
// silently absorbed.
func (s *Service) RollbackSettlement(resultID uint, adminCode string) (*RollbackOutput, error) {
	out := &RollbackOutput{}
	refreshed := make(map[string]int64)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var res models.DrawResult
		if err := forUpdate(tx).First(&res, resultID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: result %d", ErrNotFound, resultID)
			}
			return err
		}
		if res.RolledBack {
			return fmt.Errorf("%w: result %d already rolled back", ErrInvalidState, resultID)
		}
		if !res.Settled {
			return fmt.Errorf("%w: result %d is not settled", ErrInvalidState, resultID)
		}

		var settlement models.Settlement
		if err := forUpdate(tx).
			Where("result_id = ? AND status = ?", res.ID, models.SettlementActive).
			First(&settlement).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: no active settlement for result %d", ErrInvalidState, resultID)
			}
			return err
		}

		var bets []models.Bet
		if err := forUpdate(tx).
			Where("settlement_id = ? AND status IN ?", settlement.ID,
				[]string{models.BetStatusWon, models.BetStatusLost}).
			Order("id").Find(&bets).Error; err != nil {
			return err
		}

		owners, err := lockOwners(tx, bets)
		if err != nil {
			return err
		}

		now := s.now()
		for i := range bets {
			bet := &bets[i]
			owner := owners[bet.AccountID]
			if owner == nil {
				// a partial reversal would be worse than none at all
				return fmt.Errorf("%w: account %d for bet %s", ErrNotFound, bet.AccountID, bet.RefID)
			}

			switch bet.Status {
			case models.BetStatusWon:
				// Take the payout back. Exposure stays: it was released at
				// settlement and the stake re-enters pending without it.
				if err := debitBalance(tx, owner, bet.WinAmount, models.EntryRollbackDebit,
					"bet", bet.RefID, "settlement rollback"); err != nil {
					return err
				}
				out.WinnersReversed++
			case models.BetStatusLost:
				if err := creditBalance(tx, owner, bet.Stake, models.EntryRollbackCredit,
					"bet", bet.RefID, "settlement rollback"); err != nil {
					return err
				}
				if err := raiseExposure(tx, owner, bet.Stake); err != nil {
					return err
				}
				out.LosersReversed++
			}

			upd := tx.Model(bet).
				Where("id = ? AND status = ?", bet.ID, bet.Status).
				Updates(map[string]any{
					"status":         models.BetStatusPending,
					"win_amount":     0,
					"result_id":      nil,
					"settlement_id":  nil,
					"rolled_back":    true,
					"rolled_back_at": now,
				})
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				return fmt.Errorf("%w: bet %s changed state during rollback", ErrInvalidState, bet.RefID)
			}
			out.BetsReversed++
			refreshed[owner.Code] = owner.Balance
		}

		// Aggregates are flagged, never recomputed; reporting filters on
		// the flag.
		if err := tx.Model(&models.MemberPnl{}).
			Where("market_id = ? AND pnl_date = ? AND rolled_back = ?", res.MarketID, res.ResultDate, false).
			Update("rolled_back", true).Error; err != nil {
			return err
		}

		resUpd := tx.Model(&res).
			Where("id = ? AND settled = ? AND rolled_back = ?", res.ID, true, false).
			Updates(map[string]any{"settled": false, "rolled_back": true})
		if resUpd.Error != nil {
			return resUpd.Error
		}
		if resUpd.RowsAffected == 0 {
			return fmt.Errorf("%w: result %d already rolled back", ErrInvalidState, resultID)
		}

		if err := tx.Model(&settlement).
			Update("status", models.SettlementRolledBack).Error; err != nil {
			return err
		}

		payload, _ := json.Marshal(map[string]any{
			"result_id":        res.ID,
			"settlement_ref":   settlement.RefID,
			"bets_reversed":    out.BetsReversed,
			"winners_reversed": out.WinnersReversed,
			"losers_reversed":  out.LosersReversed,
		})
		audit := models.AdminAudit{
			AdminCode: adminCode,
			Action:    "settlement_rollback",
			RefType:   "result",
			RefID:     fmt.Sprintf("%d", res.ID),
			Payload:   datatypes.JSON(payload),
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(EventRollback, map[string]any{
		"result_id":     resultID,
		"bets_reversed": out.BetsReversed,
	})

	// Best-effort balance refresh fan-out; a slow or failing sink must not
	// surface here.
	codes := make([]string, 0, len(refreshed))
	for code := range refreshed {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	var g errgroup.Group
	for _, code := range codes {
		code, balance := code, refreshed[code]
		g.Go(func() error {
			s.publish(EventBalanceChanged, map[string]any{
				"account": code,
				"balance": balance,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.WithError(err).Warn("rollback balance fan-out")
	}

	return out, nil
}

func lockOwners(tx *gorm.DB, bets []models.Bet) (map[uint]*models.Account, error) {
	idSet := make(map[uint]struct{})
	for i := range bets {
		idSet[bets[i].AccountID] = struct{}{}
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var accs []models.Account
	if len(ids) > 0 {
		if err := forUpdate(tx).Where("id IN ?", ids).Order("id").Find(&accs).Error; err != nil {
			return nil, err
		}
	}
	owners := make(map[uint]*models.Account, len(accs))
	for i := range accs {
		owners[accs[i].ID] = &accs[i]
	}
	return owners, nil
}
