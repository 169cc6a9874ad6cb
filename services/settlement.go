package services

import (
	"errors"
	"sort"

	"matka/draws"
	"matka/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SettleSummary struct {
	SettlementID  uint   `json:"settlement_id"`
	SettlementRef string `json:"settlement_ref"`
	Bets          int    `json:"bets"`
	Winners       int    `json:"winners"`
	Losers        int    `json:"losers"`
	Volume        int64  `json:"volume"`
	Payout        int64  `json:"payout"`
	NetPnl        int64  `json:"net_pnl"`
	JodiPending   int    `json:"jodi_pending"`
}

// settleDeclaration settles every pending bet of the declared scope inside
// the caller's transaction. Bets are matched on their own session field;
// once the declaration completes the day's jodi, still-pending jodi bets of
// the other session join the batch. Jodi bets with no jodi yet are left
// pending, not lost.
//
// A zero-bet scope still writes a Settlement row so rollback listings and
// reporting stay uniform. Re-running a scope is harmless: only rows still
// in pending are touched, guarded per bet by a conditional update.
func (s *Service) settleDeclaration(tx *gorm.DB, res *models.DrawResult, jodi string) (*SettleSummary, error) {
	settlement := models.Settlement{
		RefID:      uuid.NewString(),
		ResultID:   res.ID,
		MarketID:   res.MarketID,
		ResultDate: res.ResultDate,
		Session:    res.Session,
		Status:     models.SettlementActive,
	}
	if err := tx.Create(&settlement).Error; err != nil {
		return nil, err
	}

	var bets []models.Bet
	if err := forUpdate(tx).
		Where("market_id = ? AND bet_date = ? AND session = ? AND status = ?",
			res.MarketID, res.ResultDate, res.Session, models.BetStatusPending).
		Order("id").Find(&bets).Error; err != nil {
		return nil, err
	}

	if jodi != "" {
		var strays []models.Bet
		if err := forUpdate(tx).
			Where("market_id = ? AND bet_date = ? AND session <> ? AND bet_type = ? AND status = ?",
				res.MarketID, res.ResultDate, res.Session, draws.BetTypeJodi, models.BetStatusPending).
			Order("id").Find(&strays).Error; err != nil {
			return nil, err
		}
		bets = append(bets, strays...)
	}

	summary := &SettleSummary{SettlementID: settlement.ID, SettlementRef: settlement.RefID}
	outcome := draws.Outcome{Panna: res.Panna, Jodi: jodi}

	if len(bets) == 0 {
		if err := tx.Model(res).Update("settled", true).Error; err != nil {
			return nil, err
		}
		res.Settled = true
		return summary, nil
	}

	owners, hierarchy, err := loadAccounts(tx, bets)
	if err != nil {
		return nil, err
	}

	agg := make(map[uint]*pnlAgg)
	var entries []models.SettlementEntry

	for i := range bets {
		bet := &bets[i]

		if bet.BetType == draws.BetTypeJodi && jodi == "" {
			summary.JodiPending++
			continue
		}

		owner := owners[bet.AccountID]
		if owner == nil {
			// account row deleted after placement; leave the bet pending
			// rather than move money for a missing account
			s.log.Warnf("bet %s: account %d not found, left pending", bet.RefID, bet.AccountID)
			continue
		}

		won := draws.IsWinner(bet.BetType, bet.Number, outcome)
		winAmount := int64(0)
		outcomeStr := models.BetStatusLost
		if won {
			winAmount = decimal.NewFromInt(bet.Stake).Mul(bet.Multiplier).Round(0).IntPart()
			outcomeStr = models.BetStatusWon
		}

		// Conditional on pending so a retried batch never double-settles.
		upd := tx.Model(bet).
			Where("id = ? AND status = ?", bet.ID, models.BetStatusPending).
			Updates(map[string]any{
				"status":        outcomeStr,
				"win_amount":    winAmount,
				"result_id":     res.ID,
				"settlement_id": settlement.ID,
			})
		if upd.Error != nil {
			return nil, upd.Error
		}
		if upd.RowsAffected == 0 {
			continue
		}

		if won {
			if err := creditBalance(tx, owner, winAmount, models.EntryBetWon,
				"bet", bet.RefID, "win payout"); err != nil {
				return nil, err
			}
			summary.Winners++
		} else {
			summary.Losers++
		}
		// Either way the stake leaves the at-risk pool.
		if err := releaseExposure(tx, owner, bet.Stake); err != nil {
			return nil, err
		}

		entries = append(entries, models.SettlementEntry{
			SettlementID: settlement.ID,
			BetID:        bet.ID,
			AccountID:    bet.AccountID,
			Outcome:      outcomeStr,
			Stake:        bet.Stake,
			WinAmount:    winAmount,
		})

		summary.Bets++
		summary.Volume += bet.Stake
		summary.Payout += winAmount

		cascadePnl(hierarchy, bet.AccountID, bet.Stake, winAmount, won, agg)
	}

	if len(entries) > 0 {
		if err := tx.Create(&entries).Error; err != nil {
			return nil, err
		}
	}
	if err := flushMemberPnl(tx, res.MarketID, res.ResultDate, agg); err != nil {
		return nil, err
	}

	summary.NetPnl = summary.Volume - summary.Payout
	if err := tx.Model(&settlement).Updates(map[string]any{
		"total_bets":   summary.Bets,
		"total_volume": summary.Volume,
		"winner_count": summary.Winners,
		"loser_count":  summary.Losers,
		"total_payout": summary.Payout,
		"net_pnl":      summary.NetPnl,
	}).Error; err != nil {
		return nil, err
	}

	if err := tx.Model(res).Update("settled", true).Error; err != nil {
		return nil, err
	}
	res.Settled = true
	return summary, nil
}

// loadAccounts locks the bet owners and loads the whole account table once
// for the hierarchy walk, rather than issuing a query per ancestor.
func loadAccounts(tx *gorm.DB, bets []models.Bet) (owners, hierarchy map[uint]*models.Account, err error) {
	idSet := make(map[uint]struct{})
	for i := range bets {
		idSet[bets[i].AccountID] = struct{}{}
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var locked []models.Account
	if err := forUpdate(tx).Where("id IN ?", ids).Order("id").Find(&locked).Error; err != nil {
		return nil, nil, err
	}

	var all []models.Account
	if err := tx.Find(&all).Error; err != nil {
		return nil, nil, err
	}

	hierarchy = make(map[uint]*models.Account, len(all))
	for i := range all {
		hierarchy[all[i].ID] = &all[i]
	}
	owners = make(map[uint]*models.Account, len(locked))
	for i := range locked {
		owners[locked[i].ID] = &locked[i]
		hierarchy[locked[i].ID] = &locked[i]
	}
	return owners, hierarchy, nil
}

type pnlAgg struct {
	pnl        int64
	volume     int64
	commission int64
	bets       int
	wins       int
	losses     int
}

// cascadePnl distributes one bet's house result up the owner's ancestor
// chain, owner inclusive. Each member's share is rounded independently;
// the drift across a chain is an accepted approximation and is not
// redistributed, since correcting it would rewrite historical totals.
func cascadePnl(accounts map[uint]*models.Account, ownerID uint, stake, winAmount int64, won bool, agg map[uint]*pnlAgg) {
	netForHouse := stake
	if won {
		netForHouse = -(winAmount - stake)
	}
	net := decimal.NewFromInt(netForHouse)

	visited := make(map[uint]bool)
	for id := ownerID; ; {
		acc, ok := accounts[id]
		if !ok || visited[id] {
			// missing parent or a cycle in bad data; stop walking
			break
		}
		visited[id] = true

		share := net.Mul(decimal.NewFromFloat(acc.DealPercent)).
			Div(decimal.NewFromInt(100)).Round(0).IntPart()

		a := agg[id]
		if a == nil {
			a = &pnlAgg{}
			agg[id] = a
		}
		a.pnl += share
		a.volume += stake
		a.bets++
		if won {
			a.wins++
		} else {
			a.losses++
		}
		if share < 0 {
			a.commission += -share
		} else {
			a.commission += share
		}

		if acc.ParentID == nil {
			break
		}
		id = *acc.ParentID
	}
}

// flushMemberPnl upserts the accumulated member rows for (market, date).
func flushMemberPnl(tx *gorm.DB, marketID uint, date string, agg map[uint]*pnlAgg) error {
	ids := make([]uint, 0, len(agg))
	for id := range agg {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		a := agg[id]
		var row models.MemberPnl
		err := forUpdate(tx).
			Where("account_id = ? AND market_id = ? AND pnl_date = ?", id, marketID, date).
			First(&row).Error
		switch {
		case err == nil:
			base := row
			if row.RolledBack {
				// values retained by a rollback are audit only; reviving
				// them here would put the reversed money back into live
				// totals
				base = models.MemberPnl{}
			}
			if err := tx.Model(&row).Updates(map[string]any{
				"pnl":               base.Pnl + a.pnl,
				"volume":            base.Volume + a.volume,
				"bet_count":         base.BetCount + a.bets,
				"win_count":         base.WinCount + a.wins,
				"loss_count":        base.LossCount + a.losses,
				"commission_earned": base.CommissionEarned + a.commission,
				"rolled_back":       false,
			}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = models.MemberPnl{
				AccountID:        id,
				MarketID:         marketID,
				PnlDate:          date,
				Pnl:              a.pnl,
				Volume:           a.volume,
				BetCount:         a.bets,
				WinCount:         a.wins,
				LossCount:        a.losses,
				CommissionEarned: a.commission,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		default:
			return err
		}
	}
	return nil
}
