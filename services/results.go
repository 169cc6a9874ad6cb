package services

import (
	"errors"
	"fmt"

	"matka/draws"
	"matka/models"

	"gorm.io/gorm"
)

type DeclareResultInput struct {
	MarketID   uint
	Session    draws.Session
	Panna      string
	DeclaredBy string
}

type DeclareResultOutput struct {
	Result  models.DrawResult
	Summary SettleSummary
}

// DeclareResult records the panna for one (market, today, session) and
// settles the matching pending bets in the same transaction. Declaring the
// same scope twice is rejected before any settlement work starts.
//
// A CLOSE declaration may precede the OPEN one; the jodi then stays absent
// and jodi bets remain pending until the other session lands.
func (s *Service) DeclareResult(in DeclareResultInput) (*DeclareResultOutput, error) {
	if !in.Session.Valid() {
		return nil, fmt.Errorf("%w: unknown session %q", ErrValidation, in.Session)
	}
	if !draws.IsPanna(in.Panna) {
		return nil, fmt.Errorf("%w: panna %q must be three digits", ErrValidation, in.Panna)
	}

	date := s.Today()
	var out DeclareResultOutput

	err := s.db.Transaction(func(tx *gorm.DB) error {
		market, err := findMarket(tx, in.MarketID)
		if err != nil {
			return err
		}

		var existing models.DrawResult
		err = tx.Where("market_id = ? AND result_date = ? AND session = ?",
			in.MarketID, date, in.Session).First(&existing).Error
		if err == nil {
			return fmt.Errorf("%w: result for %s %s %s already declared",
				ErrDuplicateEntry, market.Name, date, in.Session)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		res := models.DrawResult{
			MarketID:   in.MarketID,
			ResultDate: date,
			Session:    in.Session,
			Panna:      in.Panna,
			Single:     draws.Single(in.Panna),
			DeclaredBy: in.DeclaredBy,
		}

		// The jodi becomes derivable once both sessions of the day exist,
		// whichever order they were declared in.
		var other models.DrawResult
		otherSession := draws.SessionClose
		if in.Session == draws.SessionClose {
			otherSession = draws.SessionOpen
		}
		err = tx.Where("market_id = ? AND result_date = ? AND session = ?",
			in.MarketID, date, otherSession).First(&other).Error
		jodi := ""
		switch {
		case err == nil:
			if in.Session == draws.SessionClose {
				jodi = draws.Jodi(other.Single, res.Single)
			} else {
				jodi = draws.Jodi(res.Single, other.Single)
			}
			res.Jodi = jodi
			if err := tx.Model(&other).Update("jodi", jodi).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// fine, jodi stays absent
		default:
			return err
		}

		if err := tx.Create(&res).Error; err != nil {
			// a concurrent declaration can commit between the pre-check
			// and here; the unique index catches it
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: result for %s %s %s already declared",
					ErrDuplicateEntry, market.Name, date, in.Session)
			}
			return err
		}

		summary, err := s.settleDeclaration(tx, &res, jodi)
		if err != nil {
			return err
		}

		out.Result = res
		out.Summary = *summary
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The scheduler would close this window at result time anyway; closing
	// it now makes the declaration authoritative.
	if s.windows != nil {
		s.windows.CloseWindow(in.MarketID, in.Session)
	}

	s.publish(EventResultDeclared, map[string]any{
		"market_id": in.MarketID,
		"date":      date,
		"session":   in.Session,
		"panna":     in.Panna,
		"single":    out.Result.Single,
		"jodi":      out.Result.Jodi,
	})

	return &out, nil
}

// RollbackableResults lists results that are settled and not yet rolled
// back, newest first.
func (s *Service) RollbackableResults() ([]models.DrawResult, error) {
	var results []models.DrawResult
	err := s.db.Where("settled = ? AND rolled_back = ?", true, false).
		Order("id DESC").Find(&results).Error
	return results, err
}
