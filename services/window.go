package services

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"matka/draws"
	"matka/models"
)

// parseClockTime parses a market "HH:MM" time of day into minutes since
// midnight.
func parseClockTime(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: bad time of day %q", ErrValidation, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: bad time of day %q", ErrValidation, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: bad time of day %q", ErrValidation, s)
	}
	return h*60 + m, nil
}

// windowOpenAt is the pure window rule, re-derived per request rather than
// cached: OPEN runs [open, close) and CLOSE runs [close, result), both in
// platform civil time. Holiday or inactive markets take no bets.
func windowOpenAt(m *models.Market, session draws.Session, now time.Time, loc *time.Location) bool {
	if !m.IsActive || m.IsHoliday {
		return false
	}
	openMin, err := parseClockTime(m.OpenTime)
	if err != nil {
		return false
	}
	closeMin, err := parseClockTime(m.CloseTime)
	if err != nil {
		return false
	}
	resultMin, err := parseClockTime(m.ResultTime)
	if err != nil {
		return false
	}

	civil := now.In(loc)
	minute := civil.Hour()*60 + civil.Minute()

	switch session {
	case draws.SessionOpen:
		return minute >= openMin && minute < closeMin
	case draws.SessionClose:
		return minute >= closeMin && minute < resultMin
	}
	return false
}

// WindowRegistry is the scheduler-maintained view of which betting windows
// are open. Placement treats it as advisory: a window the registry thinks
// is open still has to pass the derived check, and one the registry has
// closed stays closed even if the clock disagrees.
type WindowRegistry struct {
	mu   sync.RWMutex
	open map[string]bool
}

func NewWindowRegistry() *WindowRegistry {
	return &WindowRegistry{open: make(map[string]bool)}
}

func windowKey(marketID uint, session draws.Session) string {
	return fmt.Sprintf("%d/%s", marketID, session)
}

func (r *WindowRegistry) Set(marketID uint, session draws.Session, open bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open[windowKey(marketID, session)] = open
}

// IsOpen reports the registry state and whether the window is known to the
// registry at all. Unknown windows fall back to the derived check alone.
func (r *WindowRegistry) IsOpen(marketID uint, session draws.Session) (bool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	open, known := r.open[windowKey(marketID, session)]
	return open, known
}

// CloseWindow force-closes a window, used when a result is declared before
// the scheduled result time.
func (r *WindowRegistry) CloseWindow(marketID uint, session draws.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open[windowKey(marketID, session)] = false
}

type WindowChange struct {
	MarketID uint
	Session  draws.Session
	Open     bool
}

// SyncWindows re-derives every market's window state and updates the
// registry, returning the transitions. Windows whose result is already
// declared today stay closed regardless of the clock.
func (s *Service) SyncWindows(r *WindowRegistry) ([]WindowChange, error) {
	markets, err := s.ListMarkets()
	if err != nil {
		return nil, err
	}

	date := s.Today()
	var declared []models.DrawResult
	if err := s.db.Select("market_id", "session").
		Where("result_date = ?", date).Find(&declared).Error; err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(declared))
	for _, res := range declared {
		done[windowKey(res.MarketID, res.Session)] = true
	}

	now := s.now()
	var changed []WindowChange
	for i := range markets {
		m := &markets[i]
		for _, session := range []draws.Session{draws.SessionOpen, draws.SessionClose} {
			open := windowOpenAt(m, session, now, s.loc) && !done[windowKey(m.ID, session)]
			prev, known := r.IsOpen(m.ID, session)
			if known && prev == open {
				continue
			}
			r.Set(m.ID, session, open)
			changed = append(changed, WindowChange{MarketID: m.ID, Session: session, Open: open})
		}
	}
	return changed, nil
}
