package services

import (
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"matka/database"
	"matka/draws"
	"matka/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordedEvent struct {
	Event   string
	Payload any
}

type recordingPub struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPub) Publish(event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Event: event, Payload: payload})
}

func (p *recordingPub) count(event string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

// fixture is a settled hierarchy admin→master→agent→player over one market
// with deal percentages summing to 100.
type fixture struct {
	t   *testing.T
	svc *Service
	db  *gorm.DB
	pub *recordingPub

	admin  *models.Account
	master *models.Account
	agent  *models.Account
	player *models.Account
	market *models.Market

	nowVal time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{
		t:   t,
		db:  db,
		pub: &recordingPub{},
		// a weekday mid-morning inside the OPEN window
		nowVal: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	}
	f.svc = New(db, time.UTC, f.pub, log)
	f.svc.now = func() time.Time { return f.nowVal }

	f.admin = f.account("admin0", models.TierAdmin, nil, 40)
	f.master = f.account("master0", models.TierMaster, &f.admin.ID, 30)
	f.agent = f.account("agent0", models.TierAgent, &f.master.ID, 20)
	f.player = f.account("player0", models.TierPlayer, &f.agent.ID, 10)

	f.market = &models.Market{
		Name:       "kalyan",
		OpenTime:   "09:00",
		CloseTime:  "17:00",
		ResultTime: "21:00",
		IsActive:   true,
	}
	require.NoError(t, db.Create(f.market).Error)

	f.rate(nil, draws.BetTypeSingleDigit, "10")
	f.rate(nil, draws.BetTypeJodi, "100")
	f.rate(nil, draws.BetTypeDoublePanna, "300")

	return f
}

func (f *fixture) account(code, tier string, parentID *uint, dealPercent float64) *models.Account {
	f.t.Helper()
	acc := &models.Account{
		Code:        code,
		Name:        code,
		Tier:        tier,
		ParentID:    parentID,
		DealPercent: dealPercent,
		IsActive:    true,
	}
	require.NoError(f.t, f.db.Create(acc).Error)
	return acc
}

func (f *fixture) rate(marketID *uint, betType draws.BetType, multiplier string) {
	f.t.Helper()
	m, err := decimal.NewFromString(multiplier)
	require.NoError(f.t, err)
	require.NoError(f.t, f.db.Create(&models.PayoutRate{
		MarketID:   marketID,
		BetType:    betType,
		Multiplier: m,
	}).Error)
}

func (f *fixture) setClock(hour, minute int) {
	f.nowVal = time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
}

func (f *fixture) fund(acc *models.Account, amount int64) {
	f.t.Helper()
	_, err := f.svc.Topup(acc.Code, amount, "root")
	require.NoError(f.t, err)
}

func (f *fixture) reload(acc *models.Account) *models.Account {
	f.t.Helper()
	var fresh models.Account
	require.NoError(f.t, f.db.First(&fresh, acc.ID).Error)
	return &fresh
}

func (f *fixture) reloadBet(bet *models.Bet) *models.Bet {
	f.t.Helper()
	var fresh models.Bet
	require.NoError(f.t, f.db.First(&fresh, bet.ID).Error)
	return &fresh
}

// ledgerSum reconciles the append-only entries of an account: credits minus
// debits must equal the stored balance at all times.
func (f *fixture) ledgerSum(acc *models.Account) int64 {
	f.t.Helper()
	var entries []models.LedgerEntry
	require.NoError(f.t, f.db.Where("account_id = ?", acc.ID).Find(&entries).Error)
	var sum int64
	for _, e := range entries {
		if e.Direction == models.DirectionCredit {
			sum += e.Amount
		} else {
			sum -= e.Amount
		}
	}
	return sum
}
