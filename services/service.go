// Package services holds the money-moving core: ledger, bet placement,
// result declaration, settlement, P&L cascade and rollback. Every operation
// that mutates a balance runs inside one gorm transaction with row locks;
// notifications happen after commit and never fail an operation.
package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Publisher is the fire-and-forget notification sink. Implementations must
// not block; failures are theirs to swallow.
type Publisher interface {
	Publish(event string, payload any)
}

// Notification event names.
const (
	EventBalanceChanged = "balance_changed"
	EventBetPlaced      = "bet_placed"
	EventResultDeclared = "result_declared"
	EventRollback       = "settlement_rolled_back"
)

type Service struct {
	db      *gorm.DB
	loc     *time.Location
	pub     Publisher
	log     *logrus.Logger
	windows *WindowRegistry

	// now is swapped out by tests.
	now func() time.Time
}

func New(db *gorm.DB, loc *time.Location, pub Publisher, log *logrus.Logger) *Service {
	if pub == nil {
		pub = NewLogPublisher(log)
	}
	return &Service{
		db:  db,
		loc: loc,
		pub: pub,
		log: log,
		now: time.Now,
	}
}

// UseWindowRegistry attaches the scheduler-maintained registry. Placement
// consults it in addition to, never instead of, the derived window check.
func (s *Service) UseWindowRegistry(r *WindowRegistry) { s.windows = r }

// Today is the current civil date in the platform timezone.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format("2006-01-02")
}

// publish dispatches a notification, logging and swallowing any panic from
// the sink. Money paths call this only after their transaction committed.
func (s *Service) publish(event string, payload any) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("event", event).Errorf("notifier panic: %v", r)
		}
	}()
	s.pub.Publish(event, payload)
}

// forUpdate applies a row lock on dialects that support it. sqlite, used by
// the service tests, has no FOR UPDATE and serializes writes on the handle.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

type logPublisher struct {
	log *logrus.Logger
}

// NewLogPublisher returns a Publisher that just logs every event. It stands
// in until a real push channel is wired by the caller.
func NewLogPublisher(log *logrus.Logger) Publisher {
	return &logPublisher{log: log}
}

func (p *logPublisher) Publish(event string, payload any) {
	p.log.WithField("event", event).WithField("payload", payload).Debug("publish")
}
