package jobs

import (
	"time"

	"matka/services"

	"github.com/sirupsen/logrus"
)

// StartWindowScheduler keeps the window registry in step with each market's
// daily schedule. The registry is advisory: placement always re-derives the
// window from the market times, so a stalled ticker can only close betting
// early, never keep it open late.
func StartWindowScheduler(svc *services.Service, registry *services.WindowRegistry, log *logrus.Logger) {
	poll := func() {
		changed, err := svc.SyncWindows(registry)
		if err != nil {
			log.WithError(err).Error("window scheduler sync")
			return
		}
		for _, w := range changed {
			log.WithFields(logrus.Fields{
				"market":  w.MarketID,
				"session": w.Session,
				"open":    w.Open,
			}).Info("betting window changed")
		}
	}

	poll()

	ticker := time.NewTicker(30 * time.Second)
	go func() {
		for {
			<-ticker.C
			poll()
		}
	}()
}
