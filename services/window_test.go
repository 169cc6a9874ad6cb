package services

import (
	"testing"
	"time"

	"matka/draws"
	"matka/models"

	"github.com/stretchr/testify/assert"
)

func TestWindowOpenAt(t *testing.T) {
	m := &models.Market{
		OpenTime:   "09:00",
		CloseTime:  "17:00",
		ResultTime: "21:00",
		IsActive:   true,
	}
	at := func(hour, minute int) time.Time {
		return time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
	}

	cases := []struct {
		name    string
		session draws.Session
		now     time.Time
		want    bool
	}{
		{"before open", draws.SessionOpen, at(8, 59), false},
		{"open boundary inclusive", draws.SessionOpen, at(9, 0), true},
		{"mid open", draws.SessionOpen, at(12, 30), true},
		{"close boundary excluded from open", draws.SessionOpen, at(17, 0), false},
		{"close boundary starts close", draws.SessionClose, at(17, 0), true},
		{"mid close", draws.SessionClose, at(19, 0), true},
		{"result boundary excluded", draws.SessionClose, at(21, 0), false},
		{"close session before close time", draws.SessionClose, at(12, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, windowOpenAt(m, tc.session, tc.now, time.UTC))
		})
	}

	holiday := *m
	holiday.IsHoliday = true
	assert.False(t, windowOpenAt(&holiday, draws.SessionOpen, at(12, 0), time.UTC))

	disabled := *m
	disabled.IsActive = false
	assert.False(t, windowOpenAt(&disabled, draws.SessionOpen, at(12, 0), time.UTC))
}

func TestSyncWindows(t *testing.T) {
	f := newFixture(t)
	registry := NewWindowRegistry()

	f.setClock(10, 0)
	changed, err := f.svc.SyncWindows(registry)
	assert.NoError(t, err)
	assert.Len(t, changed, 2)

	open, known := registry.IsOpen(f.market.ID, draws.SessionOpen)
	assert.True(t, known)
	assert.True(t, open)
	open, _ = registry.IsOpen(f.market.ID, draws.SessionClose)
	assert.False(t, open)

	// steady state reports nothing
	changed, err = f.svc.SyncWindows(registry)
	assert.NoError(t, err)
	assert.Empty(t, changed)

	f.setClock(18, 0)
	changed, err = f.svc.SyncWindows(registry)
	assert.NoError(t, err)
	assert.Len(t, changed, 2)
	open, _ = registry.IsOpen(f.market.ID, draws.SessionClose)
	assert.True(t, open)
}
