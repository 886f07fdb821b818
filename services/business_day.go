package services

import (
	"context"
	"time"

	"github.com/yashrajoria/pos-terminal/models"
	"go.uber.org/zap"
)

// OpenDay opens the business day and records its start time.
func (s *POSService) OpenDay(ctx context.Context) error {
	return s.mutate(ctx, func() error {
		if s.day.Open {
			s.notifyLocked(models.SeverityInfo, ErrDayAlreadyOpen.Message)
			return ErrDayAlreadyOpen
		}
		s.openDayLocked()
		return nil
	})
}

// CloseDay closes the business day. Pending orders stay in the ledger.
func (s *POSService) CloseDay(ctx context.Context) error {
	return s.mutate(ctx, func() error {
		if !s.day.Open {
			s.notifyLocked(models.SeverityInfo, ErrDayAlreadyClosed.Message)
			return ErrDayAlreadyClosed
		}
		s.closeDayLocked()
		return nil
	})
}

func (s *POSService) openDayLocked() {
	now := s.clock.Now()
	s.day = models.BusinessDay{Open: true, StartedAt: &now}
	s.dirty = true
	s.notifyLocked(models.SeveritySuccess, "Business day opened")
	s.logger.Info("Business day opened", zap.Time("started_at", now))
}

func (s *POSService) closeDayLocked() {
	s.day = models.BusinessDay{}
	s.dirty = true
	s.notifyLocked(models.SeverityInfo, "Business day closed")
	s.logger.Info("Business day closed")
}

// Day returns the business day state.
func (s *POSService) Day() models.BusinessDay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dayLocked()
}

func (s *POSService) dayLocked() models.BusinessDay {
	d := s.day
	if d.StartedAt != nil {
		t := d.StartedAt.In(s.loc)
		d.StartedAt = &t
	}
	return d
}

// IsOpen reports whether sales are currently allowed.
func (s *POSService) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day.Open
}

// Tick applies the day schedule for the clock reading now: the day is closed
// during local 00:00 and reopened during local 00:01. Each transition fires
// at most once per calendar date.
func (s *POSService) Tick(ctx context.Context, now time.Time) {
	local := now.In(s.loc)
	if local.Hour() != 0 || local.Minute() > 1 {
		return
	}
	date := local.Format(time.DateOnly)

	_ = s.mutate(ctx, func() error {
		switch local.Minute() {
		case 0:
			if s.lastAutoClose == date {
				return nil
			}
			s.lastAutoClose = date
			if s.day.Open {
				s.logger.Info("Closing business day on schedule", zap.String("date", date))
				s.closeDayLocked()
			}
		case 1:
			if s.lastAutoOpen == date {
				return nil
			}
			s.lastAutoOpen = date
			if !s.day.Open {
				s.logger.Info("Opening business day on schedule", zap.String("date", date))
				s.openDayLocked()
			}
		}
		return nil
	})
}
