package services

import (
	"context"
	"log/slog"
	"time"
)

// OrphanSweeper runs RoomService.SweepOrphans on a fixed interval.
type OrphanSweeper struct {
	rooms    RoomServiceInterface
	interval time.Duration
	logger   *slog.Logger
}

func NewOrphanSweeper(rooms RoomServiceInterface, interval time.Duration, logger *slog.Logger) *OrphanSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrphanSweeper{rooms: rooms, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled. A non-positive interval disables sweeping.
func (s *OrphanSweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.rooms.SweepOrphans(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("orphan sweep failed", "error", err)
			}
		}
	}
}
