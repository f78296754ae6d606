package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/observability/metrics"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
)

// HousekeepingService periodically removes expired sessions and retires
// expired invitations. Validity is always checked on read; this only keeps
// tables from growing.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress sweep has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep runs one cleanup pass. Each step is independent; a failure in one
// does not stop the other.
func (s *HousekeepingService) Sweep(ctx context.Context) {
	now := nowOr(s.Now)

	sessions, err := s.Store.Sessions().DeleteExpiredSessions(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
	} else {
		metrics.ObserveHousekeeping("sessions", sessions)
	}

	invitations, err := s.Store.Invitations().ExpirePendingInvitations(ctx, now)
	if err != nil {
		s.Logger.Error("failed to expire invitations", "error", err)
	} else {
		metrics.ObserveHousekeeping("invitations", invitations)
	}

	s.Logger.Info("housekeeping sweep completed",
		"sessions_deleted", sessions,
		"invitations_expired", invitations,
	)
}
