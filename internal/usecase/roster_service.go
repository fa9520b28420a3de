package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"planche-service/internal/domain/entity"
	"planche-service/internal/domain/patch"
	"planche-service/internal/domain/repository"
	"planche-service/pkg/logger"
	"planche-service/pkg/metrics"

	"github.com/google/uuid"
)

// rosterDay is the exclusive-access gate for one date
type rosterDay struct {
	mu      sync.Mutex
	roster  *entity.DailyRoster
	history []entity.UpdateCommand
	// users counts callers between acquire and release; guarded by RosterService.mu
	users int
}

// RosterService serializes updates per date, persists the resulting rosters and
// keeps a short history of applied updates for clients that need to catch up.
type RosterService struct {
	applier    *patch.Applier
	rosterRepo repository.RosterRepository
	updateRepo repository.UpdateRepository
	metrics    *metrics.Metrics
	logger     logger.Logger
	maxAge     time.Duration
	now        func() time.Time

	mu   sync.Mutex
	days map[entity.Date]*rosterDay
}

// NewRosterService creates a new roster service. updateRepo may be nil to disable the audit log.
func NewRosterService(
	applier *patch.Applier,
	rosterRepo repository.RosterRepository,
	updateRepo repository.UpdateRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
	maxAge time.Duration,
) *RosterService {
	return &RosterService{
		applier:    applier,
		rosterRepo: rosterRepo,
		updateRepo: updateRepo,
		metrics:    metrics,
		logger:     logger,
		maxAge:     maxAge,
		now:        time.Now,
		days:       make(map[entity.Date]*rosterDay),
	}
}

// SetClock replaces the wall clock used for issue times and retention
func (s *RosterService) SetClock(now func() time.Time) {
	s.now = now
}

// acquire returns the gate for date, creating it on first use. Every acquire
// must be paired with a release so that idle gates can be evicted.
func (s *RosterService) acquire(date entity.Date) *rosterDay {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.days[date]
	if !ok {
		d = &rosterDay{}
		s.days[date] = d
	}
	d.users++
	return d
}

// acquireExisting is acquire without creation
func (s *RosterService) acquireExisting(date entity.Date) (*rosterDay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.days[date]
	if ok {
		d.users++
	}
	return d, ok
}

func (s *RosterService) release(d *rosterDay) {
	s.mu.Lock()
	d.users--
	s.mu.Unlock()
}

// load fills d.roster from storage or with an empty roster. Caller holds d.mu.
func (s *RosterService) load(ctx context.Context, d *rosterDay, date entity.Date) error {
	if d.roster != nil {
		return nil
	}
	roster, err := s.rosterRepo.FindByDate(ctx, date)
	if errors.Is(err, repository.ErrRosterNotFound) {
		s.logger.Info("Starting new roster", "date", date.String())
		d.roster = entity.NewDailyRoster(date)
		return nil
	}
	if err != nil {
		s.metrics.ErrorsCount.WithLabelValues("load_roster").Inc()
		return fmt.Errorf("failed to load roster: %w", err)
	}
	d.roster = roster
	return nil
}

// Submit applies cmd to the roster of date. On success the returned roster is a copy
// of the new state; on failure the stored roster is unchanged.
func (s *RosterService) Submit(ctx context.Context, date entity.Date, cmd entity.UpdateCommand) (*entity.DailyRoster, patch.Delta, error) {
	if cmd.ID == uuid.Nil {
		cmd.ID = uuid.New()
	}
	if cmd.IssuedAt.IsZero() {
		cmd.IssuedAt = s.now()
	}
	// stored BSON dates keep milliseconds only
	cmd.IssuedAt = cmd.IssuedAt.Truncate(time.Millisecond)

	d := s.acquire(date)
	defer s.release(d)
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := s.load(ctx, d, date); err != nil {
		return nil, patch.Delta{}, err
	}

	start := time.Now()
	working := d.roster.Clone()
	delta, err := s.applier.Apply(working, cmd)
	if err != nil {
		s.reject(date, cmd, err)
		return nil, patch.Delta{}, err
	}

	if err := s.rosterRepo.Save(ctx, working); err != nil {
		s.metrics.ErrorsCount.WithLabelValues("save_roster").Inc()
		s.logger.Error("Failed to save roster", "date", date.String(), "updateID", cmd.ID, "error", err)
		return nil, patch.Delta{}, fmt.Errorf("failed to save roster: %w", err)
	}
	d.roster = working
	d.history = append(d.history, cmd)

	if s.updateRepo != nil {
		if err := s.updateRepo.Save(ctx, cmd); err != nil {
			s.metrics.ErrorsCount.WithLabelValues("save_update").Inc()
			s.logger.Error("Failed to record update", "updateID", cmd.ID, "error", err)
		}
	}

	s.metrics.UpdatesApplied.Inc()
	s.metrics.ApplyTime.Observe(time.Since(start).Seconds())
	s.logger.Debug("Update applied",
		"date", date.String(),
		"ognNumber", cmd.OgnNumber,
		"field", cmd.Field,
		"matched", delta.Matched)

	return working.Clone(), delta, nil
}

// reject reports a refused update; it is never retried here
func (s *RosterService) reject(date entity.Date, cmd entity.UpdateCommand, err error) {
	kind := patch.KindOf(err)
	s.metrics.UpdatesRejected.WithLabelValues(string(kind)).Inc()

	fields := []interface{}{
		"rosterDate", date.String(),
		"updateDate", cmd.Date.String(),
		"issuedAt", cmd.IssuedAt.Format("15:04"),
		"ognNumber", cmd.OgnNumber,
		"field", cmd.Field,
		"error", err,
	}
	switch kind {
	case patch.KindUnknownField, patch.KindDuplicateFlight:
		s.logger.Warn("Update does not contain the right field", fields...)
	case patch.KindDateMismatch:
		s.logger.Error("Impossible update: dates do not match", fields...)
	default:
		s.logger.Error("Update rejected", fields...)
	}
}

// Roster returns a copy of the current roster of date. Reading a date that has
// never been updated does not register it with the service.
func (s *RosterService) Roster(ctx context.Context, date entity.Date) (*entity.DailyRoster, error) {
	d, ok := s.acquireExisting(date)
	if !ok {
		roster, err := s.rosterRepo.FindByDate(ctx, date)
		if errors.Is(err, repository.ErrRosterNotFound) {
			return entity.NewDailyRoster(date), nil
		}
		if err != nil {
			s.metrics.ErrorsCount.WithLabelValues("load_roster").Inc()
			return nil, fmt.Errorf("failed to load roster: %w", err)
		}
		return roster, nil
	}
	defer s.release(d)
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := s.load(ctx, d, date); err != nil {
		return nil, err
	}
	return d.roster.Clone(), nil
}

// RecentUpdates returns the updates of date issued after since, oldest first
func (s *RosterService) RecentUpdates(ctx context.Context, date entity.Date, since time.Time) ([]entity.UpdateCommand, error) {
	if s.updateRepo != nil {
		updates, err := s.updateRepo.FindSince(ctx, date, since)
		if err == nil {
			return updates, nil
		}
		s.metrics.ErrorsCount.WithLabelValues("find_updates").Inc()
		s.logger.Warn("Falling back to in-memory update history", "date", date.String(), "error", err)
	}

	d, ok := s.acquireExisting(date)
	if !ok {
		return []entity.UpdateCommand{}, nil
	}
	defer s.release(d)
	d.mu.Lock()
	defer d.mu.Unlock()
	return patch.Since(d.history, since), nil
}

// PruneHistory drops every remembered update older than the configured max age,
// then forgets past dates that are idle and have no history left. Their rosters
// are already persisted and are reloaded on the next update.
func (s *RosterService) PruneHistory(ctx context.Context) (int, error) {
	now := s.now()

	s.mu.Lock()
	dates := make([]entity.Date, 0, len(s.days))
	for date := range s.days {
		dates = append(dates, date)
	}
	s.mu.Unlock()
	sort.Slice(dates, func(i, j int) bool { return dates[i].Time().Before(dates[j].Time()) })

	pruned := 0
	for _, date := range dates {
		d, ok := s.acquireExisting(date)
		if !ok {
			continue
		}
		d.mu.Lock()
		before := len(d.history)
		d.history = patch.Prune(d.history, s.maxAge, now)
		pruned += before - len(d.history)
		d.mu.Unlock()
		s.release(d)
	}
	s.metrics.UpdatesPruned.Add(float64(pruned))

	if closed := s.evictClosedDays(entity.DateOf(now)); closed > 0 {
		s.logger.Debug("Closed idle roster days", "closed", closed)
	}

	if s.updateRepo != nil {
		deleted, err := s.updateRepo.DeleteOlderThan(ctx, now.Add(-s.maxAge))
		if err != nil {
			s.metrics.ErrorsCount.WithLabelValues("prune_updates").Inc()
			return pruned, fmt.Errorf("failed to prune stored updates: %w", err)
		}
		s.logger.Debug("Pruned stored updates", "deleted", deleted)
	}

	if pruned > 0 {
		s.logger.Info("Pruned update history", "pruned", pruned, "maxAge", s.maxAge.String())
	}
	return pruned, nil
}

// evictClosedDays removes gates for dates before today with no users and no history.
// A gate with no users cannot be locked by anyone, so its history is read under s.mu alone.
func (s *RosterService) evictClosedDays(today entity.Date) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	closed := 0
	for date, d := range s.days {
		if d.users > 0 || len(d.history) > 0 || !date.Time().Before(today.Time()) {
			continue
		}
		delete(s.days, date)
		closed++
	}
	return closed
}

// RunRetention prunes the history every interval until ctx is cancelled
func (s *RosterService) RunRetention(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Update retention stopped")
			return
		case <-ticker.C:
			if _, err := s.PruneHistory(ctx); err != nil {
				s.logger.Error("Error pruning update history", "error", err)
			}
		}
	}
}
