package hunt

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/istehunt/hunt/internal/event"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// AdvanceResult is the outcome of a successful verification.
type AdvanceResult struct {
	Finished     bool
	NextLocation *Location // nil when Finished
}

// TeamState is the queryable view of one team's position on its route.
type TeamState struct {
	TeamID          string
	CurrentIndex    int
	Total           int
	CurrentLocation *Location // nil when the route is complete
	StartedAt       *time.Time
	FinishedAt      *time.Time
}

// Overview is the admin dump of all event data.
type Overview struct {
	Teams     []Team
	Routes    []RouteEntry
	Locations []Location
	Tasks     []Task
}

// Service drives route advancement: it owns the per-team lock discipline,
// the verification state machine, resets, and post-commit notification.
type Service struct {
	store    Store
	bus      *event.Bus
	locks    *KeyedLock
	lockWait time.Duration
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLockWait bounds how long a submission waits for a contended team lock.
func WithLockWait(d time.Duration) Option {
	return func(s *Service) { s.lockWait = d }
}

// WithClock substitutes the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a hunt Service.
func NewService(store Store, bus *event.Bus, opts ...Option) *Service {
	s := &Service{
		store:    store,
		bus:      bus,
		locks:    NewKeyedLock(),
		lockWait: 5 * time.Second,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerifyAndAdvance checks the submitted pin against the team's current
// location and, on a match, advances the team by one position. The ledger
// append, start/finish stamping and index increment commit as one unit.
// Submissions for the same team are strictly serialized; submissions for
// different teams proceed independently.
func (s *Service) VerifyAndAdvance(ctx context.Context, teamID, pin string) (*AdvanceResult, error) {
	if !pinPattern.MatchString(pin) {
		return nil, ErrInvalidPin
	}

	release, err := s.locks.Acquire(ctx, teamID, s.lockWait)
	if err != nil {
		return nil, err
	}
	defer release()

	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	route, err := s.store.GetRoute(ctx, teamID)
	if err != nil {
		return nil, err
	}

	total := len(route)
	idx := team.CurrentIndex
	if idx >= total {
		return nil, ErrRouteComplete
	}

	current := route[idx].Location
	match, err := s.store.MatchTask(ctx, current.ID, pin)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrIncorrectPin
	}

	finished := idx+1 >= total
	adv := Advance{
		TeamID:     teamID,
		Position:   idx,
		LocationID: current.ID,
		PinSuffix:  RedactPin(pin),
		Finished:   finished,
		Now:        s.now().UTC(),
	}
	if err := s.store.AdvanceTeam(ctx, adv); err != nil {
		return nil, err
	}

	slog.Info("team advanced", "team", teamID, "position", idx, "location", current.ID, "finished", finished)

	// Published before the lock releases so same-team notifications keep
	// commit order.
	s.publish(event.Event{Kind: event.KindScoreboardUpdate, Scope: event.ScopeTeam, TeamID: teamID})

	result := &AdvanceResult{Finished: finished}
	if !finished {
		next := route[idx+1].Location
		result.NextLocation = &next
	}
	return result, nil
}

// State returns the team's current position, route length and current
// location. Reads are lock-free and may trail an in-flight advancement.
func (s *Service) State(ctx context.Context, teamID string) (*TeamState, error) {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	route, err := s.store.GetRoute(ctx, teamID)
	if err != nil {
		return nil, err
	}

	total := len(route)
	idx := team.CurrentIndex
	if idx > total {
		idx = total
	}

	state := &TeamState{
		TeamID:       teamID,
		CurrentIndex: idx,
		Total:        total,
		StartedAt:    team.StartedAt,
		FinishedAt:   team.FinishedAt,
	}
	if idx < total {
		loc := route[idx].Location
		state.CurrentLocation = &loc
	}
	return state, nil
}

// Scoreboard derives the spectator view for every team, ordered by team id.
func (s *Service) Scoreboard(ctx context.Context) ([]ScoreboardRow, error) {
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, err
	}

	lengths, err := s.store.RouteLengths(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rows := make([]ScoreboardRow, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, ProjectRow(t, lengths[t.ID], now))
	}
	return rows, nil
}

// Reset clears one team's progress and ledger, or every team's when teamID
// is empty. Per-team resets hold that team's lock for the duration.
func (s *Service) Reset(ctx context.Context, teamID string) error {
	if teamID != "" {
		release, err := s.locks.Acquire(ctx, teamID, s.lockWait)
		if err != nil {
			return err
		}
		defer release()

		if err := s.store.ResetTeam(ctx, teamID); err != nil {
			return err
		}

		slog.Info("team reset", "team", teamID)
		s.publish(event.Event{Kind: event.KindScoreboardUpdate, Scope: event.ScopeTeam, TeamID: teamID})
		return nil
	}

	if err := s.store.ResetAll(ctx); err != nil {
		return err
	}

	slog.Info("all teams reset")
	s.publish(event.Event{Kind: event.KindScoreboardReset, Scope: event.ScopeAll})
	return nil
}

// UpdateTask applies an admin edit and broadcasts the full updated task.
func (s *Service) UpdateTask(ctx context.Context, id int64, upd TaskUpdate) (*Task, error) {
	task, err := s.store.UpdateTask(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	slog.Info("task updated", "task", id, "location", task.LocationID)
	s.publish(event.Event{Kind: event.KindTaskUpdate, Scope: event.ScopeAll, Payload: task})
	return task, nil
}

// Overview returns every team, route entry, location and task for the admin
// console.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	routes, err := s.store.ListRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}
	locations, err := s.store.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	return &Overview{Teams: teams, Routes: routes, Locations: locations, Tasks: tasks}, nil
}

// Progress returns the team's ledger.
func (s *Service) Progress(ctx context.Context, teamID string) ([]ProgressEvent, error) {
	if _, err := s.store.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	return s.store.ListProgress(ctx, teamID)
}

func (s *Service) publish(e event.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
