package hunt

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and local development. A
// single mutex gives every mutating method the same all-or-nothing behavior
// the postgres transactions provide.
type MemoryStore struct {
	mu       sync.RWMutex
	teams    map[string]*Team
	routes   map[string][]RouteStop
	tasks    map[int64]*Task
	progress map[string][]ProgressEvent
	nextTask int64
	nextProg int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		teams:    make(map[string]*Team),
		routes:   make(map[string][]RouteStop),
		tasks:    make(map[int64]*Task),
		progress: make(map[string][]ProgressEvent),
		nextTask: 1,
		nextProg: 1,
	}
}

// AddTeam registers a team. Test setup helper, not part of Store.
func (s *MemoryStore) AddTeam(t Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := t
	s.teams[t.ID] = &cp
}

// AddRoute assigns an ordered route of locations to a team.
func (s *MemoryStore) AddRoute(teamID string, locations ...Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stops := make([]RouteStop, len(locations))
	for i, loc := range locations {
		stops[i] = RouteStop{Position: i, Location: loc}
	}
	s.routes[teamID] = stops
}

// AddTask registers a task and returns its assigned id.
func (s *MemoryStore) AddTask(t Task) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextTask
	s.nextTask++
	s.tasks[t.ID] = &t
	return t.ID
}

func (s *MemoryStore) GetTeam(_ context.Context, teamID string) (*Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[teamID]
	if !ok {
		return nil, ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *MemoryStore) ListTeams(_ context.Context) ([]Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teams := make([]Team, 0, len(s.teams))
	for _, t := range s.teams {
		teams = append(teams, *t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (s *MemoryStore) GetRoute(_ context.Context, teamID string) ([]RouteStop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	route := s.routes[teamID]
	out := make([]RouteStop, len(route))
	copy(out, route)
	return out, nil
}

func (s *MemoryStore) RouteLengths(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lengths := make(map[string]int, len(s.routes))
	for teamID, route := range s.routes {
		lengths[teamID] = len(route)
	}
	return lengths, nil
}

func (s *MemoryStore) MatchTask(_ context.Context, locationID, pin string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.LocationID == locationID && t.Pin == pin {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) AdvanceTeam(_ context.Context, adv Advance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[adv.TeamID]
	if !ok {
		return ErrTeamNotFound
	}
	if t.CurrentIndex != adv.Position {
		return ErrStaleIndex
	}

	e := ProgressEvent{
		ID:         s.nextProg,
		TeamID:     adv.TeamID,
		Position:   adv.Position,
		LocationID: adv.LocationID,
		PinSuffix:  adv.PinSuffix,
		RecordedAt: adv.Now,
	}
	s.nextProg++
	s.progress[adv.TeamID] = append(s.progress[adv.TeamID], e)

	t.CurrentIndex = adv.Position + 1
	if t.StartedAt == nil {
		now := adv.Now
		t.StartedAt = &now
	}
	if adv.Finished {
		now := adv.Now
		t.FinishedAt = &now
	}

	return nil
}

func (s *MemoryStore) ResetTeam(_ context.Context, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[teamID]
	if !ok {
		return ErrTeamNotFound
	}
	t.CurrentIndex = 0
	t.StartedAt = nil
	t.FinishedAt = nil
	delete(s.progress, teamID)

	return nil
}

func (s *MemoryStore) ResetAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.teams {
		t.CurrentIndex = 0
		t.StartedAt = nil
		t.FinishedAt = nil
	}
	s.progress = make(map[string][]ProgressEvent)

	return nil
}

func (s *MemoryStore) ListProgress(_ context.Context, teamID string) ([]ProgressEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := s.progress[teamID]
	out := make([]ProgressEvent, len(events))
	copy(out, events)
	return out, nil
}

func (s *MemoryStore) GetTask(_ context.Context, id int64) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *MemoryStore) ListTasks(_ context.Context) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, *t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (s *MemoryStore) UpdateTask(_ context.Context, id int64, upd TaskUpdate) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Instructions != nil {
		t.Instructions = *upd.Instructions
	}
	if upd.Proof != nil {
		t.Proof = *upd.Proof
	}
	if upd.Pin != nil {
		t.Pin = *upd.Pin
	}

	cp := *t
	return &cp, nil
}

func (s *MemoryStore) ListLocations(_ context.Context) ([]Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]Location)
	for _, route := range s.routes {
		for _, stop := range route {
			seen[stop.Location.ID] = stop.Location
		}
	}
	locations := make([]Location, 0, len(seen))
	for _, l := range seen {
		locations = append(locations, l)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].ID < locations[j].ID })
	return locations, nil
}

func (s *MemoryStore) ListRoutes(_ context.Context) ([]RouteEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []RouteEntry
	for teamID, route := range s.routes {
		for _, stop := range route {
			entries = append(entries, RouteEntry{TeamID: teamID, Position: stop.Position, LocationID: stop.Location.ID})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TeamID != entries[j].TeamID {
			return entries[i].TeamID < entries[j].TeamID
		}
		return entries[i].Position < entries[j].Position
	})
	if entries == nil {
		entries = []RouteEntry{}
	}
	return entries, nil
}
