package hunt

import "context"

// Store is the persistence capability the hunt service runs on. The postgres
// implementation is authoritative in production; an in-memory implementation
// backs tests. AdvanceTeam, ResetTeam and ResetAll are atomic: either every
// row they touch commits or none does.
type Store interface {
	GetTeam(ctx context.Context, teamID string) (*Team, error)
	ListTeams(ctx context.Context) ([]Team, error)

	// GetRoute returns the team's ordered route joined with locations.
	GetRoute(ctx context.Context, teamID string) ([]RouteStop, error)
	// RouteLengths returns the route length per team id, for scoreboard
	// totals in one round trip.
	RouteLengths(ctx context.Context) (map[string]int, error)

	// MatchTask reports whether any task at the location carries the pin.
	MatchTask(ctx context.Context, locationID, pin string) (bool, error)

	// AdvanceTeam appends the ledger entry and updates the team row as one
	// atomic unit. Returns ErrStaleIndex if the team's current_index no
	// longer equals adv.Position.
	AdvanceTeam(ctx context.Context, adv Advance) error

	// ResetTeam clears the team's ledger and zeroes its index and
	// timestamps. ResetAll does the same for every team.
	ResetTeam(ctx context.Context, teamID string) error
	ResetAll(ctx context.Context) error

	ListProgress(ctx context.Context, teamID string) ([]ProgressEvent, error)

	GetTask(ctx context.Context, id int64) (*Task, error)
	ListTasks(ctx context.Context) ([]Task, error)
	UpdateTask(ctx context.Context, id int64, upd TaskUpdate) (*Task, error)

	ListLocations(ctx context.Context) ([]Location, error)
	ListRoutes(ctx context.Context) ([]RouteEntry, error)
}
