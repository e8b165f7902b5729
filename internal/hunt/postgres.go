package hunt

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/istehunt/hunt/internal/database"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &PostgresStore{pool: pool}
}

// GetTeam retrieves a single team by id.
func (s *PostgresStore) GetTeam(ctx context.Context, teamID string) (*Team, error) {
	query := `
		SELECT id, name, current_index, started_at, finished_at, created_at
		FROM teams
		WHERE id = $1`

	var t Team
	err := s.pool.QueryRow(ctx, query, teamID).
		Scan(&t.ID, &t.Name, &t.CurrentIndex, &t.StartedAt, &t.FinishedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return &t, nil
}

// ListTeams retrieves all teams ordered by id.
func (s *PostgresStore) ListTeams(ctx context.Context) ([]Team, error) {
	query := `
		SELECT id, name, current_index, started_at, finished_at, created_at
		FROM teams
		ORDER BY id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		err := rows.Scan(&t.ID, &t.Name, &t.CurrentIndex, &t.StartedAt, &t.FinishedAt, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	if teams == nil {
		teams = []Team{}
	}

	return teams, nil
}

// GetRoute retrieves the team's ordered route joined with its locations.
func (s *PostgresStore) GetRoute(ctx context.Context, teamID string) ([]RouteStop, error) {
	query := `
		SELECT r.position, l.id, l.title, l.block, l.type
		FROM team_routes r
		JOIN locations l ON l.id = r.location_id
		WHERE r.team_id = $1
		ORDER BY r.position ASC`

	rows, err := s.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("querying route: %w", err)
	}
	defer rows.Close()

	var route []RouteStop
	for rows.Next() {
		var stop RouteStop
		err := rows.Scan(&stop.Position, &stop.Location.ID, &stop.Location.Title, &stop.Location.Block, &stop.Location.Type)
		if err != nil {
			return nil, fmt.Errorf("scanning route row: %w", err)
		}
		route = append(route, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating route rows: %w", err)
	}

	return route, nil
}

// RouteLengths returns the number of route entries per team.
func (s *PostgresStore) RouteLengths(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT team_id, COUNT(*)
		FROM team_routes
		GROUP BY team_id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying route lengths: %w", err)
	}
	defer rows.Close()

	lengths := make(map[string]int)
	for rows.Next() {
		var teamID string
		var n int
		if err := rows.Scan(&teamID, &n); err != nil {
			return nil, fmt.Errorf("scanning route length row: %w", err)
		}
		lengths[teamID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating route length rows: %w", err)
	}

	return lengths, nil
}

// MatchTask reports whether any task at the location carries the pin.
func (s *PostgresStore) MatchTask(ctx context.Context, locationID, pin string) (bool, error) {
	query := `SELECT 1 FROM tasks WHERE location_id = $1 AND pin = $2 LIMIT 1`

	var one int
	err := s.pool.QueryRow(ctx, query, locationID, pin).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("matching task pin: %w", err)
	}

	return true, nil
}

// AdvanceTeam commits one advancement: the ledger append and the team-row
// update share a transaction, so either both land or neither does. The team
// row is locked FOR UPDATE and its index re-checked against adv.Position as
// a guard against writers outside the service's lock discipline.
func (s *PostgresStore) AdvanceTeam(ctx context.Context, adv Advance) error {
	return database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		var current int
		err := tx.QueryRow(ctx,
			`SELECT current_index FROM teams WHERE id = $1 FOR UPDATE`,
			adv.TeamID).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("locking team row: %w", err)
		}
		if current != adv.Position {
			return ErrStaleIndex
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO progress (team_id, position, location_id, pin_suffix, recorded_at)
			VALUES ($1, $2, $3, $4, $5)`,
			adv.TeamID, adv.Position, adv.LocationID, adv.PinSuffix, adv.Now)
		if err != nil {
			return fmt.Errorf("appending progress entry: %w", err)
		}

		if adv.Finished {
			_, err = tx.Exec(ctx, `
				UPDATE teams
				SET current_index = $2,
				    started_at = COALESCE(started_at, $3),
				    finished_at = $3
				WHERE id = $1`,
				adv.TeamID, adv.Position+1, adv.Now)
		} else {
			_, err = tx.Exec(ctx, `
				UPDATE teams
				SET current_index = $2,
				    started_at = COALESCE(started_at, $3)
				WHERE id = $1`,
				adv.TeamID, adv.Position+1, adv.Now)
		}
		if err != nil {
			return fmt.Errorf("updating team row: %w", err)
		}

		return nil
	})
}

// ResetTeam clears the team's ledger and zeroes its progress in one
// transaction.
func (s *PostgresStore) ResetTeam(ctx context.Context, teamID string) error {
	return database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM progress WHERE team_id = $1`, teamID); err != nil {
			return fmt.Errorf("clearing progress: %w", err)
		}

		result, err := tx.Exec(ctx, `
			UPDATE teams
			SET current_index = 0, started_at = NULL, finished_at = NULL
			WHERE id = $1`, teamID)
		if err != nil {
			return fmt.Errorf("resetting team row: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrTeamNotFound
		}

		return nil
	})
}

// ResetAll clears every ledger entry and resets every team in one
// transaction.
func (s *PostgresStore) ResetAll(ctx context.Context) error {
	return database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM progress`); err != nil {
			return fmt.Errorf("clearing progress: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE teams
			SET current_index = 0, started_at = NULL, finished_at = NULL`); err != nil {
			return fmt.Errorf("resetting team rows: %w", err)
		}
		return nil
	})
}

// ListProgress retrieves the team's ledger in commit order.
func (s *PostgresStore) ListProgress(ctx context.Context, teamID string) ([]ProgressEvent, error) {
	query := `
		SELECT id, team_id, position, location_id, pin_suffix, recorded_at
		FROM progress
		WHERE team_id = $1
		ORDER BY position ASC`

	rows, err := s.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing progress: %w", err)
	}
	defer rows.Close()

	var events []ProgressEvent
	for rows.Next() {
		var e ProgressEvent
		err := rows.Scan(&e.ID, &e.TeamID, &e.Position, &e.LocationID, &e.PinSuffix, &e.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning progress row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress rows: %w", err)
	}

	return events, nil
}

// GetTask retrieves a single task by id.
func (s *PostgresStore) GetTask(ctx context.Context, id int64) (*Task, error) {
	query := `
		SELECT id, location_id, name, instructions, proof, pin
		FROM tasks
		WHERE id = $1`

	var t Task
	err := s.pool.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.LocationID, &t.Name, &t.Instructions, &t.Proof, &t.Pin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("querying task: %w", err)
	}

	return &t, nil
}

// ListTasks retrieves all tasks ordered by id.
func (s *PostgresStore) ListTasks(ctx context.Context) ([]Task, error) {
	query := `
		SELECT id, location_id, name, instructions, proof, pin
		FROM tasks
		ORDER BY id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		err := rows.Scan(&t.ID, &t.LocationID, &t.Name, &t.Instructions, &t.Proof, &t.Pin)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}

	if tasks == nil {
		tasks = []Task{}
	}

	return tasks, nil
}

// UpdateTask applies the non-nil fields of upd and returns the updated row.
func (s *PostgresStore) UpdateTask(ctx context.Context, id int64, upd TaskUpdate) (*Task, error) {
	query := `
		UPDATE tasks
		SET name = COALESCE($1, name),
		    instructions = COALESCE($2, instructions),
		    proof = COALESCE($3, proof),
		    pin = COALESCE($4, pin)
		WHERE id = $5
		RETURNING id, location_id, name, instructions, proof, pin`

	var t Task
	err := s.pool.QueryRow(ctx, query, upd.Name, upd.Instructions, upd.Proof, upd.Pin, id).
		Scan(&t.ID, &t.LocationID, &t.Name, &t.Instructions, &t.Proof, &t.Pin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("updating task: %w", err)
	}

	return &t, nil
}

// ListLocations retrieves all locations ordered by id.
func (s *PostgresStore) ListLocations(ctx context.Context) ([]Location, error) {
	query := `SELECT id, title, block, type FROM locations ORDER BY id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Title, &l.Block, &l.Type); err != nil {
			return nil, fmt.Errorf("scanning location row: %w", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating location rows: %w", err)
	}

	if locations == nil {
		locations = []Location{}
	}

	return locations, nil
}

// ListRoutes retrieves every route entry ordered by team then position.
func (s *PostgresStore) ListRoutes(ctx context.Context) ([]RouteEntry, error) {
	query := `
		SELECT team_id, position, location_id
		FROM team_routes
		ORDER BY team_id ASC, position ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}
	defer rows.Close()

	var entries []RouteEntry
	for rows.Next() {
		var e RouteEntry
		if err := rows.Scan(&e.TeamID, &e.Position, &e.LocationID); err != nil {
			return nil, fmt.Errorf("scanning route entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating route entries: %w", err)
	}

	if entries == nil {
		entries = []RouteEntry{}
	}

	return entries, nil
}
