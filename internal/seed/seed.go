// Package seed loads event fixture files (locations, teams, routes, tasks)
// and applies them to the database idempotently, so a seed can be re-run
// after editing the file without wiping live progress.
package seed

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"sigs.k8s.io/yaml"

	"github.com/istehunt/hunt/internal/database"
)

// LocationSeed describes one location in a seed file.
type LocationSeed struct {
	Title string `json:"title"`
	Block string `json:"block"`
	Type  string `json:"type"`
}

// TeamSeed describes one team in a seed file.
type TeamSeed struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TaskSeed describes one task hosted at a location.
type TaskSeed struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	Proof        string `json:"proof"`
	Pin          string `json:"pin"`
}

// File is a full seed file. YAML and JSON are both accepted.
type File struct {
	Locations map[string]LocationSeed `json:"locations"`
	Teams     []TeamSeed              `json:"teams"`
	Routes    map[string][]string     `json:"routes"` // team id -> ordered location ids
	Tasks     map[string][]TaskSeed   `json:"tasks"`  // location id -> tasks
}

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// Parse decodes a seed file and validates its internal references.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	teamIDs := make(map[string]bool, len(f.Teams))
	for _, t := range f.Teams {
		if t.ID == "" {
			return fmt.Errorf("team with empty id")
		}
		if teamIDs[t.ID] {
			return fmt.Errorf("duplicate team id %q", t.ID)
		}
		teamIDs[t.ID] = true
	}

	for teamID, route := range f.Routes {
		if !teamIDs[teamID] {
			return fmt.Errorf("route for unknown team %q", teamID)
		}
		for _, locID := range route {
			if _, ok := f.Locations[locID]; !ok {
				return fmt.Errorf("route for team %q references unknown location %q", teamID, locID)
			}
		}
	}

	for locID, tasks := range f.Tasks {
		if _, ok := f.Locations[locID]; !ok {
			return fmt.Errorf("tasks reference unknown location %q", locID)
		}
		for _, t := range tasks {
			if t.Name == "" {
				return fmt.Errorf("task with empty name at location %q", locID)
			}
			if !pinPattern.MatchString(t.Pin) {
				return fmt.Errorf("task %q at location %q: pin must be exactly 4 digits", t.Name, locID)
			}
		}
	}

	return nil
}

// Apply writes the seed file to the database. Locations, teams and tasks are
// upserted; each team's route is cleared and reinserted inside one
// transaction so a half-written route is never visible.
func Apply(ctx context.Context, pool *pgxpool.Pool, f *File) error {
	for id, loc := range f.Locations {
		_, err := pool.Exec(ctx, `
			INSERT INTO locations (id, title, block, type)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET title = $2, block = $3, type = $4`,
			id, loc.Title, loc.Block, loc.Type)
		if err != nil {
			return fmt.Errorf("seeding location %q: %w", id, err)
		}
	}

	for _, t := range f.Teams {
		_, err := pool.Exec(ctx, `
			INSERT INTO teams (id, name)
			VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
			t.ID, t.Name)
		if err != nil {
			return fmt.Errorf("seeding team %q: %w", t.ID, err)
		}
	}

	for teamID, route := range f.Routes {
		err := database.WithTx(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `DELETE FROM team_routes WHERE team_id = $1`, teamID); err != nil {
				return fmt.Errorf("clearing route: %w", err)
			}
			for pos, locID := range route {
				_, err := tx.Exec(ctx, `
					INSERT INTO team_routes (team_id, position, location_id)
					VALUES ($1, $2, $3)`,
					teamID, pos, locID)
				if err != nil {
					return fmt.Errorf("inserting route position %d: %w", pos, err)
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("seeding route for team %q: %w", teamID, err)
		}
	}

	for locID, tasks := range f.Tasks {
		for _, t := range tasks {
			_, err := pool.Exec(ctx, `
				INSERT INTO tasks (location_id, name, instructions, proof, pin)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (location_id, name) DO UPDATE
					SET instructions = EXCLUDED.instructions,
					    proof = EXCLUDED.proof,
					    pin = EXCLUDED.pin`,
				locID, t.Name, t.Instructions, t.Proof, t.Pin)
			if err != nil {
				return fmt.Errorf("seeding task %q at %q: %w", t.Name, locID, err)
			}
		}
	}

	return nil
}
