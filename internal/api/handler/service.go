package handler

import (
	"context"

	"github.com/istehunt/hunt/internal/hunt"
)

// HuntService is the slice of the hunt service the HTTP handlers consume.
type HuntService interface {
	VerifyAndAdvance(ctx context.Context, teamID, pin string) (*hunt.AdvanceResult, error)
	State(ctx context.Context, teamID string) (*hunt.TeamState, error)
	Scoreboard(ctx context.Context) ([]hunt.ScoreboardRow, error)
	Progress(ctx context.Context, teamID string) ([]hunt.ProgressEvent, error)
	Reset(ctx context.Context, teamID string) error
	UpdateTask(ctx context.Context, id int64, upd hunt.TaskUpdate) (*hunt.Task, error)
	Overview(ctx context.Context) (*hunt.Overview, error)
}

// DBPinger verifies database connectivity for health checks.
type DBPinger interface {
	Ping(ctx context.Context) error
}
