package hunt

import (
	"fmt"
	"time"
)

// Team status labels as shown on the scoreboard.
const (
	StatusNotStarted = "NotStarted"
	StatusInProgress = "InProgress"
	StatusFinished   = "Finished"
)

// ScoreboardRow is one team's derived progress view.
type ScoreboardRow struct {
	TeamID   string
	Name     string
	Progress string // "completed/total"
	Elapsed  string // HH:MM:SS
	Status   string
}

// FormatElapsed renders a duration as HH:MM:SS, clamped at zero.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec%3600)/60, sec%60)
}

// ProjectRow derives a scoreboard row from a team row and its route length.
// Pure: safe to recompute on every read.
func ProjectRow(t Team, total int, now time.Time) ScoreboardRow {
	completed := t.CurrentIndex
	if completed > total {
		completed = total
	}

	var elapsed time.Duration
	switch {
	case t.StartedAt == nil:
		elapsed = 0
	case t.FinishedAt != nil:
		elapsed = t.FinishedAt.Sub(*t.StartedAt)
	default:
		elapsed = now.Sub(*t.StartedAt)
	}

	status := StatusNotStarted
	switch {
	case t.FinishedAt != nil:
		status = StatusFinished
	case t.StartedAt != nil:
		status = StatusInProgress
	}

	return ScoreboardRow{
		TeamID:   t.ID,
		Name:     t.Name,
		Progress: fmt.Sprintf("%d/%d", completed, total),
		Elapsed:  FormatElapsed(elapsed),
		Status:   status,
	}
}
