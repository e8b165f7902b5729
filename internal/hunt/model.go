package hunt

import "time"

// Team represents a row in the teams table. CurrentIndex points at the next
// route position the team must clear; it never decreases except via a reset.
type Team struct {
	ID           string
	Name         string
	CurrentIndex int
	StartedAt    *time.Time
	FinishedAt   *time.Time
	CreatedAt    time.Time
}

// Location is static reference data for one physical stop.
type Location struct {
	ID    string
	Title string
	Block string
	Type  string
}

// Task is one challenge hosted at a location. A location may host several
// tasks; any task's pin clears the location.
type Task struct {
	ID           int64
	LocationID   string
	Name         string
	Instructions string
	Proof        string
	Pin          string
}

// RouteStop is one position of a team's ordered route, joined with its
// location. Positions are contiguous from 0 and immutable during an event.
type RouteStop struct {
	Position int
	Location Location
}

// RouteEntry is the raw route row without the location join, used by the
// admin overview.
type RouteEntry struct {
	TeamID     string
	Position   int
	LocationID string
}

// ProgressEvent is one immutable ledger entry recording a successful pin
// verification. Only a reset removes entries.
type ProgressEvent struct {
	ID         int64
	TeamID     string
	Position   int
	LocationID string
	PinSuffix  string
	RecordedAt time.Time
}

// TaskUpdate holds admin-editable task fields. Nil fields are left unchanged.
type TaskUpdate struct {
	Name         *string
	Instructions *string
	Proof        *string
	Pin          *string
}

// Advance captures one committed route advancement. The store applies it as
// a single atomic unit: ledger append plus team-row update.
type Advance struct {
	TeamID     string
	Position   int
	LocationID string
	PinSuffix  string
	Finished   bool
	Now        time.Time
}

// RedactPin keeps only the trailing two digits of a submitted pin for the
// ledger.
func RedactPin(pin string) string {
	if len(pin) <= 2 {
		return pin
	}
	return pin[len(pin)-2:]
}
