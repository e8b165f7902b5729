package hunt

import "errors"

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// ErrTaskNotFound is returned when a task record is not found.
var ErrTaskNotFound = errors.New("task not found")

// ErrInvalidPin is returned when a submitted pin is not a 4-digit code.
// Detected before any state is read.
var ErrInvalidPin = errors.New("pin must be exactly 4 digits")

// ErrIncorrectPin is returned when no task at the team's current location
// carries the submitted pin. Nothing is mutated; the caller may retry.
var ErrIncorrectPin = errors.New("incorrect pin")

// ErrRouteComplete is returned when the team has already cleared every
// location on its route.
var ErrRouteComplete = errors.New("route already complete")

// ErrBusy is returned when the team's lock could not be acquired within the
// bounded wait. Safe to retry.
var ErrBusy = errors.New("team is locked by a concurrent submission")

// ErrStaleIndex is returned by a store when the team row changed between the
// service's read and its commit. The per-team lock makes this unreachable in
// normal operation; it guards against out-of-band writers.
var ErrStaleIndex = errors.New("team index changed during advancement")
