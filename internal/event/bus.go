package event

import (
	"log/slog"
	"sync"
)

// Notification kinds, matching the channel names spectator clients listen on.
const (
	KindScoreboardUpdate = "scoreboard:update"
	KindScoreboardReset  = "scoreboard:reset"
	KindTaskUpdate       = "admin:tasks:update"
)

// Scope identifies how much state a notification invalidates.
type Scope string

const (
	ScopeTeam Scope = "team"
	ScopeAll  Scope = "all"
)

// Event is one change notification, published strictly after the underlying
// mutation commits. Advancement and reset carry only identifiers (observers
// pull the fresh snapshot); task edits carry the full updated task.
type Event struct {
	Kind    string `json:"kind"`
	Scope   Scope  `json:"scope"`
	TeamID  string `json:"teamId,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Bus fans events out to subscribers. Delivery is best-effort at-most-once:
// a subscriber whose buffer is full misses the event and must pull the
// current snapshot on its own. There is no backlog or replay.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new observer with the given buffer size and returns
// its channel plus a cancel function. Cancel closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}

	b.mu.Lock()
	id := b.next
	b.next++
	ch := make(chan Event, buffer)
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish delivers e to every subscriber without blocking. Publishers for
// the same team call Publish in commit order, and the per-subscriber channel
// preserves that order.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			slog.Debug("dropping event for slow subscriber", "subscriber", id, "kind", e.Kind)
		}
	}
}
