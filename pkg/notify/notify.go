// Package notify delivers game notifications to registered handlers.
//
// Events published during a mutation are queued and only delivered when
// the owner calls Flush, after the mutation has completed. Handlers may
// publish or mutate again; their events are appended to the same flush.
package notify

import "github.com/cbodonnell/rewind/pkg/game/types"

type EventType string

const (
	EventCardAdded          EventType = "card-added"
	EventCardRemoved        EventType = "card-removed"
	EventCardMoved          EventType = "card-moved"
	EventCardsShuffled      EventType = "cards-shuffled"
	EventCardsCleared       EventType = "cards-cleared"
	EventCardConsumed       EventType = "card-consumed"
	EventCardDiscarded      EventType = "card-discarded"
	EventEquipmentSpawned   EventType = "equipment-spawned"
	EventEquipmentCollected EventType = "equipment-collected"
	EventCheckpointCaptured EventType = "checkpoint-captured"
	EventCheckpointRestored EventType = "checkpoint-restored"
	EventTurnStarted        EventType = "turn-started"
	EventTurnEnded          EventType = "turn-ended"
	EventLevelEnded         EventType = "level-ended"
)

type Event struct {
	Type EventType `json:"type"`
	// ID is the instance the event is about, if any
	ID string `json:"id,omitempty"`
	// Subject is the type identity the event is about, if any
	Subject  string          `json:"subject,omitempty"`
	From     string          `json:"from,omitempty"`
	To       string          `json:"to,omitempty"`
	Turn     int             `json:"turn,omitempty"`
	Position *types.Position `json:"position,omitempty"`
}

type Handler func(event Event)

// Notifier is not safe for concurrent use. It belongs to the game loop.
type Notifier struct {
	handlers []Handler
	pending  []Event
	flushing bool
}

func New() *Notifier {
	return &Notifier{}
}

// RegisterHandler registers a handler for all events.
// Handlers are called in registration order.
func (n *Notifier) RegisterHandler(handler Handler) {
	n.handlers = append(n.handlers, handler)
}

// Publish queues an event for the next Flush. Publishing on a nil
// notifier is a no-op.
func (n *Notifier) Publish(event Event) {
	if n == nil {
		return
	}
	n.pending = append(n.pending, event)
}

// Flush delivers pending events until none remain. A Flush called from
// inside a handler returns immediately; the outer Flush picks up the
// events it would have delivered.
func (n *Notifier) Flush() {
	if n == nil || n.flushing {
		return
	}
	n.flushing = true
	defer func() { n.flushing = false }()

	for len(n.pending) > 0 {
		event := n.pending[0]
		n.pending = n.pending[1:]
		for _, handler := range n.handlers {
			handler(event)
		}
	}
	n.pending = nil
}

// Pending returns the number of queued events.
func (n *Notifier) Pending() int {
	if n == nil {
		return 0
	}
	return len(n.pending)
}

// Discard drops queued events without delivering them.
func (n *Notifier) Discard() {
	if n == nil {
		return
	}
	n.pending = nil
}
