// Package turns is the turn clock. Components register for turn-start
// and turn-end signals once at startup and are called synchronously in
// registration order.
package turns

import (
	"github.com/cbodonnell/rewind/pkg/game/types"
	"github.com/cbodonnell/rewind/pkg/log"
	"github.com/cbodonnell/rewind/pkg/notify"
)

// Handler receives the 1-based turn number.
type Handler func(turn int)

type registration struct {
	name    string
	handler Handler
}

type Clock struct {
	turn          int
	phase         types.Phase
	busy          bool
	startHandlers []registration
	endHandlers   []registration
	notifier      *notify.Notifier
	logger        *log.Logger
}

func NewClock(notifier *notify.Notifier) *Clock {
	return &Clock{
		phase:    types.PhaseSetup,
		notifier: notifier,
		logger:   log.WithComponent("turns"),
	}
}

// OnTurnStart registers a turn-start handler.
func (c *Clock) OnTurnStart(name string, handler Handler) {
	c.startHandlers = append(c.startHandlers, registration{name: name, handler: handler})
}

// OnTurnEnd registers a turn-end handler.
func (c *Clock) OnTurnEnd(name string, handler Handler) {
	c.endHandlers = append(c.endHandlers, registration{name: name, handler: handler})
}

// StartTurn advances to the next turn, enters the player phase and
// signals every turn-start handler. It returns the new turn number.
func (c *Clock) StartTurn() int {
	c.turn++
	c.phase = types.PhasePlayer
	c.dispatch(c.startHandlers)
	c.notifier.Publish(notify.Event{Type: notify.EventTurnStarted, Turn: c.turn})
	return c.turn
}

// EndTurn signals every turn-end handler and enters the enemy phase.
// It is ignored outside of the player phase.
func (c *Clock) EndTurn() bool {
	if c.phase != types.PhasePlayer {
		c.logger.Warn("Ignoring turn end during %s phase", c.phase)
		return false
	}
	c.dispatch(c.endHandlers)
	c.phase = types.PhaseEnemy
	c.notifier.Publish(notify.Event{Type: notify.EventTurnEnded, Turn: c.turn})
	return true
}

func (c *Clock) dispatch(handlers []registration) {
	c.busy = true
	defer func() { c.busy = false }()
	for _, r := range handlers {
		c.logger.Trace("Turn %d: %s", c.turn, r.name)
		r.handler(c.turn)
	}
}

// Reset returns the clock to the setup phase before the first turn.
func (c *Clock) Reset() {
	c.turn = 0
	c.phase = types.PhaseSetup
	c.busy = false
}

// Resume sets the turn number and phase without signalling handlers.
func (c *Clock) Resume(turn int, phase types.Phase) {
	c.turn = turn
	c.phase = phase
}

func (c *Clock) Turn() int {
	return c.turn
}

func (c *Clock) Phase() types.Phase {
	return c.phase
}

// SetBusy marks the game as resolving something outside of the clock.
func (c *Clock) SetBusy(busy bool) {
	c.busy = busy
}

// IsIdle returns false while handlers run or the game is marked busy.
func (c *Clock) IsIdle() bool {
	return !c.busy
}

func (c *Clock) IsPlayerPhase() bool {
	return c.phase == types.PhasePlayer
}
