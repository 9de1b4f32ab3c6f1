// Package rotation drives the card pool through a turn: drawing at turn
// start, discarding at turn end, and resolving played cards.
package rotation

import (
	"github.com/cbodonnell/rewind/pkg/board"
	"github.com/cbodonnell/rewind/pkg/game/cards"
	"github.com/cbodonnell/rewind/pkg/game/types"
	"github.com/cbodonnell/rewind/pkg/log"
	"github.com/cbodonnell/rewind/pkg/notify"
)

// DefaultDrawCount is used when no draw count is configured.
const DefaultDrawCount = 5

// Catalog resolves the static configuration of a card type.
type Catalog = cards.Catalog

type Coordinator struct {
	store     *cards.Store
	placement board.Placement
	catalog   Catalog
	notifier  *notify.Notifier
	drawCount int
	logger    *log.Logger
}

type NewCoordinatorOptions struct {
	Store *cards.Store
	// Placement manifests placeable cards. Required for the placement flow.
	Placement board.Placement
	// Catalog provides consumable and placeable flags. Optional.
	Catalog  Catalog
	Notifier *notify.Notifier
	// DrawCount is the number of cards drawn at each turn start.
	DrawCount int
	Logger    *log.Logger
}

func NewCoordinator(opts NewCoordinatorOptions) *Coordinator {
	c := &Coordinator{
		store:     opts.Store,
		placement: opts.Placement,
		catalog:   opts.Catalog,
		notifier:  opts.Notifier,
		drawCount: opts.DrawCount,
		logger:    opts.Logger,
	}
	if c.drawCount <= 0 {
		c.drawCount = DefaultDrawCount
	}
	if c.logger == nil {
		c.logger = log.WithComponent("rotation")
	}
	return c
}

// OnTurnStart draws the configured number of cards.
func (c *Coordinator) OnTurnStart(turn int) {
	drawn := c.Draw(c.drawCount)
	if len(drawn) < c.drawCount {
		c.logger.Debug("Turn %d: drew %d of %d cards", turn, len(drawn), c.drawCount)
	}
}

// OnTurnEnd discards the hand.
func (c *Coordinator) OnTurnEnd(turn int) {
	c.store.DiscardHand()
}

// Draw draws up to n cards one at a time. An empty deck is refilled from
// the discard pile; when both are empty drawing stops early.
func (c *Coordinator) Draw(n int) []*cards.Card {
	var drawn []*cards.Card
	for i := 0; i < n; i++ {
		if c.store.Count(cards.ZoneDeck) == 0 {
			c.store.ShuffleDiscardIntoDeck()
			if c.store.Count(cards.ZoneDeck) == 0 {
				break
			}
		}
		drawn = append(drawn, c.store.DrawCards(1)...)
	}
	return drawn
}

func (c *Coordinator) inHand(card *cards.Card) bool {
	zone, ok := c.store.GetZone(card)
	return ok && zone == cards.ZoneHand
}

func (c *Coordinator) consumable(card *cards.Card) bool {
	if card.Consumable {
		return true
	}
	if c.catalog == nil {
		return false
	}
	cfg, ok := c.catalog.Card(card.Type)
	return ok && cfg.Consumable
}

func (c *Coordinator) placeable(card *cards.Card) bool {
	if c.catalog == nil {
		return true
	}
	cfg, ok := c.catalog.Card(card.Type)
	return ok && cfg.Placeable
}

// PlayCard resolves a card played from the hand. It returns true if the
// card left the hand. Cards outside of the hand are rejected, and cards
// held by a pending placement stay where they are.
func (c *Coordinator) PlayCard(card *cards.Card) bool {
	if !c.inHand(card) {
		c.logger.Debug("Ignoring play of a card that is not in hand")
		return false
	}
	if c.store.IsTemporary(card) {
		c.logger.Debug("Card %s is held by a pending placement", card.ID)
		return false
	}

	if c.consumable(card) {
		if !c.store.MoveToZone(card, cards.ZoneConsumed) {
			return false
		}
		c.notifier.Publish(notify.Event{Type: notify.EventCardConsumed, ID: card.ID.String(), Subject: string(card.Type)})
		return true
	}

	if !c.store.MoveToZone(card, cards.ZoneDiscard) {
		return false
	}
	c.notifier.Publish(notify.Event{Type: notify.EventCardDiscarded, ID: card.ID.String(), Subject: string(card.Type)})
	return true
}

// BeginPlacement holds a placeable hand card as Temporary until the
// placement is completed or cancelled.
func (c *Coordinator) BeginPlacement(card *cards.Card) bool {
	if !c.inHand(card) || c.store.IsTemporary(card) {
		return false
	}
	if !c.placeable(card) {
		c.logger.Warn("Card type %s cannot be placed", card.Type)
		return false
	}
	return c.store.MoveToZone(card, cards.ZoneTemporary)
}

// CancelPlacement releases a held card. It stays in the hand.
func (c *Coordinator) CancelPlacement(card *cards.Card) bool {
	return c.store.ReleaseTemporary(card)
}

// CompletePlacement manifests a held card at pos and plays it. If the
// cell cannot take the card it stays held in the hand.
func (c *Coordinator) CompletePlacement(card *cards.Card, pos types.Position) bool {
	if !c.inHand(card) || !c.store.IsTemporary(card) {
		c.logger.Debug("No pending placement for card")
		return false
	}
	if c.placement == nil {
		c.logger.Error("No placement configured")
		return false
	}
	if !c.placement.Place(types.ObjectKindCard, string(card.Type), pos) {
		c.logger.Debug("Cannot place %s at %d,%d", card.Type, pos.X, pos.Y)
		return false
	}
	c.store.ReleaseTemporary(card)
	return c.PlayCard(card)
}
