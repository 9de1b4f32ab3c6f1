// Package cards owns the player's card pool.
//
// Every card lives in exactly one physical zone (Deck, Discard, Hand or
// Consumed). Temporary is a flag on the card, so referencing a card as
// Temporary never changes where it physically is. Mutators never fail:
// invalid references are logged and ignored.
package cards

import (
	"fmt"

	"github.com/cbodonnell/rewind/pkg/catalog"
	"github.com/cbodonnell/rewind/pkg/game/types"
	"github.com/cbodonnell/rewind/pkg/log"
	"github.com/cbodonnell/rewind/pkg/notify"
	"github.com/cbodonnell/rewind/pkg/rng"
	"github.com/google/uuid"
)

// Shuffler is the random source used for deck shuffles.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Catalog resolves the static configuration of a card type.
type Catalog interface {
	Card(t types.CardType) (catalog.CardConfig, bool)
}

type Store struct {
	// zones is indexed by the physical zones, which precede ZoneTemporary
	zones     [ZoneTemporary][]*Card
	temporary []*Card

	baseline    map[types.CardType]int
	quota       map[types.CardType]int
	hasBaseline bool

	random   Shuffler
	catalog  Catalog
	notifier *notify.Notifier
	logger   *log.Logger
	suppress bool
}

type NewStoreOptions struct {
	// Random shuffles the deck. Defaults to a source seeded with 0.
	Random Shuffler
	// Catalog provides the consumable flag of new cards. Optional.
	Catalog Catalog
	// Notifier receives card notifications. Optional.
	Notifier *notify.Notifier
	// Logger defaults to the "cards" component of the default logger.
	Logger *log.Logger
}

func NewStore(opts NewStoreOptions) *Store {
	s := &Store{
		baseline: make(map[types.CardType]int),
		quota:    make(map[types.CardType]int),
		random:   opts.Random,
		catalog:  opts.Catalog,
		notifier: opts.Notifier,
		logger:   opts.Logger,
	}
	if s.random == nil {
		s.random = rng.New(0)
	}
	if s.logger == nil {
		s.logger = log.WithComponent("cards")
	}
	return s
}

func (s *Store) publish(event notify.Event) {
	if s.suppress {
		return
	}
	s.notifier.Publish(event)
}

// AddCard creates a new instance of the given type at the back of the deck.
func (s *Store) AddCard(t types.CardType) *Card {
	consumable := false
	if s.catalog != nil {
		cfg, ok := s.catalog.Card(t)
		if !ok {
			s.logger.Warn("Adding card of unregistered type %s", t)
		}
		consumable = cfg.Consumable
	}

	card := &Card{
		ID:         uuid.New(),
		Type:       t,
		Consumable: consumable,
		zone:       ZoneDeck,
		owned:      true,
	}
	s.zones[ZoneDeck] = append(s.zones[ZoneDeck], card)
	s.publish(notify.Event{Type: notify.EventCardAdded, ID: card.ID.String(), Subject: string(t), To: ZoneDeck.String()})

	return card
}

// RemoveCard removes the first card of the given type, searching Deck,
// Discard, Hand and Consumed in that order. Temporary references always
// point at a physically owned card, so they are covered by that search.
func (s *Store) RemoveCard(t types.CardType) bool {
	for _, zone := range PhysicalZones {
		for _, card := range s.zones[zone] {
			if card.Type == t {
				s.removeCard(card)
				return true
			}
		}
	}
	s.logger.Warn("No card of type %s to remove", t)
	return false
}

func (s *Store) removeCard(card *Card) {
	s.detach(card)
	s.dropTemporary(card)
	card.owned = false
	s.publish(notify.Event{Type: notify.EventCardRemoved, ID: card.ID.String(), Subject: string(card.Type), From: card.zone.String()})
}

// detach removes the card from its physical zone slice.
func (s *Store) detach(card *Card) {
	zone := s.zones[card.zone]
	for i, c := range zone {
		if c == card {
			s.zones[card.zone] = append(zone[:i:i], zone[i+1:]...)
			return
		}
	}
}

func (s *Store) dropTemporary(card *Card) {
	if !card.temporary {
		return
	}
	for i, c := range s.temporary {
		if c == card {
			s.temporary = append(s.temporary[:i:i], s.temporary[i+1:]...)
			break
		}
	}
	card.temporary = false
}

func (s *Store) owns(card *Card) bool {
	if card == nil || !card.owned {
		return false
	}
	for _, c := range s.zones[card.zone] {
		if c == card {
			return true
		}
	}
	return false
}

// MoveToZone moves a card to the target zone. Moving into Temporary
// only adds a reference. Moving into a physical zone removes the card
// from its current zone, appends it to the target and clears any
// Temporary reference. Moving a card into the zone it already occupies
// is a no-op.
func (s *Store) MoveToZone(card *Card, target Zone) bool {
	if !s.owns(card) {
		s.logger.Warn("Cannot move card not owned by the store")
		return false
	}

	if target == ZoneTemporary {
		if card.temporary {
			return false
		}
		card.temporary = true
		s.temporary = append(s.temporary, card)
		s.publish(notify.Event{Type: notify.EventCardMoved, ID: card.ID.String(), Subject: string(card.Type), From: card.zone.String(), To: ZoneTemporary.String()})
		return true
	}

	if !target.Physical() {
		s.logger.Warn("Cannot move card to unknown zone %d", target)
		return false
	}
	if card.zone == target {
		return false
	}

	from := card.zone
	s.detach(card)
	s.dropTemporary(card)
	card.zone = target
	s.zones[target] = append(s.zones[target], card)
	s.publish(notify.Event{Type: notify.EventCardMoved, ID: card.ID.String(), Subject: string(card.Type), From: from.String(), To: target.String()})

	return true
}

// ReleaseTemporary drops the Temporary reference of a card. The card
// stays in its physical zone.
func (s *Store) ReleaseTemporary(card *Card) bool {
	if !s.owns(card) || !card.temporary {
		return false
	}
	s.dropTemporary(card)
	s.publish(notify.Event{Type: notify.EventCardMoved, ID: card.ID.String(), Subject: string(card.Type), From: ZoneTemporary.String(), To: card.zone.String()})
	return true
}

// GetZone returns the physical zone of a card.
func (s *Store) GetZone(card *Card) (Zone, bool) {
	if !s.owns(card) {
		return 0, false
	}
	return card.zone, true
}

// IsTemporary returns true if the card is referenced by Temporary.
func (s *Store) IsTemporary(card *Card) bool {
	return s.owns(card) && card.temporary
}

// Cards returns a copy of the cards in a zone, in order.
func (s *Store) Cards(zone Zone) []*Card {
	if zone == ZoneTemporary {
		return append([]*Card(nil), s.temporary...)
	}
	if !zone.Physical() {
		return nil
	}
	return append([]*Card(nil), s.zones[zone]...)
}

// Count returns the number of cards in a zone.
func (s *Store) Count(zone Zone) int {
	if zone == ZoneTemporary {
		return len(s.temporary)
	}
	if !zone.Physical() {
		return 0
	}
	return len(s.zones[zone])
}

// FindByID looks up an owned card by instance ID.
func (s *Store) FindByID(id uuid.UUID) (*Card, bool) {
	for _, zone := range PhysicalZones {
		for _, card := range s.zones[zone] {
			if card.ID == id {
				return card, true
			}
		}
	}
	return nil, false
}

// HasOfType returns true if any physical zone holds a card of the type.
func (s *Store) HasOfType(t types.CardType) bool {
	return s.CountOfType(t) > 0
}

// CountOfType counts cards of the type across the physical zones.
func (s *Store) CountOfType(t types.CardType) int {
	count := 0
	for _, zone := range PhysicalZones {
		for _, card := range s.zones[zone] {
			if card.Type == t {
				count++
			}
		}
	}
	return count
}

// ShuffleDeck performs a uniform in-place permutation of the deck.
func (s *Store) ShuffleDeck() {
	deck := s.zones[ZoneDeck]
	s.random.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	s.publish(notify.Event{Type: notify.EventCardsShuffled, To: ZoneDeck.String()})
}

// ShuffleDiscardIntoDeck appends the discard pile to the deck, clears
// the discard pile and shuffles the deck.
func (s *Store) ShuffleDiscardIntoDeck() {
	for _, card := range s.zones[ZoneDiscard] {
		card.zone = ZoneDeck
	}
	s.zones[ZoneDeck] = append(s.zones[ZoneDeck], s.zones[ZoneDiscard]...)
	s.zones[ZoneDiscard] = nil
	s.ShuffleDeck()
}

// DrawCards moves up to n cards from the front of the deck into the
// hand and returns them. It stops early when the deck runs out.
func (s *Store) DrawCards(n int) []*Card {
	var drawn []*Card
	for i := 0; i < n && len(s.zones[ZoneDeck]) > 0; i++ {
		card := s.zones[ZoneDeck][0]
		s.MoveToZone(card, ZoneHand)
		drawn = append(drawn, card)
	}
	return drawn
}

// DiscardHand moves every card in the hand to the discard pile.
func (s *Store) DiscardHand() {
	for _, card := range s.Cards(ZoneHand) {
		s.MoveToZone(card, ZoneDiscard)
	}
}

// ClearCards empties every zone. It is not transactional: notifications
// already queued stay queued.
func (s *Store) ClearCards() {
	for _, zone := range PhysicalZones {
		for _, card := range s.zones[zone] {
			card.owned = false
			card.temporary = false
		}
		s.zones[zone] = nil
	}
	s.temporary = nil
	s.publish(notify.Event{Type: notify.EventCardsCleared})
}

// typesInOrder returns every owned card type in first-seen order.
func (s *Store) typesInOrder() []types.CardType {
	seen := make(map[types.CardType]bool)
	var order []types.CardType
	for _, zone := range PhysicalZones {
		for _, card := range s.zones[zone] {
			if !seen[card.Type] {
				seen[card.Type] = true
				order = append(order, card.Type)
			}
		}
	}
	return order
}

// CaptureLevelBaseline records the per-type card counts of the physical
// zones and resets the extra persistence quotas.
func (s *Store) CaptureLevelBaseline() {
	s.baseline = make(map[types.CardType]int)
	s.quota = make(map[types.CardType]int)
	for _, zone := range PhysicalZones {
		for _, card := range s.zones[zone] {
			s.baseline[card.Type]++
		}
	}
	s.hasBaseline = true
}

// AllowExtraPersist lets n more copies of a type survive the next cleanup.
func (s *Store) AllowExtraPersist(t types.CardType, n int) {
	if n <= 0 {
		s.logger.Debug("Ignoring non-positive extra persist %d for %s", n, t)
		return
	}
	s.quota[t] += n
}

// Baseline returns the recorded baseline and extra quota of a type.
func (s *Store) Baseline(t types.CardType) (baseline int, quota int) {
	return s.baseline[t], s.quota[t]
}

// CleanupToBaseline dissolves every Temporary reference and trims each
// type back to its baseline plus its extra quota. The quotas are spent
// by the cleanup.
func (s *Store) CleanupToBaseline() {
	if !s.hasBaseline {
		s.logger.Warn("Cleanup requested without a level baseline")
		return
	}

	for _, card := range s.Cards(ZoneTemporary) {
		s.ReleaseTemporary(card)
	}

	for _, t := range s.typesInOrder() {
		allowed := s.baseline[t] + s.quota[t]
		for s.CountOfType(t) > allowed {
			if !s.RemoveCard(t) {
				break
			}
		}
	}
	s.quota = make(map[types.CardType]int)
}

// Lists records the card types of every zone in order.
func (s *Store) Lists() ZoneLists {
	record := func(cards []*Card) []types.CardType {
		out := make([]types.CardType, 0, len(cards))
		for _, card := range cards {
			out = append(out, card.Type)
		}
		return out
	}
	return ZoneLists{
		Deck:      record(s.zones[ZoneDeck]),
		Discard:   record(s.zones[ZoneDiscard]),
		Hand:      record(s.zones[ZoneHand]),
		Consumed:  record(s.zones[ZoneConsumed]),
		Temporary: record(s.temporary),
	}
}

// RestoreFromSnapshot rebuilds every zone from recorded type lists.
// Fresh instances are created in the deck for every recorded card, the
// non-deck counts are moved out of the deck, and Temporary references
// are re-added preferring a card in the hand over one in the deck.
// When suppress is true no notifications are published.
func (s *Store) RestoreFromSnapshot(lists ZoneLists, suppress bool) {
	previous := s.suppress
	s.suppress = suppress
	defer func() { s.suppress = previous }()

	s.ClearCards()

	for _, zone := range PhysicalZones {
		for _, t := range lists.Get(zone) {
			s.AddCard(t)
		}
	}

	// Cards recorded outside the deck were appended after the recorded
	// deck, so the search starts past it to keep the deck order intact.
	offset := len(lists.Deck)
	for _, zone := range []Zone{ZoneDiscard, ZoneHand, ZoneConsumed} {
		for _, t := range lists.Get(zone) {
			card := s.findInDeckFrom(offset, t)
			if card == nil {
				s.logger.Warn("No %s card left in deck to restore into %s", t, zone)
				continue
			}
			s.MoveToZone(card, zone)
		}
	}

	for _, t := range lists.Temporary {
		card := s.findTemporaryCandidate(t)
		if card == nil {
			s.logger.Warn("No %s card to restore as temporary", t)
			continue
		}
		s.MoveToZone(card, ZoneTemporary)
	}
}

func (s *Store) findInDeckFrom(offset int, t types.CardType) *Card {
	deck := s.zones[ZoneDeck]
	for i := offset; i < len(deck); i++ {
		if deck[i].Type == t {
			return deck[i]
		}
	}
	return nil
}

func (s *Store) findTemporaryCandidate(t types.CardType) *Card {
	for _, zone := range []Zone{ZoneHand, ZoneDeck, ZoneDiscard, ZoneConsumed} {
		for _, card := range s.zones[zone] {
			if card.Type == t && !card.temporary {
				return card
			}
		}
	}
	return nil
}

// CheckPartition verifies that every owned card is recorded in exactly
// one physical zone and that Temporary only references owned cards.
func (s *Store) CheckPartition() error {
	seen := make(map[*Card]Zone)
	for _, zone := range PhysicalZones {
		for _, card := range s.zones[zone] {
			if prev, ok := seen[card]; ok {
				return fmt.Errorf("card %s is in both %s and %s", card.ID, prev, zone)
			}
			if card.zone != zone {
				return fmt.Errorf("card %s is stored in %s but records %s", card.ID, zone, card.zone)
			}
			seen[card] = zone
		}
	}
	for _, card := range s.temporary {
		if _, ok := seen[card]; !ok {
			return fmt.Errorf("temporary card %s is not physically owned", card.ID)
		}
		if !card.temporary {
			return fmt.Errorf("temporary card %s is missing its flag", card.ID)
		}
	}
	return nil
}
