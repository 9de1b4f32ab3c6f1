package cards

import (
	"github.com/cbodonnell/rewind/pkg/game/types"
	"github.com/google/uuid"
)

// Zone is a card container. Deck, Discard, Hand and Consumed are
// physical and mutually exclusive. Temporary is a reference overlay: a
// card referenced by Temporary stays in its physical zone.
type Zone uint8

const (
	ZoneDeck Zone = iota
	ZoneDiscard
	ZoneHand
	ZoneConsumed
	ZoneTemporary
)

// PhysicalZones lists the owning zones in search order.
var PhysicalZones = []Zone{ZoneDeck, ZoneDiscard, ZoneHand, ZoneConsumed}

func (z Zone) String() string {
	switch z {
	case ZoneDeck:
		return "deck"
	case ZoneDiscard:
		return "discard"
	case ZoneHand:
		return "hand"
	case ZoneConsumed:
		return "consumed"
	case ZoneTemporary:
		return "temporary"
	default:
		return "unknown"
	}
}

// Physical returns false for the Temporary overlay.
func (z Zone) Physical() bool {
	return z <= ZoneConsumed
}

// Card is a single owned card instance.
type Card struct {
	ID         uuid.UUID
	Type       types.CardType
	Consumable bool

	zone      Zone
	temporary bool
	owned     bool
}

// ZoneLists records the card types of every zone in order.
// Cards are identified by type, not by instance.
type ZoneLists struct {
	Deck      []types.CardType `json:"deck"`
	Discard   []types.CardType `json:"discard"`
	Hand      []types.CardType `json:"hand"`
	Consumed  []types.CardType `json:"consumed"`
	Temporary []types.CardType `json:"temporary"`
}

// Get returns the list recorded for a zone.
func (l ZoneLists) Get(zone Zone) []types.CardType {
	switch zone {
	case ZoneDeck:
		return l.Deck
	case ZoneDiscard:
		return l.Discard
	case ZoneHand:
		return l.Hand
	case ZoneConsumed:
		return l.Consumed
	case ZoneTemporary:
		return l.Temporary
	default:
		return nil
	}
}

// Clone returns a copy that shares no backing arrays with l.
func (l ZoneLists) Clone() ZoneLists {
	clone := func(in []types.CardType) []types.CardType {
		if in == nil {
			return nil
		}
		return append(make([]types.CardType, 0, len(in)), in...)
	}
	return ZoneLists{
		Deck:      clone(l.Deck),
		Discard:   clone(l.Discard),
		Hand:      clone(l.Hand),
		Consumed:  clone(l.Consumed),
		Temporary: clone(l.Temporary),
	}
}
