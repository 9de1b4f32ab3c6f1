// Package spawn draws owned equipment onto the grid.
//
// A round draws one eligible copy at a time until the number of copies
// on the grid reaches the ceiling. Claims made during the round are
// tracked per type so that the partial reshuffle run on exhaustion never
// hands a type's claimed copies back to the pool.
package spawn

import (
	"github.com/cbodonnell/rewind/pkg/board"
	"github.com/cbodonnell/rewind/pkg/game/equipment"
	"github.com/cbodonnell/rewind/pkg/game/types"
	"github.com/cbodonnell/rewind/pkg/log"
	"github.com/cbodonnell/rewind/pkg/notify"
)

// DefaultCeiling is used when no spawn ceiling is configured.
const DefaultCeiling = 3

// Random is the shared random source.
type Random interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// PlayerLocator reports where the player stands.
type PlayerLocator interface {
	Stats() types.PlayerStats
}

type Selector struct {
	store     *equipment.Store
	placement board.Placement
	random    Random
	player    PlayerLocator
	notifier  *notify.Notifier
	ceiling   int
	logger    *log.Logger
}

type NewSelectorOptions struct {
	Store     *equipment.Store
	Placement board.Placement
	Random    Random
	// Player is kept clear of fallback spawns. Optional.
	Player   PlayerLocator
	Notifier *notify.Notifier
	// Ceiling is the maximum number of equipment copies on the grid.
	Ceiling int
	Logger  *log.Logger
}

func NewSelector(opts NewSelectorOptions) *Selector {
	s := &Selector{
		store:     opts.Store,
		placement: opts.Placement,
		random:    opts.Random,
		player:    opts.Player,
		notifier:  opts.Notifier,
		ceiling:   opts.Ceiling,
		logger:    opts.Logger,
	}
	if s.ceiling <= 0 {
		s.ceiling = DefaultCeiling
	}
	if s.logger == nil {
		s.logger = log.WithComponent("spawn")
	}
	return s
}

// OnTurnStart runs a spawn round.
func (s *Selector) OnTurnStart(turn int) {
	spawned := s.SpawnRound()
	s.logger.Debug("Turn %d: spawned %d equipment", turn, len(spawned))
}

// OnPopulationEmpty runs a spawn round when the opposing population has
// been cleared.
func (s *Selector) OnPopulationEmpty() []types.PlacedObject {
	return s.SpawnRound()
}

func (s *Selector) inPlay() int {
	total := 0
	for _, t := range s.store.Types() {
		total += s.store.Count(t, equipment.RegionInPlay)
	}
	return total
}

// SpawnRound selects equipment up to the ceiling and places it. It
// returns the objects that made it onto the grid.
func (s *Selector) SpawnRound() []types.PlacedObject {
	selected := s.Select(s.ceiling - s.inPlay())

	var placed []types.PlacedObject
	for _, t := range selected {
		pos, ok := s.place(t)
		if !ok {
			s.logger.Warn("No free cell for %s, returning it to the pool", t)
			s.store.MarkAsUnrefreshed(t)
			continue
		}
		s.store.MarkAsDeployed(t)
		placed = append(placed, types.PlacedObject{Kind: types.ObjectKindEquipment, Type: string(t), Position: pos})
		s.notifier.Publish(notify.Event{Type: notify.EventEquipmentSpawned, Subject: string(t), Position: &pos})
	}
	return placed
}

// Select draws up to n copies and marks each as Refreshed. It performs
// at most one partial reshuffle per exhaustion and stops when nothing is
// eligible afterwards.
func (s *Selector) Select(n int) []types.EquipmentType {
	r := newRound(s.store)
	var selected []types.EquipmentType
	for len(selected) < n {
		t, ok := r.pick(s.random)
		if !ok {
			if r.reshuffle() == 0 {
				break
			}
			if t, ok = r.pick(s.random); !ok {
				break
			}
		}
		if !s.store.MarkAsRefreshed(t) {
			s.logger.Error("Selected %s without an unrefreshed copy", t)
			break
		}
		r.claim(t)
		selected = append(selected, t)
	}
	return selected
}

func (s *Selector) playerPosition() (types.Position, bool) {
	if s.player == nil {
		return types.Position{}, false
	}
	return s.player.Stats().Position, true
}

// candidates splits the free cells into the preferred tier, cells with
// no occupied neighbour, and the fallback tier, every other free cell
// not adjacent to the player. The player counts as an occupant and its
// own cell is never free.
func (s *Selector) candidates() (preferred []types.Position, fallback []types.Position) {
	player, hasPlayer := s.playerPosition()
	occupied := func(pos types.Position) bool {
		return (hasPlayer && pos == player) || s.placement.Occupied(pos)
	}

	for _, cell := range s.placement.Cells() {
		if occupied(cell) {
			continue
		}
		isolated := true
		for _, n := range cell.Neighbors() {
			if s.placement.InBounds(n) && occupied(n) {
				isolated = false
				break
			}
		}
		switch {
		case isolated:
			preferred = append(preferred, cell)
		case !hasPlayer || !cell.Adjacent(player):
			fallback = append(fallback, cell)
		}
	}
	return preferred, fallback
}

func (s *Selector) place(t types.EquipmentType) (types.Position, bool) {
	preferred, fallback := s.candidates()
	for _, tier := range [][]types.Position{preferred, fallback} {
		s.random.Shuffle(len(tier), func(i, j int) {
			tier[i], tier[j] = tier[j], tier[i]
		})
		for _, pos := range tier {
			if s.placement.Place(types.ObjectKindEquipment, string(t), pos) {
				return pos, true
			}
		}
	}
	return types.Position{}, false
}

// Collect picks up the equipment at pos. Single-use equipment is
// destroyed; anything else stays Refreshed until the next reshuffle.
func (s *Selector) Collect(pos types.Position) (types.EquipmentType, bool) {
	found := false
	for _, object := range s.placement.ObjectsOfKind(types.ObjectKindEquipment) {
		if object.Position == pos {
			found = true
			break
		}
	}
	if !found {
		s.logger.Warn("No equipment at %d,%d", pos.X, pos.Y)
		return "", false
	}

	object, ok := s.placement.RemoveAt(pos)
	if !ok {
		return "", false
	}
	t := types.EquipmentType(object.Type)
	s.store.MarkAsUndeployed(t)
	if instance, ok := s.store.Instance(t); ok && instance.SingleUse {
		s.store.MarkAsDestroyed(t)
	}
	s.notifier.Publish(notify.Event{Type: notify.EventEquipmentCollected, Subject: string(t), Position: &pos})
	return t, true
}
