package spawn

import (
	"github.com/cbodonnell/rewind/pkg/game/equipment"
	"github.com/cbodonnell/rewind/pkg/game/types"
)

// round is the state of one selector invocation.
type round struct {
	store *equipment.Store
	order []types.EquipmentType
	// available is Unrefreshed at round start plus copies returned by a
	// reshuffle during the round
	available map[types.EquipmentType]int
	claims    map[types.EquipmentType]int
	spent     map[types.EquipmentType]bool
}

func newRound(store *equipment.Store) *round {
	r := &round{
		store:     store,
		order:     store.Types(),
		available: make(map[types.EquipmentType]int),
		claims:    make(map[types.EquipmentType]int),
		spent:     make(map[types.EquipmentType]bool),
	}
	for _, t := range r.order {
		r.available[t] = store.Count(t, equipment.RegionUnrefreshed)
		if instance, ok := store.Instance(t); ok && instance.Consumable {
			r.spent[t] = store.Count(t, equipment.RegionDestroyed) >= store.Total(t)
		}
	}
	return r
}

// remaining returns how many more copies of t can be drawn this round.
func (r *round) remaining(t types.EquipmentType) int {
	if r.spent[t] {
		return 0
	}
	return max(0, r.available[t]-r.claims[t])
}

// pick selects one eligible copy uniformly. Types are weighted by their
// remaining copies and walked in insertion order.
func (r *round) pick(random Random) (types.EquipmentType, bool) {
	total := 0
	for _, t := range r.order {
		total += r.remaining(t)
	}
	if total == 0 {
		return "", false
	}

	n := random.IntN(total)
	for _, t := range r.order {
		if n < r.remaining(t) {
			return t, true
		}
		n -= r.remaining(t)
	}
	return "", false
}

func (r *round) claim(t types.EquipmentType) {
	r.claims[t]++
}

// reshuffle returns every Refreshed copy that is neither in play nor
// claimed this round to Unrefreshed. It returns how many were moved.
func (r *round) reshuffle() int {
	moved := 0
	for _, t := range r.order {
		if r.spent[t] {
			continue
		}
		c := r.store.Counters(t)
		returnable := c.Refreshed - c.InPlay - r.claims[t]
		if returnable <= 0 {
			continue
		}
		returned := r.store.Return(t, returnable)
		r.available[t] += returned
		moved += returned
	}
	return moved
}
