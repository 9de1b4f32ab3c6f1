// Package player holds the player state the checkpoint service reads
// and rewrites.
package player

import "github.com/cbodonnell/rewind/pkg/game/types"

// State is the player-state layer.
type State interface {
	Stats() types.PlayerStats
	SetStats(stats types.PlayerStats)
	Cost() types.ResourceCost
	SetCost(cost types.ResourceCost)
}

// InMemoryState is a State owned by the game loop.
type InMemoryState struct {
	stats types.PlayerStats
	cost  types.ResourceCost
}

func NewInMemoryState(stats types.PlayerStats, cost types.ResourceCost) *InMemoryState {
	return &InMemoryState{
		stats: stats,
		cost:  cost,
	}
}

func (s *InMemoryState) Stats() types.PlayerStats {
	return s.stats
}

func (s *InMemoryState) SetStats(stats types.PlayerStats) {
	s.stats = stats
}

func (s *InMemoryState) Cost() types.ResourceCost {
	return s.cost
}

func (s *InMemoryState) SetCost(cost types.ResourceCost) {
	s.cost = cost
}

// Spend deducts amount from the current cost. It returns false and
// changes nothing if the budget is too small.
func (s *InMemoryState) Spend(amount int) bool {
	if amount < 0 || s.cost.Current < amount {
		return false
	}
	s.cost.Current -= amount
	return true
}

// Refill restores the current cost to its maximum.
func (s *InMemoryState) Refill() {
	s.cost.Current = s.cost.Max
}

// MoveTo updates the grid position and facing.
func (s *InMemoryState) MoveTo(pos types.Position, facing types.Facing) {
	s.stats.Position = pos
	s.stats.Facing = facing
}
