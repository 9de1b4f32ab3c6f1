// Package equipment owns the player's equipment pool.
//
// Instances never move between containers. Each type instead keeps
// three counters, Unrefreshed, Refreshed and Destroyed, that always add
// up to the number of owned instances, plus an InPlay counter for the
// Refreshed copies currently placed on the grid (InPlay <= Refreshed).
// Every mutator clamps instead of failing so both invariants always hold.
package equipment

import (
	"fmt"

	"github.com/cbodonnell/rewind/pkg/game/types"
	"github.com/cbodonnell/rewind/pkg/log"
	"github.com/google/uuid"
)

type Region uint8

const (
	RegionUnrefreshed Region = iota
	RegionRefreshed
	RegionDestroyed
	RegionInPlay
)

func (r Region) String() string {
	switch r {
	case RegionUnrefreshed:
		return "unrefreshed"
	case RegionRefreshed:
		return "refreshed"
	case RegionDestroyed:
		return "destroyed"
	case RegionInPlay:
		return "inPlay"
	default:
		return "unknown"
	}
}

type Equipment struct {
	ID         uuid.UUID
	Type       types.EquipmentType
	Consumable bool
	SingleUse  bool
}

// Counters partitions the owned copies of one type.
type Counters struct {
	Unrefreshed int
	Refreshed   int
	Destroyed   int
	InPlay      int
}

// Sum returns the number of copies tracked by the three regions.
func (c Counters) Sum() int {
	return c.Unrefreshed + c.Refreshed + c.Destroyed
}

type Store struct {
	owned    []*Equipment
	counters map[types.EquipmentType]*Counters
	// order keeps type iteration deterministic
	order  []types.EquipmentType
	logger *log.Logger
}

type NewStoreOptions struct {
	// Logger defaults to the "equipment" component of the default logger.
	Logger *log.Logger
}

func NewStore(opts NewStoreOptions) *Store {
	s := &Store{
		counters: make(map[types.EquipmentType]*Counters),
		logger:   opts.Logger,
	}
	if s.logger == nil {
		s.logger = log.WithComponent("equipment")
	}
	return s
}

func (s *Store) get(t types.EquipmentType) (*Counters, bool) {
	c, ok := s.counters[t]
	if !ok {
		s.logger.Warn("Unknown equipment type %s", t)
	}
	return c, ok
}

// AddEquipment adds a new owned instance as Unrefreshed.
func (s *Store) AddEquipment(t types.EquipmentType, consumable bool, singleUse bool) *Equipment {
	e := &Equipment{
		ID:         uuid.New(),
		Type:       t,
		Consumable: consumable,
		SingleUse:  singleUse,
	}
	s.owned = append(s.owned, e)

	c, ok := s.counters[t]
	if !ok {
		c = &Counters{}
		s.counters[t] = c
		s.order = append(s.order, t)
	}
	c.Unrefreshed++

	return e
}

// RemoveEquipment removes one owned instance of the type. The copy is
// taken from Unrefreshed first, then from Refreshed copies that are not
// in play, then from Destroyed, and only then from a deployed copy.
func (s *Store) RemoveEquipment(t types.EquipmentType) bool {
	c, ok := s.get(t)
	if !ok {
		return false
	}

	switch {
	case c.Unrefreshed > 0:
		c.Unrefreshed--
	case c.Refreshed > c.InPlay:
		c.Refreshed--
	case c.Destroyed > 0:
		c.Destroyed--
	case c.Refreshed > 0:
		c.Refreshed--
		c.InPlay = min(c.InPlay, c.Refreshed)
	default:
		s.logger.Warn("No copies of %s left to remove", t)
		return false
	}

	for i := len(s.owned) - 1; i >= 0; i-- {
		if s.owned[i].Type == t {
			s.owned = append(s.owned[:i:i], s.owned[i+1:]...)
			break
		}
	}

	if c.Sum() == 0 {
		delete(s.counters, t)
		for i, ot := range s.order {
			if ot == t {
				s.order = append(s.order[:i:i], s.order[i+1:]...)
				break
			}
		}
	}

	return true
}

// MarkAsRefreshed moves one copy from Unrefreshed to Refreshed.
func (s *Store) MarkAsRefreshed(t types.EquipmentType) bool {
	c, ok := s.get(t)
	if !ok {
		return false
	}
	if c.Unrefreshed <= 0 {
		s.logger.Debug("No unrefreshed %s to refresh", t)
		return false
	}
	c.Unrefreshed--
	c.Refreshed++
	return true
}

// MarkAsUnrefreshed returns one Refreshed copy that is not in play.
func (s *Store) MarkAsUnrefreshed(t types.EquipmentType) bool {
	c, ok := s.get(t)
	if !ok {
		return false
	}
	if c.Refreshed-c.InPlay <= 0 {
		s.logger.Debug("No undeployed refreshed %s to return", t)
		return false
	}
	c.Refreshed--
	c.Unrefreshed++
	return true
}

// MarkAsDestroyed destroys one copy, preferring a Refreshed copy since
// the deployed copy is the one that gets spent.
func (s *Store) MarkAsDestroyed(t types.EquipmentType) bool {
	c, ok := s.get(t)
	if !ok {
		return false
	}
	switch {
	case c.Refreshed > 0:
		c.Refreshed--
		c.InPlay = min(c.InPlay, c.Refreshed)
	case c.Unrefreshed > 0:
		c.Unrefreshed--
	default:
		s.logger.Debug("No copies of %s left to destroy", t)
		return false
	}
	c.Destroyed++
	return true
}

// MarkAsDeployed records a Refreshed copy placed on the grid.
func (s *Store) MarkAsDeployed(t types.EquipmentType) bool {
	c, ok := s.get(t)
	if !ok {
		return false
	}
	if c.InPlay >= c.Refreshed {
		s.logger.Debug("No refreshed %s available to deploy", t)
		return false
	}
	c.InPlay++
	return true
}

// MarkAsUndeployed records a copy leaving the grid.
func (s *Store) MarkAsUndeployed(t types.EquipmentType) bool {
	c, ok := s.get(t)
	if !ok {
		return false
	}
	if c.InPlay <= 0 {
		s.logger.Debug("No deployed %s to undeploy", t)
		return false
	}
	c.InPlay--
	return true
}

// ResetRefreshed moves every Refreshed copy that is not in play back
// to Unrefreshed.
func (s *Store) ResetRefreshed() {
	for _, t := range s.order {
		c := s.counters[t]
		movable := max(0, c.Refreshed-c.InPlay)
		c.Refreshed -= movable
		c.Unrefreshed += movable
	}
}

// ResetDestroyed moves every Destroyed copy back to Unrefreshed.
func (s *Store) ResetDestroyed() {
	for _, t := range s.order {
		c := s.counters[t]
		c.Unrefreshed += c.Destroyed
		c.Destroyed = 0
	}
}

// Return moves up to n undeployed Refreshed copies back to Unrefreshed
// and returns how many were moved.
func (s *Store) Return(t types.EquipmentType, n int) int {
	c, ok := s.counters[t]
	if !ok || n <= 0 {
		return 0
	}
	movable := min(n, max(0, c.Refreshed-c.InPlay))
	c.Refreshed -= movable
	c.Unrefreshed += movable
	return movable
}

// Count returns the counter of a region for the type.
func (s *Store) Count(t types.EquipmentType, region Region) int {
	c, ok := s.counters[t]
	if !ok {
		return 0
	}
	switch region {
	case RegionUnrefreshed:
		return c.Unrefreshed
	case RegionRefreshed:
		return c.Refreshed
	case RegionDestroyed:
		return c.Destroyed
	case RegionInPlay:
		return c.InPlay
	default:
		return 0
	}
}

// Counters returns a copy of the counters of the type.
func (s *Store) Counters(t types.EquipmentType) Counters {
	c, ok := s.counters[t]
	if !ok {
		return Counters{}
	}
	return *c
}

// Total returns the number of owned instances of the type.
func (s *Store) Total(t types.EquipmentType) int {
	total := 0
	for _, e := range s.owned {
		if e.Type == t {
			total++
		}
	}
	return total
}

// Types returns the owned types in the order they were first added.
func (s *Store) Types() []types.EquipmentType {
	return append([]types.EquipmentType(nil), s.order...)
}

// Instances returns the owned instances of the type in acquisition order.
func (s *Store) Instances(t types.EquipmentType) []*Equipment {
	var out []*Equipment
	for _, e := range s.owned {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Instance returns one owned instance of the type, used to resolve the
// consumable and single-use flags.
func (s *Store) Instance(t types.EquipmentType) (*Equipment, bool) {
	for _, e := range s.owned {
		if e.Type == t {
			return e, true
		}
	}
	return nil, false
}

// ClearEquipment drops every owned instance and counter.
func (s *Store) ClearEquipment() {
	s.owned = nil
	s.counters = make(map[types.EquipmentType]*Counters)
	s.order = nil
}

// CheckInvariants verifies that the regions of every type add up to
// its owned count and that no more copies are in play than refreshed.
func (s *Store) CheckInvariants() error {
	for _, t := range s.order {
		c := s.counters[t]
		if total := s.Total(t); c.Sum() != total {
			return fmt.Errorf("%s: regions sum to %d but %d are owned", t, c.Sum(), total)
		}
		if c.InPlay > c.Refreshed {
			return fmt.Errorf("%s: %d in play but only %d refreshed", t, c.InPlay, c.Refreshed)
		}
		if c.Unrefreshed < 0 || c.Refreshed < 0 || c.Destroyed < 0 || c.InPlay < 0 {
			return fmt.Errorf("%s: negative counter %+v", t, *c)
		}
	}
	return nil
}
