package checkpoint

import (
	"github.com/cbodonnell/rewind/pkg/game/cards"
	"github.com/cbodonnell/rewind/pkg/game/types"
)

// EquipmentRecord is the captured state of one owned equipment type.
type EquipmentRecord struct {
	Type       types.EquipmentType `json:"type"`
	Consumable bool                `json:"consumable"`
	SingleUse  bool                `json:"singleUse"`
	Total      int                 `json:"total"`
	Refreshed  int                 `json:"refreshed"`
	Destroyed  int                 `json:"destroyed"`
}

// Snapshot is everything needed to rebuild the start of a turn.
type Snapshot struct {
	Turn        int             `json:"turn"`
	RandomState []byte          `json:"randomState"`
	Cards       cards.ZoneLists `json:"cards"`
	// Equipment is recorded in type insertion order
	Equipment []EquipmentRecord    `json:"equipment"`
	Player    types.PlayerStats    `json:"player"`
	Cost      types.ResourceCost   `json:"cost"`
	Objects   []types.PlacedObject `json:"objects"`
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.RandomState = append([]byte(nil), s.RandomState...)
	c.Cards = s.Cards.Clone()
	c.Equipment = append([]EquipmentRecord(nil), s.Equipment...)
	c.Objects = append([]types.PlacedObject(nil), s.Objects...)
	return &c
}
