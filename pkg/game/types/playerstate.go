package types

import "fmt"

type Facing uint8

const (
	FacingNorth Facing = iota
	FacingEast
	FacingSouth
	FacingWest
)

func (f Facing) String() string {
	switch f {
	case FacingNorth:
		return "north"
	case FacingEast:
		return "east"
	case FacingSouth:
		return "south"
	case FacingWest:
		return "west"
	default:
		return "unknown"
	}
}

func ParseFacing(name string) (Facing, error) {
	for _, f := range []Facing{FacingNorth, FacingEast, FacingSouth, FacingWest} {
		if f.String() == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown facing: %s", name)
}

// PlayerStats is the part of the player state captured by checkpoints.
type PlayerStats struct {
	MaxHitpoints int      `json:"maxHitpoints"`
	Hitpoints    int      `json:"hitpoints"`
	Armor        int      `json:"armor"`
	Attack       int      `json:"attack"`
	Position     Position `json:"position"`
	Facing       Facing   `json:"facing"`
}

// ResourceCost is the per-turn budget spent to play cards.
type ResourceCost struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}
