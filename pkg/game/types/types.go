package types

// CardType identifies a kind of card. Cards of the same type are
// interchangeable for configuration and checkpoint purposes.
type CardType string

// EquipmentType identifies a kind of equipment.
type EquipmentType string

// ObjectKind tags objects manifested on the placement grid.
type ObjectKind string

const (
	ObjectKindEquipment ObjectKind = "equipment"
	ObjectKindCard      ObjectKind = "card"
	ObjectKindEnemy     ObjectKind = "enemy"
	ObjectKindObstacle  ObjectKind = "obstacle"
)

// Position is a cell coordinate on the placement grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Adjacent returns true if other is one of the eight cells around p.
func (p Position) Adjacent(other Position) bool {
	if p == other {
		return false
	}
	return abs(p.X-other.X) <= 1 && abs(p.Y-other.Y) <= 1
}

// Neighbors returns the eight cells around p in row-major order.
// Cells outside of any grid are included; callers filter by bounds.
func (p Position) Neighbors() []Position {
	neighbors := make([]Position, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			neighbors = append(neighbors, Position{X: p.X + dx, Y: p.Y + dy})
		}
	}
	return neighbors
}

// PlacedObject is an object manifested on the grid.
type PlacedObject struct {
	Kind     ObjectKind `json:"kind"`
	Type     string     `json:"type"`
	Position Position   `json:"position"`
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
