// Package board is the placement grid objects are manifested on.
package board

import (
	"github.com/cbodonnell/rewind/pkg/game/types"
	"github.com/solarlune/resolv"
)

// CellSize is the world size of one grid cell in the collision space.
const CellSize = 16

// Placement is the grid as seen by the rotation core.
type Placement interface {
	// Place manifests an object at pos. It fails if pos is out of
	// bounds or already occupied.
	Place(kind types.ObjectKind, objectType string, pos types.Position) bool
	// RemoveAt removes the object at pos, if any.
	RemoveAt(pos types.Position) (types.PlacedObject, bool)
	// ClearAll removes every object.
	ClearAll()
	// Objects lists every placed object in placement order.
	Objects() []types.PlacedObject
	// ObjectsOfKind lists the placed objects of one kind in placement order.
	ObjectsOfKind(kind types.ObjectKind) []types.PlacedObject
	Occupied(pos types.Position) bool
	InBounds(pos types.Position) bool
	// Cells lists every cell of the grid in row-major order.
	Cells() []types.Position
}

// Board implements Placement on a resolv space with one object per cell.
type Board struct {
	space   *resolv.Space
	width   int
	height  int
	objects []*resolv.Object
}

func NewBoard(width int, height int) *Board {
	return &Board{
		space:  resolv.NewSpace(width*CellSize, height*CellSize, CellSize, CellSize),
		width:  width,
		height: height,
	}
}

func (b *Board) Width() int {
	return b.width
}

func (b *Board) Height() int {
	return b.height
}

func (b *Board) InBounds(pos types.Position) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < b.width && pos.Y < b.height
}

func (b *Board) Occupied(pos types.Position) bool {
	if !b.InBounds(pos) {
		return false
	}
	return len(b.space.CheckCells(pos.X, pos.Y, 1, 1)) > 0
}

func (b *Board) Place(kind types.ObjectKind, objectType string, pos types.Position) bool {
	if !b.InBounds(pos) || b.Occupied(pos) {
		return false
	}

	object := resolv.NewObject(float64(pos.X*CellSize), float64(pos.Y*CellSize), CellSize, CellSize, string(kind))
	object.Data = types.PlacedObject{
		Kind:     kind,
		Type:     objectType,
		Position: pos,
	}
	b.space.Add(object)
	b.objects = append(b.objects, object)

	return true
}

func (b *Board) RemoveAt(pos types.Position) (types.PlacedObject, bool) {
	for i, object := range b.objects {
		placed := object.Data.(types.PlacedObject)
		if placed.Position != pos {
			continue
		}
		b.space.Remove(object)
		b.objects = append(b.objects[:i:i], b.objects[i+1:]...)
		return placed, true
	}
	return types.PlacedObject{}, false
}

// ObjectAt returns the object at pos, if any.
func (b *Board) ObjectAt(pos types.Position) (types.PlacedObject, bool) {
	for _, object := range b.objects {
		placed := object.Data.(types.PlacedObject)
		if placed.Position == pos {
			return placed, true
		}
	}
	return types.PlacedObject{}, false
}

func (b *Board) ClearAll() {
	b.space.Remove(b.objects...)
	b.objects = nil
}

func (b *Board) Objects() []types.PlacedObject {
	out := make([]types.PlacedObject, 0, len(b.objects))
	for _, object := range b.objects {
		out = append(out, object.Data.(types.PlacedObject))
	}
	return out
}

func (b *Board) ObjectsOfKind(kind types.ObjectKind) []types.PlacedObject {
	var out []types.PlacedObject
	for _, object := range b.objects {
		if object.HasTags(string(kind)) {
			out = append(out, object.Data.(types.PlacedObject))
		}
	}
	return out
}

func (b *Board) Cells() []types.Position {
	cells := make([]types.Position, 0, b.width*b.height)
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			cells = append(cells, types.Position{X: x, Y: y})
		}
	}
	return cells
}
