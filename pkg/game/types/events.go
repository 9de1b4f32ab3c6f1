package types

import "github.com/google/uuid"

// Commands are enqueued by the API and applied by the game loop in order.

type PlayCardCommand struct {
	CardID uuid.UUID
}

type BeginPlacementCommand struct {
	CardID uuid.UUID
}

type CompletePlacementCommand struct {
	CardID   uuid.UUID
	Position Position
}

type CancelPlacementCommand struct {
	CardID uuid.UUID
}

type CollectEquipmentCommand struct {
	Position Position
}

type MovePlayerCommand struct {
	Position Position
	Facing   Facing
}

type AddCardCommand struct {
	Type CardType
}

type AddEquipmentCommand struct {
	Type EquipmentType
}

type AllowExtraPersistCommand struct {
	Type  CardType
	Count int
}

type EndTurnCommand struct{}

type RestartTurnCommand struct{}

type PopulationEmptyCommand struct{}

type EndLevelCommand struct{}

type SpawnEnemyCommand struct {
	Type     string
	Position Position
}

// DefeatEnemyCommand removes the enemy at Position. Defeating the last
// enemy on the grid triggers an equipment spawn round.
type DefeatEnemyCommand struct {
	Position Position
}
