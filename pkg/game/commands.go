package game

import (
	"github.com/cbodonnell/rewind/pkg/game/cards"
	"github.com/cbodonnell/rewind/pkg/game/types"
	"github.com/google/uuid"
)

// applyCommand applies one queued command and returns true if it changed
// the game. Rejected commands are logged and dropped.
func (gm *GameManager) applyCommand(item interface{}) bool {
	switch command := item.(type) {
	case *types.PlayCardCommand:
		return gm.playCard(command.CardID)
	case *types.BeginPlacementCommand:
		card, ok := gm.handCard(command.CardID)
		if !ok {
			return false
		}
		defer gm.syncPlacementBusy()
		return gm.rotation.BeginPlacement(card)
	case *types.CompletePlacementCommand:
		defer gm.syncPlacementBusy()
		return gm.completePlacement(command.CardID, command.Position)
	case *types.CancelPlacementCommand:
		card, ok := gm.handCard(command.CardID)
		if !ok {
			return false
		}
		defer gm.syncPlacementBusy()
		return gm.rotation.CancelPlacement(card)
	case *types.CollectEquipmentCommand:
		if !gm.requirePlayerPhase("collect") {
			return false
		}
		_, ok := gm.spawner.Collect(command.Position)
		return ok
	case *types.MovePlayerCommand:
		return gm.movePlayer(command.Position, command.Facing)
	case *types.AddCardCommand:
		gm.cards.AddCard(command.Type)
		return true
	case *types.AddEquipmentCommand:
		cfg, ok := gm.catalog.Equipment(command.Type)
		if !ok {
			gm.logger.Warn("Unknown equipment type %s", command.Type)
			return false
		}
		gm.equipment.AddEquipment(command.Type, cfg.Consumable, cfg.SingleUse)
		return true
	case *types.AllowExtraPersistCommand:
		gm.cards.AllowExtraPersist(command.Type, command.Count)
		return true
	case *types.SpawnEnemyCommand:
		if !gm.board.Place(types.ObjectKindEnemy, command.Type, command.Position) {
			gm.logger.Warn("Cannot spawn enemy %s at %d,%d", command.Type, command.Position.X, command.Position.Y)
			return false
		}
		return true
	case *types.DefeatEnemyCommand:
		return gm.defeatEnemy(command.Position)
	case *types.PopulationEmptyCommand:
		gm.spawner.OnPopulationEmpty()
		return true
	case *types.EndTurnCommand:
		return gm.endTurn()
	case *types.RestartTurnCommand:
		if !gm.checkpoints.RestoreSnapshot() {
			gm.logger.Warn("Cannot restart turn %d right now", gm.clock.Turn())
			return false
		}
		return true
	case *types.EndLevelCommand:
		if !gm.requirePlayerPhase("end level") {
			return false
		}
		gm.EndLevel()
		gm.BeginLevel(gm.level + 1)
		return true
	default:
		gm.logger.Error("Unhandled command type: %T", command)
		return false
	}
}

// syncPlacementBusy keeps the clock busy while a card is held for
// placement, so the turn cannot be restarted mid placement.
func (gm *GameManager) syncPlacementBusy() {
	gm.clock.SetBusy(gm.cards.Count(cards.ZoneTemporary) > 0)
}

func (gm *GameManager) requirePlayerPhase(action string) bool {
	if !gm.clock.IsPlayerPhase() {
		gm.logger.Warn("Cannot %s during %s phase", action, gm.clock.Phase())
		return false
	}
	return true
}

func (gm *GameManager) handCard(id uuid.UUID) (*cards.Card, bool) {
	card, ok := gm.cards.FindByID(id)
	if !ok {
		gm.logger.Warn("Unknown card %s", id)
		return nil, false
	}
	if zone, _ := gm.cards.GetZone(card); zone != cards.ZoneHand {
		gm.logger.Warn("Card %s is in the %s, not in hand", id, zone)
		return nil, false
	}
	return card, true
}

// affordable reports whether the player can pay for the card.
func (gm *GameManager) affordable(card *cards.Card) (int, bool) {
	cfg, _ := gm.catalog.Card(card.Type)
	if gm.player.Cost().Current < cfg.Cost {
		gm.logger.Warn("Cannot afford %s: costs %d, %d left", card.Type, cfg.Cost, gm.player.Cost().Current)
		return cfg.Cost, false
	}
	return cfg.Cost, true
}

func (gm *GameManager) playCard(id uuid.UUID) bool {
	if !gm.requirePlayerPhase("play a card") {
		return false
	}
	card, ok := gm.handCard(id)
	if !ok {
		return false
	}
	cost, ok := gm.affordable(card)
	if !ok {
		return false
	}
	if !gm.rotation.PlayCard(card) {
		return false
	}
	gm.player.Spend(cost)
	return true
}

func (gm *GameManager) completePlacement(id uuid.UUID, pos types.Position) bool {
	if !gm.requirePlayerPhase("place a card") {
		return false
	}
	card, ok := gm.handCard(id)
	if !ok {
		return false
	}
	cost, ok := gm.affordable(card)
	if !ok {
		return false
	}
	if !gm.rotation.CompletePlacement(card, pos) {
		return false
	}
	gm.player.Spend(cost)
	return true
}

// movePlayer moves the player to a free cell or onto equipment, which
// collects it.
func (gm *GameManager) movePlayer(pos types.Position, facing types.Facing) bool {
	if !gm.requirePlayerPhase("move") {
		return false
	}
	if !gm.board.InBounds(pos) {
		gm.logger.Warn("Cannot move out of bounds to %d,%d", pos.X, pos.Y)
		return false
	}
	if object, ok := gm.board.ObjectAt(pos); ok {
		if object.Kind != types.ObjectKindEquipment {
			gm.logger.Warn("Cannot move onto %s at %d,%d", object.Kind, pos.X, pos.Y)
			return false
		}
		gm.spawner.Collect(pos)
	}
	gm.player.MoveTo(pos, facing)
	return true
}

func (gm *GameManager) defeatEnemy(pos types.Position) bool {
	object, ok := gm.board.ObjectAt(pos)
	if !ok || object.Kind != types.ObjectKindEnemy {
		gm.logger.Warn("No enemy at %d,%d", pos.X, pos.Y)
		return false
	}
	gm.board.RemoveAt(pos)
	if len(gm.board.ObjectsOfKind(types.ObjectKindEnemy)) == 0 {
		gm.logger.Debug("Enemy population cleared")
		gm.spawner.OnPopulationEmpty()
	}
	return true
}

// endTurn ends the player phase, resolves the enemy phase and starts the
// next turn with a refilled budget.
func (gm *GameManager) endTurn() bool {
	if !gm.clock.EndTurn() {
		return false
	}
	gm.player.Refill()
	gm.clock.StartTurn()
	return true
}
