package game

import (
	"github.com/cbodonnell/rewind/pkg/game/cards"
	"github.com/cbodonnell/rewind/pkg/game/types"
)

// GameView builds a read-only copy of the game for the state manager.
func (gm *GameManager) GameView(timestamp int64) *types.GameView {
	view := &types.GameView{
		Timestamp:     timestamp,
		RunID:         gm.runID.String(),
		Turn:          gm.clock.Turn(),
		Level:         gm.level,
		Phase:         gm.clock.Phase(),
		Zones:         make(map[string][]types.CardView),
		Objects:       gm.board.Objects(),
		Player:        gm.player.Stats(),
		Cost:          gm.player.Cost(),
		HasCheckpoint: gm.checkpoints.HasCheckpoint(),
	}

	for _, zone := range []cards.Zone{cards.ZoneDeck, cards.ZoneDiscard, cards.ZoneHand, cards.ZoneConsumed, cards.ZoneTemporary} {
		cardViews := make([]types.CardView, 0, gm.cards.Count(zone))
		for _, card := range gm.cards.Cards(zone) {
			cardViews = append(cardViews, types.CardView{
				ID:        card.ID.String(),
				Type:      card.Type,
				Temporary: gm.cards.IsTemporary(card),
			})
		}
		view.Zones[zone.String()] = cardViews
	}

	for _, t := range gm.equipment.Types() {
		c := gm.equipment.Counters(t)
		view.Equipment = append(view.Equipment, types.EquipmentView{
			Type:        t,
			Total:       gm.equipment.Total(t),
			Unrefreshed: c.Unrefreshed,
			Refreshed:   c.Refreshed,
			Destroyed:   c.Destroyed,
			InPlay:      c.InPlay,
		})
	}

	return view
}
