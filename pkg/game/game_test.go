package game

import (
	"context"
	"testing"
	"time"

	"github.com/cbodonnell/rewind/pkg/board"
	"github.com/cbodonnell/rewind/pkg/catalog"
	"github.com/cbodonnell/rewind/pkg/game/cards"
	"github.com/cbodonnell/rewind/pkg/game/types"
	"github.com/cbodonnell/rewind/pkg/messages"
	"github.com/cbodonnell/rewind/pkg/notify"
	"github.com/cbodonnell/rewind/pkg/queue"
	"github.com/cbodonnell/rewind/pkg/rng"
	"github.com/cbodonnell/rewind/pkg/state"
	"github.com/cbodonnell/rewind/pkg/workers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
cards:
  - type: strike
    cost: 1
  - type: fireball
    cost: 2
    consumable: true
  - type: trap
    cost: 1
    placeable: true
equipment:
  - type: sword
  - type: bomb
    singleUse: true
loadout:
  cards: [strike, strike, strike, strike, fireball, trap]
  equipment: [sword, sword, bomb]
  player:
    hitpoints: 10
    attack: 2
  cost: 3
`

type testGame struct {
	*GameManager
	queue         *queue.InMemoryQueue
	stateManager  *state.InMemoryStateManager
	saveChan      chan workers.SaveCheckpointRequest
	broadcastChan chan workers.BroadcastMessage
}

func newTestGame(t *testing.T, seed uint64) *testGame {
	t.Helper()
	c, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)

	tg := &testGame{
		queue:         queue.NewInMemoryQueue(100),
		stateManager:  state.NewInMemoryStateManager(),
		saveChan:      make(chan workers.SaveCheckpointRequest, 100),
		broadcastChan: make(chan workers.BroadcastMessage, 1000),
	}
	tg.GameManager = NewGameManager(NewGameManagerOptions{
		CommandQueue:         tg.queue,
		StateManager:         tg.stateManager,
		Catalog:              c,
		Random:               rng.New(seed),
		Board:                board.NewBoard(5, 5),
		DrawCount:            3,
		SpawnCeiling:         2,
		SaveCheckpointChan:   tg.saveChan,
		BroadcastMessageChan: tg.broadcastChan,
		GameLoopInterval:     time.Millisecond,
	})
	return tg
}

func newStartedTestGame(t *testing.T, seed uint64) *testGame {
	t.Helper()
	tg := newTestGame(t, seed)
	require.NoError(t, tg.initializeGameState())
	return tg
}

func (tg *testGame) tick(t *testing.T) {
	t.Helper()
	require.NoError(t, tg.gameTick(context.Background(), time.UnixMilli(1000)))
}

func (tg *testGame) enqueue(t *testing.T, commands ...interface{}) {
	t.Helper()
	for _, command := range commands {
		require.NoError(t, tg.queue.Enqueue(command))
	}
}

// freeCell returns the first empty cell the player is not standing on.
func (tg *testGame) freeCell(t *testing.T) types.Position {
	t.Helper()
	for _, cell := range tg.board.Cells() {
		if !tg.board.Occupied(cell) && cell != tg.player.Stats().Position {
			return cell
		}
	}
	t.Fatal("no free cell")
	return types.Position{}
}

func (tg *testGame) cardOfType(t types.CardType) (*cards.Card, bool) {
	for _, zone := range cards.PhysicalZones {
		for _, card := range tg.cards.Cards(zone) {
			if card.Type == t {
				return card, true
			}
		}
	}
	return nil, false
}

func (tg *testGame) equipmentOnGrid() []types.PlacedObject {
	return tg.board.ObjectsOfKind(types.ObjectKindEquipment)
}

func (tg *testGame) checkInvariants(t *testing.T) {
	t.Helper()
	require.NoError(t, tg.cards.CheckPartition())
	require.NoError(t, tg.equipment.CheckInvariants())
	inPlay := 0
	for _, et := range tg.equipment.Types() {
		inPlay += tg.equipment.Counters(et).InPlay
	}
	require.Equal(t, len(tg.equipmentOnGrid()), inPlay)
}

func drainSaves(ch chan workers.SaveCheckpointRequest) []workers.SaveCheckpointRequest {
	var out []workers.SaveCheckpointRequest
	for {
		select {
		case r := <-ch:
			out = append(out, r)
		default:
			return out
		}
	}
}

func drainBroadcasts(ch chan workers.BroadcastMessage) []workers.BroadcastMessage {
	var out []workers.BroadcastMessage
	for {
		select {
		case b := <-ch:
			out = append(out, b)
		default:
			return out
		}
	}
}

func TestGameManager_initializeGameState(t *testing.T) {
	tg := newStartedTestGame(t, 1)

	assert.Equal(t, 1, tg.level)
	assert.Equal(t, 1, tg.clock.Turn())
	assert.Equal(t, types.PhasePlayer, tg.clock.Phase())
	assert.Equal(t, 3, tg.cards.Count(cards.ZoneHand))
	assert.Equal(t, 3, tg.cards.Count(cards.ZoneDeck))
	assert.Len(t, tg.equipmentOnGrid(), 2)
	assert.True(t, tg.checkpoints.HasCheckpoint())
	assert.Equal(t, types.ResourceCost{Current: 3, Max: 3}, tg.player.Cost())
	tg.checkInvariants(t)

	saves := drainSaves(tg.saveChan)
	require.Len(t, saves, 1)
	assert.Equal(t, tg.runID, saves[0].RunID)
	assert.Equal(t, 1, saves[0].Level)
	assert.Equal(t, 1, saves[0].Snapshot.Turn)
	assert.Equal(t, tg.cards.Lists(), saves[0].Snapshot.Cards)
}

func TestGameManager_initializeGameStateUnknownEquipment(t *testing.T) {
	c := catalog.New()
	c.Loadout.Equipment = []types.EquipmentType{"missing"}
	gm := NewGameManager(NewGameManagerOptions{Catalog: c})
	assert.Error(t, gm.initializeGameState())
}

func TestGameManager_playCard(t *testing.T) {
	tg := newStartedTestGame(t, 2)

	card := tg.cards.Cards(cards.ZoneHand)[0]
	cfg, _ := tg.catalog.Card(card.Type)

	assert.True(t, tg.applyCommand(&types.PlayCardCommand{CardID: card.ID}))
	assert.Equal(t, 3-cfg.Cost, tg.player.Cost().Current)
	zone, _ := tg.cards.GetZone(card)
	assert.NotEqual(t, cards.ZoneHand, zone)

	assert.False(t, tg.applyCommand(&types.PlayCardCommand{CardID: card.ID}), "no longer in hand")
	assert.False(t, tg.applyCommand(&types.PlayCardCommand{CardID: uuid.New()}), "unknown card")

	tg.player.SetCost(types.ResourceCost{Current: 0, Max: 3})
	for _, c := range tg.cards.Cards(cards.ZoneHand) {
		if cfg, _ := tg.catalog.Card(c.Type); cfg.Cost > 0 {
			assert.False(t, tg.applyCommand(&types.PlayCardCommand{CardID: c.ID}), "cannot afford %s", c.Type)
			zone, _ := tg.cards.GetZone(c)
			assert.Equal(t, cards.ZoneHand, zone)
		}
	}
	tg.checkInvariants(t)
}

func TestGameManager_placement(t *testing.T) {
	tg := newStartedTestGame(t, 3)

	trap, ok := tg.cardOfType("trap")
	require.True(t, ok)
	tg.cards.MoveToZone(trap, cards.ZoneHand)

	cell := tg.freeCell(t)
	assert.False(t, tg.applyCommand(&types.CompletePlacementCommand{CardID: trap.ID, Position: cell}), "not held yet")
	assert.True(t, tg.applyCommand(&types.BeginPlacementCommand{CardID: trap.ID}))
	assert.True(t, tg.cards.IsTemporary(trap))

	occupied := tg.equipmentOnGrid()[0].Position
	assert.False(t, tg.applyCommand(&types.CompletePlacementCommand{CardID: trap.ID, Position: occupied}))
	assert.True(t, tg.cards.IsTemporary(trap), "failed placement keeps the card held")

	assert.True(t, tg.applyCommand(&types.CompletePlacementCommand{CardID: trap.ID, Position: cell}))
	zone, _ := tg.cards.GetZone(trap)
	assert.Equal(t, cards.ZoneDiscard, zone)
	assert.False(t, tg.cards.IsTemporary(trap))
	assert.Equal(t, 2, tg.player.Cost().Current)

	object, ok := tg.board.ObjectAt(cell)
	require.True(t, ok)
	assert.Equal(t, types.PlacedObject{Kind: types.ObjectKindCard, Type: "trap", Position: cell}, object)
	tg.checkInvariants(t)
}

func TestGameManager_cancelPlacement(t *testing.T) {
	tg := newStartedTestGame(t, 3)

	trap, ok := tg.cardOfType("trap")
	require.True(t, ok)
	tg.cards.MoveToZone(trap, cards.ZoneHand)

	require.True(t, tg.applyCommand(&types.BeginPlacementCommand{CardID: trap.ID}))
	assert.False(t, tg.applyCommand(&types.BeginPlacementCommand{CardID: trap.ID}), "already held")
	assert.True(t, tg.applyCommand(&types.CancelPlacementCommand{CardID: trap.ID}))
	assert.False(t, tg.cards.IsTemporary(trap))
	zone, _ := tg.cards.GetZone(trap)
	assert.Equal(t, cards.ZoneHand, zone)
}

func TestGameManager_endTurn(t *testing.T) {
	tg := newStartedTestGame(t, 4)
	drainSaves(tg.saveChan)
	firstHand := tg.cards.Cards(cards.ZoneHand)
	tg.player.SetCost(types.ResourceCost{Current: 1, Max: 3})

	require.True(t, tg.applyCommand(&types.EndTurnCommand{}))

	assert.Equal(t, 2, tg.clock.Turn())
	assert.Equal(t, types.PhasePlayer, tg.clock.Phase())
	assert.Equal(t, 3, tg.cards.Count(cards.ZoneHand))
	assert.Equal(t, 0, tg.cards.Count(cards.ZoneDeck))
	assert.ElementsMatch(t, firstHand, tg.cards.Cards(cards.ZoneDiscard))
	assert.Equal(t, 3, tg.player.Cost().Current)
	assert.Len(t, tg.equipmentOnGrid(), 2, "ceiling already reached")
	tg.checkInvariants(t)

	saves := drainSaves(tg.saveChan)
	require.Len(t, saves, 1)
	assert.Equal(t, 2, saves[0].Snapshot.Turn)
}

func TestGameManager_restartTurn(t *testing.T) {
	tg := newStartedTestGame(t, 5)
	lists := tg.cards.Lists()
	stats := tg.player.Stats()
	objects := tg.board.Objects()
	randomState := tg.random.State()

	card := tg.cards.Cards(cards.ZoneHand)[0]
	tg.enqueue(t,
		&types.PlayCardCommand{CardID: card.ID},
		&types.MovePlayerCommand{Position: tg.freeCell(t), Facing: types.FacingEast},
		&types.CollectEquipmentCommand{Position: objects[0].Position},
	)
	tg.tick(t)
	require.NotEqual(t, lists, tg.cards.Lists())
	require.NotEqual(t, stats, tg.player.Stats())

	tg.enqueue(t, &types.RestartTurnCommand{})
	tg.tick(t)

	assert.Equal(t, lists, tg.cards.Lists())
	assert.Equal(t, stats, tg.player.Stats())
	assert.Equal(t, types.ResourceCost{Current: 3, Max: 3}, tg.player.Cost())
	assert.Equal(t, objects, tg.board.Objects())
	assert.Equal(t, randomState, tg.random.State())
	assert.Equal(t, 1, tg.clock.Turn())
	tg.checkInvariants(t)

	view, err := tg.stateManager.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, view.HasCheckpoint)
	assert.Len(t, view.Zones[cards.ZoneHand.String()], 3)
}

func TestGameManager_restartTurnOutsidePlayerPhase(t *testing.T) {
	tg := newStartedTestGame(t, 5)
	require.True(t, tg.clock.EndTurn())
	assert.False(t, tg.applyCommand(&types.RestartTurnCommand{}))
}

func TestGameManager_restartTurnDuringPlacement(t *testing.T) {
	tg := newStartedTestGame(t, 3)

	trap, ok := tg.cardOfType("trap")
	require.True(t, ok)
	tg.cards.MoveToZone(trap, cards.ZoneHand)

	require.True(t, tg.applyCommand(&types.BeginPlacementCommand{CardID: trap.ID}))
	assert.False(t, tg.clock.IsIdle())
	assert.False(t, tg.applyCommand(&types.RestartTurnCommand{}), "a card is held for placement")

	require.True(t, tg.applyCommand(&types.CancelPlacementCommand{CardID: trap.ID}))
	assert.True(t, tg.clock.IsIdle())
	assert.True(t, tg.applyCommand(&types.RestartTurnCommand{}))
}

func TestGameManager_endLevel(t *testing.T) {
	tests := []struct {
		name         string
		extraPersist int
		wantStrikes  int
	}{
		{
			name:        "new copies are trimmed",
			wantStrikes: 4,
		},
		{
			name:         "extra persist keeps a copy",
			extraPersist: 1,
			wantStrikes:  5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := newStartedTestGame(t, 6)
			tg.applyCommand(&types.AddCardCommand{Type: "strike"})
			tg.applyCommand(&types.AddCardCommand{Type: "strike"})
			if tt.extraPersist > 0 {
				tg.applyCommand(&types.AllowExtraPersistCommand{Type: "strike", Count: tt.extraPersist})
			}
			for _, object := range tg.equipmentOnGrid() {
				tg.applyCommand(&types.CollectEquipmentCommand{Position: object.Position})
			}

			require.True(t, tg.applyCommand(&types.EndLevelCommand{}))

			assert.Equal(t, 2, tg.level)
			assert.Equal(t, 1, tg.clock.Turn())
			assert.Equal(t, tt.wantStrikes, tg.cards.CountOfType("strike"))
			assert.Equal(t, 0, tg.cards.Count(cards.ZoneConsumed))
			assert.Equal(t, 0, tg.cards.Count(cards.ZoneDiscard))
			for _, et := range tg.equipment.Types() {
				assert.Equal(t, 0, tg.equipment.Counters(et).Destroyed, "%s", et)
			}
			assert.Len(t, tg.equipmentOnGrid(), 2)
			baseline, quota := tg.cards.Baseline("strike")
			assert.Equal(t, tt.wantStrikes, baseline)
			assert.Equal(t, 0, quota)
			tg.checkInvariants(t)
		})
	}
}

func TestGameManager_population(t *testing.T) {
	tg := newStartedTestGame(t, 7)
	for _, object := range tg.equipmentOnGrid() {
		require.True(t, tg.applyCommand(&types.CollectEquipmentCommand{Position: object.Position}))
	}
	require.Empty(t, tg.equipmentOnGrid())

	first := tg.freeCell(t)
	require.True(t, tg.applyCommand(&types.SpawnEnemyCommand{Type: "slime", Position: first}))
	second := tg.freeCell(t)
	require.True(t, tg.applyCommand(&types.SpawnEnemyCommand{Type: "slime", Position: second}))
	assert.False(t, tg.applyCommand(&types.SpawnEnemyCommand{Type: "slime", Position: second}), "occupied")

	require.True(t, tg.applyCommand(&types.DefeatEnemyCommand{Position: first}))
	assert.Empty(t, tg.equipmentOnGrid(), "population not empty yet")
	assert.False(t, tg.applyCommand(&types.DefeatEnemyCommand{Position: first}), "already defeated")

	require.True(t, tg.applyCommand(&types.DefeatEnemyCommand{Position: second}))
	assert.Len(t, tg.equipmentOnGrid(), 2)
	tg.checkInvariants(t)
}

func TestGameManager_movePlayer(t *testing.T) {
	tg := newStartedTestGame(t, 8)
	target := tg.equipmentOnGrid()[0]

	assert.False(t, tg.applyCommand(&types.MovePlayerCommand{Position: types.Position{X: -1, Y: 0}}))

	require.True(t, tg.applyCommand(&types.MovePlayerCommand{Position: target.Position, Facing: types.FacingWest}))
	assert.Equal(t, target.Position, tg.player.Stats().Position)
	assert.Equal(t, types.FacingWest, tg.player.Stats().Facing)
	assert.Len(t, tg.equipmentOnGrid(), 1, "moving onto equipment collects it")

	enemy := tg.freeCell(t)
	require.True(t, tg.applyCommand(&types.SpawnEnemyCommand{Type: "slime", Position: enemy}))
	assert.False(t, tg.applyCommand(&types.MovePlayerCommand{Position: enemy}))
	tg.checkInvariants(t)
}

func TestGameManager_unknownCommand(t *testing.T) {
	tg := newStartedTestGame(t, 9)
	assert.False(t, tg.applyCommand("not a command"))
	assert.False(t, tg.applyCommand(&types.AddEquipmentCommand{Type: "missing"}))
	assert.True(t, tg.applyCommand(&types.AddEquipmentCommand{Type: "bomb"}))
	assert.Equal(t, 2, tg.equipment.Total("bomb"))
}

func TestGameManager_gameTick(t *testing.T) {
	tg := newStartedTestGame(t, 10)
	tg.tick(t)

	view, err := tg.stateManager.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, view.Turn)
	assert.Equal(t, 1, view.Level)
	assert.Equal(t, types.PhasePlayer, view.Phase)
	assert.Len(t, view.Equipment, 2)
	assert.Len(t, view.Objects, 2)
	drainBroadcasts(tg.broadcastChan)

	tg.tick(t)
	assert.Empty(t, drainBroadcasts(tg.broadcastChan), "nothing changed")

	tg.enqueue(t, &types.AddCardCommand{Type: "fireball"})
	tg.tick(t)

	broadcasts := drainBroadcasts(tg.broadcastChan)
	require.Len(t, broadcasts, 2)
	assert.Equal(t, messages.MessageTypeServerEvent, broadcasts[0].Type)
	event := broadcasts[0].Message.(notify.Event)
	assert.Equal(t, notify.EventCardAdded, event.Type)
	assert.Equal(t, "fireball", event.Subject)
	assert.Equal(t, messages.MessageTypeServerState, broadcasts[1].Type)

	view, err = tg.stateManager.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, view.Zones[cards.ZoneDeck.String()], 4)
}

func TestGameManager_Resume(t *testing.T) {
	source := newStartedTestGame(t, 11)
	snapshot := source.checkpoints.Snapshot()

	tg := newTestGame(t, 99)
	runID := uuid.New()
	require.NoError(t, tg.Resume(runID, 3, snapshot))

	assert.Equal(t, runID, tg.runID)
	assert.Equal(t, 3, tg.level)
	assert.Equal(t, snapshot.Turn, tg.clock.Turn())
	assert.True(t, tg.clock.IsPlayerPhase())
	assert.Equal(t, source.cards.Lists(), tg.cards.Lists())
	assert.Equal(t, source.board.Objects(), tg.board.Objects())
	assert.Equal(t, source.player.Stats(), tg.player.Stats())
	assert.Equal(t, source.random.State(), tg.random.State())
	assert.True(t, tg.checkpoints.HasCheckpoint())
	tg.checkInvariants(t)

	assert.Error(t, tg.Resume(runID, 3, snapshot), "already started")
	assert.Error(t, newTestGame(t, 1).Resume(runID, 1, nil))
}

func TestGameManager_Start(t *testing.T) {
	tg := newTestGame(t, 12)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- tg.Start(ctx)
	}()

	require.Eventually(t, func() bool {
		view, err := tg.stateManager.Get(context.Background())
		return err == nil && view.Turn == 1
	}, 5*time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("game loop did not stop")
	}
}
