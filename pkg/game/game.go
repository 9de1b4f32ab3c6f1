package game

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/rewind/pkg/board"
	"github.com/cbodonnell/rewind/pkg/catalog"
	"github.com/cbodonnell/rewind/pkg/game/cards"
	"github.com/cbodonnell/rewind/pkg/game/checkpoint"
	"github.com/cbodonnell/rewind/pkg/game/equipment"
	"github.com/cbodonnell/rewind/pkg/game/rotation"
	"github.com/cbodonnell/rewind/pkg/game/spawn"
	"github.com/cbodonnell/rewind/pkg/game/types"
	"github.com/cbodonnell/rewind/pkg/log"
	"github.com/cbodonnell/rewind/pkg/messages"
	"github.com/cbodonnell/rewind/pkg/notify"
	"github.com/cbodonnell/rewind/pkg/player"
	"github.com/cbodonnell/rewind/pkg/queue"
	"github.com/cbodonnell/rewind/pkg/rng"
	"github.com/cbodonnell/rewind/pkg/state"
	"github.com/cbodonnell/rewind/pkg/turns"
	"github.com/cbodonnell/rewind/pkg/workers"
	"github.com/google/uuid"
)

// DefaultGridSize is the grid width and height used when no board is given.
const DefaultGridSize = 8

type GameManager struct {
	commandQueue         queue.Queue
	stateManager         state.StateManager
	saveCheckpointChan   chan<- workers.SaveCheckpointRequest
	broadcastMessageChan chan<- workers.BroadcastMessage
	gameLoopInterval     time.Duration

	catalog     *catalog.Catalog
	random      *rng.Source
	board       *board.Board
	player      *player.InMemoryState
	notifier    *notify.Notifier
	clock       *turns.Clock
	cards       *cards.Store
	equipment   *equipment.Store
	rotation    *rotation.Coordinator
	spawner     *spawn.Selector
	checkpoints *checkpoint.Service

	runID   uuid.UUID
	level   int
	started bool
	dirty   bool
	logger  *log.Logger
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	CommandQueue queue.Queue
	StateManager state.StateManager
	Catalog      *catalog.Catalog
	// Random is the shared random source. Defaults to a source seeded with 0.
	Random *rng.Source
	Board  *board.Board
	// RunID identifies the run in the checkpoint archive. Defaults to a new ID.
	RunID        uuid.UUID
	DrawCount    int
	SpawnCeiling int
	// SaveCheckpointChan receives every captured checkpoint. Optional.
	SaveCheckpointChan chan<- workers.SaveCheckpointRequest
	// BroadcastMessageChan receives game events and state views. Optional.
	BroadcastMessageChan chan<- workers.BroadcastMessage
	GameLoopInterval     time.Duration
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	gm := &GameManager{
		commandQueue:         opts.CommandQueue,
		stateManager:         opts.StateManager,
		saveCheckpointChan:   opts.SaveCheckpointChan,
		broadcastMessageChan: opts.BroadcastMessageChan,
		gameLoopInterval:     opts.GameLoopInterval,
		catalog:              opts.Catalog,
		random:               opts.Random,
		board:                opts.Board,
		runID:                opts.RunID,
		notifier:             notify.New(),
		logger:               log.WithComponent("game"),
	}
	if gm.catalog == nil {
		gm.catalog = catalog.New()
	}
	if gm.random == nil {
		gm.random = rng.New(0)
	}
	if gm.board == nil {
		gm.board = board.NewBoard(DefaultGridSize, DefaultGridSize)
	}
	if gm.runID == uuid.Nil {
		gm.runID = uuid.New()
	}

	loadout := gm.catalog.Loadout
	gm.player = player.NewInMemoryState(loadout.Player.Stats(), types.ResourceCost{Current: loadout.Cost, Max: loadout.Cost})
	gm.clock = turns.NewClock(gm.notifier)
	gm.cards = cards.NewStore(cards.NewStoreOptions{
		Random:   gm.random,
		Catalog:  gm.catalog,
		Notifier: gm.notifier,
	})
	gm.equipment = equipment.NewStore(equipment.NewStoreOptions{})
	gm.rotation = rotation.NewCoordinator(rotation.NewCoordinatorOptions{
		Store:     gm.cards,
		Placement: gm.board,
		Catalog:   gm.catalog,
		Notifier:  gm.notifier,
		DrawCount: opts.DrawCount,
	})
	gm.spawner = spawn.NewSelector(spawn.NewSelectorOptions{
		Store:     gm.equipment,
		Placement: gm.board,
		Random:    gm.random,
		Player:    gm.player,
		Notifier:  gm.notifier,
		Ceiling:   opts.SpawnCeiling,
	})
	gm.checkpoints = checkpoint.NewService(checkpoint.NewServiceOptions{
		Cards:     gm.cards,
		Equipment: gm.equipment,
		Placement: gm.board,
		Player:    gm.player,
		Random:    gm.random,
		Phase:     gm.clock,
		Notifier:  gm.notifier,
		OnCapture: gm.archiveCheckpoint,
	})

	// The checkpoint has to anchor the turn after the draw and the spawn.
	gm.clock.OnTurnStart("rotation", gm.rotation.OnTurnStart)
	gm.clock.OnTurnStart("spawn", gm.spawner.OnTurnStart)
	gm.clock.OnTurnStart("checkpoint", gm.checkpoints.OnTurnStart)
	gm.clock.OnTurnEnd("rotation", gm.rotation.OnTurnEnd)

	gm.notifier.RegisterHandler(gm.broadcastEvent)

	return gm
}

// Start starts the game loop.
func (gm *GameManager) Start(ctx context.Context) error {
	if !gm.started {
		if err := gm.initializeGameState(); err != nil {
			return fmt.Errorf("failed to initialize game state: %v", err)
		}
	}

	ticker := time.NewTicker(gm.gameLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			err := gm.gameTick(ctx, t)
			if err != nil {
				gm.logger.Error("Failed to run game tick: %v", err)
			}
		}
	}
}

// initializeGameState hands out the starting loadout and begins the first level.
func (gm *GameManager) initializeGameState() error {
	loadout := gm.catalog.Loadout
	for _, t := range loadout.Cards {
		gm.cards.AddCard(t)
	}
	for _, t := range loadout.Equipment {
		cfg, ok := gm.catalog.Equipment(t)
		if !ok {
			return fmt.Errorf("unknown loadout equipment type %s", t)
		}
		gm.equipment.AddEquipment(t, cfg.Consumable, cfg.SingleUse)
	}

	gm.BeginLevel(1)
	gm.notifier.Flush()
	gm.started = true
	return nil
}

// Resume continues a run from an archived checkpoint instead of starting
// from the loadout. It must be called before Start.
func (gm *GameManager) Resume(runID uuid.UUID, level int, snapshot *checkpoint.Snapshot) error {
	if gm.started {
		return fmt.Errorf("game already started")
	}
	if err := gm.checkpoints.Install(snapshot); err != nil {
		return fmt.Errorf("failed to install checkpoint: %v", err)
	}
	gm.runID = runID
	gm.level = level
	gm.cards.CaptureLevelBaseline()
	gm.clock.Resume(snapshot.Turn, types.PhasePlayer)
	gm.notifier.Flush()
	gm.started = true
	gm.dirty = true
	gm.logger.Info("Resumed run %s at level %d turn %d", runID, level, snapshot.Turn)
	return nil
}

// gameTick runs one iteration of the game loop.
func (gm *GameManager) gameTick(ctx context.Context, t time.Time) error {
	gm.processCommands()
	gm.notifier.Flush()
	if !gm.dirty {
		return nil
	}
	gm.dirty = false
	return gm.publishGameView(ctx, t)
}

// processCommands applies every pending command in the order it was enqueued.
func (gm *GameManager) processCommands() {
	pendingCommands, err := gm.commandQueue.ReadAllMessages()
	if err != nil {
		gm.logger.Error("Failed to read commands: %v", err)
		return
	}
	for _, item := range pendingCommands {
		if gm.applyCommand(item) {
			gm.dirty = true
		}
		gm.notifier.Flush()
	}
}

// BeginLevel returns every card to the deck, shuffles it and starts the
// first turn of the level. The card composition at this point is the
// baseline the level is trimmed back to.
func (gm *GameManager) BeginLevel(level int) {
	gm.level = level
	for _, zone := range []cards.Zone{cards.ZoneHand, cards.ZoneDiscard, cards.ZoneConsumed} {
		for _, card := range gm.cards.Cards(zone) {
			gm.cards.MoveToZone(card, cards.ZoneDeck)
		}
	}
	gm.cards.ShuffleDeck()
	gm.cards.CaptureLevelBaseline()
	gm.player.Refill()
	gm.clock.Reset()
	gm.clock.StartTurn()
	gm.dirty = true
	gm.logger.Info("Level %d started", level)
}

// EndLevel trims the cards back to the level baseline, restores spent
// equipment and clears the grid.
func (gm *GameManager) EndLevel() {
	gm.cards.CleanupToBaseline()
	for _, object := range gm.board.ObjectsOfKind(types.ObjectKindEquipment) {
		gm.equipment.MarkAsUndeployed(types.EquipmentType(object.Type))
	}
	gm.board.ClearAll()
	gm.equipment.ResetDestroyed()
	gm.equipment.ResetRefreshed()
	gm.notifier.Publish(notify.Event{Type: notify.EventLevelEnded, Turn: gm.clock.Turn()})
	gm.dirty = true
	gm.logger.Info("Level %d ended after %d turns", gm.level, gm.clock.Turn())
}

func (gm *GameManager) archiveCheckpoint(snapshot *checkpoint.Snapshot) {
	if gm.saveCheckpointChan == nil {
		return
	}
	saveRequest := workers.SaveCheckpointRequest{
		RunID:     gm.runID,
		Level:     gm.level,
		Timestamp: time.Now().UnixMilli(),
		Snapshot:  snapshot,
	}
	select {
	case gm.saveCheckpointChan <- saveRequest:
	default:
		gm.logger.Warn("Save queue is full, dropping checkpoint for turn %d", snapshot.Turn)
	}
}

func (gm *GameManager) broadcastEvent(event notify.Event) {
	gm.dirty = true
	gm.broadcast(messages.MessageTypeServerEvent, event)
}

func (gm *GameManager) broadcast(messageType string, message interface{}) {
	if gm.broadcastMessageChan == nil {
		return
	}
	select {
	case gm.broadcastMessageChan <- workers.BroadcastMessage{Type: messageType, Message: message}:
	default:
		gm.logger.Warn("Broadcast queue is full, dropping %s message", messageType)
	}
}

func (gm *GameManager) publishGameView(ctx context.Context, t time.Time) error {
	view := gm.GameView(t.UnixMilli())
	if err := gm.stateManager.Set(ctx, view); err != nil {
		return fmt.Errorf("failed to set game view: %v", err)
	}
	gm.broadcast(messages.MessageTypeServerState, view)
	return nil
}
