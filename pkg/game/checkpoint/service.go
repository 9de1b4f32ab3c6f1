// Package checkpoint captures the rotation state at every turn start and
// rewinds the turn to it on demand.
package checkpoint

import (
	"fmt"

	"github.com/cbodonnell/rewind/pkg/board"
	"github.com/cbodonnell/rewind/pkg/game/cards"
	"github.com/cbodonnell/rewind/pkg/game/equipment"
	"github.com/cbodonnell/rewind/pkg/game/types"
	"github.com/cbodonnell/rewind/pkg/log"
	"github.com/cbodonnell/rewind/pkg/notify"
	"github.com/cbodonnell/rewind/pkg/player"
)

// RandomSource is the shared random source whose state is captured.
type RandomSource interface {
	State() []byte
	Restore(state []byte) error
}

// PhaseReporter reports whether the game can be rewound right now.
type PhaseReporter interface {
	IsIdle() bool
	IsPlayerPhase() bool
}

// CaptureHandler receives a copy of every captured snapshot.
type CaptureHandler func(snapshot *Snapshot)

type Service struct {
	cards     *cards.Store
	equipment *equipment.Store
	placement board.Placement
	player    player.State
	random    RandomSource
	phase     PhaseReporter
	notifier  *notify.Notifier
	onCapture CaptureHandler
	logger    *log.Logger

	snapshot *Snapshot
}

type NewServiceOptions struct {
	Cards     *cards.Store
	Equipment *equipment.Store
	Placement board.Placement
	Player    player.State
	Random    RandomSource
	Phase     PhaseReporter
	Notifier  *notify.Notifier
	// OnCapture is called after every capture. Optional.
	OnCapture CaptureHandler
	Logger    *log.Logger
}

func NewService(opts NewServiceOptions) *Service {
	s := &Service{
		cards:     opts.Cards,
		equipment: opts.Equipment,
		placement: opts.Placement,
		player:    opts.Player,
		random:    opts.Random,
		phase:     opts.Phase,
		notifier:  opts.Notifier,
		onCapture: opts.OnCapture,
		logger:    opts.Logger,
	}
	if s.logger == nil {
		s.logger = log.WithComponent("checkpoint")
	}
	return s
}

// OnTurnStart replaces the checkpoint with the state of the new turn.
func (s *Service) OnTurnStart(turn int) {
	s.snapshot = s.MakeSnapshot(turn)
	s.logger.Debug("Captured checkpoint for turn %d", turn)
	s.notifier.Publish(notify.Event{Type: notify.EventCheckpointCaptured, Turn: turn})
	if s.onCapture != nil {
		s.onCapture(s.snapshot.Clone())
	}
}

// MakeSnapshot captures the current state without storing it.
func (s *Service) MakeSnapshot(turn int) *Snapshot {
	snapshot := &Snapshot{
		Turn:        turn,
		RandomState: s.random.State(),
		Cards:       s.cards.Lists(),
		Player:      s.player.Stats(),
		Cost:        s.player.Cost(),
		Objects:     s.placement.Objects(),
	}
	for _, t := range s.equipment.Types() {
		record := EquipmentRecord{
			Type:      t,
			Total:     s.equipment.Total(t),
			Refreshed: s.equipment.Count(t, equipment.RegionRefreshed),
			Destroyed: s.equipment.Count(t, equipment.RegionDestroyed),
		}
		if instance, ok := s.equipment.Instance(t); ok {
			record.Consumable = instance.Consumable
			record.SingleUse = instance.SingleUse
		}
		snapshot.Equipment = append(snapshot.Equipment, record)
	}
	return snapshot
}

func (s *Service) HasCheckpoint() bool {
	return s.snapshot != nil
}

// Snapshot returns a copy of the current checkpoint, or nil.
func (s *Service) Snapshot() *Snapshot {
	return s.snapshot.Clone()
}

// CanRestartNow returns true when a checkpoint exists and the game is
// idle in the player phase.
func (s *Service) CanRestartNow() bool {
	if s.snapshot == nil {
		return false
	}
	return s.phase == nil || (s.phase.IsIdle() && s.phase.IsPlayerPhase())
}

// RestoreSnapshot rewinds to the checkpoint. It does nothing and returns
// false unless CanRestartNow.
func (s *Service) RestoreSnapshot() bool {
	if !s.CanRestartNow() {
		s.logger.Debug("Restart not possible now")
		return false
	}
	if err := s.apply(s.snapshot); err != nil {
		s.logger.Error("Failed to restore checkpoint: %v", err)
		return false
	}
	s.notifier.Publish(notify.Event{Type: notify.EventCheckpointRestored, Turn: s.snapshot.Turn})
	return true
}

// Install makes snapshot the current checkpoint and rebuilds the game
// from it. It is used to resume an archived run.
func (s *Service) Install(snapshot *Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("no snapshot to install")
	}
	snapshot = snapshot.Clone()
	if err := s.apply(snapshot); err != nil {
		return fmt.Errorf("failed to install snapshot: %v", err)
	}
	s.snapshot = snapshot
	s.notifier.Publish(notify.Event{Type: notify.EventCheckpointRestored, Turn: snapshot.Turn})
	return nil
}

// apply clears both stores and the grid and rebuilds them. Equipment
// counters are replayed through the store's own mutators. The random
// source is restored last so nothing consumed during the rebuild leaks
// into the turn.
func (s *Service) apply(snapshot *Snapshot) error {
	s.equipment.ClearEquipment()
	s.placement.ClearAll()

	s.cards.RestoreFromSnapshot(snapshot.Cards, true)

	for _, record := range snapshot.Equipment {
		for i := 0; i < record.Total; i++ {
			s.equipment.AddEquipment(record.Type, record.Consumable, record.SingleUse)
		}
		for i := 0; i < record.Refreshed+record.Destroyed; i++ {
			s.equipment.MarkAsRefreshed(record.Type)
		}
		for i := 0; i < record.Destroyed; i++ {
			s.equipment.MarkAsDestroyed(record.Type)
		}
	}

	for _, object := range snapshot.Objects {
		if !s.placement.Place(object.Kind, object.Type, object.Position) {
			s.logger.Warn("Could not restore %s %s at %d,%d", object.Kind, object.Type, object.Position.X, object.Position.Y)
			continue
		}
		if object.Kind == types.ObjectKindEquipment {
			s.equipment.MarkAsDeployed(types.EquipmentType(object.Type))
		}
	}

	s.player.SetStats(snapshot.Player)
	s.player.SetCost(snapshot.Cost)

	return s.random.Restore(snapshot.RandomState)
}
