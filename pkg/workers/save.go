package workers

import (
	"context"

	"github.com/cbodonnell/rewind/pkg/game/checkpoint"
	"github.com/cbodonnell/rewind/pkg/log"
	"github.com/cbodonnell/rewind/pkg/messages"
	"github.com/cbodonnell/rewind/pkg/repositories"
	"github.com/cbodonnell/rewind/pkg/repositories/models"
	"github.com/google/uuid"
)

type SaveCheckpointWorker struct {
	repository         repositories.Repository
	saveCheckpointChan <-chan SaveCheckpointRequest
	logger             *log.Logger
}

type NewSaveCheckpointWorkerOptions struct {
	Repository         repositories.Repository
	SaveCheckpointChan <-chan SaveCheckpointRequest
}

type SaveCheckpointRequest struct {
	RunID     uuid.UUID
	Level     int
	Timestamp int64
	Snapshot  *checkpoint.Snapshot
}

// NewSaveCheckpointWorker creates a new SaveCheckpointWorker.
// The worker archives the checkpoints captured by the game loop.
func NewSaveCheckpointWorker(opts NewSaveCheckpointWorkerOptions) *SaveCheckpointWorker {
	return &SaveCheckpointWorker{
		repository:         opts.Repository,
		saveCheckpointChan: opts.SaveCheckpointChan,
		logger:             log.WithComponent("save"),
	}
}

func (w *SaveCheckpointWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case saveRequest, ok := <-w.saveCheckpointChan:
			if !ok {
				return
			}
			w.saveCheckpoint(ctx, saveRequest)
		}
	}
}

func (w *SaveCheckpointWorker) saveCheckpoint(ctx context.Context, saveRequest SaveCheckpointRequest) {
	data, err := messages.SerializeSnapshot(saveRequest.Snapshot)
	if err != nil {
		w.logger.Error("Failed to serialize checkpoint: %v", err)
		return
	}

	err = w.repository.SaveCheckpoint(ctx, &models.Checkpoint{
		RunID:     saveRequest.RunID,
		Level:     saveRequest.Level,
		Turn:      saveRequest.Snapshot.Turn,
		Timestamp: saveRequest.Timestamp,
		Data:      data,
	})
	if err != nil {
		w.logger.Error("Failed to save checkpoint: %v", err)
		return
	}
	w.logger.Debug("Saved checkpoint for run %s level %d turn %d", saveRequest.RunID, saveRequest.Level, saveRequest.Snapshot.Turn)
}
