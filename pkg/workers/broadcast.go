package workers

import (
	"context"

	"github.com/cbodonnell/rewind/pkg/log"
	"github.com/cbodonnell/rewind/pkg/messages"
	"github.com/cbodonnell/rewind/pkg/network"
)

type BroadcastMessageWorker struct {
	clientManager        *network.ClientManager
	broadcastMessageChan <-chan BroadcastMessage
	logger               *log.Logger
}

type BroadcastMessage struct {
	Type    string
	Message interface{}
}

type NewBroadcastMessageWorkerOptions struct {
	ClientManager        *network.ClientManager
	BroadcastMessageChan <-chan BroadcastMessage
}

// NewBroadcastMessageWorker creates a new BroadcastMessageWorker.
// The worker sends game events and state views to every feed client.
func NewBroadcastMessageWorker(opts NewBroadcastMessageWorkerOptions) *BroadcastMessageWorker {
	return &BroadcastMessageWorker{
		clientManager:        opts.ClientManager,
		broadcastMessageChan: opts.BroadcastMessageChan,
		logger:               log.WithComponent("broadcast"),
	}
}

func (w *BroadcastMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case b, ok := <-w.broadcastMessageChan:
			if !ok {
				return
			}
			if err := w.broadcast(b); err != nil {
				w.logger.Error("Failed to broadcast %s message: %v", b.Type, err)
			}
		}
	}
}

func (w *BroadcastMessageWorker) broadcast(b BroadcastMessage) error {
	switch b.Type {
	case messages.MessageTypeServerEvent, messages.MessageTypeServerState:
	default:
		w.logger.Error("Unknown broadcast message type: %v", b.Type)
		return nil
	}

	msg, err := messages.NewMessage(b.Type, b.Message)
	if err != nil {
		return err
	}
	return w.clientManager.SendMessageToAll(msg)
}
