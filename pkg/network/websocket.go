package network

import (
	"context"
	"net/http"
	"time"

	"github.com/cbodonnell/rewind/pkg/log"
	"github.com/cbodonnell/rewind/pkg/messages"
	"github.com/cbodonnell/rewind/pkg/state"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// WriteTimeout bounds a single frame write
const WriteTimeout = 5 * time.Second

// WSServer serves the notification feed over websocket.
type WSServer struct {
	clientManager *ClientManager
	stateManager  state.StateManager
	logger        *log.Logger
}

type NewWSServerOptions struct {
	ClientManager *ClientManager
	// StateManager provides the view sent to new clients. Optional.
	StateManager state.StateManager
}

// NewWSServer creates a new WebSocket server.
func NewWSServer(opts NewWSServerOptions) *WSServer {
	return &WSServer{
		clientManager: opts.ClientManager,
		stateManager:  opts.StateManager,
		logger:        log.WithComponent("websocket"),
	}
}

func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.logger.Error("Failed to upgrade to WebSocket: %v", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "connection closed")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client, send := s.clientManager.ConnectClient()
	defer s.clientManager.DisconnectClient(client.ID)
	s.logger.Debug("New WebSocket connection %s from %s", client.ID, r.RemoteAddr)

	go s.writeLoop(ctx, cancel, conn, send)

	if s.stateManager != nil {
		if err := s.sendState(ctx, client); err != nil {
			s.logger.Error("Failed to send state to %s: %v", client.ID, err)
		}
	}

	for {
		msg := &messages.Message{}
		if err := wsjson.Read(ctx, conn, msg); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				s.logger.Error("Error reading WebSocket message from %s: %v", client.ID, err)
			}
			s.logger.Trace("Connection closed for %s", client.ID)
			return
		}

		switch msg.Type {
		case messages.MessageTypeClientPing:
			pong, _ := messages.NewMessage(messages.MessageTypeServerPong, nil)
			if err := s.clientManager.SendMessage(client.ID, pong); err != nil {
				s.logger.Error("Failed to send pong to %s: %v", client.ID, err)
			}
		default:
			s.logger.Warn("Unknown message type %s from %s", msg.Type, client.ID)
		}
	}
}

func (s *WSServer) sendState(ctx context.Context, client *Client) error {
	view, err := s.stateManager.Get(ctx)
	if err != nil {
		return err
	}
	msg, err := messages.NewMessage(messages.MessageTypeServerState, view)
	if err != nil {
		return err
	}
	return s.clientManager.SendMessage(client.ID, msg)
}

// writeLoop writes queued frames until the client is disconnected.
func (s *WSServer) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, send <-chan []byte) {
	defer cancel()
	for b := range send {
		writeCtx, writeCancel := context.WithTimeout(ctx, WriteTimeout)
		err := conn.Write(writeCtx, websocket.MessageText, b)
		writeCancel()
		if err != nil {
			s.logger.Debug("Failed to write WebSocket message: %v", err)
			return
		}
	}
	conn.Close(websocket.StatusGoingAway, "disconnected")
}
