package network

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cbodonnell/rewind/pkg/messages"
	"github.com/google/uuid"
)

const (
	// ClientSendBufferSize is the number of frames buffered per client
	// before it is considered too slow and dropped
	ClientSendBufferSize = 256
)

// Client represents a connected feed subscriber
type Client struct {
	ID   uuid.UUID
	send chan []byte
}

// ClientManager manages connected clients
type ClientManager struct {
	clients     map[uuid.UUID]*Client
	clientsLock sync.RWMutex
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[uuid.UUID]*Client),
	}
}

// ConnectClient registers a new client. Frames sent to the client are
// delivered on the returned channel until the client is disconnected.
func (cm *ClientManager) ConnectClient() (*Client, <-chan []byte) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	client := &Client{
		ID:   uuid.New(),
		send: make(chan []byte, ClientSendBufferSize),
	}
	cm.clients[client.ID] = client

	return client, client.send
}

// DisconnectClient removes a client from the manager and closes its channel
func (cm *ClientManager) DisconnectClient(clientID uuid.UUID) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	client, ok := cm.clients[clientID]
	if !ok {
		return
	}
	close(client.send)
	delete(cm.clients, clientID)
}

// Count returns the number of connected clients
func (cm *ClientManager) Count() int {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	return len(cm.clients)
}

// SendMessage sends a message to one client
func (cm *ClientManager) SendMessage(clientID uuid.UUID, msg *messages.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %v", err)
	}

	cm.clientsLock.RLock()
	client, ok := cm.clients[clientID]
	if !ok {
		cm.clientsLock.RUnlock()
		return fmt.Errorf("client %s not found", clientID)
	}
	select {
	case client.send <- b:
		cm.clientsLock.RUnlock()
		return nil
	default:
		cm.clientsLock.RUnlock()
		cm.DisconnectClient(clientID)
		return fmt.Errorf("client %s is too slow", clientID)
	}
}

// SendMessageToAll sends a message to every client. Clients whose
// buffer is full are disconnected.
func (cm *ClientManager) SendMessageToAll(msg *messages.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %v", err)
	}

	var slow []uuid.UUID
	cm.clientsLock.RLock()
	for id, client := range cm.clients {
		select {
		case client.send <- b:
		default:
			slow = append(slow, id)
		}
	}
	cm.clientsLock.RUnlock()

	for _, id := range slow {
		cm.DisconnectClient(id)
	}
	return nil
}
