package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/cbodonnell/rewind/pkg/game/types"
)

type InMemoryStateManager struct {
	lock sync.RWMutex
	view *types.GameView
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{
		view: &types.GameView{
			Zones: make(map[string][]types.CardView),
		},
	}
}

func (m *InMemoryStateManager) Get(ctx context.Context) (*types.GameView, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.view.Copy(), nil
}

func (m *InMemoryStateManager) Set(ctx context.Context, view *types.GameView) error {
	if view == nil {
		return fmt.Errorf("game view is nil")
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.view = view.Copy()
	return nil
}
