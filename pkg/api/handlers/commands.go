package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cbodonnell/rewind/pkg/game/types"
	"github.com/google/uuid"
)

type cardRequest struct {
	CardID uuid.UUID `json:"cardId"`
}

type placementRequest struct {
	CardID   uuid.UUID      `json:"cardId"`
	Position types.Position `json:"position"`
}

type positionRequest struct {
	Position types.Position `json:"position"`
}

type moveRequest struct {
	Position types.Position `json:"position"`
	Facing   string         `json:"facing"`
}

type addCardRequest struct {
	Type types.CardType `json:"type"`
}

type addEquipmentRequest struct {
	Type types.EquipmentType `json:"type"`
}

type extraPersistRequest struct {
	Type  types.CardType `json:"type"`
	Count int            `json:"count"`
}

type enemyRequest struct {
	Type     string         `json:"type"`
	Position types.Position `json:"position"`
}

// CommandDecoder turns a request body into a game command.
type CommandDecoder func(body []byte) (interface{}, error)

// Commands maps the command names of the API to their decoders.
var Commands = map[string]CommandDecoder{
	"play": func(body []byte) (interface{}, error) {
		req := cardRequest{}
		if err := decodeCard(body, &req); err != nil {
			return nil, err
		}
		return &types.PlayCardCommand{CardID: req.CardID}, nil
	},
	"begin-placement": func(body []byte) (interface{}, error) {
		req := cardRequest{}
		if err := decodeCard(body, &req); err != nil {
			return nil, err
		}
		return &types.BeginPlacementCommand{CardID: req.CardID}, nil
	},
	"complete-placement": func(body []byte) (interface{}, error) {
		req := placementRequest{}
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, err
		}
		if req.CardID == uuid.Nil {
			return nil, fmt.Errorf("cardId is required")
		}
		return &types.CompletePlacementCommand{CardID: req.CardID, Position: req.Position}, nil
	},
	"cancel-placement": func(body []byte) (interface{}, error) {
		req := cardRequest{}
		if err := decodeCard(body, &req); err != nil {
			return nil, err
		}
		return &types.CancelPlacementCommand{CardID: req.CardID}, nil
	},
	"collect": func(body []byte) (interface{}, error) {
		req := positionRequest{}
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, err
		}
		return &types.CollectEquipmentCommand{Position: req.Position}, nil
	},
	"move": func(body []byte) (interface{}, error) {
		req := moveRequest{}
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, err
		}
		facing, err := types.ParseFacing(req.Facing)
		if err != nil {
			return nil, err
		}
		return &types.MovePlayerCommand{Position: req.Position, Facing: facing}, nil
	},
	"add-card": func(body []byte) (interface{}, error) {
		req := addCardRequest{}
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, err
		}
		if req.Type == "" {
			return nil, fmt.Errorf("type is required")
		}
		return &types.AddCardCommand{Type: req.Type}, nil
	},
	"add-equipment": func(body []byte) (interface{}, error) {
		req := addEquipmentRequest{}
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, err
		}
		if req.Type == "" {
			return nil, fmt.Errorf("type is required")
		}
		return &types.AddEquipmentCommand{Type: req.Type}, nil
	},
	"extra-persist": func(body []byte) (interface{}, error) {
		req := extraPersistRequest{}
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, err
		}
		if req.Type == "" || req.Count <= 0 {
			return nil, fmt.Errorf("type and a positive count are required")
		}
		return &types.AllowExtraPersistCommand{Type: req.Type, Count: req.Count}, nil
	},
	"spawn-enemy": func(body []byte) (interface{}, error) {
		req := enemyRequest{}
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, err
		}
		if req.Type == "" {
			return nil, fmt.Errorf("type is required")
		}
		return &types.SpawnEnemyCommand{Type: req.Type, Position: req.Position}, nil
	},
	"defeat-enemy": func(body []byte) (interface{}, error) {
		req := positionRequest{}
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, err
		}
		return &types.DefeatEnemyCommand{Position: req.Position}, nil
	},
	"end-turn": func([]byte) (interface{}, error) {
		return &types.EndTurnCommand{}, nil
	},
	"restart": func([]byte) (interface{}, error) {
		return &types.RestartTurnCommand{}, nil
	},
	"population-empty": func([]byte) (interface{}, error) {
		return &types.PopulationEmptyCommand{}, nil
	},
	"end-level": func([]byte) (interface{}, error) {
		return &types.EndLevelCommand{}, nil
	},
}

func decodeCard(body []byte, req *cardRequest) error {
	if err := json.Unmarshal(body, req); err != nil {
		return err
	}
	if req.CardID == uuid.Nil {
		return fmt.Errorf("cardId is required")
	}
	return nil
}

// readBody reads at most limit bytes of the request body.
func readBody(r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("request body exceeds %d bytes", limit)
	}
	return body, nil
}
