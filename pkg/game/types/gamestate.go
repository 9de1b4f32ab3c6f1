package types

// Phase is the part of the turn the game is in.
type Phase uint8

const (
	PhaseSetup Phase = iota
	PhasePlayer
	PhaseEnemy
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhasePlayer:
		return "player"
	case PhaseEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// GameView is a read-only copy of the game published after every tick.
type GameView struct {
	// Timestamp is the time at which the view was generated
	Timestamp int64  `json:"timestamp"`
	RunID     string `json:"runId"`
	Turn      int    `json:"turn"`
	Level     int    `json:"level"`
	Phase     Phase  `json:"phase"`
	// Zones maps zone names to the card types they hold, in order
	Zones map[string][]CardView `json:"zones"`
	// Equipment lists per-type counters in registration order
	Equipment     []EquipmentView `json:"equipment"`
	Objects       []PlacedObject  `json:"objects"`
	Player        PlayerStats     `json:"player"`
	Cost          ResourceCost    `json:"cost"`
	HasCheckpoint bool            `json:"hasCheckpoint"`
}

type CardView struct {
	ID        string   `json:"id"`
	Type      CardType `json:"type"`
	Temporary bool     `json:"temporary"`
}

type EquipmentView struct {
	Type        EquipmentType `json:"type"`
	Total       int           `json:"total"`
	Unrefreshed int           `json:"unrefreshed"`
	Refreshed   int           `json:"refreshed"`
	Destroyed   int           `json:"destroyed"`
	InPlay      int           `json:"inPlay"`
}

// Copy returns a deep copy of the view.
func (v *GameView) Copy() *GameView {
	c := *v
	c.Zones = make(map[string][]CardView, len(v.Zones))
	for name, cards := range v.Zones {
		c.Zones[name] = append([]CardView(nil), cards...)
	}
	c.Equipment = append([]EquipmentView(nil), v.Equipment...)
	c.Objects = append([]PlacedObject(nil), v.Objects...)
	return &c
}
