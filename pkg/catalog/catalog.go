// Package catalog holds the static per-type configuration for cards and
// equipment. The catalog is built once at startup, either from a YAML
// file or by explicit registration, and is read-only afterwards.
package catalog

import (
	"fmt"
	"os"

	"github.com/cbodonnell/rewind/pkg/game/types"
	"gopkg.in/yaml.v3"
)

type CardConfig struct {
	Type       types.CardType `yaml:"type"`
	Consumable bool           `yaml:"consumable"`
	// Cost is deducted from the player's budget when the card is played
	Cost int `yaml:"cost"`
	// Placeable cards go through the pending placement flow before they are played
	Placeable bool     `yaml:"placeable"`
	Tags      []string `yaml:"tags"`
}

type EquipmentConfig struct {
	Type       types.EquipmentType `yaml:"type"`
	Consumable bool                `yaml:"consumable"`
	SingleUse  bool                `yaml:"singleUse"`
	Tags       []string            `yaml:"tags"`
}

// Loadout is the starting state of a run.
type Loadout struct {
	Cards     []types.CardType      `yaml:"cards"`
	Equipment []types.EquipmentType `yaml:"equipment"`
	Player    PlayerConfig          `yaml:"player"`
	Cost      int                   `yaml:"cost"`
}

type PlayerConfig struct {
	Hitpoints int `yaml:"hitpoints"`
	Armor     int `yaml:"armor"`
	Attack    int `yaml:"attack"`
	X         int `yaml:"x"`
	Y         int `yaml:"y"`
}

// Stats converts the player configuration into starting player stats.
func (p PlayerConfig) Stats() types.PlayerStats {
	return types.PlayerStats{
		MaxHitpoints: p.Hitpoints,
		Hitpoints:    p.Hitpoints,
		Armor:        p.Armor,
		Attack:       p.Attack,
		Position:     types.Position{X: p.X, Y: p.Y},
		Facing:       types.FacingSouth,
	}
}

type Catalog struct {
	cards          map[types.CardType]CardConfig
	equipment      map[types.EquipmentType]EquipmentConfig
	cardOrder      []types.CardType
	equipmentOrder []types.EquipmentType
	Loadout        Loadout
}

func New() *Catalog {
	return &Catalog{
		cards:     make(map[types.CardType]CardConfig),
		equipment: make(map[types.EquipmentType]EquipmentConfig),
	}
}

type file struct {
	Cards     []CardConfig      `yaml:"cards"`
	Equipment []EquipmentConfig `yaml:"equipment"`
	Loadout   Loadout           `yaml:"loadout"`
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %v", path, err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML. Loadout entries must reference
// registered types.
func Parse(data []byte) (*Catalog, error) {
	f := file{}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %v", err)
	}

	c := New()
	for _, cfg := range f.Cards {
		if err := c.RegisterCard(cfg); err != nil {
			return nil, err
		}
	}
	for _, cfg := range f.Equipment {
		if err := c.RegisterEquipment(cfg); err != nil {
			return nil, err
		}
	}
	for _, t := range f.Loadout.Cards {
		if _, ok := c.cards[t]; !ok {
			return nil, fmt.Errorf("loadout references unknown card type %q", t)
		}
	}
	for _, t := range f.Loadout.Equipment {
		if _, ok := c.equipment[t]; !ok {
			return nil, fmt.Errorf("loadout references unknown equipment type %q", t)
		}
	}
	c.Loadout = f.Loadout

	return c, nil
}

func (c *Catalog) RegisterCard(cfg CardConfig) error {
	if cfg.Type == "" {
		return fmt.Errorf("card type must not be empty")
	}
	if cfg.Cost < 0 {
		return fmt.Errorf("card type %q has negative cost %d", cfg.Type, cfg.Cost)
	}
	if _, ok := c.cards[cfg.Type]; ok {
		return fmt.Errorf("card type %q already registered", cfg.Type)
	}
	c.cards[cfg.Type] = cfg
	c.cardOrder = append(c.cardOrder, cfg.Type)
	return nil
}

func (c *Catalog) RegisterEquipment(cfg EquipmentConfig) error {
	if cfg.Type == "" {
		return fmt.Errorf("equipment type must not be empty")
	}
	if _, ok := c.equipment[cfg.Type]; ok {
		return fmt.Errorf("equipment type %q already registered", cfg.Type)
	}
	c.equipment[cfg.Type] = cfg
	c.equipmentOrder = append(c.equipmentOrder, cfg.Type)
	return nil
}

func (c *Catalog) Card(t types.CardType) (CardConfig, bool) {
	cfg, ok := c.cards[t]
	return cfg, ok
}

func (c *Catalog) Equipment(t types.EquipmentType) (EquipmentConfig, bool) {
	cfg, ok := c.equipment[t]
	return cfg, ok
}

// CardTypes returns the registered card types in registration order.
func (c *Catalog) CardTypes() []types.CardType {
	return append([]types.CardType(nil), c.cardOrder...)
}

// EquipmentTypes returns the registered equipment types in registration order.
func (c *Catalog) EquipmentTypes() []types.EquipmentType {
	return append([]types.EquipmentType(nil), c.equipmentOrder...)
}
