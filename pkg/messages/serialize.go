package messages

import (
	"bytes"
	"fmt"
	"io"

	snapshotfb "github.com/cbodonnell/rewind/flatbuffers/snapshot"
	"github.com/cbodonnell/rewind/pkg/game/cards"
	"github.com/cbodonnell/rewind/pkg/game/checkpoint"
	"github.com/cbodonnell/rewind/pkg/game/types"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"
)

// SerializeSnapshot encodes a snapshot as a zstd compressed flatbuffer.
func SerializeSnapshot(s *checkpoint.Snapshot) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("failed to serialize snapshot: nil snapshot")
	}
	b := SerializeSnapshotFlatbuffer(s)

	compressed := bytes.NewBuffer(nil)
	compWriter, err := zstd.NewWriter(compressed, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	if _, err := compWriter.Write(b); err != nil {
		return nil, fmt.Errorf("failed to compress snapshot: %v", err)
	}
	if err := compWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zstd writer: %v", err)
	}

	return compressed.Bytes(), nil
}

// DeserializeSnapshot decodes a snapshot written by SerializeSnapshot.
func DeserializeSnapshot(data []byte) (*checkpoint.Snapshot, error) {
	compReader, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer compReader.Close()

	b, err := io.ReadAll(compReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read decompressed snapshot: %v", err)
	}

	s, err := DeserializeSnapshotFlatbuffer(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize snapshot: %v", err)
	}

	return s, nil
}

func SerializeSnapshotFlatbuffer(s *checkpoint.Snapshot) []byte {
	builder := flatbuffers.NewBuilder(1024)

	randomState := builder.CreateByteVector(s.RandomState)
	zones := serializeZonesFlatbuffer(builder, s.Cards)

	equipmentOffsets := make([]flatbuffers.UOffsetT, 0, len(s.Equipment))
	for _, record := range s.Equipment {
		equipmentOffsets = append(equipmentOffsets, serializeEquipmentFlatbuffer(builder, record))
	}
	snapshotfb.SnapshotStartEquipmentVector(builder, len(equipmentOffsets))
	for i := len(equipmentOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(equipmentOffsets[i])
	}
	equipment := builder.EndVector(len(equipmentOffsets))

	player := serializePlayerFlatbuffer(builder, s.Player)

	objectOffsets := make([]flatbuffers.UOffsetT, 0, len(s.Objects))
	for _, object := range s.Objects {
		objectOffsets = append(objectOffsets, serializePlacedObjectFlatbuffer(builder, object))
	}
	snapshotfb.SnapshotStartObjectsVector(builder, len(objectOffsets))
	for i := len(objectOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(objectOffsets[i])
	}
	objects := builder.EndVector(len(objectOffsets))

	snapshotfb.SnapshotStart(builder)
	snapshotfb.SnapshotAddTurn(builder, int32(s.Turn))
	snapshotfb.SnapshotAddRandomState(builder, randomState)
	snapshotfb.SnapshotAddZones(builder, zones)
	snapshotfb.SnapshotAddEquipment(builder, equipment)
	snapshotfb.SnapshotAddPlayer(builder, player)
	snapshotfb.SnapshotAddCostCurrent(builder, int32(s.Cost.Current))
	snapshotfb.SnapshotAddCostMax(builder, int32(s.Cost.Max))
	snapshotfb.SnapshotAddObjects(builder, objects)
	snapshot := snapshotfb.SnapshotEnd(builder)
	builder.Finish(snapshot)

	return builder.FinishedBytes()
}

func serializeCardTypesFlatbuffer(builder *flatbuffers.Builder, cardTypes []types.CardType) flatbuffers.UOffsetT {
	offsets := make([]flatbuffers.UOffsetT, 0, len(cardTypes))
	for _, ct := range cardTypes {
		offsets = append(offsets, builder.CreateString(string(ct)))
	}
	builder.StartVector(4, len(offsets), 4)
	for i := len(offsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(offsets[i])
	}
	return builder.EndVector(len(offsets))
}

func serializeZonesFlatbuffer(builder *flatbuffers.Builder, lists cards.ZoneLists) flatbuffers.UOffsetT {
	deck := serializeCardTypesFlatbuffer(builder, lists.Deck)
	discard := serializeCardTypesFlatbuffer(builder, lists.Discard)
	hand := serializeCardTypesFlatbuffer(builder, lists.Hand)
	consumed := serializeCardTypesFlatbuffer(builder, lists.Consumed)
	temporary := serializeCardTypesFlatbuffer(builder, lists.Temporary)

	snapshotfb.ZonesStart(builder)
	snapshotfb.ZonesAddDeck(builder, deck)
	snapshotfb.ZonesAddDiscard(builder, discard)
	snapshotfb.ZonesAddHand(builder, hand)
	snapshotfb.ZonesAddConsumed(builder, consumed)
	snapshotfb.ZonesAddTemporary(builder, temporary)
	return snapshotfb.ZonesEnd(builder)
}

func serializeEquipmentFlatbuffer(builder *flatbuffers.Builder, record checkpoint.EquipmentRecord) flatbuffers.UOffsetT {
	equipmentType := builder.CreateString(string(record.Type))

	snapshotfb.EquipmentStart(builder)
	snapshotfb.EquipmentAddType(builder, equipmentType)
	snapshotfb.EquipmentAddConsumable(builder, record.Consumable)
	snapshotfb.EquipmentAddSingleUse(builder, record.SingleUse)
	snapshotfb.EquipmentAddTotal(builder, int32(record.Total))
	snapshotfb.EquipmentAddRefreshed(builder, int32(record.Refreshed))
	snapshotfb.EquipmentAddDestroyed(builder, int32(record.Destroyed))
	return snapshotfb.EquipmentEnd(builder)
}

func serializePlayerFlatbuffer(builder *flatbuffers.Builder, stats types.PlayerStats) flatbuffers.UOffsetT {
	snapshotfb.PlayerStart(builder)
	snapshotfb.PlayerAddMaxHitpoints(builder, int32(stats.MaxHitpoints))
	snapshotfb.PlayerAddHitpoints(builder, int32(stats.Hitpoints))
	snapshotfb.PlayerAddArmor(builder, int32(stats.Armor))
	snapshotfb.PlayerAddAttack(builder, int32(stats.Attack))
	snapshotfb.PlayerAddPosition(builder, snapshotfb.CreatePosition(builder, int32(stats.Position.X), int32(stats.Position.Y)))
	snapshotfb.PlayerAddFacing(builder, byte(stats.Facing))
	return snapshotfb.PlayerEnd(builder)
}

func serializePlacedObjectFlatbuffer(builder *flatbuffers.Builder, object types.PlacedObject) flatbuffers.UOffsetT {
	kind := builder.CreateString(string(object.Kind))
	objectType := builder.CreateString(object.Type)

	snapshotfb.PlacedObjectStart(builder)
	snapshotfb.PlacedObjectAddKind(builder, kind)
	snapshotfb.PlacedObjectAddType(builder, objectType)
	snapshotfb.PlacedObjectAddPosition(builder, snapshotfb.CreatePosition(builder, int32(object.Position.X), int32(object.Position.Y)))
	return snapshotfb.PlacedObjectEnd(builder)
}

// DeserializeSnapshotFlatbuffer decodes an uncompressed snapshot. The
// flatbuffer accessors panic on malformed input, which is reported as
// an error.
func DeserializeSnapshotFlatbuffer(b []byte) (s *checkpoint.Snapshot, err error) {
	if len(b) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("snapshot too short: %d bytes", len(b))
	}
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("malformed snapshot: %v", r)
		}
	}()

	fb := snapshotfb.GetRootAsSnapshot(b, 0)
	s = &checkpoint.Snapshot{
		Turn: int(fb.Turn()),
		Cost: types.ResourceCost{
			Current: int(fb.CostCurrent()),
			Max:     int(fb.CostMax()),
		},
	}
	if state := fb.RandomStateBytes(); state != nil {
		s.RandomState = append([]byte(nil), state...)
	}

	if zones := fb.Zones(nil); zones != nil {
		s.Cards = deserializeZonesFlatbuffer(zones)
	}

	record := new(snapshotfb.Equipment)
	for i := 0; i < fb.EquipmentLength(); i++ {
		if !fb.Equipment(record, i) {
			continue
		}
		s.Equipment = append(s.Equipment, checkpoint.EquipmentRecord{
			Type:       types.EquipmentType(record.Type()),
			Consumable: record.Consumable(),
			SingleUse:  record.SingleUse(),
			Total:      int(record.Total()),
			Refreshed:  int(record.Refreshed()),
			Destroyed:  int(record.Destroyed()),
		})
	}

	if player := fb.Player(nil); player != nil {
		s.Player = types.PlayerStats{
			MaxHitpoints: int(player.MaxHitpoints()),
			Hitpoints:    int(player.Hitpoints()),
			Armor:        int(player.Armor()),
			Attack:       int(player.Attack()),
			Facing:       types.Facing(player.Facing()),
		}
		if pos := player.Position(nil); pos != nil {
			s.Player.Position = types.Position{X: int(pos.X()), Y: int(pos.Y())}
		}
	}

	object := new(snapshotfb.PlacedObject)
	for i := 0; i < fb.ObjectsLength(); i++ {
		if !fb.Objects(object, i) {
			continue
		}
		placed := types.PlacedObject{
			Kind: types.ObjectKind(object.Kind()),
			Type: string(object.Type()),
		}
		if pos := object.Position(nil); pos != nil {
			placed.Position = types.Position{X: int(pos.X()), Y: int(pos.Y())}
		}
		s.Objects = append(s.Objects, placed)
	}

	return s, nil
}

func deserializeZonesFlatbuffer(zones *snapshotfb.Zones) cards.ZoneLists {
	read := func(length int, at func(int) []byte) []types.CardType {
		out := make([]types.CardType, 0, length)
		for i := 0; i < length; i++ {
			out = append(out, types.CardType(at(i)))
		}
		return out
	}
	return cards.ZoneLists{
		Deck:      read(zones.DeckLength(), zones.Deck),
		Discard:   read(zones.DiscardLength(), zones.Discard),
		Hand:      read(zones.HandLength(), zones.Hand),
		Consumed:  read(zones.ConsumedLength(), zones.Consumed),
		Temporary: read(zones.TemporaryLength(), zones.Temporary),
	}
}
