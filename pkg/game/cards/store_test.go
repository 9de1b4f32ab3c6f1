package cards

import (
	"testing"

	"github.com/cbodonnell/rewind/pkg/catalog"
	"github.com/cbodonnell/rewind/pkg/game/types"
	"github.com/cbodonnell/rewind/pkg/notify"
	"github.com/cbodonnell/rewind/pkg/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *notify.Notifier) {
	t.Helper()
	c := catalog.New()
	require.NoError(t, c.RegisterCard(catalog.CardConfig{Type: "A"}))
	require.NoError(t, c.RegisterCard(catalog.CardConfig{Type: "B"}))
	require.NoError(t, c.RegisterCard(catalog.CardConfig{Type: "C", Consumable: true}))
	n := notify.New()
	return NewStore(NewStoreOptions{
		Random:   rng.New(1),
		Catalog:  c,
		Notifier: n,
	}), n
}

func zoneTypes(s *Store, zone Zone) []types.CardType {
	out := []types.CardType{}
	for _, card := range s.Cards(zone) {
		out = append(out, card.Type)
	}
	return out
}

func TestStore_AddCard(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddCard("A")
	c := s.AddCard("C")

	zone, ok := s.GetZone(a)
	require.True(t, ok)
	assert.Equal(t, ZoneDeck, zone)
	assert.False(t, a.Consumable)
	assert.True(t, c.Consumable)
	assert.Equal(t, []types.CardType{"A", "C"}, zoneTypes(s, ZoneDeck))
	assert.NoError(t, s.CheckPartition())
}

func TestStore_RemoveCard(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(s *Store)
		remove   types.CardType
		want     bool
		wantDeck []types.CardType
		wantHand []types.CardType
	}{
		{
			name: "removes from deck before hand",
			setup: func(s *Store) {
				s.MoveToZone(s.AddCard("A"), ZoneHand)
				s.AddCard("A")
			},
			remove:   "A",
			want:     true,
			wantDeck: []types.CardType{},
			wantHand: []types.CardType{"A"},
		},
		{
			name: "falls back to hand",
			setup: func(s *Store) {
				s.MoveToZone(s.AddCard("A"), ZoneHand)
				s.AddCard("B")
			},
			remove:   "A",
			want:     true,
			wantDeck: []types.CardType{"B"},
			wantHand: []types.CardType{},
		},
		{
			name: "absent type is a silent failure",
			setup: func(s *Store) {
				s.AddCard("B")
			},
			remove:   "A",
			want:     false,
			wantDeck: []types.CardType{"B"},
			wantHand: []types.CardType{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			tt.setup(s)
			assert.Equal(t, tt.want, s.RemoveCard(tt.remove))
			assert.Equal(t, tt.wantDeck, zoneTypes(s, ZoneDeck))
			assert.Equal(t, tt.wantHand, zoneTypes(s, ZoneHand))
			assert.NoError(t, s.CheckPartition())
		})
	}
}

func TestStore_RemoveCardDropsTemporaryReference(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddCard("A")
	s.MoveToZone(a, ZoneTemporary)

	assert.True(t, s.RemoveCard("A"))
	assert.Equal(t, 0, s.Count(ZoneTemporary))
	_, ok := s.GetZone(a)
	assert.False(t, ok)
}

func TestStore_MoveToZone(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddCard("A")

	assert.False(t, s.MoveToZone(a, ZoneDeck), "moving into the current zone is a no-op")
	assert.True(t, s.MoveToZone(a, ZoneHand))
	zone, _ := s.GetZone(a)
	assert.Equal(t, ZoneHand, zone)
	assert.Equal(t, 0, s.Count(ZoneDeck))

	assert.True(t, s.MoveToZone(a, ZoneTemporary))
	zone, _ = s.GetZone(a)
	assert.Equal(t, ZoneHand, zone, "temporary does not change the physical zone")
	assert.True(t, s.IsTemporary(a))
	assert.False(t, s.MoveToZone(a, ZoneTemporary))

	assert.True(t, s.MoveToZone(a, ZoneDiscard))
	assert.False(t, s.IsTemporary(a), "a physical move settles the card")
	assert.Equal(t, 0, s.Count(ZoneTemporary))
	assert.NoError(t, s.CheckPartition())
}

func TestStore_MoveToZoneForeignCard(t *testing.T) {
	s, _ := newTestStore(t)
	other, _ := newTestStore(t)
	foreign := other.AddCard("A")

	assert.False(t, s.MoveToZone(foreign, ZoneHand))
	assert.False(t, s.MoveToZone(nil, ZoneHand))
	_, ok := s.GetZone(foreign)
	assert.False(t, ok)
}

func TestStore_ReleaseTemporary(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddCard("A")
	s.MoveToZone(a, ZoneHand)
	s.MoveToZone(a, ZoneTemporary)

	assert.True(t, s.ReleaseTemporary(a))
	assert.False(t, s.IsTemporary(a))
	zone, _ := s.GetZone(a)
	assert.Equal(t, ZoneHand, zone)
	assert.False(t, s.ReleaseTemporary(a))
}

func TestStore_drawDiscardShuffle(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddCard("A")
	s.AddCard("A")
	s.AddCard("B")

	drawn := s.DrawCards(2)
	require.Len(t, drawn, 2)
	assert.Equal(t, []types.CardType{"A", "A"}, zoneTypes(s, ZoneHand))
	assert.Equal(t, []types.CardType{"B"}, zoneTypes(s, ZoneDeck))

	s.DiscardHand()
	assert.Equal(t, []types.CardType{"A", "A"}, zoneTypes(s, ZoneDiscard))
	assert.Empty(t, zoneTypes(s, ZoneHand))

	s.ShuffleDiscardIntoDeck()
	assert.ElementsMatch(t, []types.CardType{"B", "A", "A"}, zoneTypes(s, ZoneDeck))
	assert.Empty(t, zoneTypes(s, ZoneDiscard))
	assert.NoError(t, s.CheckPartition())
}

func TestStore_DrawCardsStopsWhenDeckEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddCard("A")
	drawn := s.DrawCards(3)
	assert.Len(t, drawn, 1)
	assert.Equal(t, 1, s.Count(ZoneHand))
}

func TestStore_ShuffleDeckDeterministic(t *testing.T) {
	build := func() *Store {
		s := NewStore(NewStoreOptions{Random: rng.New(11)})
		for _, ct := range []types.CardType{"A", "B", "C", "D", "E", "F", "G"} {
			s.AddCard(ct)
		}
		s.ShuffleDeck()
		return s
	}
	assert.Equal(t, zoneTypes(build(), ZoneDeck), zoneTypes(build(), ZoneDeck))
}

func TestStore_ClearCards(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddCard("A")
	s.MoveToZone(s.AddCard("B"), ZoneHand)
	s.MoveToZone(a, ZoneTemporary)

	s.ClearCards()
	for _, zone := range []Zone{ZoneDeck, ZoneDiscard, ZoneHand, ZoneConsumed, ZoneTemporary} {
		assert.Equal(t, 0, s.Count(zone), zone.String())
	}
	assert.False(t, s.MoveToZone(a, ZoneHand))
}

func TestStore_CleanupToBaseline(t *testing.T) {
	tests := []struct {
		name      string
		baseline  int
		added     int
		quota     int
		wantCount int
	}{
		{name: "trims back to baseline", baseline: 2, added: 3, quota: 0, wantCount: 2},
		{name: "quota keeps rewards", baseline: 2, added: 3, quota: 1, wantCount: 3},
		{name: "quota larger than gain", baseline: 1, added: 1, quota: 5, wantCount: 2},
		{name: "new type without baseline", baseline: 0, added: 2, quota: 1, wantCount: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			for i := 0; i < tt.baseline; i++ {
				s.AddCard("A")
			}
			s.AddCard("B")
			s.CaptureLevelBaseline()

			for i := 0; i < tt.added; i++ {
				s.AddCard("A")
			}
			s.AllowExtraPersist("A", tt.quota)
			s.CleanupToBaseline()

			want := tt.baseline + tt.quota
			if current := tt.baseline + tt.added; current < want {
				want = current
			}
			assert.Equal(t, tt.wantCount, want)
			assert.Equal(t, tt.wantCount, s.CountOfType("A"))
			assert.Equal(t, 1, s.CountOfType("B"))
			assert.NoError(t, s.CheckPartition())
		})
	}
}

func TestStore_CleanupToBaselineDissolvesTemporary(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddCard("A")
	s.MoveToZone(a, ZoneHand)
	s.CaptureLevelBaseline()
	s.MoveToZone(a, ZoneTemporary)

	s.CleanupToBaseline()
	assert.Equal(t, 0, s.Count(ZoneTemporary))
	zone, ok := s.GetZone(a)
	require.True(t, ok)
	assert.Equal(t, ZoneHand, zone)
}

func TestStore_CleanupWithoutBaseline(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddCard("A")
	s.CleanupToBaseline()
	assert.Equal(t, 1, s.CountOfType("A"))
}

func TestStore_CleanupToBaselineResetsQuota(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddCard("A")
	s.CaptureLevelBaseline()

	s.AddCard("A")
	s.AllowExtraPersist("A", 1)
	s.CleanupToBaseline()
	assert.Equal(t, 2, s.CountOfType("A"), "quota kept the extra copy")
	_, quota := s.Baseline("A")
	assert.Equal(t, 0, quota)

	s.AddCard("A")
	s.CleanupToBaseline()
	assert.Equal(t, 1, s.CountOfType("A"), "spent quota no longer protects copies")
}

func TestStore_CaptureLevelBaselineResetsQuota(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddCard("A")
	s.CaptureLevelBaseline()
	s.AllowExtraPersist("A", 2)
	s.AllowExtraPersist("A", -1)

	baseline, quota := s.Baseline("A")
	assert.Equal(t, 1, baseline)
	assert.Equal(t, 2, quota)

	s.CaptureLevelBaseline()
	_, quota = s.Baseline("A")
	assert.Equal(t, 0, quota)
}

func TestStore_RestoreFromSnapshot(t *testing.T) {
	s, n := newTestStore(t)
	for _, ct := range []types.CardType{"A", "B", "A", "C", "B", "A"} {
		s.AddCard(ct)
	}
	s.ShuffleDeck()
	s.DrawCards(3)
	hand := s.Cards(ZoneHand)
	s.MoveToZone(hand[0], ZoneDiscard)
	s.MoveToZone(hand[1], ZoneTemporary)
	s.MoveToZone(s.Cards(ZoneDeck)[0], ZoneConsumed)

	lists := s.Lists()

	// scramble the state before restoring
	s.DiscardHand()
	s.AddCard("C")
	s.RemoveCard("A")
	require.NotZero(t, n.Pending())
	n.Discard()

	s.RestoreFromSnapshot(lists, true)
	assert.Equal(t, lists, s.Lists())
	assert.Equal(t, 0, n.Pending(), "restore was suppressed")
	assert.NoError(t, s.CheckPartition())

	temporary := s.Cards(ZoneTemporary)
	require.Len(t, temporary, 1)
	zone, _ := s.GetZone(temporary[0])
	assert.Equal(t, ZoneHand, zone, "temporary prefers a hand card")
}

func TestStore_RestoreFromSnapshotTemporaryFallsBackToDeck(t *testing.T) {
	s, n := newTestStore(t)
	lists := ZoneLists{
		Deck:      []types.CardType{"A", "B"},
		Hand:      []types.CardType{"B"},
		Temporary: []types.CardType{"A"},
	}

	s.RestoreFromSnapshot(lists, false)
	assert.Greater(t, n.Pending(), 0)

	temporary := s.Cards(ZoneTemporary)
	require.Len(t, temporary, 1)
	zone, _ := s.GetZone(temporary[0])
	assert.Equal(t, ZoneDeck, zone)
	assert.Equal(t, []types.CardType{"A", "B"}, zoneTypes(s, ZoneDeck))
	assert.Equal(t, []types.CardType{"B"}, zoneTypes(s, ZoneHand))
}

func TestStore_notifications(t *testing.T) {
	s, n := newTestStore(t)
	var got []notify.EventType
	n.RegisterHandler(func(event notify.Event) {
		got = append(got, event.Type)
	})

	a := s.AddCard("A")
	s.MoveToZone(a, ZoneHand)
	s.RemoveCard("A")
	assert.Empty(t, got, "delivery waits for a flush")

	n.Flush()
	assert.Equal(t, []notify.EventType{notify.EventCardAdded, notify.EventCardMoved, notify.EventCardRemoved}, got)
}

func TestStore_HasOfType(t *testing.T) {
	s, _ := newTestStore(t)
	assert.False(t, s.HasOfType("A"))

	a := s.AddCard("A")
	assert.True(t, s.HasOfType("A"))
	assert.False(t, s.HasOfType("B"))

	s.MoveToZone(a, ZoneConsumed)
	assert.True(t, s.HasOfType("A"), "consumed cards are still owned")

	s.RemoveCard("A")
	assert.False(t, s.HasOfType("A"))
}
