package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckComposition(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, 32)

	counts := make(map[string]int)
	for _, p := range deck {
		counts[p.Code()]++
	}
	assert.Equal(t, 1, counts["GENERAL_RED"])
	assert.Equal(t, 1, counts["GENERAL_BLACK"])
	assert.Equal(t, 2, counts["ADVISOR_RED"])
	assert.Equal(t, 2, counts["CHARIOT_BLACK"])
	assert.Equal(t, 5, counts["SOLDIER_RED"])
	assert.Equal(t, 5, counts["SOLDIER_BLACK"])

	// canonical order regardless of map iteration
	again := NewDeck()
	assert.Equal(t, deck, again)
}

func TestDealHandsIsDeterministicPerSeed(t *testing.T) {
	first := DealHands(rand.New(rand.NewSource(42)))
	second := DealHands(rand.New(rand.NewSource(42)))
	assert.Equal(t, first, second)

	seen := make(map[string]int)
	for _, hand := range first {
		require.Len(t, hand, 8)
		for _, p := range hand {
			seen[p.Code()]++
		}
		// hands come out sorted by descending points
		for i := 1; i < len(hand); i++ {
			assert.GreaterOrEqual(t, hand[i-1].Points, hand[i].Points)
		}
	}
	// the four hands partition the full deck
	assert.Equal(t, 5, seen["SOLDIER_RED"])
	assert.Equal(t, 1, seen["GENERAL_BLACK"])
}

func TestPieceCodeRoundtrip(t *testing.T) {
	p, err := PieceFromCode("GENERAL_RED")
	require.NoError(t, err)
	assert.Equal(t, 14, p.Points)
	assert.Equal(t, "GENERAL_RED", p.Code())

	p, err = PieceFromCode("SOLDIER_BLACK")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Points)

	_, err = PieceFromCode("DRAGON_RED")
	assert.Error(t, err)
	_, err = PieceFromCode("GENERAL_GREEN")
	assert.Error(t, err)
	_, err = PieceFromCode("GENERAL")
	assert.Error(t, err)
}

func TestIsWeakHand(t *testing.T) {
	weak := []Piece{
		NewPiece(Elephant, Black), // 9, right at the threshold
		NewPiece(Chariot, Red),    // 8
		NewPiece(Soldier, Red),
	}
	assert.True(t, IsWeakHand(weak))

	strong := append([]Piece{NewPiece(Elephant, Red)}, weak...) // 10
	assert.False(t, IsWeakHand(strong))
}

func TestRemoveFromHand(t *testing.T) {
	hand := []Piece{
		NewPiece(General, Red),
		NewPiece(Soldier, Red),
		NewPiece(Soldier, Red),
	}

	remaining, ok := removeFromHand(hand, []Piece{NewPiece(Soldier, Red)})
	require.True(t, ok)
	assert.Len(t, remaining, 2)

	// multiset semantics: two copies can be removed, three cannot
	_, ok = removeFromHand(hand, []Piece{NewPiece(Soldier, Red), NewPiece(Soldier, Red)})
	assert.True(t, ok)
	_, ok = removeFromHand(hand, []Piece{
		NewPiece(Soldier, Red), NewPiece(Soldier, Red), NewPiece(Soldier, Red),
	})
	assert.False(t, ok)

	_, ok = removeFromHand(hand, []Piece{NewPiece(General, Black)})
	assert.False(t, ok)
}
