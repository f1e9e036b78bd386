package game

import (
	game_constants "Liaptui/constants/game"
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

type PieceKind string

const (
	General  PieceKind = "GENERAL"
	Advisor  PieceKind = "ADVISOR"
	Elephant PieceKind = "ELEPHANT"
	Chariot  PieceKind = "CHARIOT"
	Horse    PieceKind = "HORSE"
	Cannon   PieceKind = "CANNON"
	Soldier  PieceKind = "SOLDIER"
)

type PieceColor string

const (
	Red   PieceColor = "RED"
	Black PieceColor = "BLACK"
)

// Piece is an immutable game piece. Never mutated after the deal.
type Piece struct {
	Kind   PieceKind  `json:"kind"`
	Color  PieceColor `json:"color"`
	Points int        `json:"points"`
}

// piecePoints maps kind -> [red, black] point values
var piecePoints = map[PieceKind][2]int{
	General:  {14, 13},
	Advisor:  {12, 11},
	Elephant: {10, 9},
	Chariot:  {8, 7},
	Horse:    {6, 5},
	Cannon:   {4, 3},
	Soldier:  {2, 1},
}

// pieceCounts maps kind -> copies per color
var pieceCounts = map[PieceKind]int{
	General:  1,
	Advisor:  2,
	Elephant: 2,
	Chariot:  2,
	Horse:    2,
	Cannon:   2,
	Soldier:  5,
}

func NewPiece(kind PieceKind, color PieceColor) Piece {
	points := piecePoints[kind]
	if color == Red {
		return Piece{Kind: kind, Color: color, Points: points[0]}
	}
	return Piece{Kind: kind, Color: color, Points: points[1]}
}

// Code returns the wire representation of a piece, e.g. "GENERAL_RED"
func (p Piece) Code() string {
	return fmt.Sprintf("%s_%s", p.Kind, p.Color)
}

// PieceFromCode parses a wire code back into a piece
func PieceFromCode(code string) (Piece, error) {
	idx := strings.LastIndex(code, "_")
	if idx <= 0 || idx == len(code)-1 {
		return Piece{}, fmt.Errorf("invalid piece code: %q", code)
	}
	kind := PieceKind(code[:idx])
	color := PieceColor(code[idx+1:])
	if _, ok := piecePoints[kind]; !ok {
		return Piece{}, fmt.Errorf("unknown piece kind: %q", code)
	}
	if color != Red && color != Black {
		return Piece{}, fmt.Errorf("unknown piece color: %q", code)
	}
	return NewPiece(kind, color), nil
}

// PiecesFromCodes parses a list of wire codes
func PiecesFromCodes(codes []string) ([]Piece, error) {
	pieces := make([]Piece, 0, len(codes))
	for _, code := range codes {
		p, err := PieceFromCode(code)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, p)
	}
	return pieces, nil
}

// HandCodes returns the wire codes for a hand
func HandCodes(hand []Piece) []string {
	codes := make([]string, len(hand))
	for i, p := range hand {
		codes[i] = p.Code()
	}
	return codes
}

// NewDeck builds the full 32-piece deck
func NewDeck() []Piece {
	deck := make([]Piece, 0, 32)
	for kind, count := range pieceCounts {
		for i := 0; i < count; i++ {
			deck = append(deck, NewPiece(kind, Red))
			deck = append(deck, NewPiece(kind, Black))
		}
	}
	// map iteration order is random, keep the deck canonical before shuffling
	sortHand(deck)
	return deck
}

// DealHands shuffles a fresh deck and deals 8 pieces to each of the 4 seats
func DealHands(rng *rand.Rand) [game_constants.MaxPlayers][]Piece {
	deck := NewDeck()
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	var hands [game_constants.MaxPlayers][]Piece
	for i := 0; i < game_constants.MaxPlayers; i++ {
		hand := make([]Piece, game_constants.PiecesPerHand)
		copy(hand, deck[i*game_constants.PiecesPerHand:(i+1)*game_constants.PiecesPerHand])
		sortHand(hand)
		hands[i] = hand
	}
	return hands
}

// IsWeakHand reports whether a hand qualifies for a redeal offer:
// no piece worth more than the weak-hand threshold.
func IsWeakHand(hand []Piece) bool {
	for _, p := range hand {
		if p.Points > game_constants.WeakHandThreshold {
			return false
		}
	}
	return true
}

// sortHand orders pieces by descending points (code as tie break, for
// deterministic wire output)
func sortHand(hand []Piece) {
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Points != hand[j].Points {
			return hand[i].Points > hand[j].Points
		}
		return hand[i].Code() < hand[j].Code()
	})
}

// removeFromHand removes the given pieces (as a multiset) from a hand.
// Returns false if any piece is not present.
func removeFromHand(hand []Piece, pieces []Piece) ([]Piece, bool) {
	needed := make(map[string]int)
	for _, p := range pieces {
		needed[p.Code()]++
	}
	remaining := make([]Piece, 0, len(hand))
	for _, p := range hand {
		if needed[p.Code()] > 0 {
			needed[p.Code()]--
			continue
		}
		remaining = append(remaining, p)
	}
	for _, n := range needed {
		if n > 0 {
			return nil, false
		}
	}
	return remaining, true
}
