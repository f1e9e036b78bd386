package game

// PlayType classifies a set of pieces played together in one turn.
type PlayType string

const (
	PlayInvalid        PlayType = "INVALID"
	PlaySingle         PlayType = "SINGLE"
	PlayPair           PlayType = "PAIR"
	PlayThreeOfAKind   PlayType = "THREE_OF_A_KIND"
	PlayStraight       PlayType = "STRAIGHT"
	PlayExtStraight    PlayType = "EXTENDED_STRAIGHT"
	PlayFourOfAKind    PlayType = "FOUR_OF_A_KIND"
	PlayFiveOfAKind    PlayType = "FIVE_OF_A_KIND"
	PlayDoubleStraight PlayType = "DOUBLE_STRAIGHT"
)

// EvaluatePlay classifies a set of pieces and returns its total point value.
// Returns (PlayInvalid, 0) when the pieces form no legal combination.
func EvaluatePlay(pieces []Piece) (PlayType, int) {
	if len(pieces) == 0 {
		return PlayInvalid, 0
	}

	total := 0
	sameColor := true
	allSoldiers := true
	kinds := make(map[PieceKind]int)
	for _, p := range pieces {
		total += p.Points
		if p.Color != pieces[0].Color {
			sameColor = false
		}
		if p.Kind != Soldier {
			allSoldiers = false
		}
		kinds[p.Kind]++
	}

	switch len(pieces) {
	case 1:
		return PlaySingle, total
	case 2:
		if sameColor && pieces[0].Kind == pieces[1].Kind {
			return PlayPair, total
		}
	case 3:
		if sameColor && allSoldiers {
			return PlayThreeOfAKind, total
		}
		if sameColor && kinds[General] == 1 && kinds[Advisor] == 1 && kinds[Elephant] == 1 {
			return PlayStraight, total
		}
	case 4:
		if sameColor && allSoldiers {
			return PlayFourOfAKind, total
		}
		if sameColor && kinds[General] == 1 && kinds[Advisor] == 2 && kinds[Elephant] == 1 {
			return PlayExtStraight, total
		}
	case 5:
		if sameColor && allSoldiers {
			return PlayFiveOfAKind, total
		}
	case 6:
		if sameColor && kinds[Advisor] == 2 && kinds[Elephant] == 2 && kinds[Chariot] == 2 {
			return PlayDoubleStraight, total
		}
	}
	return PlayInvalid, 0
}

// PieceTotal sums the point values of a set of pieces
func PieceTotal(pieces []Piece) int {
	total := 0
	for _, p := range pieces {
		total += p.Points
	}
	return total
}

// LowestPieces picks the `count` lowest-value pieces from a hand
// (hands are kept sorted by descending points).
func LowestPieces(hand []Piece, count int) []Piece {
	if count <= 0 || count > len(hand) {
		return nil
	}
	pieces := make([]Piece, count)
	copy(pieces, hand[len(hand)-count:])
	return pieces
}

// BestFollowPlay searches the hand for the cheapest combination of the
// required count and type that beats `beat`. Returns nil if none exists.
// Hands hold at most 8 pieces, so brute force over subsets is fine.
func BestFollowPlay(hand []Piece, count int, required PlayType, beat int) []Piece {
	var best []Piece
	bestValue := 0
	forEachSubset(hand, count, func(subset []Piece) {
		ptype, value := EvaluatePlay(subset)
		if ptype != required || value <= beat {
			return
		}
		if best == nil || value < bestValue {
			best = append([]Piece(nil), subset...)
			bestValue = value
		}
	})
	return best
}

// forEachSubset visits every size-k subset of the hand
func forEachSubset(hand []Piece, k int, visit func([]Piece)) {
	if k <= 0 || k > len(hand) {
		return
	}
	subset := make([]Piece, 0, k)
	var walk func(start int)
	walk = func(start int) {
		if len(subset) == k {
			visit(subset)
			return
		}
		for i := start; i <= len(hand)-(k-len(subset)); i++ {
			subset = append(subset, hand[i])
			walk(i + 1)
			subset = subset[:len(subset)-1]
		}
	}
	walk(0)
}
