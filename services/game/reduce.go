package game

import (
	game_constants "Liaptui/constants/game"
	redis_models "Liaptui/models/redis"
	"encoding/json"
	"fmt"
)

// applyEvent folds one event into the room state. This reducer is the only
// code that mutates a Room: the live action path and replay both go through
// it, which is what makes replay reproduce live state exactly.
func applyEvent(r *Room, ev *redis_models.Event) error {
	switch ev.Kind {
	case EventPlayerJoined:
		var p PlayerJoinedPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		if p.Seat < 0 || p.Seat >= game_constants.MaxPlayers {
			return fmt.Errorf("bad %s payload: seat %d out of range", ev.Kind, p.Seat)
		}
		r.Seats[p.Seat] = &Seat{
			Name:     p.Player,
			Mode:     SeatHuman,
			Declared: game_constants.UndeclaredValue,
		}

	case EventPlayerLeft:
		var p PlayerLeftPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		idx := r.SeatIndex(p.Player)
		if idx >= 0 {
			if r.Started {
				// mid-game leavers keep their seat, a bot takes over
				r.Seats[idx].Mode = SeatAutomated
			} else {
				r.Seats[idx] = nil
			}
		}

	case EventGameStarted:
		var p GameStartedPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		for i, info := range p.Seats {
			if i >= game_constants.MaxPlayers {
				break
			}
			if r.Seats[i] == nil || r.Seats[i].Name != info.Name {
				r.Seats[i] = &Seat{
					Name:     info.Name,
					Mode:     SeatMode(info.Mode),
					Bot:      SeatMode(info.Mode) == SeatAutomated,
					Declared: game_constants.UndeclaredValue,
				}
			}
		}
		r.HostName = p.Host
		r.Started = true
		if idx := r.SeatIndex(p.Host); idx >= 0 {
			r.Starter = idx
		}

	case EventPhaseChange:
		var p PhaseChangePayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		if p.To == redis_models.PhasePreparation && p.From == redis_models.PhaseScoring {
			// next round: the winner of the last turn leads
			r.Starter = r.LastWinner
			r.Multiplier = 1
			r.Redeals = 0
		}
		r.Phase = p.To
		r.Round = p.Round

	case EventHandDealt:
		var p HandDealtPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		weak := make(map[string]bool, len(p.WeakSeats))
		for _, name := range p.WeakSeats {
			weak[name] = true
		}
		for _, s := range r.Seats {
			if s == nil {
				continue
			}
			hand, err := PiecesFromCodes(p.Hands[s.Name])
			if err != nil {
				return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
			}
			s.Hand = hand
			s.Declared = game_constants.UndeclaredValue
			s.Captured = 0
			s.Weak = weak[s.Name]
			s.RedealDecided = false
		}
		r.Multiplier = p.Multiplier
		r.Redeals = p.Redeals
		r.Round = p.Round
		if idx := r.SeatIndex(p.Starter); idx >= 0 {
			r.Starter = idx
		}
		r.TurnStarter = r.Starter
		r.DeclareIdx = 0
		r.Plays = nil
		r.RequiredCount = 0
		r.RequiredType = ""

	case EventRedealDecision:
		var p RedealDecisionPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		if idx := r.SeatIndex(p.Player); idx >= 0 {
			r.Seats[idx].RedealDecided = true
		}

	case EventDeclared:
		var p DeclaredPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		if idx := r.SeatIndex(p.Player); idx >= 0 {
			r.Seats[idx].Declared = p.Value
		}
		r.DeclareIdx++

	case EventPiecesPlayed:
		var p PiecesPlayedPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		idx := r.SeatIndex(p.Player)
		if idx < 0 {
			return fmt.Errorf("bad %s payload: unknown player %q", ev.Kind, p.Player)
		}
		pieces, err := PiecesFromCodes(p.Pieces)
		if err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		remaining, ok := removeFromHand(r.Seats[idx].Hand, pieces)
		if !ok {
			return fmt.Errorf("bad %s payload: pieces not in hand of %q", ev.Kind, p.Player)
		}
		r.Seats[idx].Hand = remaining
		if len(r.Plays) == 0 {
			r.RequiredCount = len(pieces)
			r.RequiredType = PlayType(p.PlayType)
		}
		r.Plays = append(r.Plays, TurnPlay{
			SeatIdx: idx,
			Pieces:  pieces,
			Type:    PlayType(p.PlayType),
			Value:   p.Value,
			Forfeit: p.Forfeit,
		})

	case EventTurnComplete:
		var p TurnCompletePayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		idx := r.SeatIndex(p.Winner)
		if idx < 0 {
			return fmt.Errorf("bad %s payload: unknown winner %q", ev.Kind, p.Winner)
		}
		r.Seats[idx].Captured += p.Piles
		r.LastWinner = idx
		r.TurnStarter = idx
		r.Plays = nil
		r.RequiredCount = 0
		r.RequiredType = ""

	case EventRoundComplete:
		var p RoundCompletePayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		for name, delta := range p.Deltas {
			if idx := r.SeatIndex(name); idx >= 0 {
				r.Seats[idx].Score += delta
			}
		}

	case EventScoreUpdate:
		var p ScoreUpdatePayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		for name, total := range p.Totals {
			if idx := r.SeatIndex(name); idx >= 0 {
				r.Seats[idx].Score = total
			}
		}

	case EventGameEnded:
		var p GameEndedPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		r.Over = true
		r.Winner = p.Winner

	case EventHostChanged:
		var p HostChangedPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		r.HostName = p.To

	case EventPlayerDisconnected:
		var p PlayerConnPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		if idx := r.SeatIndex(p.Player); idx >= 0 {
			r.Seats[idx].Mode = SeatAutomated
		}

	case EventLobbyClosed:
		r.Over = true

	case EventPlayerReconnected:
		var p PlayerConnPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("bad %s payload: %v", ev.Kind, err)
		}
		if idx := r.SeatIndex(p.Player); idx >= 0 {
			r.Seats[idx].Mode = SeatHuman
		}

	default:
		return fmt.Errorf("unknown event kind %q at sequence %d", ev.Kind, ev.Sequence)
	}

	r.Seq = ev.Sequence
	return nil
}

// ReplayRoom reconstructs a room state by folding an ordered event list.
// Used by the debug/replay interface and by tests; gameplay never needs it
// because the live room is kept in memory.
func ReplayRoom(lobbyID, hostName string, events []*redis_models.Event) (*Room, error) {
	room := NewRoom(lobbyID, hostName)
	var last int64
	for _, ev := range events {
		if ev.Sequence != last+1 {
			return nil, fmt.Errorf("event log gap: expected sequence %d, found %d", last+1, ev.Sequence)
		}
		if err := applyEvent(room, ev); err != nil {
			return nil, err
		}
		last = ev.Sequence
	}
	return room, nil
}
