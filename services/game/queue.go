package game

import (
	game_constants "Liaptui/constants/game"
	redis_models "Liaptui/models/redis"
	redis_services "Liaptui/services/redis"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"
)

// maxChainedTransitions bounds the phase transition loop after one action.
// The longest real chain is scoring -> game_end with its emitted score
// events; anything longer means a handler bug.
const maxChainedTransitions = 8

// Result is what a submitter gets back for an accepted action.
type Result struct {
	Sequence    int64        `json:"sequence"` // sequence of the last event the action produced
	Snapshot    *Snapshot    `json:"snapshot,omitempty"`
	Queued      []QueuedItem `json:"queued,omitempty"`
	LobbyClosed bool         `json:"lobby_closed,omitempty"`
}

type submission struct {
	action *Action
	reply  chan submissionReply
}

type submissionReply struct {
	result *Result
	err    error
}

// GameSession owns one room. All mutations funnel through a single
// goroutine reading from the submission channel, so at most one action is
// ever in flight and no room state needs locking.
type GameSession struct {
	room        *Room
	rc          *redis_services.RedisClient
	broadcaster *Broadcaster
	bots        *BotTrigger
	rng         *rand.Rand

	// OnGameEnd runs once when the game_ended event is applied, before
	// the session stops accepting actions. Used to sync final results.
	OnGameEnd func(r *Room)

	// OnClosed runs when the lobby empties out before the game started.
	OnClosed func(lobbyID string)

	submissions chan submission
	quit        chan struct{}
	createdAt   time.Time

	// afterReply defers end-of-life hooks until the submitter has its
	// reply, so a hook that closes the session cannot race the response.
	// Only the session goroutine touches it.
	afterReply func()
}

// NewGameSession creates and starts the session goroutine for a fresh room.
func NewGameSession(lobbyID, hostName string, rc *redis_services.RedisClient, emitter Emitter, bots *BotTrigger) *GameSession {
	gs := &GameSession{
		room:        NewRoom(lobbyID, hostName),
		rc:          rc,
		broadcaster: NewBroadcaster(emitter),
		bots:        bots,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		submissions: make(chan submission, 16),
		quit:        make(chan struct{}),
		createdAt:   time.Now().UTC(),
	}
	go gs.run()
	return gs
}

// Submit hands an action to the session goroutine and blocks until it has
// been fully processed (events persisted, state applied, notifications
// fanned out) or rejected.
func (gs *GameSession) Submit(a *Action) (*Result, error) {
	sub := submission{action: a, reply: make(chan submissionReply, 1)}
	select {
	case gs.submissions <- sub:
	case <-gs.quit:
		return nil, errWrongPhase("lobby %s is closed", gs.room.ID)
	}
	select {
	case reply := <-sub.reply:
		return reply.result, reply.err
	case <-gs.quit:
		return nil, errWrongPhase("lobby %s is closed", gs.room.ID)
	}
}

// Close stops the session goroutine. Pending submissions are rejected.
func (gs *GameSession) Close() {
	select {
	case <-gs.quit:
	default:
		close(gs.quit)
	}
	gs.bots.CancelRoom(gs.room.ID)
}

// LobbyID returns the room identifier.
func (gs *GameSession) LobbyID() string { return gs.room.ID }

func (gs *GameSession) run() {
	for {
		select {
		case sub := <-gs.submissions:
			result, err := gs.process(sub.action)
			sub.reply <- submissionReply{result: result, err: err}
			if gs.afterReply != nil {
				f := gs.afterReply
				gs.afterReply = nil
				f()
			}
		case <-gs.quit:
			return
		}
	}
}

// process validates and applies one action against a staged clone of the
// room, persists the produced event batch atomically, and only then makes
// the batch visible on the live room. A rejected action or a failed append
// leaves the room exactly as it was.
func (gs *GameSession) process(a *Action) (*Result, error) {
	if gs.room.Over {
		return nil, errWrongPhase("lobby %s is closed", gs.room.ID)
	}
	st := &eventStage{room: gs.room.Clone(), rng: gs.rng}

	var reconnecting string
	var err error
	switch a.Kind {
	case ActionReady:
		err = gs.stageJoin(st, a)
	case ActionStartGame:
		err = gs.stageStart(st, a)
	case ActionLeave:
		err = gs.stageLeave(st, a)
	case ActionDisconnect:
		err = gs.stageDisconnect(st, a)
	case ActionReconnect:
		reconnecting = a.PlayerID
		err = gs.stageReconnect(st, a)
	default:
		err = gs.stagePlayerAction(st, a)
	}
	if err != nil {
		return nil, err
	}

	if err := gs.runTransitions(st); err != nil {
		return nil, err
	}

	if len(st.events) == 0 {
		// nothing changed; still report the committed sequence
		result := &Result{Sequence: gs.room.Seq}
		if reconnecting != "" {
			// already-connected reconnect: just hand over the catch-up state
			result.Snapshot = BuildSnapshot(gs.room, reconnecting)
			result.Queued = gs.broadcaster.Drain(reconnecting)
		}
		return result, nil
	}

	// fail closed: persist the whole batch before any of it becomes visible
	if err := gs.rc.AppendEvents(st.events); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	return gs.afterApply(st, a, reconnecting)
}

// stagePlayerAction routes a gameplay action to the current phase handler.
func (gs *GameSession) stagePlayerAction(st *eventStage, a *Action) error {
	r := st.room
	if !r.Started {
		return errWrongPhase("the game has not started yet")
	}
	seatIdx := r.SeatIndex(a.PlayerID)
	if seatIdx < 0 {
		return errPlayerNotFound(a.PlayerID)
	}
	handler := handlerFor(r.Phase)
	if handler == nil {
		return errWrongPhase("no actions accepted in phase %s", r.Phase)
	}
	return handler.handleAction(st, seatIdx, a)
}

func (gs *GameSession) stageJoin(st *eventStage, a *Action) error {
	r := st.room
	if r.Started {
		return errWrongPhase("lobby %s has already started", r.ID)
	}
	if r.SeatIndex(a.PlayerID) >= 0 {
		return errRuleViolation("%s already holds a seat", a.PlayerID)
	}
	for i := 0; i < game_constants.MaxPlayers; i++ {
		if r.Seats[i] == nil {
			return st.emit(EventPlayerJoined, PlayerJoinedPayload{
				Player: a.PlayerID,
				Seat:   i,
			}, fmt.Sprintf("%s joined lobby %s", a.PlayerID, r.ID), a.PlayerID)
		}
	}
	return errRuleViolation("lobby %s is full", r.ID)
}

func (gs *GameSession) stageStart(st *eventStage, a *Action) error {
	r := st.room
	if r.Started {
		return errWrongPhase("lobby %s has already started", r.ID)
	}
	if a.PlayerID != r.HostName {
		return errRuleViolation("only the host can start the game")
	}
	if r.PlayerCount() == 0 {
		return errRuleViolation("lobby %s has no seated players", r.ID)
	}

	payload := GameStartedPayload{Host: r.HostName}
	botNum := 0
	for i := 0; i < game_constants.MaxPlayers; i++ {
		if s := r.Seats[i]; s != nil {
			payload.Seats = append(payload.Seats, SeatInfo{Name: s.Name, Mode: string(s.Mode)})
			continue
		}
		botNum++
		payload.Seats = append(payload.Seats, SeatInfo{
			Name: fmt.Sprintf("LiapBot-%d", botNum),
			Mode: string(SeatAutomated),
		})
	}

	err := st.emit(EventGameStarted, payload,
		fmt.Sprintf("game started by %s with %d bots", r.HostName, botNum), a.PlayerID)
	if err != nil {
		return err
	}
	return gs.enterPhase(st, redis_models.PhasePreparation)
}

func (gs *GameSession) stageLeave(st *eventStage, a *Action) error {
	r := st.room
	seatIdx := r.SeatIndex(a.PlayerID)
	if seatIdx < 0 {
		return errPlayerNotFound(a.PlayerID)
	}
	wasHost := r.HostName == a.PlayerID

	err := st.emit(EventPlayerLeft, PlayerLeftPayload{Player: a.PlayerID},
		fmt.Sprintf("%s left lobby %s", a.PlayerID, r.ID), a.PlayerID)
	if err != nil {
		return err
	}

	if !st.room.Started {
		// a pre-game room does not survive losing its host or its last player
		if wasHost || st.room.PlayerCount() == 0 {
			reason := "all players left"
			if wasHost {
				reason = "host abandoned the lobby"
			}
			return st.emit(EventLobbyClosed, LobbyClosedPayload{Reason: reason},
				fmt.Sprintf("lobby %s closed before starting: %s", r.ID, reason), "")
		}
		return nil
	}
	return gs.migrateHostIfNeeded(st, a.PlayerID, seatIdx)
}

func (gs *GameSession) stageDisconnect(st *eventStage, a *Action) error {
	r := st.room
	seatIdx := r.SeatIndex(a.PlayerID)
	if seatIdx < 0 {
		return errPlayerNotFound(a.PlayerID)
	}
	if !r.Started {
		// a pre-game drop is just a leave
		return gs.stageLeave(st, a)
	}
	if r.Seats[seatIdx].Mode == SeatAutomated {
		// duplicate disconnect notices are harmless
		return nil
	}

	err := st.emit(EventPlayerDisconnected, PlayerConnPayload{Player: a.PlayerID},
		fmt.Sprintf("%s disconnected, bot takes over", a.PlayerID), a.PlayerID)
	if err != nil {
		return err
	}
	return gs.migrateHostIfNeeded(st, a.PlayerID, seatIdx)
}

func (gs *GameSession) stageReconnect(st *eventStage, a *Action) error {
	r := st.room
	seatIdx := r.SeatIndex(a.PlayerID)
	if seatIdx < 0 {
		return errPlayerNotFound(a.PlayerID)
	}
	seat := r.Seats[seatIdx]
	if seat.Bot {
		return errRuleViolation("seat of %s was never human-controlled", a.PlayerID)
	}
	if seat.Mode == SeatHuman {
		// idempotent: already connected, just resend the snapshot
		return nil
	}
	return st.emit(EventPlayerReconnected, PlayerConnPayload{Player: a.PlayerID},
		fmt.Sprintf("%s reconnected and resumed control", a.PlayerID), a.PlayerID)
}

// migrateHostIfNeeded hands the host role to the next human seat when the
// current host leaves or disconnects.
func (gs *GameSession) migrateHostIfNeeded(st *eventStage, player string, seatIdx int) error {
	r := st.room
	if r.HostName != player {
		return nil
	}
	next := r.nextHumanSeat(seatIdx)
	if next < 0 {
		return nil
	}
	return st.emit(EventHostChanged, HostChangedPayload{
		From: player,
		To:   r.Seats[next].Name,
	}, fmt.Sprintf("host role moved from %s to %s", player, r.Seats[next].Name), "")
}

// enterPhase emits the phase_change event and runs the new phase's entry
// logic against the stage.
func (gs *GameSession) enterPhase(st *eventStage, to string) error {
	r := st.room
	from := r.Phase
	round := r.Round
	if to == redis_models.PhasePreparation {
		round++
	}

	err := st.emit(EventPhaseChange, PhaseChangePayload{
		From:  from,
		To:    to,
		Round: round,
	}, fmt.Sprintf("phase %s -> %s", from, to), "")
	if err != nil {
		return err
	}
	return handlerFor(to).onEnter(st)
}

// runTransitions chains phase transitions while exit conditions hold on the
// staged state. Transitions are driven purely by applied events, never by
// timers.
func (gs *GameSession) runTransitions(st *eventStage) error {
	for i := 0; i < maxChainedTransitions; i++ {
		r := st.room
		if !r.Started {
			return nil
		}
		handler := handlerFor(r.Phase)
		if handler == nil || !handler.exitReached(r) {
			return nil
		}
		next := handler.next(r)
		if next == r.Phase {
			return nil
		}
		if err := gs.enterPhase(st, next); err != nil {
			return err
		}
	}
	return fmt.Errorf("phase transition chain exceeded %d steps in lobby %s",
		maxChainedTransitions, st.room.ID)
}

// afterApply makes a persisted batch visible: applies it to the live room,
// fans out notifications, refreshes the lobby descriptor and wakes the bot
// trigger.
func (gs *GameSession) afterApply(st *eventStage, a *Action, reconnecting string) (*Result, error) {
	gameEnded := false
	lobbyClosed := false
	if reconnecting != "" {
		// the batch, reconnection notice included, must reach the player
		// through the drained backlog so nothing arrives out of order
		gs.broadcaster.Hold(reconnecting)
	}
	for _, ev := range st.events {
		if err := applyEvent(gs.room, ev); err != nil {
			// the same events already applied cleanly to the staged clone
			log.Printf("[QUEUE-ERROR] Error re-applying event %d to live room %s: %v",
				ev.Sequence, gs.room.ID, err)
			return nil, fmt.Errorf("error applying event %d: %v", ev.Sequence, err)
		}
		switch ev.Kind {
		case EventPlayerJoined:
			var p PlayerJoinedPayload
			if json.Unmarshal(ev.Payload, &p) == nil {
				gs.broadcaster.Register(p.Player)
			}
		case EventPlayerLeft:
			var p PlayerLeftPayload
			if json.Unmarshal(ev.Payload, &p) == nil && !gs.room.Started {
				gs.broadcaster.Unregister(p.Player)
			}
		case EventGameEnded:
			gameEnded = true
		case EventLobbyClosed:
			lobbyClosed = true
		}
		gs.broadcaster.Publish(gs.room, ev)
	}
	a.Sequence = st.events[0].Sequence

	if lobbyClosed {
		if err := gs.rc.DeleteGameLobby(gs.room.ID); err != nil {
			log.Printf("[QUEUE] Error removing data of closed lobby %s: %v", gs.room.ID, err)
		}
		gs.afterReply = func() {
			if gs.OnClosed != nil {
				gs.OnClosed(gs.room.ID)
			}
			gs.bots.CancelRoom(gs.room.ID)
		}
		return &Result{Sequence: gs.room.Seq, LobbyClosed: true}, nil
	}

	if err := gs.rc.SaveGameLobby(gs.descriptor()); err != nil {
		// descriptor is advisory; the event log already holds the truth
		log.Printf("[QUEUE] Error refreshing lobby descriptor for %s: %v", gs.room.ID, err)
	}

	result := &Result{Sequence: gs.room.Seq}
	if reconnecting != "" {
		result.Snapshot = BuildSnapshot(gs.room, reconnecting)
		result.Queued = gs.broadcaster.Drain(reconnecting)
	}

	if gameEnded {
		gs.afterReply = func() {
			if gs.OnGameEnd != nil {
				gs.OnGameEnd(gs.room)
			}
			gs.bots.CancelRoom(gs.room.ID)
		}
		result.LobbyClosed = true
		return result, nil
	}

	gs.bots.OnStateChanged(gs, gs.changeNotice())
	return result, nil
}

// changeNotice summarizes the committed room state for the bot trigger.
func (gs *GameSession) changeNotice() *ChangeNotice {
	r := gs.room
	n := &ChangeNotice{
		LobbyID:       r.ID,
		Phase:         r.Phase,
		PileRoom:      r.PileRoom(),
		RequiredCount: r.RequiredCount,
		RequiredType:  r.RequiredType,
		BestValue:     r.bestPlayValue(),
		TurnOpener:    len(r.Plays) == 0,
		Over:          r.Over,
	}
	if idx := r.SeatToAct(); idx >= 0 {
		seat := r.Seats[idx]
		n.ActingPlayer = seat.Name
		n.ActingMode = seat.Mode
		n.Hand = HandCodes(seat.Hand)
	}
	return n
}

func (gs *GameSession) descriptor() *redis_models.GameLobby {
	r := gs.room
	return &redis_models.GameLobby{
		ID:           r.ID,
		HostName:     r.HostName,
		PlayerCount:  r.PlayerCount(),
		IsStarted:    r.Started,
		CurrentPhase: r.Phase,
		CurrentRound: r.Round,
		CreatedAt:    gs.createdAt,
	}
}
