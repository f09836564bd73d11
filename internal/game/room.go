/*
Package game contains the core logic for realtime drawing rooms.

This file defines the Room: the session coordinator owning one stroke log,
one roster, one turn scheduler, and one score board. A single goroutine (Run)
consumes every input for the room — client packets, joins, disconnects, grace
expiries, countdown ticks — so all state mutation is serialized. Timers never
touch state directly; they enqueue events into the same stream.
*/
package game

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"scrawl/internal/auth"
	"scrawl/internal/clock"
	"scrawl/internal/directory"
	"scrawl/internal/pkg/errs"
	"scrawl/internal/pkg/logx"
	"scrawl/internal/pkg/randx"
)

const (
	// inboxBuffer sizes the room's serialized event queue.
	inboxBuffer = 1024

	// MaxChatBytes is the maximum accepted chat message length.
	MaxChatBytes = 500

	// RoomIdleTimeout shuts down rooms that were created but never joined.
	RoomIdleTimeout = 5 * time.Minute

	// collaboratorTimeout bounds calls to the word pool and room directory
	// from inside the event loop.
	collaboratorTimeout = 2 * time.Second
)

// WordProvider supplies secret words for drawing turns.
type WordProvider interface {
	NextWord(ctx context.Context, roomID string) (string, error)
}

// RoomCleanupMsg asks the Manager to forget a finished room.
type RoomCleanupMsg struct {
	RoomID string
}

// RoomConfig carries the per-room gameplay knobs.
type RoomConfig struct {
	MaxPlayers   int
	Rounds       int
	TurnTicks    int
	TickInterval time.Duration
	GracePeriod  time.Duration
}

// roomEvent is the closed set of inputs consumed by the room's event loop.
type roomEvent interface{ isRoomEvent() }

type packetEvent struct {
	c   connection
	env Envelope
}

type disconnectEvent struct {
	c connection
}

type graceExpiredEvent struct {
	userID string
}

type tickEvent struct{}

func (packetEvent) isRoomEvent()       {}
func (disconnectEvent) isRoomEvent()   {}
func (graceExpiredEvent) isRoomEvent() {}
func (tickEvent) isRoomEvent()         {}

// Room is one isolated game session: participants, canvas, turn state, and
// scores. All fields below mu-free: only the Run goroutine touches them.
type Room struct {
	ID   string
	Name string

	// CreatorID holds the user ID of the current creator; it is reassigned
	// to the earliest-joined remaining participant when the creator is
	// permanently removed.
	CreatorID string

	private      bool
	passwordHash []byte

	cfg RoomConfig

	verifier  auth.Verifier
	words     WordProvider
	announcer directory.Announcer
	clk       clock.Clock

	roster  *Roster
	strokes *StrokeLog
	sched   *Scheduler
	scores  *ScoreBoard

	// clients binds live connections to participants.
	clients map[connection]*Participant

	// lastDrawerID is the rotation cursor.
	lastDrawerID string

	inbox       chan roomEvent
	cleanupChan chan<- RoomCleanupMsg
	stopChan    chan struct{}

	ticker    *time.Ticker
	idleTimer *time.Timer

	graceTimers map[string]*time.Timer

	// done is set by apply when the room should shut down.
	done bool

	everJoined bool

	logger zerolog.Logger
}

// NewRoom creates a Room. The caller starts its event loop with Run.
func NewRoom(
	id string,
	name string,
	creatorID string,
	private bool,
	passwordHash []byte,
	cfg RoomConfig,
	verifier auth.Verifier,
	words WordProvider,
	announcer directory.Announcer,
	clk clock.Clock,
	cleanupChan chan<- RoomCleanupMsg,
) *Room {
	roomLogger := logx.Logger().With().
		Str("room_id", id).
		Logger()

	return &Room{
		ID:           id,
		Name:         name,
		CreatorID:    creatorID,
		private:      private,
		passwordHash: passwordHash,
		cfg:          cfg,
		verifier:     verifier,
		words:        words,
		announcer:    announcer,
		clk:          clk,
		roster:       NewRoster(),
		strokes:      NewStrokeLog(),
		sched:        NewScheduler(cfg.TurnTicks),
		scores:       NewScoreBoard(),
		clients:      make(map[connection]*Participant),
		inbox:        make(chan roomEvent, inboxBuffer),
		cleanupChan:  cleanupChan,
		stopChan:     make(chan struct{}),
		ticker:       time.NewTicker(cfg.TickInterval),
		idleTimer:    time.NewTimer(RoomIdleTimeout),
		graceTimers:  make(map[string]*time.Timer),
		logger:       roomLogger,
	}
}

// Stop signals the Run loop to terminate immediately.
func (r *Room) Stop() {
	select {
	case <-r.stopChan:
	default:
		close(r.stopChan)
	}
}

// Deliver queues an event for the room. It reports false when the room's
// inbox is saturated; the event is dropped rather than blocking the caller.
func (r *Room) Deliver(ev roomEvent) bool {
	select {
	case r.inbox <- ev:
		return true
	default:
		r.logger.Warn().Msg("Room inbox full, dropping event.")
		return false
	}
}

// DeliverPacket queues an inbound client frame.
func (r *Room) DeliverPacket(c connection, env Envelope) bool {
	return r.Deliver(packetEvent{c: c, env: env})
}

// DeliverDisconnect queues a transport-level disconnect notification.
func (r *Room) DeliverDisconnect(c connection) bool {
	return r.Deliver(disconnectEvent{c: c})
}

// Run is the room's event loop. It exits when the room empties out, when the
// idle timeout fires before anyone joins, or on Stop.
func (r *Room) Run() {
	defer func() {
		r.ticker.Stop()
		r.idleTimer.Stop()

		for _, timer := range r.graceTimers {
			timer.Stop()
		}

		r.logger.Info().Msg("Room loop finished. Notifying manager for cleanup.")

		select {
		case r.cleanupChan <- RoomCleanupMsg{RoomID: r.ID}:
		default:
			r.logger.Warn().Msg("Manager cleanup channel blocked. Skipping cleanup notification.")
		}
	}()

	for {
		select {
		case ev := <-r.inbox:
			r.apply(ev)
			if r.done {
				return
			}

		case <-r.ticker.C:
			r.apply(tickEvent{})
			if r.done {
				return
			}

		case <-r.idleTimer.C:
			if !r.everJoined {
				r.logger.Info().Msg("Room idle timeout reached before first join. Shutting down.")
				return
			}

		case <-r.stopChan:
			r.logger.Info().Msg("Room forced stop.")
			return
		}
	}
}

// apply processes one event. It is the only mutation path for room state.
func (r *Room) apply(ev roomEvent) {
	switch ev := ev.(type) {
	case packetEvent:
		r.handlePacket(ev.c, ev.env)
	case disconnectEvent:
		r.handleDisconnect(ev.c)
	case graceExpiredEvent:
		r.handleGraceExpired(ev.userID)
	case tickEvent:
		r.handleTick()
	}
}

func (r *Room) handlePacket(c connection, env Envelope) {
	if env.Type == EventJoinRoom {
		var payload JoinRoomPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			r.sendJoinError(c, errs.NewError(errs.ErrInvalidParams))
			return
		}
		r.handleJoin(c, payload)
		return
	}

	part := r.clients[c]
	if part == nil {
		r.sendError(c, errs.NewError(errs.ErrStaleSession))
		return
	}

	switch env.Type {
	case EventDraw:
		r.handleDraw(c, part, env)
	case EventUndo:
		r.handleUndoRedo(c, part, env, true)
	case EventRedo:
		r.handleUndoRedo(c, part, env, false)
	case EventChat:
		r.handleChat(c, part, env)
	case EventStartGame:
		r.handleStartGame(c, part, env)
	default:
		r.logger.Warn().
			Str("event_type", string(env.Type)).
			Str("user_id", part.UserID).
			Msg("Client sent unsupported event type.")
	}
}

// handleJoin processes both fresh joins (identity token) and reconnects
// (session key) arriving as the first frame on a connection.
func (r *Room) handleJoin(c connection, payload JoinRoomPayload) {
	if payload.RoomID != r.ID {
		r.sendJoinError(c, errs.NewError(errs.ErrRoomNotFound))
		return
	}

	if payload.UserAuthkey != "" {
		r.handleReconnect(c, payload.UserAuthkey)
		return
	}

	identity, err := r.verifier.Verify(payload.UserIDToken)
	if err != nil {
		r.sendJoinError(c, errs.NewError(errs.ErrInvalidToken))
		return
	}

	if r.private {
		if err := bcrypt.CompareHashAndPassword(r.passwordHash, []byte(payload.Password)); err != nil {
			r.sendJoinError(c, errs.NewError(errs.ErrWrongPassword))
			return
		}
	}

	if existing := r.roster.ByUser(identity.UserID); existing != nil {
		// Full re-join by a known user: reissue the session key and replace
		// any live connection.
		if existing.Connected && existing.conn != nil {
			existing.conn.Kick("Session replaced by new connection.")
			delete(r.clients, existing.conn)
		}
		r.cancelGraceTimer(identity.UserID)
		r.roster.Rekey(existing, randx.SessionKey())
		r.attach(c, existing)
		return
	}

	if r.roster.Count() >= r.cfg.MaxPlayers {
		r.sendJoinError(c, errs.NewError(errs.ErrRoomFull))
		return
	}

	nickname := identity.Nickname
	if nickname == "" {
		nickname = randx.Nickname()
	}

	part := r.roster.Add(identity.UserID, nickname, randx.SessionKey(), c)
	r.clients[c] = part
	r.everJoined = true

	r.logger.Info().
		Str("user_id", part.UserID).
		Str("nickname", part.Nickname).
		Int("total_members", r.roster.Count()).
		Msg("Participant joined room.")

	r.sendTo(c, EventRoomJoined, RoomJoinedPayload{
		RoomID:      r.ID,
		UserAuthkey: part.SessionKey,
		Nickname:    part.Nickname,
	})
	r.sendTo(c, EventRoomState, r.buildRoomState())

	r.broadcastMembership(EventUserJoined, part.Nickname, c)
	r.announceDirectory()
}

// handleReconnect re-attaches a returning participant identified by session
// key. Within the grace period this is the same participant: score and
// rotation slot are preserved and a full snapshot replaces event replay.
func (r *Room) handleReconnect(c connection, sessionKey string) {
	part := r.roster.BySession(sessionKey)
	if part == nil {
		r.sendJoinError(c, errs.NewError(errs.ErrStaleSession))
		return
	}

	if part.Connected && part.conn != nil {
		part.conn.Kick("Session replaced by new connection.")
		delete(r.clients, part.conn)
	}

	r.cancelGraceTimer(part.UserID)
	r.attach(c, part)
}

// attach binds a connection to a participant and sends the join
// acknowledgement plus a full state snapshot.
func (r *Room) attach(c connection, part *Participant) {
	part.Connected = true
	part.conn = c
	r.clients[c] = part
	r.everJoined = true

	r.logger.Info().
		Str("user_id", part.UserID).
		Msg("Participant connection attached.")

	r.sendTo(c, EventRoomJoined, RoomJoinedPayload{
		RoomID:      r.ID,
		UserAuthkey: part.SessionKey,
		Nickname:    part.Nickname,
	})
	r.sendTo(c, EventRoomState, r.buildRoomState())

	if r.sched.Phase() == PhaseDrawing && r.sched.DrawerID() == part.UserID {
		r.sendTo(c, EventYourWord, YourWordPayload{
			RoomID:    r.ID,
			Word:      r.sched.Word(),
			TurnIndex: r.sched.TurnIndex(),
		})
	}

	r.broadcastMembership(EventUserJoined, part.Nickname, c)
}

func (r *Room) handleDraw(c connection, part *Participant, env Envelope) {
	var payload DrawPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		r.sendError(c, errs.NewError(errs.ErrInvalidParams))
		return
	}

	if r.sched.Phase() == PhaseDrawing && part.UserID != r.sched.DrawerID() {
		r.sendError(c, errs.NewError(errs.ErrNotYourTurn))
		return
	}

	r.strokes.Commit(part.UserID, payload.Line)

	// Relay the delta verbatim to everyone else; peers that miss one converge
	// again on the next undo/redo snapshot.
	r.broadcastEnvelopeExcept(c, env)
}

func (r *Room) handleUndoRedo(c connection, part *Participant, env Envelope, undo bool) {
	var payload UndoRedoPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		r.sendError(c, errs.NewError(errs.ErrInvalidParams))
		return
	}

	if r.sched.Phase() == PhaseDrawing && part.UserID != r.sched.DrawerID() {
		r.sendError(c, errs.NewError(errs.ErrNotYourTurn))
		return
	}

	changed := false
	if undo {
		changed = r.strokes.Undo()
	} else {
		changed = r.strokes.Redo()
	}

	// An empty-stack undo/redo is a silent no-op: no broadcast, no error.
	if !changed {
		return
	}

	eventType := EventUndo
	if !undo {
		eventType = EventRedo
	}

	// Broadcast the full authoritative line list to all members, sender
	// included, so every replica converges even if deltas were dropped.
	r.broadcast(eventType, UndoRedoPayload{
		RoomID:       r.ID,
		UpdatedLines: r.strokes.Lines(),
	})
}

func (r *Room) handleChat(c connection, part *Participant, env Envelope) {
	var payload ChatPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		r.sendError(c, errs.NewError(errs.ErrInvalidParams))
		return
	}

	if payload.UserAuthkey != part.SessionKey {
		r.sendError(c, errs.NewError(errs.ErrStaleSession))
		return
	}

	if len(payload.Message) == 0 || len(payload.Message) > MaxChatBytes {
		r.sendError(c, errs.NewError(errs.ErrMessageTooLong))
		return
	}

	result := r.sched.Guess(part.UserID, payload.Message)

	chat := ReceiveMessagePayload{
		RoomID:    r.ID,
		Nickname:  part.Nickname,
		Message:   payload.Message,
		TimeStamp: r.clk.Now().UnixMilli(),
	}

	switch result.Verdict {
	case GuessCorrect:
		r.scores.Add(part.UserID, result.Award)

		r.logger.Info().
			Str("user_id", part.UserID).
			Int("award", result.Award).
			Msg("Correct guess.")

		r.broadcast(EventCorrectGuess, CorrectGuessPayload{
			RoomID:   r.ID,
			Nickname: part.Nickname,
		})

		if r.sched.AllGuessed(r.roster.StillGuessing(r.sched.DrawerID())) {
			r.endTurn()
		}

	case GuessClose:
		r.sendTo(c, EventCloseGuess, CloseGuessPayload{
			RoomID:   r.ID,
			Distance: result.Distance,
		})
		r.broadcast(EventReceiveMessage, chat)

	default:
		// The drawer and already-correct guessers must not leak the word
		// through plain chat; echo it back to the sender only.
		if result.MatchesWord {
			r.sendTo(c, EventReceiveMessage, chat)
			return
		}
		r.broadcast(EventReceiveMessage, chat)
	}
}

func (r *Room) handleStartGame(c connection, part *Participant, env Envelope) {
	var payload StartGamePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		r.sendError(c, errs.NewError(errs.ErrInvalidParams))
		return
	}

	if part.UserID != r.CreatorID {
		r.sendError(c, errs.NewError(errs.ErrNotCreator))
		return
	}

	phase := r.sched.Phase()
	if phase != PhaseLobby && phase != PhaseGameOver {
		r.sendError(c, errs.NewError(errs.ErrGameAlreadyStarted))
		return
	}

	connected := r.roster.ConnectedCount()
	if connected < 2 {
		r.sendError(c, errs.NewError(errs.ErrNotEnoughPlayers))
		return
	}

	// Starting from GameOver is the explicit reset: scores restart at zero.
	if phase == PhaseGameOver {
		r.scores.Reset()
	}

	r.sched.StartGame(r.cfg.Rounds * connected)
	r.lastDrawerID = ""

	r.logger.Info().
		Int("connected", connected).
		Int("turns", r.cfg.Rounds*connected).
		Msg("Game started.")

	r.beginTurn(true)
}

// beginTurn rotates to the next connected drawer, draws a word, resets the
// canvas, and announces the turn.
func (r *Room) beginTurn(first bool) {
	drawerID, ok := r.roster.NextDrawer(r.lastDrawerID)
	if !ok {
		r.forceLobby("Not enough players to continue.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
	word, err := r.words.NextWord(ctx, r.ID)
	cancel()
	if err != nil {
		r.logger.Error().Err(err).Msg("Word pool failed; using fallback word.")
		word = "doodle"
	}

	r.strokes.Clear()
	r.sched.BeginTurn(drawerID, word)
	r.lastDrawerID = drawerID

	drawerIndex := r.roster.IndexOf(drawerID)

	if first {
		r.broadcast(EventStartGame, StartGameBroadcast{
			RoomID:             r.ID,
			Message:            "The game has started!",
			CurrentPlayerIndex: drawerIndex,
			IsTurnOver:         false,
		})
	} else {
		r.broadcast(EventSwitchTurn, SwitchTurnPayload{
			RoomID:             r.ID,
			Scores:             r.nicknameScores(),
			CurrentPlayerIndex: drawerIndex,
		})
	}

	if drawer := r.roster.ByUser(drawerID); drawer != nil && drawer.conn != nil {
		r.sendTo(drawer.conn, EventYourWord, YourWordPayload{
			RoomID:    r.ID,
			Word:      word,
			TurnIndex: r.sched.TurnIndex(),
		})
	}
}

// endTurn publishes the turn outcome and schedules what follows: the next
// turn, game over, or a forced lobby when too few players remain.
func (r *Room) endTurn() {
	outcome := r.sched.EndTurn()

	deltas := make(map[string]int, len(outcome.Awards))
	for userID, award := range outcome.Awards {
		if part := r.roster.ByUser(userID); part != nil {
			deltas[part.Nickname] = award
		}
	}

	r.broadcast(EventTurnResult, TurnResultPayload{
		RoomID: r.ID,
		Word:   outcome.Word,
		Deltas: deltas,
	})

	if r.roster.ConnectedCount() < 2 {
		r.forceLobby("Not enough players to continue.")
		return
	}

	if r.sched.TurnsRemaining() > 0 {
		r.beginTurn(false)
		return
	}

	r.endGame()
}

// endGame computes the final ranking and announces the winner.
func (r *Room) endGame() {
	r.sched.EndGame()

	ranking := r.scores.Ranking(r.roster.JoinIndex)

	winner := ""
	topScore := 0
	if len(ranking) > 0 {
		if part := r.roster.ByUser(ranking[0].UserID); part != nil {
			winner = part.Nickname
		}
		topScore = ranking[0].Score
	}

	r.logger.Info().
		Str("winner", winner).
		Int("score", topScore).
		Msg("Game ended.")

	r.broadcast(EventGameEnded, GameEndedPayload{
		RoomID: r.ID,
		Winner: winner,
		Score:  topScore,
	})
}

// forceLobby aborts the running game and returns the room to the lobby.
func (r *Room) forceLobby(reason string) {
	r.sched.ForceLobby()

	r.broadcast(EventGameCancelled, GameCancelledPayload{
		RoomID:  r.ID,
		Message: reason,
	})
}

func (r *Room) handleTick() {
	if r.sched.Tick() {
		r.endTurn()
	}
}

// handleDisconnect marks the participant disconnected and starts the grace
// timer. The drawer disconnecting ends the turn immediately; the room's turn
// timer is never cancelled by participant churn.
func (r *Room) handleDisconnect(c connection) {
	part := r.clients[c]
	delete(r.clients, c)

	if part == nil {
		return
	}

	if part.conn != c {
		r.logger.Info().
			Str("user_id", part.UserID).
			Msg("Ignoring disconnect for stale connection.")
		return
	}

	part.Connected = false
	part.conn = nil

	r.strokes.EndStroke(part.UserID)

	r.logger.Info().
		Str("user_id", part.UserID).
		Dur("grace_period", r.cfg.GracePeriod).
		Msg("Participant disconnected. Grace period started.")

	wasDrawer := r.sched.Phase() == PhaseDrawing && r.sched.DrawerID() == part.UserID

	if r.cfg.GracePeriod > 0 {
		r.broadcastMembership(EventUserLeft, part.Nickname, nil)

		userID := part.UserID
		r.graceTimers[userID] = time.AfterFunc(r.cfg.GracePeriod, func() {
			r.Deliver(graceExpiredEvent{userID: userID})
		})
	} else {
		r.removeParticipant(part.UserID)
		if r.done {
			return
		}
	}

	if wasDrawer {
		r.endTurn()
		return
	}

	if r.sched.Phase() == PhaseDrawing {
		// The disconnect cancels this participant's still-guessing
		// expectation; everyone left may already have guessed.
		if r.sched.AllGuessed(r.roster.StillGuessing(r.sched.DrawerID())) {
			r.endTurn()
			return
		}
	}

	if r.sched.Phase() != PhaseLobby && r.sched.Phase() != PhaseGameOver && r.roster.ConnectedCount() < 2 {
		r.forceLobby("Not enough players to continue.")
	}
}

func (r *Room) handleGraceExpired(userID string) {
	delete(r.graceTimers, userID)

	part := r.roster.ByUser(userID)
	if part == nil || part.Connected {
		return
	}

	r.logger.Info().
		Str("user_id", userID).
		Msg("Grace period expired. Removing participant permanently.")

	r.removeParticipant(userID)
}

// removeParticipant permanently deletes a participant: the session key is
// destroyed, the rotation slot freed, and creator status reassigned to the
// earliest-joined remaining participant if needed.
func (r *Room) removeParticipant(userID string) {
	part := r.roster.ByUser(userID)
	if part == nil {
		return
	}

	nickname := part.Nickname

	r.roster.Remove(userID)
	r.scores.Remove(userID)
	r.cancelGraceTimer(userID)

	if r.CreatorID == userID {
		r.reassignCreator()
	}

	if r.roster.Count() == 0 {
		r.logger.Info().Msg("Last participant removed. Closing room.")
		r.done = true
		return
	}

	r.broadcastMembership(EventUserLeft, nickname, nil)
	r.announceDirectory()
}

// reassignCreator hands the creator role to the earliest-joined remaining
// participant; an empty room keeps no creator.
func (r *Room) reassignCreator() {
	r.CreatorID = ""

	ordered := r.roster.Ordered()
	if len(ordered) > 0 {
		r.CreatorID = ordered[0].UserID

		r.logger.Info().
			Str("new_creator", r.CreatorID).
			Msg("Creator role reassigned.")
	}
}

func (r *Room) cancelGraceTimer(userID string) {
	if timer, ok := r.graceTimers[userID]; ok {
		timer.Stop()
		delete(r.graceTimers, userID)
	}
}

// buildRoomState assembles the full snapshot sent on join and reconnect.
func (r *Room) buildRoomState() RoomStatePayload {
	drawerIndex := -1
	if drawerID := r.sched.DrawerID(); drawerID != "" {
		drawerIndex = r.roster.IndexOf(drawerID)
	}

	return RoomStatePayload{
		RoomID:             r.ID,
		Lines:              r.strokes.Lines(),
		Phase:              r.sched.Phase().String(),
		CurrentPlayerIndex: drawerIndex,
		RemainingTicks:     r.sched.RemainingTicks(),
		TurnIndex:          r.sched.TurnIndex(),
		IsTurnOver:         r.sched.Phase() != PhaseDrawing,
		Scores:             r.nicknameScores(),
		Members:            r.memberList(),
	}
}

func (r *Room) memberList() []Member {
	ordered := r.roster.Ordered()

	members := make([]Member, 0, len(ordered))
	for _, part := range ordered {
		members = append(members, Member{
			Nickname:  part.Nickname,
			Connected: part.Connected,
			Score:     r.scores.Score(part.UserID),
			IsCreator: part.UserID == r.CreatorID,
		})
	}

	return members
}

func (r *Room) nicknameScores() map[string]int {
	scores := make(map[string]int)
	for _, part := range r.roster.Ordered() {
		scores[part.Nickname] = r.scores.Score(part.UserID)
	}
	return scores
}

// broadcastMembership sends a membership-changed notification to every
// connected member except the given connection.
func (r *Room) broadcastMembership(eventType EventType, nickname string, except connection) {
	env, err := NewEnvelope(eventType, MembershipPayload{
		RoomID:   r.ID,
		Nickname: nickname,
		Members:  r.memberList(),
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to build membership event.")
		return
	}

	r.broadcastEnvelopeExcept(except, env)
}

// announceDirectory refreshes the room's entry in the external room list.
func (r *Room) announceDirectory() {
	ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
	defer cancel()

	err := r.announcer.RoomActive(ctx, r.ID, directory.RoomMetadata{
		Name:       r.Name,
		Private:    r.private,
		Players:    r.roster.Count(),
		MaxPlayers: r.cfg.MaxPlayers,
	})
	if err != nil {
		r.logger.Warn().Err(err).Msg("Failed to announce room to directory.")
	}
}

// broadcast marshals the payload once and fans it out to every connected member.
func (r *Room) broadcast(eventType EventType, payload any) {
	env, err := NewEnvelope(eventType, payload)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to build broadcast event.")
		return
	}

	r.broadcastEnvelopeExcept(nil, env)
}

func (r *Room) broadcastEnvelopeExcept(except connection, env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to marshal broadcast envelope.")
		return
	}

	for c, part := range r.clients {
		if c == except {
			continue
		}
		if !c.Enqueue(data) {
			r.logger.Warn().
				Str("user_id", part.UserID).
				Msg("Member send queue full, dropping frame.")
		}
	}
}

// sendTo sends one event to a single connection.
func (r *Room) sendTo(c connection, eventType EventType, payload any) {
	env, err := NewEnvelope(eventType, payload)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to build targeted event.")
		return
	}

	data, err := json.Marshal(env)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to marshal targeted envelope.")
		return
	}

	c.Enqueue(data)
}

// sendError reports a failure to the sender only; errors never mutate room
// state and are never broadcast.
func (r *Room) sendError(c connection, customErr *errs.CustomError) {
	r.sendTo(c, EventError, ErrorPayload{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}

// sendJoinError reports a failed join attempt to the requester only.
func (r *Room) sendJoinError(c connection, customErr *errs.CustomError) {
	r.sendTo(c, EventRoomJoinError, RoomJoinErrorPayload{
		RoomID:  r.ID,
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}
