package game

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrawl/internal/auth"
	"scrawl/internal/clock"
	"scrawl/internal/directory"
	"scrawl/internal/pkg/errs"
)

// fakeConn records every frame the room enqueues, in order.
type fakeConn struct {
	frames     [][]byte
	kicked     bool
	kickReason string
}

func (f *fakeConn) Enqueue(data []byte) bool {
	f.frames = append(f.frames, data)
	return true
}

func (f *fakeConn) Kick(reason string) {
	f.kicked = true
	f.kickReason = reason
}

// events decodes all frames of the given type received so far.
func (f *fakeConn) events(t *testing.T, eventType EventType) []Envelope {
	t.Helper()

	var out []Envelope
	for _, frame := range f.frames {
		var env Envelope
		require.NoError(t, json.Unmarshal(frame, &env))
		if env.Type == eventType {
			out = append(out, env)
		}
	}
	return out
}

// lastEvent decodes the payload of the most recent frame of the given type.
func (f *fakeConn) lastEvent(t *testing.T, eventType EventType, dst any) bool {
	t.Helper()

	envs := f.events(t, eventType)
	if len(envs) == 0 {
		return false
	}
	require.NoError(t, json.Unmarshal(envs[len(envs)-1].Payload, dst))
	return true
}

// fakeVerifier accepts any non-"bad" token, using it as both user ID and nickname.
type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (auth.Identity, error) {
	if token == "" || token == "bad" {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return auth.Identity{UserID: token, Nickname: token}, nil
}

// fakeWords hands out words from a fixed sequence, cycling at the end.
type fakeWords struct {
	words []string
	next  int
}

func (f *fakeWords) NextWord(_ context.Context, _ string) (string, error) {
	word := f.words[f.next%len(f.words)]
	f.next++
	return word, nil
}

func newTestRoom(t *testing.T, grace time.Duration) *Room {
	t.Helper()

	cfg := RoomConfig{
		MaxPlayers:   4,
		Rounds:       1,
		TurnTicks:    10,
		TickInterval: time.Minute,
		GracePeriod:  grace,
	}

	r := NewRoom(
		"ROOM01",
		"test room",
		"alice",
		false,
		nil,
		cfg,
		fakeVerifier{},
		&fakeWords{words: []string{"apple", "banana", "castle"}},
		directory.NewNopAnnouncer(),
		clock.New(),
		make(chan RoomCleanupMsg, 4),
	)
	t.Cleanup(r.Stop)

	return r
}

func marshalPayload(t *testing.T, payload any) json.RawMessage {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

// join performs a fresh token-based join and returns the connection.
func join(t *testing.T, r *Room, token string) *fakeConn {
	t.Helper()

	c := &fakeConn{}
	r.apply(packetEvent{c: c, env: Envelope{
		Type:    EventJoinRoom,
		Payload: marshalPayload(t, JoinRoomPayload{UserIDToken: token, RoomID: r.ID}),
	}})
	return c
}

// sessionKeyOf extracts the session key issued on the latest roomJoined.
func sessionKeyOf(t *testing.T, c *fakeConn) string {
	t.Helper()

	var joined RoomJoinedPayload
	require.True(t, c.lastEvent(t, EventRoomJoined, &joined), "no roomJoined frame")
	return joined.UserAuthkey
}

func sendChat(t *testing.T, r *Room, c *fakeConn, sessionKey, message string) {
	t.Helper()

	r.apply(packetEvent{c: c, env: Envelope{
		Type:    EventChat,
		Payload: marshalPayload(t, ChatPayload{RoomID: r.ID, Message: message, UserAuthkey: sessionKey}),
	}})
}

func sendDraw(t *testing.T, r *Room, c *fakeConn, line Line) {
	t.Helper()

	r.apply(packetEvent{c: c, env: Envelope{
		Type:    EventDraw,
		Payload: marshalPayload(t, DrawPayload{RoomID: r.ID, Line: line}),
	}})
}

func startGame(t *testing.T, r *Room, c *fakeConn) {
	t.Helper()

	r.apply(packetEvent{c: c, env: Envelope{
		Type:    EventStartGame,
		Payload: marshalPayload(t, StartGamePayload{RoomID: r.ID}),
	}})
}

func lastErrorCode(t *testing.T, c *fakeConn) int {
	t.Helper()

	var payload ErrorPayload
	require.True(t, c.lastEvent(t, EventError, &payload), "no error frame")
	return payload.Code
}

func TestJoinIssuesSessionKeyAndSnapshot(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")

	var joined RoomJoinedPayload
	require.True(t, alice.lastEvent(t, EventRoomJoined, &joined))
	assert.Equal(t, r.ID, joined.RoomID)
	assert.NotEmpty(t, joined.UserAuthkey)
	assert.Equal(t, "alice", joined.Nickname)

	var state RoomStatePayload
	require.True(t, alice.lastEvent(t, EventRoomState, &state))
	assert.Equal(t, "lobby", state.Phase)
	assert.Empty(t, state.Lines)
	require.Len(t, state.Members, 1)
	assert.True(t, state.Members[0].IsCreator)
}

func TestJoinRejectsInvalidToken(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	c := join(t, r, "bad")

	var joinErr RoomJoinErrorPayload
	require.True(t, c.lastEvent(t, EventRoomJoinError, &joinErr))
	assert.Equal(t, errs.ErrInvalidToken, joinErr.Code)
	assert.Empty(t, c.events(t, EventRoomJoined))
}

func TestJoinRejectsWhenFull(t *testing.T) {
	r := newTestRoom(t, time.Minute)
	r.cfg.MaxPlayers = 2

	join(t, r, "alice")
	join(t, r, "bob")
	carol := join(t, r, "carol")

	var joinErr RoomJoinErrorPayload
	require.True(t, carol.lastEvent(t, EventRoomJoinError, &joinErr))
	assert.Equal(t, errs.ErrRoomFull, joinErr.Code)
}

func TestStartGameRequiresCreator(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	join(t, r, "alice")
	bob := join(t, r, "bob")

	startGame(t, r, bob)

	assert.Equal(t, errs.ErrNotCreator, lastErrorCode(t, bob))
	assert.Equal(t, PhaseLobby, r.sched.Phase())
}

func TestStartGameRequiresTwoConnected(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")

	startGame(t, r, alice)

	assert.Equal(t, errs.ErrNotEnoughPlayers, lastErrorCode(t, alice))
	assert.Equal(t, PhaseLobby, r.sched.Phase())
}

func TestDrawRejectedOutsideOwnTurn(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")

	startGame(t, r, alice)
	require.Equal(t, PhaseDrawing, r.sched.Phase())
	require.Equal(t, "alice", r.sched.DrawerID())

	aliceFramesBefore := len(alice.frames)
	sendDraw(t, r, bob, Line{Tool: ToolPen, Points: []float64{1, 2}})

	assert.Equal(t, errs.ErrNotYourTurn, lastErrorCode(t, bob))
	assert.Equal(t, aliceFramesBefore, len(alice.frames), "rejected draw must not be relayed")
	assert.Equal(t, 0, r.strokes.Len())
}

func TestLobbyDrawingIsOpenToEveryone(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")

	sendDraw(t, r, bob, Line{Tool: ToolPen, Points: []float64{1, 2}})

	assert.Equal(t, 1, r.strokes.Len())
	assert.Len(t, alice.events(t, EventDraw), 1)
	assert.Empty(t, bob.events(t, EventDraw), "draw must not echo to the sender")
}

func TestUndoBroadcastsFullLineList(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")

	sendDraw(t, r, alice, Line{Tool: ToolPen, Points: []float64{1, 2}})
	sendDraw(t, r, alice, Line{Tool: ToolPen, Points: []float64{3, 4}})

	r.apply(packetEvent{c: alice, env: Envelope{
		Type:    EventUndo,
		Payload: marshalPayload(t, UndoRedoPayload{RoomID: r.ID}),
	}})

	var fromAlice, fromBob UndoRedoPayload
	require.True(t, alice.lastEvent(t, EventUndo, &fromAlice), "undo must include the sender")
	require.True(t, bob.lastEvent(t, EventUndo, &fromBob))
	assert.Len(t, fromAlice.UpdatedLines, 1)
	assert.Equal(t, fromAlice.UpdatedLines, fromBob.UpdatedLines)
}

func TestUndoOnEmptyCanvasIsSilent(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	framesBefore := len(alice.frames)

	r.apply(packetEvent{c: alice, env: Envelope{
		Type:    EventUndo,
		Payload: marshalPayload(t, UndoRedoPayload{RoomID: r.ID}),
	}})

	assert.Equal(t, framesBefore, len(alice.frames))
}

func TestFullTwoPlayerGame(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")

	aliceKey := sessionKeyOf(t, alice)
	bobKey := sessionKeyOf(t, bob)

	startGame(t, r, alice)

	// Rounds=1 with 2 connected players means 2 turns total.
	require.Equal(t, PhaseDrawing, r.sched.Phase())
	require.Equal(t, "alice", r.sched.DrawerID())

	var word YourWordPayload
	require.True(t, alice.lastEvent(t, EventYourWord, &word))
	assert.Equal(t, "apple", word.Word)
	assert.Empty(t, bob.events(t, EventYourWord), "the word must stay private to the drawer")

	// Five ticks pass, then bob guesses: award = 50 + 5*150/10 = 125.
	for i := 0; i < 5; i++ {
		r.apply(tickEvent{})
	}
	sendChat(t, r, bob, bobKey, "Apple")

	var correct CorrectGuessPayload
	require.True(t, alice.lastEvent(t, EventCorrectGuess, &correct))
	assert.Equal(t, "bob", correct.Nickname)

	var outcome TurnResultPayload
	require.True(t, bob.lastEvent(t, EventTurnResult, &outcome))
	assert.Equal(t, "apple", outcome.Word)
	assert.Equal(t, map[string]int{"bob": 125}, outcome.Deltas)

	// Everyone guessed, so the second turn starts immediately with bob drawing.
	require.Equal(t, PhaseDrawing, r.sched.Phase())
	require.Equal(t, "bob", r.sched.DrawerID())

	var turn SwitchTurnPayload
	require.True(t, alice.lastEvent(t, EventSwitchTurn, &turn))
	assert.Equal(t, map[string]int{"alice": 0, "bob": 125}, turn.Scores)

	// Alice guesses instantly: award = 50 + 10*150/10 = 200.
	sendChat(t, r, alice, aliceKey, "banana")

	assert.Equal(t, PhaseGameOver, r.sched.Phase())

	var ended GameEndedPayload
	require.True(t, bob.lastEvent(t, EventGameEnded, &ended))
	assert.Equal(t, "alice", ended.Winner)
	assert.Equal(t, 200, ended.Score)
}

func TestGuessScoreTieBreaksByJoinOrder(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	join(t, r, "bob")

	r.scores.Add("alice", 100)
	r.scores.Add("bob", 100)

	r.sched.StartGame(1)
	r.endGame()

	var ended GameEndedPayload
	require.True(t, alice.lastEvent(t, EventGameEnded, &ended))
	assert.Equal(t, "alice", ended.Winner)
}

func TestTurnExpiresOnCountdown(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")

	startGame(t, r, alice)
	require.Equal(t, "alice", r.sched.DrawerID())

	for i := 0; i < 10; i++ {
		r.apply(tickEvent{})
	}

	var outcome TurnResultPayload
	require.True(t, bob.lastEvent(t, EventTurnResult, &outcome))
	assert.Equal(t, "apple", outcome.Word)
	assert.Empty(t, outcome.Deltas)

	// Rotation continues with the next drawer.
	assert.Equal(t, PhaseDrawing, r.sched.Phase())
	assert.Equal(t, "bob", r.sched.DrawerID())
}

func TestDrawerChatNeverLeaksWord(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	aliceKey := sessionKeyOf(t, alice)

	startGame(t, r, alice)
	require.Equal(t, "alice", r.sched.DrawerID())

	bobChatBefore := len(bob.events(t, EventReceiveMessage))
	sendChat(t, r, alice, aliceKey, "apple")

	assert.Len(t, bob.events(t, EventReceiveMessage), bobChatBefore, "the word must not reach guessers")
	assert.Len(t, alice.events(t, EventReceiveMessage), 1, "the sender still sees their own message")
}

func TestCloseGuessHintIsPrivate(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	bobKey := sessionKeyOf(t, bob)

	startGame(t, r, alice)

	sendChat(t, r, bob, bobKey, "appl")

	var hint CloseGuessPayload
	require.True(t, bob.lastEvent(t, EventCloseGuess, &hint))
	assert.Equal(t, 1, hint.Distance)
	assert.Empty(t, alice.events(t, EventCloseGuess))

	// The near miss still flows as ordinary chat to everyone.
	assert.Len(t, alice.events(t, EventReceiveMessage), 1)
}

func TestSecondCorrectGuessScoresNothing(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	carol := join(t, r, "carol")
	bobKey := sessionKeyOf(t, bob)

	startGame(t, r, alice)
	require.Equal(t, "alice", r.sched.DrawerID())

	sendChat(t, r, bob, bobKey, "apple")
	scoreAfterFirst := r.scores.Score("bob")
	require.Greater(t, scoreAfterFirst, 0)

	carolChatBefore := len(carol.events(t, EventReceiveMessage))
	sendChat(t, r, bob, bobKey, "apple")

	assert.Equal(t, scoreAfterFirst, r.scores.Score("bob"))
	assert.Len(t, carol.events(t, EventReceiveMessage), carolChatBefore,
		"a repeat of the word must not reach players still guessing")
}

func TestReconnectWithinGracePreservesSlotAndScore(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	bobKey := sessionKeyOf(t, bob)

	r.scores.Add("bob", 175)
	r.apply(disconnectEvent{c: bob})

	require.False(t, r.roster.ByUser("bob").Connected)

	bob2 := &fakeConn{}
	r.apply(packetEvent{c: bob2, env: Envelope{
		Type:    EventJoinRoom,
		Payload: marshalPayload(t, JoinRoomPayload{RoomID: r.ID, UserAuthkey: bobKey}),
	}})

	var state RoomStatePayload
	require.True(t, bob2.lastEvent(t, EventRoomState, &state))
	assert.Equal(t, 175, state.Scores["bob"])

	part := r.roster.ByUser("bob")
	assert.True(t, part.Connected)
	assert.Equal(t, 1, part.JoinIndex, "the rotation slot survives the reconnect")

	// userLeft then userJoined reached the peer.
	assert.NotEmpty(t, alice.events(t, EventUserLeft))
	assert.Len(t, alice.events(t, EventUserJoined), 2)
}

func TestStaleSessionAfterGraceExpiry(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	join(t, r, "alice")
	bob := join(t, r, "bob")
	bobKey := sessionKeyOf(t, bob)

	r.apply(disconnectEvent{c: bob})
	r.apply(graceExpiredEvent{userID: "bob"})

	assert.Nil(t, r.roster.ByUser("bob"))

	bob2 := &fakeConn{}
	r.apply(packetEvent{c: bob2, env: Envelope{
		Type:    EventJoinRoom,
		Payload: marshalPayload(t, JoinRoomPayload{RoomID: r.ID, UserAuthkey: bobKey}),
	}})

	var joinErr RoomJoinErrorPayload
	require.True(t, bob2.lastEvent(t, EventRoomJoinError, &joinErr))
	assert.Equal(t, errs.ErrStaleSession, joinErr.Code)
}

func TestReconnectBeforeExpiryCancelsRemoval(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	join(t, r, "alice")
	bob := join(t, r, "bob")
	bobKey := sessionKeyOf(t, bob)

	r.apply(disconnectEvent{c: bob})

	bob2 := &fakeConn{}
	r.apply(packetEvent{c: bob2, env: Envelope{
		Type:    EventJoinRoom,
		Payload: marshalPayload(t, JoinRoomPayload{RoomID: r.ID, UserAuthkey: bobKey}),
	}})

	// A late-firing grace timer must be a no-op once bob is back.
	r.apply(graceExpiredEvent{userID: "bob"})

	part := r.roster.ByUser("bob")
	require.NotNil(t, part)
	assert.True(t, part.Connected)
}

func TestDrawerDisconnectEndsTurn(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")
	join(t, r, "carol")

	startGame(t, r, alice)
	require.Equal(t, "alice", r.sched.DrawerID())

	r.apply(disconnectEvent{c: alice})

	var outcome TurnResultPayload
	require.True(t, bob.lastEvent(t, EventTurnResult, &outcome))
	assert.Equal(t, "apple", outcome.Word)

	// Two players remain connected, so the round rotates onward.
	assert.Equal(t, PhaseDrawing, r.sched.Phase())
	assert.Equal(t, "bob", r.sched.DrawerID())
}

func TestGameCancelledWhenTooFewRemain(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")

	startGame(t, r, alice)
	require.Equal(t, PhaseDrawing, r.sched.Phase())

	r.apply(disconnectEvent{c: bob})

	assert.Equal(t, PhaseLobby, r.sched.Phase())
	assert.NotEmpty(t, alice.events(t, EventGameCancelled))
}

func TestCreatorRemovalReassignsEarliestJoiner(t *testing.T) {
	r := newTestRoom(t, 0)

	alice := join(t, r, "alice")
	join(t, r, "bob")
	join(t, r, "carol")

	require.Equal(t, "alice", r.CreatorID)

	// Zero grace period removes alice permanently on disconnect.
	r.apply(disconnectEvent{c: alice})

	assert.Nil(t, r.roster.ByUser("alice"))
	assert.Equal(t, "bob", r.CreatorID)
}

func TestLastRemovalClosesRoom(t *testing.T) {
	r := newTestRoom(t, 0)

	alice := join(t, r, "alice")
	r.apply(disconnectEvent{c: alice})

	assert.True(t, r.done)
}

func TestStartGameFromGameOverResetsScores(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	join(t, r, "bob")

	r.scores.Add("alice", 300)
	r.sched.StartGame(1)
	r.sched.EndGame()

	startGame(t, r, alice)

	assert.Equal(t, PhaseDrawing, r.sched.Phase())
	assert.Equal(t, 0, r.scores.Score("alice"))
}

func TestKnownUserRejoinReplacesConnection(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	oldKey := sessionKeyOf(t, alice)

	alice2 := join(t, r, "alice")
	newKey := sessionKeyOf(t, alice2)

	assert.True(t, alice.kicked)
	assert.NotEqual(t, oldKey, newKey, "a full re-join rotates the session key")
	assert.Equal(t, 1, r.roster.Count())
	assert.Nil(t, r.roster.BySession(oldKey))
}

func TestChatRequiresMatchingSessionKey(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")

	sendChat(t, r, bob, "forged-key", "hello")

	assert.Equal(t, errs.ErrStaleSession, lastErrorCode(t, bob))
	assert.Empty(t, alice.events(t, EventReceiveMessage))
}

func TestOversizedChatRejected(t *testing.T) {
	r := newTestRoom(t, time.Minute)

	alice := join(t, r, "alice")
	key := sessionKeyOf(t, alice)

	big := make([]byte, MaxChatBytes+1)
	for i := range big {
		big[i] = 'a'
	}

	sendChat(t, r, alice, key, string(big))

	assert.Equal(t, errs.ErrMessageTooLong, lastErrorCode(t, alice))
}
