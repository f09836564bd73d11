/*
Package game contains the core logic for realtime drawing rooms.

This file defines the Roster: the membership registry tracking who belongs to
a room, their session keys, connection liveness, and the fixed join-order
rotation used for drawing turns.
*/
package game

// connection is the outbound side of one participant's transport link. The
// websocket Client implements it; tests substitute channel-backed fakes.
type connection interface {
	// Enqueue queues an already-marshaled frame for delivery. It reports
	// false when the peer's queue is full or closed.
	Enqueue(data []byte) bool

	// Kick closes the link, telling the peer its session was replaced.
	Kick(reason string)
}

// Participant is one member of a room. A disconnected participant is retained
// until its reconnection grace period expires.
type Participant struct {
	UserID     string
	Nickname   string
	SessionKey string

	// JoinIndex is the participant's position in join order; it drives turn
	// rotation and breaks score ties.
	JoinIndex int

	Connected bool

	conn connection
}

// Roster tracks the participants of one room. It is owned by the room's event
// loop and needs no locking.
type Roster struct {
	byUser    map[string]*Participant
	bySession map[string]*Participant

	// order holds user IDs in join order. Entries are removed only on
	// permanent removal, freeing the rotation slot.
	order []string

	nextJoinIndex int
}

// NewRoster creates an empty Roster.
func NewRoster() *Roster {
	return &Roster{
		byUser:    make(map[string]*Participant),
		bySession: make(map[string]*Participant),
	}
}

// Add registers a new participant with the given session key and binds its
// connection.
func (ro *Roster) Add(userID, nickname, sessionKey string, conn connection) *Participant {
	part := &Participant{
		UserID:     userID,
		Nickname:   nickname,
		SessionKey: sessionKey,
		JoinIndex:  ro.nextJoinIndex,
		Connected:  true,
		conn:       conn,
	}
	ro.nextJoinIndex++

	ro.byUser[userID] = part
	ro.bySession[sessionKey] = part
	ro.order = append(ro.order, userID)

	return part
}

// ByUser returns the participant with the given user ID, or nil.
func (ro *Roster) ByUser(userID string) *Participant {
	return ro.byUser[userID]
}

// BySession returns the participant holding the given session key, or nil.
func (ro *Roster) BySession(sessionKey string) *Participant {
	return ro.bySession[sessionKey]
}

// Rekey replaces a participant's session key, invalidating the old one.
func (ro *Roster) Rekey(part *Participant, sessionKey string) {
	delete(ro.bySession, part.SessionKey)
	part.SessionKey = sessionKey
	ro.bySession[sessionKey] = part
}

// Remove permanently deletes the participant, destroying its session key and
// freeing its rotation slot.
func (ro *Roster) Remove(userID string) {
	part, ok := ro.byUser[userID]
	if !ok {
		return
	}

	delete(ro.byUser, userID)
	delete(ro.bySession, part.SessionKey)

	for i, id := range ro.order {
		if id == userID {
			ro.order = append(ro.order[:i], ro.order[i+1:]...)
			break
		}
	}
}

// Count returns the number of participants, including disconnected ones
// within their grace period.
func (ro *Roster) Count() int {
	return len(ro.byUser)
}

// ConnectedCount returns the number of currently connected participants.
func (ro *Roster) ConnectedCount() int {
	count := 0
	for _, part := range ro.byUser {
		if part.Connected {
			count++
		}
	}
	return count
}

// Ordered returns the participants in join order.
func (ro *Roster) Ordered() []*Participant {
	out := make([]*Participant, 0, len(ro.order))
	for _, userID := range ro.order {
		out = append(out, ro.byUser[userID])
	}
	return out
}

// IndexOf returns the participant's position in the current join order, or -1.
func (ro *Roster) IndexOf(userID string) int {
	for i, id := range ro.order {
		if id == userID {
			return i
		}
	}
	return -1
}

// JoinIndex returns the participant's join index, used as the ranking
// tie-break. Unknown users sort last.
func (ro *Roster) JoinIndex(userID string) int {
	if part, ok := ro.byUser[userID]; ok {
		return part.JoinIndex
	}
	return int(^uint(0) >> 1)
}

// NextDrawer returns the next connected participant in join order strictly
// after the given user ID, wrapping around. When afterUserID is empty or no
// longer present, the scan starts from the beginning. It reports false when
// no connected participant exists.
func (ro *Roster) NextDrawer(afterUserID string) (string, bool) {
	if len(ro.order) == 0 {
		return "", false
	}

	start := 0
	if afterUserID != "" {
		if idx := ro.IndexOf(afterUserID); idx >= 0 {
			start = idx + 1
		}
	}

	for i := range ro.order {
		userID := ro.order[(start+i)%len(ro.order)]
		if part := ro.byUser[userID]; part != nil && part.Connected && userID != afterUserID {
			return userID, true
		}
	}

	return "", false
}

// StillGuessing returns the number of connected participants expected to
// guess this turn, i.e. everyone connected except the drawer.
func (ro *Roster) StillGuessing(drawerID string) int {
	count := 0
	for _, part := range ro.byUser {
		if part.Connected && part.UserID != drawerID {
			count++
		}
	}
	return count
}
