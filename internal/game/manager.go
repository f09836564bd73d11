/*
Package game contains the core logic for realtime drawing rooms.

This file defines the Manager struct, which serves as the central coordinator
for the game server. It is responsible for creating, tracking, retrieving, and
cleaning up all active Room instances.
*/
package game

import (
	"context"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"scrawl/internal/auth"
	"scrawl/internal/clock"
	"scrawl/internal/configs"
	"scrawl/internal/directory"
	"scrawl/internal/pkg/errs"
	"scrawl/internal/pkg/logx"
	"scrawl/internal/pkg/randx"
)

// MaxRoomNameLen is the maximum accepted room name length in runes.
const MaxRoomNameLen = 40

// WordSource extends WordProvider with per-room state release, called when a
// room shuts down.
type WordSource interface {
	WordProvider
	Release(ctx context.Context, roomID string) error
}

// Manager is responsible for coordinating and managing all active rooms.
type Manager struct {
	// rooms stores a map of all Room instances, keyed by room ID.
	rooms map[string]*Room

	// config holds the application's read-only configuration settings.
	config *configs.AppConfig

	verifier  auth.Verifier
	words     WordSource
	announcer directory.Announcer
	clk       clock.Clock

	// mu protects concurrent access to the rooms map.
	mu sync.RWMutex

	// the channel used by Rooms to notify the Manager to clean up and remove them.
	cleanup chan RoomCleanupMsg

	// wg is used to wait for the runCleanupLoop goroutine to finish during shutdown.
	wg sync.WaitGroup

	// structured logger with Manager context.
	logger zerolog.Logger
}

// NewManager constructs and returns a new Manager instance.
func NewManager(
	cfg *configs.AppConfig,
	verifier auth.Verifier,
	words WordSource,
	announcer directory.Announcer,
	clk clock.Clock,
) *Manager {
	managerLogger := logx.Logger().With().Str("component", "Manager").Logger()

	m := &Manager{
		rooms:     make(map[string]*Room),
		config:    cfg,
		verifier:  verifier,
		words:     words,
		announcer: announcer,
		clk:       clk,
		cleanup:   make(chan RoomCleanupMsg, 10),
		logger:    managerLogger,
	}

	m.wg.Add(1)

	go m.runCleanupLoop()

	return m
}

// runCleanupLoop is a blocking loop that listens on the cleanup channel.
// When a RoomCleanupMsg is received, it calls deleteRoom to remove the corresponding room.
func (m *Manager) runCleanupLoop() {
	defer m.wg.Done()

	m.logger.Info().Msg("Cleanup loop started.")

	for msg := range m.cleanup {
		m.deleteRoom(msg.RoomID)
	}

	m.logger.Info().Msg("Cleanup loop stopped.")
}

// deleteRoom removes the specified room from the Manager's rooms map and
// releases its external state: the directory listing and the word pool's
// recent-word memory.
func (m *Manager) deleteRoom(roomID string) {
	m.mu.Lock()
	_, ok := m.rooms[roomID]
	if ok {
		delete(m.rooms, roomID)
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), collaboratorTimeout)
	defer cancel()

	if err := m.announcer.RoomClosed(ctx, roomID); err != nil {
		m.logger.Warn().Err(err).Str("room_id", roomID).Msg("Failed to remove room from directory.")
	}

	if err := m.words.Release(ctx, roomID); err != nil {
		m.logger.Warn().Err(err).Str("room_id", roomID).Msg("Failed to release word pool state.")
	}

	m.logger.Info().Str("room_id", roomID).Msg("Room successfully removed.")
}

// CreateRoom creates a new Room with a generated ID, adds it to the managed
// list, and starts its Run loop. A non-empty password makes the room private;
// only the bcrypt hash is retained.
func (m *Manager) CreateRoom(name, creatorID, password string) (*Room, *errs.CustomError) {
	if name == "" || utf8.RuneCountInString(name) > MaxRoomNameLen {
		return nil, errs.NewError(errs.ErrRoomNameInvalid)
	}

	var passwordHash []byte
	private := password != ""
	if private {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			m.logger.Error().Err(err).Msg("Failed to hash room password.")
			return nil, errs.NewError(errs.ErrUnknown)
		}
		passwordHash = hash
	}

	roomID, err := randx.RoomID()
	if err != nil {
		m.logger.Error().Err(err).Msg("Failed to generate room ID.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	roomCfg := RoomConfig{
		MaxPlayers:   m.config.MaxPlayers,
		Rounds:       m.config.Rounds,
		TurnTicks:    m.config.TurnTicks,
		TickInterval: m.config.TickInterval,
		GracePeriod:  m.config.GracePeriod,
	}

	newRoom := NewRoom(
		roomID,
		name,
		creatorID,
		private,
		passwordHash,
		roomCfg,
		m.verifier,
		m.words,
		m.announcer,
		m.clk,
		m.cleanup,
	)

	m.mu.Lock()
	m.rooms[roomID] = newRoom
	m.mu.Unlock()

	go newRoom.Run()

	m.logger.Info().
		Str("room_id", roomID).
		Bool("private", private).
		Msg("New Room created and started.")

	return newRoom, nil
}

// GetRoom retrieves a Room instance by its room ID.
func (m *Manager) GetRoom(roomID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil
	}
	return room
}

// Shutdown gracefully shuts down the Manager and all managed rooms.
// It stops all room Run loops, closes the cleanup channel, and waits for the cleanup goroutine to exit.
func (m *Manager) Shutdown() {
	m.logger.Info().Msg("Shutting down Manager cleanup loop...")

	m.mu.Lock()

	for _, room := range m.rooms {
		room.Stop()
	}
	m.rooms = nil

	m.mu.Unlock()

	close(m.cleanup)
	m.wg.Wait()

	m.logger.Info().Msg("Manager shutdown complete.")
}
