/*
Package chat ties the transport layer to the state engine.

This file defines the Manager, the central owner of the session table. Every
transport (TCP, WebSocket) attaches its connections here and drives them
through the same Attach / Dispatch / Detach lifecycle.
*/
package chat

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"bisonchat/internal/app/registry"
	"bisonchat/internal/configs"
	"bisonchat/internal/pkg/logx"
)

// Manager coordinates all live sessions and the registry behind them.
//
// The session table maps connection identities to their transport clients and
// is guarded by its own lock; it is transport bookkeeping, deliberately kept
// apart from the registry's user and room state.
type Manager struct {
	state *registry.State

	config *configs.AppConfig

	// mu protects concurrent access to the sessions map.
	mu sync.RWMutex

	// sessions maps connection identities to live clients.
	sessions map[registry.ConnID]*Client

	// nextID allocates connection identities, monotonically increasing.
	nextID atomic.Uint64

	logger zerolog.Logger
}

// NewManager constructs a Manager with a fresh, empty registry.
func NewManager(cfg *configs.AppConfig) *Manager {
	return &Manager{
		state:    registry.NewState(),
		config:   cfg,
		sessions: make(map[registry.ConnID]*Client),
		logger:   logx.Logger().With().Str("component", "manager").Logger(),
	}
}

// State exposes the registry for read-only admin queries.
func (m *Manager) State() *registry.State {
	return m.state
}

// Attach admits a new connection: it allocates a connection identity, starts
// the write pump, greets the client, and registers the session under its
// default guest name (derived from the connection identity, as with every
// new session).
func (m *Manager) Attach(conn Conn) *Client {
	id := registry.ConnID(m.nextID.Add(1))
	c := newClient(id, conn)

	m.mu.Lock()
	m.sessions[id] = c
	m.mu.Unlock()

	go c.WritePump()

	c.Deliver(m.config.MOTD)

	defaultName := fmt.Sprintf("guest%d", id)
	m.state.RegisterSession(id, defaultName, m.config.DefaultRoom)

	m.logger.Info().
		Uint64("conn_id", uint64(id)).
		Str("remote_addr", conn.RemoteAddr()).
		Str("username", defaultName).
		Msg("Session attached")

	return c
}

// Detach runs the full logout sequence for a session: clear the user's links
// and memberships, remove the user record, drop the session, and close the
// transport. The teardown step runs before record removal so the membership
// edges are retracted from both sides.
func (m *Manager) Detach(c *Client) {
	if name, ok := m.state.UserNameByConn(c.id); ok {
		m.state.TeardownUser(name)
	}
	m.state.RemoveSession(c.id)

	m.mu.Lock()
	delete(m.sessions, c.id)
	m.mu.Unlock()

	c.Close()

	m.logger.Info().Uint64("conn_id", uint64(c.id)).Msg("Session detached")
}

// deliver queues text for the session bound to id, if it is still attached.
func (m *Manager) deliver(id registry.ConnID, text string) {
	m.mu.RLock()
	c := m.sessions[id]
	m.mu.RUnlock()

	if c != nil {
		c.Deliver(text)
	}
}

// Shutdown closes every live session. Called once at process teardown.
func (m *Manager) Shutdown() {
	m.logger.Info().Msg("Shutting down all sessions...")

	m.mu.Lock()
	for _, c := range m.sessions {
		c.Close()
	}
	m.sessions = make(map[registry.ConnID]*Client)
	m.mu.Unlock()

	m.logger.Info().Msg("Manager shutdown complete.")
}
