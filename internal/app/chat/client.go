/*
Package chat ties the transport layer to the state engine: it owns the live
session table, dispatches parsed commands, and delivers broadcast fan-out.

This file defines the Client struct, one attached session regardless of
transport, and its outbound delivery queue.
*/
package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"bisonchat/internal/app/registry"
	"bisonchat/internal/pkg/logx"
)

// sendQueueSize is the per-client outbound buffer. Deliveries beyond it are
// dropped so one stalled connection never blocks a broadcast.
const sendQueueSize = 256

// Conn is the transport half of a session. TCP and WebSocket connections
// implement it; the chat layer never touches raw sockets.
type Conn interface {
	// WriteText sends one chunk of text to the client.
	WriteText(text string) error

	// Close tears down the underlying connection.
	Close() error

	// RemoteAddr describes the peer for logging.
	RemoteAddr() string
}

// Client represents one attached session.
type Client struct {
	// id is the connection identity the registry knows this session by.
	id registry.ConnID

	conn Conn

	// send queues outbound text for the write pump.
	send chan string

	// done is closed exactly once when the session shuts down.
	done chan struct{}

	closeOnce sync.Once

	logger zerolog.Logger
}

func newClient(id registry.ConnID, conn Conn) *Client {
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan string, sendQueueSize),
		done: make(chan struct{}),
		logger: logx.Logger().With().
			Str("component", "client").
			Uint64("conn_id", uint64(id)).
			Str("remote_addr", conn.RemoteAddr()).
			Logger(),
	}
}

// ID returns the session's connection identity.
func (c *Client) ID() registry.ConnID {
	return c.id
}

// WritePump drains the send queue onto the connection. It runs in its own
// goroutine and exits when the session closes or the transport fails.
func (c *Client) WritePump() {
	for {
		select {
		case text := <-c.send:
			if err := c.conn.WriteText(text); err != nil {
				c.logger.Info().Err(err).Msg("Write failed; stopping write pump")
				return
			}
		case <-c.done:
			return
		}
	}
}

// Deliver queues text for the client. It never blocks: when the queue is
// full or the session is closing the text is dropped with a warning.
func (c *Client) Deliver(text string) {
	select {
	case <-c.done:
	case c.send <- text:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Send queue full, dropping message")
	}
}

// Close shuts the session down. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error")
		}
	})
}
