/*
Package server implements the TCP transport for the chat service: a listener
accept loop, one goroutine per connection, and a line reader that feeds the
session manager. All chat semantics live behind the manager; this package
only moves bytes.
*/
package server

import (
	"bufio"
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog"

	"bisonchat/internal/app/chat"
	"bisonchat/internal/configs"
	"bisonchat/internal/pkg/logx"
)

// maxLineBytes bounds one line of client input.
const maxLineBytes = 2048

// Server accepts TCP chat connections and runs their read loops.
type Server struct {
	config   *configs.AppConfig
	manager  *chat.Manager
	listener net.Listener
	logger   zerolog.Logger
}

// New constructs a Server. ListenAndServe starts it.
func New(cfg *configs.AppConfig, manager *chat.Manager) *Server {
	return &Server{
		config:  cfg,
		manager: manager,
		logger:  logx.Logger().With().Str("component", "tcp").Logger(),
	}
}

// Listen binds the chat port. It runs synchronously so callers can read Addr
// before starting Serve.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.ChatPort))
	if err != nil {
		return fmt.Errorf("bind chat port: %w", err)
	}
	s.listener = ln

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Chat server listening")
	return nil
}

// Serve accepts connections until Shutdown closes the listener.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.serveConn(conn)
	}
}

// ListenAndServe binds the chat port and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Addr returns the bound listener address, for tests that listen on :0.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting new connections. Live sessions are closed by the
// manager's own Shutdown.
func (s *Server) Shutdown() {
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Listener close error")
		}
	}
}

// serveConn attaches the connection as a session and pumps its lines into
// the dispatcher until the client exits or the connection drops.
func (s *Server) serveConn(conn net.Conn) {
	client := s.manager.Attach(&tcpConn{conn: conn})
	defer s.manager.Detach(client)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, maxLineBytes), maxLineBytes)

	for scanner.Scan() {
		if s.manager.Dispatch(client, scanner.Text()) {
			return
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.Debug().Err(err).Str("remote_addr", conn.RemoteAddr().String()).Msg("Read loop ended")
	}
}

// tcpConn adapts net.Conn to the chat.Conn transport interface.
type tcpConn struct {
	conn net.Conn
}

func (t *tcpConn) WriteText(text string) error {
	_, err := t.conn.Write([]byte(text))
	return err
}

func (t *tcpConn) Close() error {
	return t.conn.Close()
}

func (t *tcpConn) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}
