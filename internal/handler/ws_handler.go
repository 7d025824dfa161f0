/*
Package handler provides the admin HTTP surface of the chat server.

This file contains the WebSocket transport. A WebSocket session runs the same
Attach / Dispatch / Detach lifecycle as a TCP session: each text frame is one
line of the chat protocol, and outbound deliveries arrive as text frames.
*/
package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"bisonchat/internal/pkg/logx"
)

// wsWriteWait bounds one frame write to a WebSocket client.
const wsWriteWait = 10 * time.Second

// HandleWebSocket upgrades the request and drives the connection as a chat
// session until the client exits or the socket drops.
func HandleWebSocket(upgrader websocket.Upgrader, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := deps.Manager.Attach(&wsConn{conn: conn})
		defer deps.Manager.Detach(client)

		logx.Info("WebSocket session established",
			"conn_id", client.ID(),
			"remote_addr", conn.RemoteAddr().String(),
		)

		for {
			msgType, payload, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logx.Info("WebSocket read ended", "conn_id", client.ID(), "error", err.Error())
				}
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}

			// One frame may carry several lines; dispatch each.
			for _, line := range strings.Split(string(payload), "\n") {
				if deps.Manager.Dispatch(client, line) {
					return
				}
			}
		}
	}
}

// wsConn adapts a websocket connection to the chat.Conn transport interface.
type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) WriteText(text string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

func (c *wsConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
