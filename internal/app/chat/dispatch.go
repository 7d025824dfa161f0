/*
Package chat ties the transport layer to the state engine.

This file maps incoming command lines onto registry operations and implements
broadcast delivery. Replies use the original BisonChat wire framing: every
reply ends with the "chat>" prompt, and relayed messages are prefixed with
the sender's name.
*/
package chat

import (
	"fmt"
	"strings"

	"bisonchat/internal/pkg/randx"
)

const prompt = "chat>"

const helpText = "Commands:\n" +
	"login <username>\n" +
	"create <room>\n" +
	"join <room>\n" +
	"leave <room>\n" +
	"users\n" +
	"rooms\n" +
	"connect <user>\n" +
	"disconnect <user>\n" +
	"exit\n"

// Dispatch parses one line of client input and invokes the matching
// operation. It returns true when the session asked to end (exit/logout);
// the transport then runs Detach. A verb missing its argument is not an
// error: the line falls through to broadcast, like any other text.
func (m *Manager) Dispatch(c *Client, line string) (quit bool) {
	args := strings.Fields(line)
	if len(args) == 0 {
		c.Deliver("\n" + prompt)
		return false
	}

	verb := args[0]
	arg := ""
	if len(args) > 1 {
		arg = args[1]
	}

	switch {
	case verb == "create" && arg != "":
		m.state.CreateRoom(arg)
		c.Deliver(fmt.Sprintf("Room '%s' created.\n%s", arg, prompt))

	case verb == "join" && arg != "":
		if name, ok := m.state.UserNameByConn(c.id); ok {
			m.state.JoinRoom(name, arg)
		}
		c.Deliver(fmt.Sprintf("Joined room '%s'.\n%s", arg, prompt))

	case verb == "leave" && arg != "":
		if name, ok := m.state.UserNameByConn(c.id); ok {
			m.state.LeaveRoom(name, arg)
		}
		c.Deliver(fmt.Sprintf("Left room '%s'.\n%s", arg, prompt))

	case verb == "connect" && arg != "":
		if name, ok := m.state.UserNameByConn(c.id); ok {
			m.state.ConnectPeer(name, arg)
		}
		c.Deliver(fmt.Sprintf("Connected (DM) with '%s'.\n%s", arg, prompt))

	case verb == "disconnect" && arg != "":
		if name, ok := m.state.UserNameByConn(c.id); ok {
			m.state.DisconnectPeer(name, arg)
		}
		c.Deliver(fmt.Sprintf("Disconnected from '%s'.\n%s", arg, prompt))

	case verb == "rooms":
		var b strings.Builder
		b.WriteString("Rooms list:\n")
		for _, name := range m.state.RoomNames() {
			b.WriteString(name)
			b.WriteByte('\n')
		}
		b.WriteString(prompt)
		c.Deliver(b.String())

	case verb == "users":
		var b strings.Builder
		b.WriteString("Users list:\n")
		for _, name := range m.state.UserNames() {
			b.WriteString(name)
			b.WriteByte('\n')
		}
		b.WriteString(prompt)
		c.Deliver(b.String())

	case verb == "login" && arg != "":
		if err := m.state.Rename(c.id, arg); err != nil {
			c.Deliver(fmt.Sprintf("%s\n%s", err.Message, prompt))
		} else {
			c.Deliver(fmt.Sprintf("Logged in as '%s'.\n%s", arg, prompt))
		}

	case verb == "help":
		c.Deliver(helpText + prompt)

	case verb == "exit" || verb == "logout":
		return true

	default:
		m.broadcast(c, strings.TrimSpace(line))
	}

	return false
}

// broadcast relays text from the sender to its computed fan-out. The
// recipient set is collected under one read acquisition inside the registry;
// every delivery happens after it is released, so a slow recipient cannot
// stall other sessions.
func (m *Manager) broadcast(c *Client, text string) {
	senderName, ok := m.state.UserNameByConn(c.id)
	if !ok {
		return
	}

	framed := fmt.Sprintf("\n::%s> %s\n%s", senderName, text, prompt)
	recipients := m.state.Recipients(c.id)

	for _, id := range recipients {
		m.deliver(id, framed)
	}

	m.logger.Debug().
		Str("message_id", randx.MessageID()).
		Str("sender", senderName).
		Int("recipients", len(recipients)).
		Msg("Broadcast delivered")
}
