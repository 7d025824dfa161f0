package server

import (
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"bisonchat/internal/app/chat"
	"bisonchat/internal/configs"
)

func startTestServer(t *testing.T) (*chat.Manager, string) {
	t.Helper()

	cfg := &configs.AppConfig{
		Environment: "development",
		ChatPort:    0, // let the kernel pick
		DefaultRoom: "Lobby",
		MOTD:        "Thanks for connecting to BisonChat Server.\n\nchat>",
	}

	manager := chat.NewManager(cfg)
	srv := New(cfg, manager)

	if err := srv.Listen(); err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve()

	t.Cleanup(func() {
		srv.Shutdown()
		manager.Shutdown()
	})

	return manager, srv.Addr().String()
}

// readUntil reads from conn until the accumulated text contains want.
func readUntil(t *testing.T, conn net.Conn, want string) string {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var b strings.Builder
	buf := make([]byte, 1024)
	for !strings.Contains(b.String(), want) {
		n, err := conn.Read(buf)
		if n > 0 {
			b.Write(buf[:n])
		}
		if err != nil {
			t.Fatalf("waiting for %q, got %q (err: %v)", want, b.String(), err)
		}
	}
	return b.String()
}

func sendLine(t *testing.T, conn net.Conn, line string) {
	t.Helper()
	if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
		t.Fatalf("write %q: %v", line, err)
	}
}

// TestServerGreetsAndRegisters verifies a new TCP client gets the MOTD and
// appears in the registry under its guest name.
func TestServerGreetsAndRegisters(t *testing.T) {
	manager, addr := startTestServer(t)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readUntil(t, conn, "chat>")

	deadline := time.Now().Add(2 * time.Second)
	for {
		if users, _ := manager.State().Stats(); users == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("session never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// TestServerRelaysBetweenClients verifies two TCP clients sharing the default
// room exchange a broadcast, with the sender's name as prefix.
func TestServerRelaysBetweenClients(t *testing.T) {
	_, addr := startTestServer(t)

	alice, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer alice.Close()
	readUntil(t, alice, "chat>")

	bob, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer bob.Close()
	readUntil(t, bob, "chat>")

	sendLine(t, alice, "login alice")
	readUntil(t, alice, "Logged in as 'alice'.")

	sendLine(t, alice, "hello bob")
	got := readUntil(t, bob, "::alice> hello bob")
	if !strings.Contains(got, "::alice> hello bob") {
		t.Errorf("bob received %q", got)
	}
}

// TestServerExitCleansUp verifies the exit verb removes the session and
// closes the connection.
func TestServerExitCleansUp(t *testing.T) {
	manager, addr := startTestServer(t)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readUntil(t, conn, "chat>")

	sendLine(t, conn, "exit")

	deadline := time.Now().Add(2 * time.Second)
	for {
		if users, _ := manager.State().Stats(); users == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("session never removed after exit")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// The server closes its side; reads drain to EOF.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 256)
	for {
		if _, err := conn.Read(buf); err != nil {
			return
		}
	}
}

// TestServerDisconnectTearsDown verifies an abrupt client disconnect runs the
// same teardown as an explicit exit.
func TestServerDisconnectTearsDown(t *testing.T) {
	manager, addr := startTestServer(t)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	readUntil(t, conn, "chat>")

	sendLine(t, conn, "join general")
	readUntil(t, conn, "Joined room 'general'.")

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		users, _ := manager.State().Stats()
		members, _ := manager.State().RoomMembers("general")
		if users == 0 && len(members) == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("teardown incomplete: users=%d general=%v", users, members)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
