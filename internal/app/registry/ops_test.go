package registry

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"bisonchat/internal/pkg/errs"
)

func viewsEqual(a, b SnapshotView) bool {
	return reflect.DeepEqual(a, b)
}

// TestRegisterSessionJoinsDefaultRoom verifies that a new session gets its
// default name and lands in the default room on both sides.
func TestRegisterSessionJoinsDefaultRoom(t *testing.T) {
	s := NewState()
	s.RegisterSession(1, "guest1", "Lobby")

	view := s.Snapshot()
	checkSymmetry(t, view)

	uv, ok := view.Users["guest1"]
	if !ok {
		t.Fatal("registered user missing")
	}
	if !slices.Contains(uv.Rooms, "Lobby") {
		t.Errorf("user rooms = %v, want to contain Lobby", uv.Rooms)
	}
	if !slices.Contains(view.Rooms["Lobby"], "guest1") {
		t.Errorf("Lobby members = %v, want to contain guest1", view.Rooms["Lobby"])
	}
}

// TestRegisterSessionIdempotent verifies repeated identical registration
// changes nothing.
func TestRegisterSessionIdempotent(t *testing.T) {
	s := NewState()
	s.RegisterSession(1, "guest1", "Lobby")
	before := s.Snapshot()

	s.RegisterSession(1, "guest1", "Lobby")

	if got := s.Snapshot(); !viewsEqual(before, got) {
		t.Error("repeated registration changed registry state")
	}
}

// TestCreateRoomIdempotent verifies that creating an existing room is not an
// error and leaves its members alone.
func TestCreateRoomIdempotent(t *testing.T) {
	s := NewState()
	s.RegisterSession(1, "alice", "Lobby")
	s.CreateRoom("Lobby")

	if members, _ := s.RoomMembers("Lobby"); !slices.Contains(members, "alice") {
		t.Errorf("re-creating Lobby lost members: %v", members)
	}
}

// TestJoinRoomCreatesRoom verifies join-on-first-reference.
func TestJoinRoomCreatesRoom(t *testing.T) {
	s := NewState()
	s.RegisterSession(1, "alice", "Lobby")
	s.JoinRoom("alice", "general")

	members, ok := s.RoomMembers("general")
	if !ok {
		t.Fatal("join did not create the room")
	}
	if !slices.Contains(members, "alice") {
		t.Errorf("general members = %v, want alice", members)
	}
}

// TestLeaveRoomKeepsEmptyRoom verifies that an emptied room persists.
func TestLeaveRoomKeepsEmptyRoom(t *testing.T) {
	s := NewState()
	s.RegisterSession(1, "alice", "Lobby")
	s.JoinRoom("alice", "general")
	s.LeaveRoom("alice", "general")

	members, ok := s.RoomMembers("general")
	if !ok {
		t.Fatal("room was destroyed when emptied")
	}
	if len(members) != 0 {
		t.Errorf("general members = %v, want empty", members)
	}
}

// TestConnectPeerAsymmetric verifies that a direct link is one-directional.
func TestConnectPeerAsymmetric(t *testing.T) {
	s := NewState()
	s.RegisterSession(1, "alice", "Lobby")
	s.RegisterSession(2, "bob", "Lobby")

	s.ConnectPeer("alice", "bob")

	view := s.Snapshot()
	if !slices.Contains(view.Users["alice"].Links, "bob") {
		t.Error("alice should hold a link to bob")
	}
	if slices.Contains(view.Users["bob"].Links, "alice") {
		t.Error("bob must not hold a reciprocal link to alice")
	}
}

// TestConnectPeerTargetNeedNotExist verifies linking to an unknown name.
func TestConnectPeerTargetNeedNotExist(t *testing.T) {
	s := NewState()
	s.RegisterSession(1, "alice", "Lobby")

	s.ConnectPeer("alice", "ghost")

	if !slices.Contains(s.Snapshot().Users["alice"].Links, "ghost") {
		t.Error("link to a non-existent target should still be recorded")
	}
}

// TestDisconnectPeerKeepsRoomMembership covers the scenario where dropping a
// direct link leaves an unrelated shared-room path intact.
func TestDisconnectPeerKeepsRoomMembership(t *testing.T) {
	s := NewState()
	s.RegisterSession(1, "guest1", "Lobby")
	s.RegisterSession(2, "guest2", "Lobby")
	s.ConnectPeer("guest1", "guest2")
	s.DisconnectPeer("guest1", "guest2")

	view := s.Snapshot()
	if slices.Contains(view.Users["guest1"].Links, "guest2") {
		t.Error("link should be gone after disconnect")
	}
	if !slices.Contains(view.Rooms["Lobby"], "guest2") {
		t.Error("room membership must be unaffected by disconnect")
	}

	recipients := s.Recipients(1)
	if len(recipients) != 1 || recipients[0] != 2 {
		t.Errorf("broadcast should still reach guest2 via the room, got %v", recipients)
	}
}

// TestTeardownUserKeepsRecord verifies teardown clears links and memberships
// but leaves the user itself for the caller to remove separately.
func TestTeardownUserKeepsRecord(t *testing.T) {
	s := NewState()
	s.RegisterSession(1, "alice", "Lobby")
	s.JoinRoom("alice", "general")
	s.ConnectPeer("alice", "bob")

	s.TeardownUser("alice")

	view := s.Snapshot()
	checkSymmetry(t, view)

	uv, ok := view.Users["alice"]
	if !ok {
		t.Fatal("teardown must not remove the user record")
	}
	if len(uv.Rooms) != 0 || len(uv.Links) != 0 {
		t.Errorf("teardown left rooms=%v links=%v", uv.Rooms, uv.Links)
	}
	for room, members := range view.Rooms {
		if slices.Contains(members, "alice") {
			t.Errorf("room %q still lists the torn-down user", room)
		}
	}
}

// TestRenamePropagation verifies that a successful rename rewrites the old
// name everywhere: the name index, every room member set, every link set.
func TestRenamePropagation(t *testing.T) {
	s := NewState()
	s.RegisterSession(1, "alice", "Lobby")
	s.RegisterSession(2, "bob", "Lobby")
	s.JoinRoom("alice", "general")
	s.ConnectPeer("bob", "alice")

	if err := s.Rename(1, "carol"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	view := s.Snapshot()
	checkSymmetry(t, view)

	if _, ok := view.Users["alice"]; ok {
		t.Error("old name still indexed")
	}
	uv, ok := view.Users["carol"]
	if !ok {
		t.Fatal("new name not indexed")
	}
	if uv.Conn != 1 {
		t.Errorf("renamed user bound to conn %d, want 1", uv.Conn)
	}

	for room, members := range view.Rooms {
		if slices.Contains(members, "alice") {
			t.Errorf("room %q still lists the old name", room)
		}
	}
	if !slices.Contains(view.Rooms["general"], "carol") {
		t.Error("room member set was not rewritten to the new name")
	}
	if !slices.Contains(view.Users["bob"].Links, "carol") {
		t.Error("bob's direct link was not rewritten to the new name")
	}
	if slices.Contains(view.Users["bob"].Links, "alice") {
		t.Error("bob's direct link still holds the old name")
	}
}

// TestRenameConflictLeavesStateUnchanged verifies rename is all-or-nothing:
// on a name conflict the whole registry is untouched.
func TestRenameConflictLeavesStateUnchanged(t *testing.T) {
	s := NewState()
	s.RegisterSession(1, "guest1", "Lobby")
	s.RegisterSession(2, "guest2", "Lobby")
	s.JoinRoom("guest1", "general")
	s.ConnectPeer("guest2", "guest1")

	before := s.Snapshot()

	err := s.Rename(1, "guest2")
	if err == nil {
		t.Fatal("expected a name-taken error")
	}
	if err.Code != errs.ErrNameTaken {
		t.Errorf("error code = %d, want %d", err.Code, errs.ErrNameTaken)
	}

	if got := s.Snapshot(); !viewsEqual(before, got) {
		t.Errorf("failed rename changed registry state:\nbefore %+v\nafter  %+v", before, got)
	}
}

// TestRenameToOwnName verifies renaming to the current name succeeds as a
// no-op rather than reporting a conflict.
func TestRenameToOwnName(t *testing.T) {
	s := NewState()
	s.RegisterSession(1, "alice", "Lobby")

	before := s.Snapshot()
	if err := s.Rename(1, "alice"); err != nil {
		t.Fatalf("self-rename reported conflict: %v", err)
	}
	if got := s.Snapshot(); !viewsEqual(before, got) {
		t.Error("self-rename changed registry state")
	}
}

// TestRenameEmptyNameNoOp verifies an empty new name is silently ignored.
func TestRenameEmptyNameNoOp(t *testing.T) {
	s := NewState()
	s.RegisterSession(1, "alice", "Lobby")

	if err := s.Rename(1, ""); err != nil {
		t.Fatalf("empty rename returned error: %v", err)
	}
	if name, _ := s.UserNameByConn(1); name != "alice" {
		t.Errorf("name changed to %q on empty rename", name)
	}
}

// TestNameTruncation verifies identifiers longer than MaxNameLen are clamped
// rather than rejected.
func TestNameTruncation(t *testing.T) {
	s := NewState()
	long := strings.Repeat("x", MaxNameLen+20)
	s.RegisterSession(1, long, "Lobby")

	name, ok := s.UserNameByConn(1)
	if !ok {
		t.Fatal("user with long name not registered")
	}
	if len(name) != MaxNameLen {
		t.Errorf("name length = %d, want %d", len(name), MaxNameLen)
	}
}

// TestUsernameUniquenessAcrossOps verifies no sequence of register and
// rename operations yields two live users with one name.
func TestUsernameUniquenessAcrossOps(t *testing.T) {
	s := NewState()
	s.RegisterSession(1, "alice", "Lobby")
	s.RegisterSession(2, "bob", "Lobby")
	s.Rename(2, "alice") // conflict, ignored
	s.RegisterSession(3, "alice", "Lobby")

	users := s.UserNames()
	seen := make(map[string]bool)
	for _, name := range users {
		if seen[name] {
			t.Fatalf("duplicate live username %q in %v", name, users)
		}
		seen[name] = true
	}
}
