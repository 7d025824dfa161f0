/*
Package registry implements the shared in-memory state behind the chat server.

This file defines the compound operations exposed to the session layer. Every
mutation acquires the Coordinator in write mode for its full duration so the
two registries never disagree; queries take read mode, collect a snapshot, and
release before returning. Nothing here performs I/O while a lock is held.
*/
package registry

import (
	"sort"

	"bisonchat/internal/pkg/errs"
)

// RegisterSession creates the user for a new connection, ensures the default
// room exists, and joins the user to it. Repeated identical calls are no-ops.
func (s *State) RegisterSession(id ConnID, defaultName, defaultRoom string) {
	defaultName = truncateName(defaultName)
	defaultRoom = truncateName(defaultRoom)

	s.coord.AcquireWrite()
	defer s.coord.ReleaseWrite()

	s.insertUser(id, defaultName)
	s.insertRoom(defaultRoom)

	u := s.findUserByConn(id)
	r := s.findRoomByName(defaultRoom)
	if u != nil && r != nil {
		s.addMembership(u, r)
	}

	s.logger.Info().
		Uint64("conn_id", uint64(id)).
		Str("username", defaultName).
		Str("room", defaultRoom).
		Msg("Session registered")
}

// CreateRoom ensures the named room exists. Creating an existing room is not
// an error.
func (s *State) CreateRoom(name string) {
	name = truncateName(name)

	s.coord.AcquireWrite()
	defer s.coord.ReleaseWrite()

	s.insertRoom(name)
}

// JoinRoom adds the membership edge between the named user and room, creating
// the room on first reference. Unknown users are a silent no-op.
func (s *State) JoinRoom(username, roomname string) {
	roomname = truncateName(roomname)

	s.coord.AcquireWrite()
	defer s.coord.ReleaseWrite()

	s.insertRoom(roomname)

	u := s.findUserByName(username)
	r := s.findRoomByName(roomname)
	if u != nil && r != nil {
		s.addMembership(u, r)
	}
}

// LeaveRoom removes the membership edge between the named user and room. The
// room record stays even when it becomes empty.
func (s *State) LeaveRoom(username, roomname string) {
	s.coord.AcquireWrite()
	defer s.coord.ReleaseWrite()

	u := s.findUserByName(username)
	r := s.findRoomByName(roomname)
	if u != nil && r != nil {
		s.removeMembership(u, r)
	}
}

// ConnectPeer records a one-directional direct link from username to target.
// The target does not need to exist or to reciprocate.
func (s *State) ConnectPeer(username, target string) {
	target = truncateName(target)

	s.coord.AcquireWrite()
	defer s.coord.ReleaseWrite()

	if u := s.findUserByName(username); u != nil {
		s.addDirectLink(u, target)
	}
}

// DisconnectPeer drops the direct link from username to target, if present.
func (s *State) DisconnectPeer(username, target string) {
	s.coord.AcquireWrite()
	defer s.coord.ReleaseWrite()

	if u := s.findUserByName(username); u != nil {
		s.removeDirectLink(u, target)
	}
}

// TeardownUser clears the user's direct links and retracts every room
// membership on both sides, but leaves the User record itself in place so the
// caller can sequence record removal around a failed send. Callers must run
// this before RemoveSession or the room side of the memberships is dropped
// without its owning user.
func (s *State) TeardownUser(username string) {
	s.coord.AcquireWrite()
	defer s.coord.ReleaseWrite()

	u := s.findUserByName(username)
	if u == nil {
		return
	}

	u.links = make(map[string]struct{})

	for roomName := range u.rooms {
		if r := s.rooms[roomName]; r != nil {
			delete(r.members, u.Name)
		}
	}
	u.rooms = make(map[string]struct{})
}

// RemoveSession deletes the User record bound to the connection. Missing
// sessions are a silent no-op.
func (s *State) RemoveSession(id ConnID) {
	s.coord.AcquireWrite()
	defer s.coord.ReleaseWrite()

	s.removeUser(id)

	s.logger.Info().Uint64("conn_id", uint64(id)).Msg("Session removed")
}

// Rename changes the username of the session bound to id and rewrites every
// occurrence of the old name across all room member sets and all other users'
// direct links. It is the only mutation with a user-visible failure: when the
// new name already belongs to a different live user it returns ErrNameTaken
// and leaves the registries untouched. An empty new name or an unknown
// session is a silent no-op.
func (s *State) Rename(id ConnID, newName string) *errs.CustomError {
	if newName == "" {
		return nil
	}
	newName = truncateName(newName)

	s.coord.AcquireWrite()
	defer s.coord.ReleaseWrite()

	u := s.findUserByConn(id)
	if u == nil {
		return nil
	}

	if other := s.findUserByName(newName); other != nil && other.Conn != id {
		s.logger.Warn().
			Uint64("conn_id", uint64(id)).
			Str("new_name", newName).
			Msg("Rename rejected: name already taken")
		return errs.NewError(errs.ErrNameTaken, newName)
	}

	oldName := u.Name
	if oldName == newName {
		return nil
	}

	u.Name = newName
	delete(s.names, oldName)
	s.names[newName] = id

	// Full-registry scan: rename is rare relative to read traffic.
	for _, r := range s.rooms {
		if _, ok := r.members[oldName]; ok {
			delete(r.members, oldName)
			r.members[newName] = struct{}{}
		}
	}
	for _, other := range s.users {
		if _, ok := other.links[oldName]; ok {
			delete(other.links, oldName)
			other.links[newName] = struct{}{}
		}
	}

	s.logger.Info().
		Uint64("conn_id", uint64(id)).
		Str("old_name", oldName).
		Str("new_name", newName).
		Msg("User renamed")
	return nil
}

// RoomNames returns a sorted snapshot of all live room names.
func (s *State) RoomNames() []string {
	s.coord.AcquireRead()
	out := make([]string, 0, len(s.rooms))
	for name := range s.rooms {
		out = append(out, name)
	}
	s.coord.ReleaseRead()

	sort.Strings(out)
	return out
}

// UserNames returns a sorted snapshot of all live usernames.
func (s *State) UserNames() []string {
	s.coord.AcquireRead()
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	s.coord.ReleaseRead()

	sort.Strings(out)
	return out
}

// UserNameByConn returns the current username bound to the connection.
func (s *State) UserNameByConn(id ConnID) (string, bool) {
	s.coord.AcquireRead()
	defer s.coord.ReleaseRead()

	u := s.findUserByConn(id)
	if u == nil {
		return "", false
	}
	return u.Name, true
}

// RoomMembers returns a sorted snapshot of the named room's members. The
// second return is false when the room does not exist.
func (s *State) RoomMembers(name string) ([]string, bool) {
	s.coord.AcquireRead()
	r := s.findRoomByName(name)
	if r == nil {
		s.coord.ReleaseRead()
		return nil, false
	}
	out := r.Members()
	s.coord.ReleaseRead()

	sort.Strings(out)
	return out, true
}

// Stats returns the current live user and room counts.
func (s *State) Stats() (users, rooms int) {
	s.coord.AcquireRead()
	defer s.coord.ReleaseRead()
	return len(s.users), len(s.rooms)
}
