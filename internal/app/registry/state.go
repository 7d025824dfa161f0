/*
Package registry implements the shared in-memory state behind the chat server.

This file defines State, the single owned object holding both registries, and
the lock-free primitives the compound operations are built from. Every method
in this file assumes the caller already holds the Coordinator in the required
mode; none of them lock on their own.
*/
package registry

import (
	"github.com/rs/zerolog"

	"bisonchat/internal/pkg/logx"
)

// State holds the user and room registries. It is constructed once at startup
// and passed by reference into every session handler; the Coordinator is the
// only synchronization point for all of it.
//
// Users are indexed twice: the primary map is keyed by connection ID, and a
// secondary name index maps usernames back to connection IDs. Both indexes
// refer to the same User records and are updated together.
type State struct {
	coord Coordinator

	// users is the primary user index, keyed by connection ID.
	users map[ConnID]*User

	// names maps each live username to its connection ID.
	names map[string]ConnID

	// rooms is the room registry, keyed by room name.
	rooms map[string]*Room

	logger zerolog.Logger
}

// NewState constructs an empty State.
func NewState() *State {
	return &State{
		users:  make(map[ConnID]*User),
		names:  make(map[string]ConnID),
		rooms:  make(map[string]*Room),
		logger: logx.Logger().With().Str("component", "registry").Logger(),
	}
}

// findUserByName returns the live user with the given name, or nil.
func (s *State) findUserByName(name string) *User {
	id, ok := s.names[name]
	if !ok {
		return nil
	}
	return s.users[id]
}

// findUserByConn returns the live user bound to the given connection, or nil.
func (s *State) findUserByConn(id ConnID) *User {
	return s.users[id]
}

// findRoomByName returns the room with the given name, or nil.
func (s *State) findRoomByName(name string) *Room {
	return s.rooms[name]
}

// insertUser creates a user record with empty room and link sets. Duplicate
// names are silently ignored rather than treated as an error.
func (s *State) insertUser(id ConnID, name string) {
	if _, taken := s.names[name]; taken {
		return
	}
	if _, live := s.users[id]; live {
		return
	}
	u := newUser(id, name)
	s.users[id] = u
	s.names[name] = id
}

// insertRoom creates a room if it is not already present.
func (s *State) insertRoom(name string) {
	if _, ok := s.rooms[name]; !ok {
		s.rooms[name] = newRoom(name)
	}
}

// removeUser deletes the user bound to id, first retracting every room
// membership it still owns from the room side. Missing users are a no-op.
func (s *State) removeUser(id ConnID) {
	u := s.users[id]
	if u == nil {
		return
	}
	for roomName := range u.rooms {
		if r := s.rooms[roomName]; r != nil {
			delete(r.members, u.Name)
		}
	}
	delete(s.names, u.Name)
	delete(s.users, id)
}

// addMembership records the membership edge on both sides. Present edges are
// left alone.
func (s *State) addMembership(u *User, r *Room) {
	u.rooms[r.Name] = struct{}{}
	r.members[u.Name] = struct{}{}
}

// removeMembership retracts the membership edge from both sides. Absent edges
// are a no-op.
func (s *State) removeMembership(u *User, r *Room) {
	delete(u.rooms, r.Name)
	delete(r.members, u.Name)
}

// addDirectLink records target in the user's link set.
func (s *State) addDirectLink(u *User, target string) {
	u.links[target] = struct{}{}
}

// removeDirectLink drops target from the user's link set.
func (s *State) removeDirectLink(u *User, target string) {
	delete(u.links, target)
}
