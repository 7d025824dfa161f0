/*
Package registry implements the shared in-memory state behind the chat server.

This file defines the deep-copy Snapshot view used by the admin API and by
tests that compare whole-registry state across operations.
*/
package registry

import "sort"

// UserView is the copied-out form of one User.
type UserView struct {
	Conn  ConnID   `json:"connId"`
	Rooms []string `json:"rooms"`
	Links []string `json:"links"`
}

// SnapshotView is a deep copy of both registries taken under one read
// acquisition. Slices are sorted so two views of identical state compare
// equal.
type SnapshotView struct {
	Users map[string]UserView `json:"users"`
	Rooms map[string][]string `json:"rooms"`
}

// Snapshot copies the full registry state. No references into the live
// registries escape.
func (s *State) Snapshot() SnapshotView {
	view := SnapshotView{
		Users: make(map[string]UserView),
		Rooms: make(map[string][]string),
	}

	s.coord.AcquireRead()
	for _, u := range s.users {
		uv := UserView{
			Conn:  u.Conn,
			Rooms: u.Rooms(),
			Links: u.Links(),
		}
		sort.Strings(uv.Rooms)
		sort.Strings(uv.Links)
		view.Users[u.Name] = uv
	}
	for name, r := range s.rooms {
		members := r.Members()
		sort.Strings(members)
		view.Rooms[name] = members
	}
	s.coord.ReleaseRead()

	return view
}
