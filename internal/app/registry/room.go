/*
Package registry implements the shared in-memory state behind the chat server.

This file defines the Room record: one named channel and its member set.
*/
package registry

// Room represents one named channel. Rooms are created on first reference and
// persist with zero members; they are only released at process teardown.
type Room struct {
	// Name is the room name, unique among live rooms.
	Name string

	// members holds the usernames currently joined.
	members map[string]struct{}
}

func newRoom(name string) *Room {
	return &Room{
		Name:    name,
		members: make(map[string]struct{}),
	}
}

// HasMember reports whether the named user is currently joined.
func (r *Room) HasMember(username string) bool {
	_, ok := r.members[username]
	return ok
}

// Members returns a copy of the room's member names.
func (r *Room) Members() []string {
	out := make([]string, 0, len(r.members))
	for name := range r.members {
		out = append(out, name)
	}
	return out
}
