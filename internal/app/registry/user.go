/*
Package registry implements the shared in-memory state behind the chat server.

This file defines the User record: one logged-in session, its room
memberships, and its outgoing direct links.
*/
package registry

// ConnID is the opaque transport session handle a User is bound to. It is
// allocated by the session layer, is unique among live users, and never
// changes for the lifetime of the user.
type ConnID uint64

// MaxNameLen caps the length of usernames and room names. Longer identifiers
// are truncated, not rejected.
const MaxNameLen = 50

// User represents one logged-in session.
type User struct {
	// Name is the current username, unique among live users and mutable
	// via Rename.
	Name string

	// Conn is the transport session handle, immutable for the user's
	// lifetime.
	Conn ConnID

	// rooms holds the names of rooms the user currently belongs to.
	rooms map[string]struct{}

	// links holds the usernames this user has explicitly connected to.
	// Asymmetric: B appearing here says nothing about B's own links.
	links map[string]struct{}
}

func newUser(id ConnID, name string) *User {
	return &User{
		Name:  name,
		Conn:  id,
		rooms: make(map[string]struct{}),
		links: make(map[string]struct{}),
	}
}

// InRoom reports whether the user currently belongs to the named room.
func (u *User) InRoom(room string) bool {
	_, ok := u.rooms[room]
	return ok
}

// HasLink reports whether the user holds a direct link to target.
func (u *User) HasLink(target string) bool {
	_, ok := u.links[target]
	return ok
}

// Rooms returns a copy of the user's room names.
func (u *User) Rooms() []string {
	out := make([]string, 0, len(u.rooms))
	for name := range u.rooms {
		out = append(out, name)
	}
	return out
}

// Links returns a copy of the user's direct-link targets.
func (u *User) Links() []string {
	out := make([]string, 0, len(u.links))
	for name := range u.links {
		out = append(out, name)
	}
	return out
}

// truncateName clamps an identifier to MaxNameLen bytes.
func truncateName(name string) string {
	if len(name) > MaxNameLen {
		return name[:MaxNameLen]
	}
	return name
}
