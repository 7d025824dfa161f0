/*
Package registry implements the shared in-memory state behind the chat server.

This file computes broadcast fan-out: the exact set of connections that should
receive one message from one sender. Delivery itself belongs to the session
layer and happens after the read lock is released, so a slow recipient never
stalls registry access.
*/
package registry

// Recipients returns the connection IDs that should receive a message from
// the given sender: every other live user who shares at least one room with
// the sender or whose username appears in the sender's direct links. The
// sender is excluded and each recipient appears once even when reachable by
// both paths. An unknown sender yields no recipients.
func (s *State) Recipients(sender ConnID) []ConnID {
	s.coord.AcquireRead()
	defer s.coord.ReleaseRead()

	from := s.findUserByConn(sender)
	if from == nil {
		return nil
	}

	var out []ConnID
	for id, cur := range s.users {
		if id == sender {
			continue
		}

		reach := false
		for roomName := range from.rooms {
			if r := s.rooms[roomName]; r != nil && r.HasMember(cur.Name) {
				reach = true
				break
			}
		}
		if !reach {
			reach = from.HasLink(cur.Name)
		}

		if reach {
			out = append(out, id)
		}
	}
	return out
}
