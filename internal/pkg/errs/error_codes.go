/*
Package errs provides custom error types and application-level error code constants.

These codes identify the conditions the server reports to clients, on the
chat wire or through the admin API.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001
)

// 2xxx: Room Business Logic Errors
const (
	// ErrRoomNotFound indicates that the requested room does not exist.
	ErrRoomNotFound = 2101
)

// 3xxx: User and Session Errors
const (
	// ErrNameTaken indicates that a rename target already belongs to
	// another live user. This is the only failure the state engine
	// surfaces to a chat client; everything else is silently idempotent.
	ErrNameTaken = 3101
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal server error.
	ErrUnknown = 5000
)
