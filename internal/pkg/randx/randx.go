/*
Package randx provides unique identifier generation.

It is used to tag each broadcast with a message ID so one fan-out can be
correlated across the delivery logs of its recipients.
*/
package randx

import "github.com/google/uuid"

// MessageID generates a UUID v4 string identifying one broadcast message.
func MessageID() string {
	return uuid.New().String()
}
