/*
Package registry implements the shared in-memory state behind the chat server:
the user and room registries, the mutation and query operations that keep them
consistent, and the broadcast recipient computation.

This file defines the Coordinator, the shared/exclusive lock that every
operation in the package serializes through.
*/
package registry

import "sync"

// Coordinator grants shared access to any number of concurrent readers or
// exclusive access to a single writer.
//
// It deliberately does not use sync.RWMutex: a blocked RWMutex.Lock call
// gates subsequent readers (writer priority), whereas this lock lets a steady
// stream of readers run ahead of a waiting writer. The first reader to arrive
// takes the exclusive gate on behalf of all readers and the last one out
// releases it; a writer takes the gate directly.
type Coordinator struct {
	// mu protects readers during entry and exit.
	mu sync.Mutex

	// gate is the underlying exclusive lock shared by the reader group
	// and writers.
	gate sync.Mutex

	// readers counts the readers currently inside.
	readers int
}

// AcquireRead enters the coordinator in shared mode, blocking while a writer
// holds the gate.
func (c *Coordinator) AcquireRead() {
	c.mu.Lock()
	c.readers++
	if c.readers == 1 {
		c.gate.Lock()
	}
	c.mu.Unlock()
}

// ReleaseRead leaves shared mode. The last reader out releases the gate.
func (c *Coordinator) ReleaseRead() {
	c.mu.Lock()
	c.readers--
	if c.readers == 0 {
		c.gate.Unlock()
	}
	c.mu.Unlock()
}

// AcquireWrite enters the coordinator in exclusive mode, blocking until all
// readers and any other writer have left.
func (c *Coordinator) AcquireWrite() {
	c.gate.Lock()
}

// ReleaseWrite leaves exclusive mode.
func (c *Coordinator) ReleaseWrite() {
	c.gate.Unlock()
}
