package model

// Task defines a single, self-contained estimation task over a stream
// of set elements. This is the interface for the "execution layer".
type Task interface {
	// ProcessElement feeds one application-level element into the task.
	// The element bytes are opaque; the task derives its own 64-bit key.
	ProcessElement(elem []byte)

	// Snapshot returns the task's current wire-transferable state.
	Snapshot() interface{}

	// Reset clears the internal state, preparing for a new session.
	Reset()

	Name() string
}
