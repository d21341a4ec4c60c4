// Package signal provides a minimal observer/notification primitive: a
// generic Signal any number of callbacks can be connected to, and a
// Receiver helper embeddable in a struct so it can disconnect every
// connection it made in one call. Callback identity is a handle value, so
// no polymorphic receiver hierarchy is needed.
package signal

import "sync"

// Handle identifies one connection made to a Signal.
type Handle struct {
	id int64
}

type connection[Args any] struct {
	handle   Handle
	callback func(Args)
}

// Signal is a publish point for callbacks taking Args. The zero value is
// ready to use.
type Signal[Args any] struct {
	mu          sync.Mutex
	connections []connection[Args]
	nextID      int64
}

// Connect registers callback and returns a Handle that can later be passed
// to Disconnect.
func (s *Signal[Args]) Connect(callback func(Args)) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	h := Handle{id: s.nextID}
	s.connections = append(s.connections, connection[Args]{handle: h, callback: callback})
	return h
}

// Disconnect removes the connection identified by h. It returns true the
// first time it successfully removes it, and false on every subsequent
// call (including against a handle that was never connected) - so calling
// Disconnect twice on the same handle returns true then false.
func (s *Signal[Args]) Disconnect(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.connections {
		if c.handle == h {
			s.connections = append(s.connections[:i], s.connections[i+1:]...)
			return true
		}
	}
	return false
}

// NumConnections returns the number of callbacks currently connected.
func (s *Signal[Args]) NumConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}

// Emit invokes every connected callback with args, in connection order.
// Callers must not hold a lock the callbacks might need to re-acquire.
func (s *Signal[Args]) Emit(args Args) {
	s.mu.Lock()
	callbacks := make([]func(Args), len(s.connections))
	for i, c := range s.connections {
		callbacks[i] = c.callback
	}
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb(args)
	}
}

// DisconnectAll removes every connection.
func (s *Signal[Args]) DisconnectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections = nil
}

// Receiver is an embeddable helper for objects that connect to one or more
// signals and want to disconnect all of them together (e.g. on teardown),
// without each signal needing to know about the receiver's lifetime.
type Receiver struct {
	mu      sync.Mutex
	tracked []func() bool
}

// Track registers a disconnect function with the receiver so a later call
// to DisconnectAll also tears this connection down.
func Track[Args any](r *Receiver, sig *Signal[Args], callback func(Args)) Handle {
	h := sig.Connect(callback)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracked = append(r.tracked, func() bool { return sig.Disconnect(h) })
	return h
}

// DisconnectAll disconnects every signal connection this receiver tracked.
func (r *Receiver) DisconnectAll() {
	r.mu.Lock()
	tracked := r.tracked
	r.tracked = nil
	r.mu.Unlock()

	for _, disconnect := range tracked {
		disconnect()
	}
}
