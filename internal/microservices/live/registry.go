package live

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry is the process-wide list of open connections.
// It is created once at startup and handed to the route layer, the
// dispatcher and the heartbeat.
type Registry struct {
	mu          sync.RWMutex
	connections []*Connection // insertion order
	logger      logrus.FieldLogger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger logrus.FieldLogger) *Registry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{
		connections: make([]*Connection, 0),
		logger:      logger,
	}
}

// Register opens a new connection for userID on ch and appends it.
func (r *Registry) Register(userID string, ch Channel) *Connection {
	conn := newConnection(userID, ch)
	r.add(conn)
	return conn
}

// Admit registers a connection whose first frame is greeting(conn).
// The connection is in the registry before the greeting goes out, but any
// other writer that reaches it waits until the greeting has been written.
// A failed greeting unregisters the connection.
func (r *Registry) Admit(userID string, ch Channel, greeting func(*Connection) Envelope) (*Connection, error) {
	conn := newConnection(userID, ch)
	frame, err := greeting(conn).Frame()
	if err != nil {
		return nil, err
	}

	conn.mu.Lock()
	r.add(conn)
	err = conn.writeLocked(frame)
	conn.mu.Unlock()

	if err != nil {
		r.Unregister(conn.ID)
		return nil, err
	}
	return conn, nil
}

func (r *Registry) add(conn *Connection) {
	r.mu.Lock()
	r.connections = append(r.connections, conn)
	total := len(r.connections)
	r.mu.Unlock()

	r.logger.WithFields(logrus.Fields{
		"connection_id": conn.ID,
		"user_id":       conn.UserID,
		"total":         total,
	}).Info("connection_registered")
}

// Unregister removes and closes the connection with the given id.
// Unknown ids are ignored.
func (r *Registry) Unregister(connectionID string) {
	var removed *Connection

	r.mu.Lock()
	kept := make([]*Connection, 0, len(r.connections))
	for _, c := range r.connections {
		if c.ID == connectionID {
			removed = c
			continue
		}
		kept = append(kept, c)
	}
	r.connections = kept
	r.mu.Unlock()

	if removed == nil {
		return
	}
	removed.Close()
	r.logger.WithFields(logrus.Fields{
		"connection_id": removed.ID,
		"user_id":       removed.UserID,
	}).Info("connection_unregistered")
}

// ForEach calls fn for every connection registered at the time of the call.
// A connection whose callback fails is unregistered; iteration carries on
// with the rest and the error is not returned.
func (r *Registry) ForEach(fn func(*Connection) error) {
	for _, conn := range r.snapshot() {
		if err := fn(conn); err != nil {
			r.logger.WithFields(logrus.Fields{
				"connection_id": conn.ID,
				"user_id":       conn.UserID,
				"error":         err.Error(),
			}).Warn("connection_write_failed")
			r.Unregister(conn.ID)
		}
	}
}

// CountForUser returns how many open connections userID holds.
func (r *Registry) CountForUser(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, c := range r.connections {
		if c.UserID == userID {
			n++
		}
	}
	return n
}

// Has reports whether the connection is still registered.
func (r *Registry) Has(connectionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.connections {
		if c.ID == connectionID {
			return true
		}
	}
	return false
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}

func (r *Registry) snapshot() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Connection, len(r.connections))
	copy(out, r.connections)
	return out
}
