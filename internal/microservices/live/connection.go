package live

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrConnectionClosed is returned by writes on a connection that has been closed.
var ErrConnectionClosed = errors.New("connection closed")

// Channel is the write side of a long-lived server-to-client push stream.
// Implementations do not need to be safe for concurrent use; Connection
// serialises every write.
type Channel interface {
	Write(frame []byte) error
}

// Connection is one open push channel owned by a user.
// A user may hold several at once (tabs, devices).
type Connection struct {
	ID          string
	UserID      string
	ConnectedAt time.Time

	mu      sync.Mutex // guards channel and closed
	channel Channel
	closed  bool
}

func newConnection(userID string, ch Channel) *Connection {
	return &Connection{
		ID:          uuid.NewString(),
		UserID:      userID,
		ConnectedAt: time.Now(),
		channel:     ch,
	}
}

// Send encodes the envelope as a data frame and writes it.
func (c *Connection) Send(env Envelope) error {
	frame, err := env.Frame()
	if err != nil {
		return err
	}
	return c.write(frame)
}

// SendComment writes a comment-only frame such as a keep-alive marker.
func (c *Connection) SendComment(text string) error {
	return c.write(CommentFrame(text))
}

func (c *Connection) write(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeLocked(frame)
}

// writeLocked expects c.mu to be held.
func (c *Connection) writeLocked(frame []byte) error {
	if c.closed {
		return ErrConnectionClosed
	}
	if err := c.channel.Write(frame); err != nil {
		return fmt.Errorf("write to connection %s: %w", c.ID, err)
	}
	return nil
}

// Close marks the connection CLOSED. It waits for an in-flight write to
// finish, so once Close returns the underlying channel is never touched again.
// Closing twice is a no-op.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Closed reports whether Close has been called.
func (c *Connection) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
