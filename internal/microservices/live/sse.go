package live

import (
	"errors"
	"net/http"
	"time"
)

// DefaultWriteTimeout bounds a single frame write to a slow client.
const DefaultWriteTimeout = 10 * time.Second

var errNotFlushable = errors.New("response writer does not support flushing")

// SSEChannel writes event-stream frames to an HTTP response and flushes
// after every frame so the client sees it immediately.
type SSEChannel struct {
	w            http.ResponseWriter
	rc           *http.ResponseController
	writeTimeout time.Duration
}

// NewSSEChannel wraps w. It fails if w cannot flush, since frames would
// otherwise sit in a buffer. Every write must finish within writeTimeout;
// a non-positive value uses DefaultWriteTimeout.
func NewSSEChannel(w http.ResponseWriter, writeTimeout time.Duration) (*SSEChannel, error) {
	if _, ok := w.(http.Flusher); !ok {
		return nil, errNotFlushable
	}
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &SSEChannel{w: w, rc: http.NewResponseController(w), writeTimeout: writeTimeout}, nil
}

// PrepareHeaders sets the event-stream response headers.
func PrepareHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}

// Write sends one frame. A client that stops reading makes the write fail
// once the deadline passes, so the caller can drop the connection.
func (s *SSEChannel) Write(frame []byte) error {
	err := s.rc.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	if _, err := s.w.Write(frame); err != nil {
		return err
	}
	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}
