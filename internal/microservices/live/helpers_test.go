package live

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"travelguide/internal/microservices/http-api/models"
)

var errBrokenPipe = errors.New("broken pipe")

// recordingChannel keeps every frame written to it.
type recordingChannel struct {
	mu     sync.Mutex
	frames [][]byte
	fail   bool
}

func (c *recordingChannel) Write(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errBrokenPipe
	}
	c.frames = append(c.frames, append([]byte(nil), frame...))
	return nil
}

func (c *recordingChannel) setFail(fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = fail
}

func (c *recordingChannel) Frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.frames))
	copy(out, c.frames)
	return out
}

// dataFrames drops comment frames.
func (c *recordingChannel) dataFrames() [][]byte {
	var out [][]byte
	for _, f := range c.Frames() {
		if bytes.HasPrefix(f, []byte("data: ")) {
			out = append(out, f)
		}
	}
	return out
}

type rawEnvelope struct {
	Type EnvelopeType    `json:"type"`
	Data json.RawMessage `json:"data"`
}

func decodeFrame(t *testing.T, frame []byte) rawEnvelope {
	t.Helper()
	require.True(t, bytes.HasPrefix(frame, []byte("data: ")), "frame %q has no data prefix", frame)
	require.True(t, bytes.HasSuffix(frame, []byte("\n\n")), "frame %q is not terminated", frame)

	body := bytes.TrimSuffix(bytes.TrimPrefix(frame, []byte("data: ")), []byte("\n\n"))
	var env rawEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

type fakeStore struct {
	mu      sync.Mutex
	records []models.Notification
	calls   int
	err     error
}

func (s *fakeStore) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, notifications...)
	return nil
}

func (s *fakeStore) Records() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.records))
	copy(out, s.records)
	return out
}

type fakeDirectory struct {
	ids []string
	err error
}

func (d *fakeDirectory) ListUserIDsExcept(ctx context.Context, userID string) ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}
	out := make([]string, 0, len(d.ids))
	for _, id := range d.ids {
		if id != userID {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeHistory struct {
	records []models.Notification
	err     error
	limit   int
	// before runs inside the query, e.g. to simulate a disconnect
	before func()
}

func (h *fakeHistory) ListRecentByRecipient(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	h.limit = limit
	if h.before != nil {
		h.before()
	}
	if h.err != nil {
		return nil, h.err
	}
	return h.records, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
