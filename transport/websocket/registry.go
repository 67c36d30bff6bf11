package websocket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gobanhq/goban-backend/internal/entity"
)

// conn wraps one hijacked client connection. The mutex serializes frame
// writes, since the coordinator and the read loop may both push to it.
type conn struct {
	mu    sync.Mutex
	bufrw *bufio.ReadWriter
}

func (that *conn) send(action string, event *entity.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	return writeFrame(that.bufrw, frame{
		isFin:   true,
		opCode:  opText,
		length:  uint64(len(message)),
		payload: message,
	})
}

// Registry maps participant identifiers to live connections. It implements
// the delivery boundary the coordinator and matchmaker depend on: each Push
// is independent and a failed or missing connection only costs a log line.
type Registry struct {
	logger *slog.Logger

	mu    sync.RWMutex
	conns map[string]*conn
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logger.With("component", "ws-registry"),
		conns:  make(map[string]*conn),
	}
}

func (that *Registry) bind(participantID string, c *conn) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.conns[participantID] = c
}

// unbind removes the mapping only if it still points at the given
// connection, so a reconnect is not clobbered by the old socket's teardown.
func (that *Registry) unbind(participantID string, c *conn) {
	that.mu.Lock()
	defer that.mu.Unlock()
	if that.conns[participantID] == c {
		delete(that.conns, participantID)
	}
}

// Push delivers one event to one participant, fire-and-forget.
func (that *Registry) Push(participantID, action string, event *entity.Event) {
	log := that.logger.With("method", "Push", "participantID", participantID, "action", action)

	that.mu.RLock()
	c, ok := that.conns[participantID]
	that.mu.RUnlock()

	if !ok {
		log.Warn("connection not found for participant")
		return
	}

	if err := c.send(action, event); err != nil {
		log.Error("failed to send event", "error", err)
	}
}

func (that *Registry) IsConnected(participantID string) bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	_, ok := that.conns[participantID]
	return ok
}
