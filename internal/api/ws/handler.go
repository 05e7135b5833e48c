package ws

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/newtonium-installer/internal/domain/status"
	"github.com/GriffinCanCode/newtonium-installer/internal/infrastructure/monitoring"
)

const writeTimeout = 5 * time.Second

// Dispatcher handles one inbound UI message.
type Dispatcher interface {
	Handle(ctx context.Context, raw string)
}

// The default origin check only admits pages served by this process.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

type session struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
}

// Handler manages the UI bridge connection.
type Handler struct {
	dispatcher Dispatcher
	statuses   *status.Channel
	logger     *zap.Logger
	metrics    *monitoring.Metrics

	mu      sync.Mutex
	current *session
}

// NewHandler creates a bridge forwarding inbound messages to dispatcher and
// draining statuses to the UI.
func NewHandler(dispatcher Dispatcher, statuses *status.Channel, logger *zap.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		statuses:   statuses,
		logger:     logger,
	}
}

// WithMetrics attaches metrics recording.
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// HandleConnection upgrades the request and runs the UI loop until the
// connection closes or a newer connection takes over.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	s := &session{id: uuid.NewString(), cancel: cancel, done: make(chan struct{})}
	h.takeOver(s)
	defer h.release(s)

	logger := h.logger.With(zap.String("connection_id", s.id))
	logger.Info("UI connected", zap.String("remote", c.Request.RemoteAddr))
	defer logger.Info("UI disconnected")

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	events := make(chan string)
	go h.read(ctx, cancel, conn, events, logger)

	h.loop(ctx, conn, events, logger)
}

// takeOver installs s as the active session after stopping the previous one.
func (h *Handler) takeOver(s *session) {
	h.mu.Lock()
	prev := h.current
	h.current = s
	h.mu.Unlock()

	if prev != nil {
		h.logger.Info("New UI connection takes over", zap.String("previous", prev.id), zap.String("current", s.id))
		prev.cancel()
		<-prev.done
	}
}

func (h *Handler) release(s *session) {
	h.mu.Lock()
	if h.current == s {
		h.current = nil
	}
	h.mu.Unlock()
	close(s.done)
}

// Close stops the active session, if any, and waits for its loop to end.
func (h *Handler) Close() {
	h.mu.Lock()
	s := h.current
	h.mu.Unlock()

	if s != nil {
		s.cancel()
		<-s.done
	}
}

func (h *Handler) read(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, events chan<- string, logger *zap.Logger) {
	defer cancel()
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && ctx.Err() == nil {
				logger.Debug("WebSocket read ended", zap.Error(err))
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		select {
		case events <- string(data):
		case <-ctx.Done():
			return
		}
	}
}

func (h *Handler) loop(ctx context.Context, conn *websocket.Conn, events <-chan string, logger *zap.Logger) {
	for {
		if msg, ok := h.statuses.TryReceive(); ok {
			if err := h.deliver(conn, msg); err != nil {
				h.statuses.Requeue(msg)
				logger.Warn("Failed to deliver status", zap.Stringer("kind", msg.Kind), zap.Error(err))
				return
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-h.statuses.Ready():
		case raw := <-events:
			h.record("in", actionLabel(raw))
			h.dispatcher.Handle(ctx, raw)
		}
	}
}

// deliver writes one status to the UI. The text is sent as captured.
func (h *Handler) deliver(conn *websocket.Conn, msg status.Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Wire())); err != nil {
		return err
	}
	h.record("out", msg.Kind.String())
	return nil
}

func (h *Handler) record(direction, kind string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, kind)
	}
}

// actionLabel bounds the metric label to known actions.
func actionLabel(raw string) string {
	name, _, _ := strings.Cut(raw, ";")
	switch name {
	case "install", "launch", "close":
		return name
	default:
		return "other"
	}
}
