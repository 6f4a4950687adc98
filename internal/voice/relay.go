package voice

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/PrintfR/HardCode/internal/observability"
	"github.com/PrintfR/HardCode/internal/types"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server frame types.
const (
	FrameCallConfig = "call-config"
	FrameStop       = "stop"
	FrameFeedback   = "feedback"
	FrameError      = "error"
)

// AnalyzeFailedMessage is sent in the error frame when scoring fails.
const AnalyzeFailedMessage = "Failed to analyze session"

const defaultWriteWait = 10 * time.Second

// ServerFrame is a message the relay sends to the browser.
type ServerFrame struct {
	Type           string            `json:"type"`
	Assistant      *AssistantConfig  `json:"assistant,omitempty"`
	VariableValues map[string]string `json:"variableValues,omitempty"`
	Feedback       *types.Feedback   `json:"feedback,omitempty"`
	Message        string            `json:"message,omitempty"`
}

// ClientFrame is a call SDK event forwarded by the browser.
type ClientFrame struct {
	Type           string `json:"type"`
	TranscriptType string `json:"transcriptType,omitempty"`
	Role           string `json:"role,omitempty"`
	Transcript     string `json:"transcript,omitempty"`
	Content        string `json:"content,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Event converts the frame. Partial transcripts and unknown types are
// reported as not ok.
func (f ClientFrame) Event() (Event, bool) {
	switch EventType(f.Type) {
	case EventCallStart, EventCallEnd, EventSpeechStart, EventSpeechEnd:
		return Event{Type: EventType(f.Type)}, true
	case EventTranscript:
		if f.TranscriptType != "" && f.TranscriptType != "final" {
			return Event{}, false
		}
		content := f.Transcript
		if content == "" {
			content = f.Content
		}
		return Event{Type: EventTranscript, Role: f.Role, Content: content}, true
	case EventError:
		return Event{Type: EventError, Message: f.Message}, true
	}
	return Event{}, false
}

// Call identifies the session a relay connection serves.
type Call struct {
	SessionID string
	Assistant *AssistantConfig
	Questions []string
}

// RelayConfig configures a Relay. An empty AllowedOrigins accepts any origin.
// A zero MaxCallDuration never stops a call from the server side.
type RelayConfig struct {
	Buffer          TranscriptBuffer
	Completer       Completer
	Logger          *zap.Logger
	Metrics         *observability.Metrics
	AllowedOrigins  []string
	MaxCallDuration time.Duration
}

// Relay serves the WebSocket endpoint through which the browser-side call
// SDK drives a Bridge.
type Relay struct {
	upgrader        websocket.Upgrader
	buffer          TranscriptBuffer
	completer       Completer
	logger          *zap.Logger
	metrics         *observability.Metrics
	maxCallDuration time.Duration
}

// NewRelay creates a Relay.
func NewRelay(cfg RelayConfig) *Relay {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := cfg.AllowedOrigins
	return &Relay{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 || slices.Contains(origins, "*") {
					return true
				}
				return slices.Contains(origins, r.Header.Get("Origin"))
			},
		},
		buffer:          cfg.Buffer,
		completer:       cfg.Completer,
		logger:          logger.Named("relay"),
		metrics:         cfg.Metrics,
		maxCallDuration: cfg.MaxCallDuration,
	}
}

// Serve upgrades the request and runs the call until call-end or disconnect.
func (rl *Relay) Serve(w http.ResponseWriter, r *http.Request, call Call) {
	conn, err := rl.upgrader.Upgrade(w, r, nil)
	if err != nil {
		rl.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	logger := rl.logger.With(zap.String("session_id", call.SessionID))
	bridge := newConnBridge(conn)

	// Every call restarts the interview; turns left by a dropped call are not part of it.
	if err := rl.buffer.Clear(ctx, call.SessionID); err != nil {
		logger.Warn("failed to reset transcript", zap.Error(err))
	}

	recorder := NewRecorder(ctx, bridge.Events(), RecorderConfig{
		SessionID: call.SessionID,
		Buffer:    rl.buffer,
		Completer: rl.completer,
		Logger:    rl.logger,
		Metrics:   rl.metrics,
	})
	defer recorder.Close()

	if err := bridge.StartCall(ctx, call.Assistant, call.Questions); err != nil {
		logger.Warn("failed to send call config", zap.Error(err))
		return
	}
	if rl.maxCallDuration > 0 {
		timer := time.AfterFunc(rl.maxCallDuration, func() {
			logger.Info("call reached max duration")
			_ = bridge.StopCall(context.Background())
		})
		defer timer.Stop()
	}

	for {
		var frame ClientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("relay connection closed", zap.Error(err))
			}
			return
		}

		ev, ok := frame.Event()
		if !ok {
			logger.Debug("ignoring frame", zap.String("type", frame.Type))
			continue
		}
		bridge.Events().Emit(ev)

		if ev.Type == EventCallEnd {
			bridge.finish(<-recorder.Done())
			return
		}
	}
}

// connBridge is the Bridge whose far end is a browser on a WebSocket.
type connBridge struct {
	conn   *websocket.Conn
	events *Emitter
	mu     sync.Mutex
}

var _ Bridge = (*connBridge)(nil)

func newConnBridge(conn *websocket.Conn) *connBridge {
	return &connBridge{conn: conn, events: NewEmitter()}
}

func (b *connBridge) StartCall(_ context.Context, assistant *AssistantConfig, questions []string) error {
	return b.write(ServerFrame{
		Type:           FrameCallConfig,
		Assistant:      assistant,
		VariableValues: VariableValues(questions),
	})
}

func (b *connBridge) StopCall(context.Context) error {
	return b.write(ServerFrame{Type: FrameStop})
}

func (b *connBridge) Events() *Emitter {
	return b.events
}

func (b *connBridge) finish(outcome Outcome) {
	frame := ServerFrame{Type: FrameFeedback, Feedback: outcome.Feedback}
	if outcome.Err != nil {
		frame = ServerFrame{Type: FrameError, Message: AnalyzeFailedMessage}
	}
	if err := b.write(frame); err != nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = b.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(defaultWriteWait))
}

func (b *connBridge) write(frame ServerFrame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.conn.SetWriteDeadline(time.Now().Add(defaultWriteWait))
	return b.conn.WriteJSON(frame)
}
