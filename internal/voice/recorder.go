package voice

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PrintfR/HardCode/internal/observability"
	"github.com/PrintfR/HardCode/internal/types"
	"go.uber.org/zap"
)

// Completer scores a finished call. session.Service satisfies it.
type Completer interface {
	RecordCompletion(ctx context.Context, sessionID string, transcript []types.TranscriptMessage) (*types.Feedback, error)
}

// Outcome is the result of scoring a call.
type Outcome struct {
	Feedback *types.Feedback
	Err      error
}

// Recorder follows one call: it buffers final transcript turns and, on
// call-end, scores the transcript exactly once.
type Recorder struct {
	ctx       context.Context
	sessionID string
	buffer    TranscriptBuffer
	completer Completer
	logger    *zap.Logger
	metrics   *observability.Metrics

	once        sync.Once
	done        chan Outcome
	unsubscribe func()
}

// RecorderConfig holds the collaborators of a Recorder. Logger and Metrics
// may be nil.
type RecorderConfig struct {
	SessionID string
	Buffer    TranscriptBuffer
	Completer Completer
	Logger    *zap.Logger
	Metrics   *observability.Metrics
}

// NewRecorder subscribes a Recorder to events. ctx bounds buffer and
// completion calls.
func NewRecorder(ctx context.Context, events *Emitter, cfg RecorderConfig) *Recorder {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{
		ctx:       ctx,
		sessionID: cfg.SessionID,
		buffer:    cfg.Buffer,
		completer: cfg.Completer,
		logger:    logger.Named("voice").With(zap.String("session_id", cfg.SessionID)),
		metrics:   cfg.Metrics,
		done:      make(chan Outcome, 1),
	}
	r.unsubscribe = events.Subscribe(r.handle)
	return r
}

// Done yields the outcome once the call has ended and been scored.
func (r *Recorder) Done() <-chan Outcome {
	return r.done
}

// Close stops listening for events.
func (r *Recorder) Close() {
	r.unsubscribe()
}

func (r *Recorder) handle(ev Event) {
	r.metrics.VoiceEvent(string(ev.Type))

	switch ev.Type {
	case EventTranscript:
		role := strings.TrimSpace(ev.Role)
		content := strings.TrimSpace(ev.Content)
		if content == "" {
			return
		}
		if role == "" {
			r.logger.Warn("dropping transcript turn without a role")
			return
		}
		msg := types.TranscriptMessage{Role: role, Content: content}
		if err := r.buffer.Append(r.ctx, r.sessionID, msg); err != nil {
			r.logger.Error("failed to buffer transcript turn", zap.Error(err))
		}
	case EventError:
		r.logger.Warn("voice call error", zap.String("message", ev.Message))
	case EventCallStart:
		r.logger.Info("voice call started")
	case EventCallEnd:
		r.once.Do(r.complete)
	}
}

func (r *Recorder) complete() {
	defer close(r.done)

	transcript, err := r.buffer.Load(r.ctx, r.sessionID)
	if err != nil {
		r.done <- Outcome{Err: fmt.Errorf("load transcript: %w", err)}
		return
	}
	r.logger.Info("voice call ended", zap.Int("turns", len(transcript)))

	feedback, err := r.completer.RecordCompletion(r.ctx, r.sessionID, transcript)
	if err != nil {
		r.logger.Error("failed to score call", zap.Error(err))
		r.done <- Outcome{Err: err}
		return
	}

	if err := r.buffer.Clear(r.ctx, r.sessionID); err != nil {
		r.logger.Warn("failed to clear transcript", zap.Error(err))
	}
	r.done <- Outcome{Feedback: feedback}
}
