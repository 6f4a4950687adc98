package voice

import (
	"context"
	"sync"
	"time"

	"github.com/PrintfR/HardCode/internal/types"
)

// TranscriptBuffer accumulates the final transcript turns of a call, keyed by
// session id, in arrival order.
type TranscriptBuffer interface {
	Append(ctx context.Context, sessionID string, msg types.TranscriptMessage) error
	Load(ctx context.Context, sessionID string) ([]types.TranscriptMessage, error)
	Clear(ctx context.Context, sessionID string) error
}

// MemoryBuffer keeps transcripts in process memory. Like RedisBuffer, a
// transcript expires ttl after its last append.
type MemoryBuffer struct {
	mu          sync.Mutex
	ttl         time.Duration
	now         func() time.Time
	transcripts map[string]*memoryTranscript
}

type memoryTranscript struct {
	turns   []types.TranscriptMessage
	touched time.Time
}

// NewMemoryBuffer returns an empty MemoryBuffer whose transcripts expire
// after DefaultTranscriptTTL.
func NewMemoryBuffer() *MemoryBuffer {
	return &MemoryBuffer{
		ttl:         DefaultTranscriptTTL,
		now:         time.Now,
		transcripts: make(map[string]*memoryTranscript),
	}
}

func (b *MemoryBuffer) expired(t *memoryTranscript, now time.Time) bool {
	return now.Sub(t.touched) >= b.ttl
}

// Append adds msg to the session's transcript and drops expired transcripts.
func (b *MemoryBuffer) Append(ctx context.Context, sessionID string, msg types.TranscriptMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for id, t := range b.transcripts {
		if b.expired(t, now) {
			delete(b.transcripts, id)
		}
	}

	t, ok := b.transcripts[sessionID]
	if !ok {
		t = &memoryTranscript{}
		b.transcripts[sessionID] = t
	}
	t.turns = append(t.turns, msg)
	t.touched = now
	return nil
}

// Load returns a copy of the session's transcript.
func (b *MemoryBuffer) Load(ctx context.Context, sessionID string) ([]types.TranscriptMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.transcripts[sessionID]
	if !ok || b.expired(t, b.now()) {
		return []types.TranscriptMessage{}, nil
	}
	out := make([]types.TranscriptMessage, len(t.turns))
	copy(out, t.turns)
	return out, nil
}

// Clear drops the session's transcript.
func (b *MemoryBuffer) Clear(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.transcripts, sessionID)
	return nil
}
