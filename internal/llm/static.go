package llm

import (
	"context"
	"sync"
)

// StaticClient is a Client that replays canned replies. Packages that consume
// a Client use it in their tests.
type StaticClient struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
}

// NewStaticClient returns a client that answers with replies in order and
// repeats the last one once exhausted.
func NewStaticClient(replies ...string) *StaticClient {
	return &StaticClient{replies: replies}
}

// NewFailingClient returns a client whose every call fails with err.
func NewFailingClient(err error) *StaticClient {
	return &StaticClient{err: err}
}

// GenerateText returns the next canned reply.
func (c *StaticClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	if len(c.replies) == 0 {
		return "", nil
	}
	reply := c.replies[0]
	if len(c.replies) > 1 {
		c.replies = c.replies[1:]
	}
	return reply, nil
}

// Prompts returns every prompt received so far.
func (c *StaticClient) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prompts...)
}

// Provider reports the static provider name.
func (c *StaticClient) Provider() Provider {
	return "static"
}

// Close does nothing.
func (c *StaticClient) Close() error {
	return nil
}
