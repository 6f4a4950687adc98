package llm

import (
	"context"
	"time"

	"github.com/PrintfR/HardCode/internal/observability"
)

// instrumentedClient records a call counter and latency for every GenerateText.
type instrumentedClient struct {
	Client
	metrics   *observability.Metrics
	operation string
}

// Instrument wraps client so its calls are recorded under operation.
// A nil metrics returns client unchanged.
func Instrument(client Client, metrics *observability.Metrics, operation string) Client {
	if metrics == nil {
		return client
	}
	return &instrumentedClient{Client: client, metrics: metrics, operation: operation}
}

func (c *instrumentedClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := c.Client.GenerateText(ctx, prompt)

	outcome := observability.OutcomeOK
	switch {
	case err != nil:
		outcome = observability.OutcomeError
	case text == "":
		outcome = observability.OutcomeEmpty
	}
	c.metrics.ObserveLLMCall(c.operation, outcome, time.Since(start))
	return text, err
}
