package pipeline

import (
	"context"

	"github.com/kalambet/coachwire/internal/engine"
	"github.com/kalambet/coachwire/internal/proxy"
)

// Completer produces a chat completion for composed messages. The reply
// path doesn't care whether the model runs locally or in the cloud.
type Completer interface {
	Complete(ctx context.Context, messages []engine.Message) (string, error)
}

// EngineCompleter runs completions on the local inference engine.
type EngineCompleter struct {
	engine engine.Engine
	model  string
}

// NewEngineCompleter creates a Completer backed by the local engine.
func NewEngineCompleter(e engine.Engine, model string) *EngineCompleter {
	return &EngineCompleter{engine: e, model: model}
}

func (c *EngineCompleter) Complete(ctx context.Context, messages []engine.Message) (string, error) {
	return c.engine.Chat(ctx, c.model, messages, nil)
}

// ProxyCompleter runs completions through the OpenRouter cloud proxy.
type ProxyCompleter struct {
	client *proxy.Client
	model  string
}

// NewProxyCompleter creates a Completer backed by the cloud proxy.
func NewProxyCompleter(client *proxy.Client, model string) *ProxyCompleter {
	return &ProxyCompleter{client: client, model: model}
}

func (c *ProxyCompleter) Complete(ctx context.Context, messages []engine.Message) (string, error) {
	msgs := make([]proxy.Message, len(messages))
	for i, m := range messages {
		msgs[i] = proxy.Message{Role: m.Role, Content: m.Content}
	}
	return c.client.Complete(ctx, c.model, msgs)
}
