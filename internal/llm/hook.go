package llm

import "context"

// PromptHook defines callbacks around LLM requests.
type PromptHook interface {
	Before(ctx context.Context, agent, prompt string)
	After(ctx context.Context, agent, response string, err error)
}

type ctxKeyHook struct{}
type ctxKeyAgent struct{}

// WithAgent attaches an agent name to the context so middlewares and hooks can
// tell which persona issued a request.
func WithAgent(ctx context.Context, agent string) context.Context {
	return context.WithValue(ctx, ctxKeyAgent{}, agent)
}

// AgentFrom returns the agent name stored in the context.
func AgentFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyAgent{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}

// WithPromptHook attaches a PromptHook to the context. Middlewares that call
// HookFrom(ctx) can use this to invoke Before/After around requests.
func WithPromptHook(ctx context.Context, hook PromptHook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

// HookFrom returns the hook stored in the context.
func HookFrom(ctx context.Context) PromptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(PromptHook); ok {
			return h
		}
	}
	return nil
}

// WithHooks calls HookFrom(ctx).Before/After around GenerateText.
// If no hook is present in the context, it is a no-op.
func WithHooks() Middleware {
	return func(next TextClient) TextClient {
		return &hooked{next: next}
	}
}

type hooked struct{ next TextClient }

func (h *hooked) Name() string { return h.next.Name() }
func (h *hooked) Close() error { return h.next.Close() }
func (h *hooked) CountTokens(text string) int {
	return h.next.CountTokens(text)
}
func (h *hooked) TokenCapacity() int { return h.next.TokenCapacity() }

func (h *hooked) GenerateText(ctx context.Context, prompt string) (string, error) {
	if hook := HookFrom(ctx); hook != nil {
		hook.Before(ctx, AgentFrom(ctx), prompt)
	}
	out, err := h.next.GenerateText(ctx, prompt)
	if hook := HookFrom(ctx); hook != nil {
		hook.After(ctx, AgentFrom(ctx), out, err)
	}
	return out, err
}
