/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package llmclient

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	laclopenai "github.com/cloudwego/eino-ext/libs/acl/openai"
	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/mikeb26/midway/internal/types"
	"google.golang.org/genai"
)

var ErrUnsupportedVendor = errors.New("unsupported llm vendor")

// Config carries everything needed to stand up a chat completion
// client against one vendor.
type Config struct {
	Vendor string
	Model  string
	APIKey string

	// AuditLogPath enables the plaintext audit log when non-empty.
	AuditLogPath string

	// Reasoning is forwarded to vendors that support a reasoning
	// effort knob; others ignore it.
	Reasoning laclopenai.ReasoningEffortLevel
}

type EINOAIClient struct {
	runnable        compose.Runnable[[]*schema.Message, *schema.Message]
	reasoningEffort laclopenai.ReasoningEffortLevel
	auditHandler    callbacks.Handler
	statusHandlers  callbacks.Handler

	subsMu sync.RWMutex
	subs   map[string][]chan types.ProgressEvent //index by invocationID

	// current holds the most recent progress event per invocation ID so that
	// late subscribers (e.g. a session subscribing just after launching its
	// generation batch) can still learn what is currently happening.
	currentMu sync.RWMutex
	current   map[string]types.ProgressEvent
}

// invocationIDKey is an unexported context key type used to store a per-
// invocation ID so that all audit log entries and progress events for a
// single originating call to CreateChatCompletion can be correlated.
type invocationIDKey struct{}

// GetInvocationID extracts the invocation ID from the context, if present.
func GetInvocationID(ctx context.Context) (string, bool) {
	if v := ctx.Value(invocationIDKey{}); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// WithInvocationID attaches a caller chosen invocation ID to the context.
// Sessions use this to subscribe for progress before the invocation starts.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationIDKey{}, id)
}

// EnsureInvocationID returns a context that is guaranteed to carry an
// invocation ID, and the ID itself. If the ID is already present, it is
// reused; otherwise, a new UUID is generated and attached to the context.
func EnsureInvocationID(ctx context.Context) (context.Context, string) {
	if id, ok := GetInvocationID(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	ctx = context.WithValue(ctx, invocationIDKey{}, id)
	return ctx, id
}

func NewEINOClient(ctx context.Context, cfg Config) (types.AIClient, error) {
	var client types.AIClient
	var err error
	switch cfg.Vendor {
	case "openai":
		client, err = newOpenAIEINOClient(ctx, cfg)
	case "anthropic":
		client, err = newAnthropicEINOClient(ctx, cfg)
	case "google":
		client, err = newGoogleEINOClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedVendor, cfg.Vendor)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Reasoning != "" {
		client.SetReasoning(cfg.Reasoning)
	}

	return client, nil
}

func newOpenAIEINOClient(ctx context.Context, cfg Config) (types.AIClient,
	error) {

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		Model:  cfg.Model,
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, err
	}

	return newEINOClient(ctx, chatModel, cfg)
}

func newAnthropicEINOClient(ctx context.Context, cfg Config) (types.AIClient,
	error) {

	chatModel, err := claude.NewChatModel(ctx, &claude.Config{
		Model:  cfg.Model,
		APIKey: cfg.APIKey,
		// currently hardcode max tokens to 64k; see
		// https://platform.claude.com/docs/en/api/go/messages/create
		// https://platform.claude.com/docs/en/about-claude/models/overview
		MaxTokens: 64000,
	})
	if err != nil {
		return nil, err
	}

	return newEINOClient(ctx, chatModel, cfg)
}

func newGoogleEINOClient(ctx context.Context, cfg Config) (types.AIClient,
	error) {

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, err
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Model:  cfg.Model,
		Client: client,
	})
	if err != nil {
		return nil, err
	}

	return newEINOClient(ctx, chatModel, cfg)
}

func newEINOClient(ctx context.Context, chatModel model.BaseChatModel,
	cfg Config) (types.AIClient, error) {

	chain := compose.NewChain[[]*schema.Message, *schema.Message]()
	chain.AppendChatModel(chatModel)
	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, err
	}

	var auditHandler callbacks.Handler
	if cfg.AuditLogPath != "" {
		auditHandler, err = newAuditCallbacksHandler(cfg.AuditLogPath)
		if err != nil {
			return nil, err
		}
	}

	clientOut := &EINOAIClient{
		runnable:        runnable,
		reasoningEffort: laclopenai.ReasoningEffortLevelMedium,
		auditHandler:    auditHandler,
		subs:            make(map[string][]chan types.ProgressEvent),
		current:         make(map[string]types.ProgressEvent),
	}
	clientOut.statusHandlers = newStatusCallbackHandlers(clientOut)
	return clientOut, nil
}

func (client *EINOAIClient) SetReasoning(
	reasoningEffort laclopenai.ReasoningEffortLevel) {
	client.reasoningEffort = reasoningEffort
}

func (client *EINOAIClient) CreateChatCompletion(ctx context.Context,
	dialogueIn []*types.Message) (*types.Message, error) {

	// Ensure this invocation has a correlation ID for audit/progress
	// callbacks. If an ID is already present in the context (e.g. set by a
	// session before it subscribed for progress), it will be reused.
	ctx, _ = EnsureInvocationID(ctx)

	dialogue := make([]*schema.Message, len(dialogueIn))
	for ii, msg := range dialogueIn {
		dialogue[ii] = (*schema.Message)(msg)
	}

	modelOpt := laclopenai.WithReasoningEffort(client.reasoningEffort)
	composeOpt := compose.WithChatModelOption(modelOpt)

	// attach callbacks for model invocations
	var cbComposeOpt compose.Option
	if client.auditHandler != nil {
		cbComposeOpt = compose.WithCallbacks(client.auditHandler,
			client.statusHandlers)
	} else {
		cbComposeOpt = compose.WithCallbacks(client.statusHandlers)
	}

	msg, err := client.runnable.Invoke(ctx, dialogue, composeOpt, cbComposeOpt)
	return (*types.Message)(msg), err
}

// SubscribeProgress registers a subscriber for callback-driven progress events
// for the given invocation ID.
//
// The returned channel will receive events best-effort; if the receiver is too
// slow, events may be dropped. It is the caller's responsibility to call
// UnsubscribeProgress() when no longer required.
func (client *EINOAIClient) SubscribeProgress(
	invocationID string) chan types.ProgressEvent {

	ch := make(chan types.ProgressEvent, 64)
	if invocationID == "" {
		close(ch)
		return nil
	}

	client.subsMu.Lock()
	client.subs[invocationID] = append(client.subs[invocationID], ch)
	client.subsMu.Unlock()

	// Best-effort send the most recent known status for this invocation so the
	// caller doesn't miss early model events that may have fired before the
	// subscription was established.
	client.currentMu.RLock()
	if ev, ok := client.current[invocationID]; ok {
		select {
		case ch <- ev:
		default:
		}
	}
	client.currentMu.RUnlock()

	return ch
}

// UnsubscribeProgress unregisters a subscriber from a previously subscribed
// invocationID
func (client *EINOAIClient) UnsubscribeProgress(ch chan types.ProgressEvent,
	invocationID string) {

	client.subsMu.Lock()
	defer client.subsMu.Unlock()

	subs := client.subs[invocationID]
	for i := range subs {
		if subs[i] == ch {
			subs = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
	if len(subs) == 0 {
		delete(client.subs, invocationID)
	} else {
		client.subs[invocationID] = subs
	}
}

func (client *EINOAIClient) publishProgress(invocationID string,
	ev types.ProgressEvent) {

	if invocationID == "" {
		return
	}

	// Store the latest event so late subscribers can catch up.
	client.currentMu.Lock()
	client.current[invocationID] = ev
	client.currentMu.Unlock()

	subs := make([]chan types.ProgressEvent, 0)

	// make a local copy of the set of subscribers so that new subscribers
	// don't race with iteration
	client.subsMu.RLock()
	subs = append(subs, client.subs[invocationID]...)
	client.subsMu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			// drop if subscriber is slow
		}
	}
}
