/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

package llmclient

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	ub "github.com/cloudwego/eino/utils/callbacks"
)

// summarizeText returns a truncated version of s for logging purposes.
func summarizeText(s string) string {
	const maxLen = 200
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// summarizeMessages produces a compact textual representation of a slice of
// schema.Message values suitable for audit logging.
func summarizeMessages(msgs []*schema.Message) string {
	if len(msgs) == 0 {
		return "<no-messages>"
	}

	// Only summarize the last message in the dialogue for logging.
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m == nil {
			continue
		}

		var b strings.Builder
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(summarizeText(m.Content))
		return b.String()
	}

	return "<no-messages>"
}

// getInvocationIDForLog builds the textual prefix for audit log lines based on
// the invocation ID stored in the context, if any.
func getInvocationIDForLog(ctx context.Context) string {
	id, ok := GetInvocationID(ctx)
	if ok {
		return "[" + id + "] "
	}

	return ""
}

// getRunName resolves the effective name for a callback run, falling back to
// defaultName when the callbacks.RunInfo is nil or has an empty Name.
func getRunName(defaultName string, info *callbacks.RunInfo) string {
	if info != nil && info.Name != "" {
		return info.Name
	}
	return defaultName
}

type auditModelCallbacks struct {
	logger *log.Logger
}

func (h *auditModelCallbacks) OnStart(
	ctx context.Context,
	info *callbacks.RunInfo,
	input *model.CallbackInput,
) context.Context {
	name := getRunName("chat_model", info)

	argsSummary := "<nil>"
	if input != nil {
		argsSummary = summarizeMessages(input.Messages)
	}

	prefix := getInvocationIDForLog(ctx)
	h.logger.Printf("%smodel_%s: %s start", prefix, name, argsSummary)
	return ctx
}

func (h *auditModelCallbacks) OnEnd(
	ctx context.Context,
	info *callbacks.RunInfo,
	output *model.CallbackOutput,
) context.Context {
	name := getRunName("chat_model", info)

	// Log the main assistant content in a summarized form.
	resp := "<nil>"
	var reasoning string
	if output != nil && output.Message != nil {
		if output.Message.Content != "" {
			resp = summarizeText(output.Message.Content)
		}
		if rc := output.Message.ReasoningContent; rc != "" {
			reasoning = rc
		}
	}

	prefix := getInvocationIDForLog(ctx)
	h.logger.Printf("%smodel_%s: %s end", prefix, name, resp)

	// If reasoning content is present, log it on a dedicated line without
	// truncation so the full chain-of-thought is available for audits.
	if reasoning != "" {
		h.logger.Printf("%smodel_%s: reasoning: %s", prefix, name, reasoning)
	}
	return ctx
}

// newAuditModelHandler constructs a ModelCallbackHandler that logs model
// invocations and responses using the provided logger.
func newAuditModelHandler(logger *log.Logger) *ub.ModelCallbackHandler {
	cb := &auditModelCallbacks{logger: logger}
	return &ub.ModelCallbackHandler{
		OnStart: cb.OnStart,
		OnEnd:   cb.OnEnd,
	}
}

// newAuditCallbacksHandler builds a callbacks.Handler that wires the model
// audit handler into EINO's callback system.
func newAuditCallbacksHandler(logfile string) (callbacks.Handler, error) {
	f, err := os.OpenFile(logfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	// Include a trailing space in the prefix so entries are easier to scan,
	// e.g. "midway 2026/01/02 15:04:05 [..." instead of "midway2026/...".
	logger := log.New(f, "midway ", log.LstdFlags)

	helper := ub.NewHandlerHelper().
		ChatModel(newAuditModelHandler(logger))

	return helper.Handler(), nil
}
