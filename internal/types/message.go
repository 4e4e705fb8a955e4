/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package types

import (
	"context"

	laclopenai "github.com/cloudwego/eino-ext/libs/acl/openai"

	"github.com/cloudwego/eino/schema"
)

// wrap eino with our own types/interfaces in order to enable the possibility
// of switching frameworks easily in the future

type Message schema.Message
type Role schema.RoleType

const RoleSystem = schema.System
const RoleAssistant = schema.Assistant
const RoleUser = schema.User

//go:generate mockgen --build_flags=--mod=mod -destination=ai_client_mock.go -package=$GOPACKAGE github.com/mikeb26/midway/internal/types AIClient

// AIClient is the seam between the kiosk and whichever LLM vendor is
// configured. Generation tasks hold one of these and issue plain,
// non-streaming completions; progress subscribers receive callback-driven
// events keyed by invocation ID so the render loop can surface model
// activity without blocking on it.
type AIClient interface {
	CreateChatCompletion(context.Context, []*Message) (*Message, error)
	SetReasoning(laclopenai.ReasoningEffortLevel)
	SubscribeProgress(invocationID string) chan ProgressEvent
	UnsubscribeProgress(ch chan ProgressEvent, invocationID string)
}

// ImageClient generates souvenir-card artwork from a text prompt. The
// returned bytes are an encoded raster image (PNG or JPEG depending on the
// backing service).
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}
