/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

package llmclient

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeText(t *testing.T) {
	assert.Equal(t, "hello", summarizeText("hello"))

	long := strings.Repeat("x", 300)
	got := summarizeText(long)
	assert.Len(t, got, 203)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestSummarizeMessages(t *testing.T) {
	assert.Equal(t, "<no-messages>", summarizeMessages(nil))

	msgs := []*schema.Message{
		{Role: schema.System, Content: "you are a carnival fortune teller"},
		{Role: schema.User, Content: "tell my fortune"},
	}
	assert.Equal(t, "user: tell my fortune", summarizeMessages(msgs))

	// trailing nils are skipped
	msgs = append(msgs, nil)
	assert.Equal(t, "user: tell my fortune", summarizeMessages(msgs))
}

func TestGetRunName(t *testing.T) {
	assert.Equal(t, "chat_model", getRunName("chat_model", nil))
	assert.Equal(t, "chat_model", getRunName("chat_model", &callbacks.RunInfo{}))
	assert.Equal(t, "gemini", getRunName("chat_model",
		&callbacks.RunInfo{Name: "gemini"}))
}

func TestAuditModelCallbacksLogLines(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "midway ", log.LstdFlags)
	cb := &auditModelCallbacks{logger: logger}

	ctx := WithInvocationID(context.Background(), "inv-9")
	cb.OnStart(ctx, &callbacks.RunInfo{Name: "gpt"}, &model.CallbackInput{
		Messages: []*schema.Message{
			{Role: schema.User, Content: "hi"},
		},
	})
	cb.OnEnd(ctx, &callbacks.RunInfo{Name: "gpt"}, &model.CallbackOutput{
		Message: &schema.Message{
			Role:             schema.Assistant,
			Content:          "howdy",
			ReasoningContent: "greeting detected",
		},
	})

	out := buf.String()
	assert.Contains(t, out, "[inv-9] model_gpt: user: hi start")
	assert.Contains(t, out, "[inv-9] model_gpt: howdy end")
	assert.Contains(t, out, "[inv-9] model_gpt: reasoning: greeting detected")
}

func TestNewAuditCallbacksHandlerOpensLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	h, err := newAuditCallbacksHandler(path)
	require.NoError(t, err)
	require.NotNil(t, h)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
