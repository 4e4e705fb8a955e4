/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

package llmclient

import (
	"context"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	ub "github.com/cloudwego/eino/utils/callbacks"
	"github.com/mikeb26/midway/internal/types"
)

type statusModelCallbacks struct {
	client *EINOAIClient
}

func (h *statusModelCallbacks) OnStart(
	ctx context.Context,
	info *callbacks.RunInfo,
	input *model.CallbackInput,
) context.Context {
	id, ok := GetInvocationID(ctx)
	if !ok || h.client == nil {
		return ctx
	}

	h.client.publishProgress(id, types.ProgressEvent{
		InvocationID: id,
		Component:    types.ProgressComponentModel,
		DisplayText:  getRunName("chat_model", info),
		Phase:        types.ProgressPhaseStart,
		Time:         time.Now(),
	})
	return ctx
}

func (h *statusModelCallbacks) OnEnd(
	ctx context.Context,
	info *callbacks.RunInfo,
	output *model.CallbackOutput,
) context.Context {
	id, ok := GetInvocationID(ctx)
	if !ok || h.client == nil {
		return ctx
	}

	h.client.publishProgress(id, types.ProgressEvent{
		InvocationID: id,
		Component:    types.ProgressComponentModel,
		DisplayText:  getRunName("chat_model", info),
		Phase:        types.ProgressPhaseEnd,
		Time:         time.Now(),
	})
	return ctx
}

func newStatusModelHandler(client *EINOAIClient) *ub.ModelCallbackHandler {
	cb := &statusModelCallbacks{client: client}
	return &ub.ModelCallbackHandler{
		OnStart: cb.OnStart,
		OnEnd:   cb.OnEnd,
	}
}

func newStatusCallbackHandlers(client *EINOAIClient) callbacks.Handler {
	helper := ub.NewHandlerHelper().
		ChatModel(newStatusModelHandler(client))

	return helper.Handler()
}
