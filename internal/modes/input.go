/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package modes

import (
	"github.com/mikeb26/midway/internal/events"
)

// Input payload conventions shared by every mode. Hardware sources
// (arcade buttons, the touch overlay, the websocket remote) publish
// KindInput events whose payloads use these keys.
const (
	ActionKey    = "action"
	ActionPress  = "press"
	ActionAnswer = "answer"
	ActionAbort  = "abort"

	AnswerKey   = "key"
	AnswerValue = "value"
)

// Action extracts the input's action string, or "" when absent.
func Action(ev events.Event) string {
	v, _ := ev.Payload[ActionKey].(string)
	return v
}

// Answer extracts an answer input's key and value. ok is false for
// anything that is not a well formed answer.
func Answer(ev events.Event) (string, string, bool) {
	if Action(ev) != ActionAnswer {
		return "", "", false
	}
	key, _ := ev.Payload[AnswerKey].(string)
	value, _ := ev.Payload[AnswerValue].(string)
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}
