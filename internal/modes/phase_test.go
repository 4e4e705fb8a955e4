/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseAdvancement(t *testing.T) {
	tests := []struct {
		name string
		from Phase
		next Phase
		want bool
	}{
		{"intro to active", Intro, Active, true},
		{"intro skips to processing", Intro, Processing, true},
		{"intro skips to outro", Intro, Outro, true},
		{"active self loop", Active, Active, true},
		{"active to processing", Active, Processing, true},
		{"processing to result", Processing, Result, true},
		{"result to outro", Result, Outro, true},
		{"intro self loop", Intro, Intro, false},
		{"result self loop", Result, Result, false},
		{"processing back to active", Processing, Active, false},
		{"outro back to intro", Outro, Intro, false},
		{"past outro", Outro, Phase(7), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, canAdvance(tc.from, tc.next))
		})
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "Intro", Intro.String())
	assert.Equal(t, "Outro", Outro.String())
	assert.Equal(t, "Phase(?)", Phase(9).String())
}
