/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package prompts

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptsWellFormed(t *testing.T) {
	reading := fmt.Sprintf(FortuneUserFmt, "Leo")
	assert.NotContains(t, reading, "%!")
	assert.NotContains(t, reading, "(EXTRA")

	art := fmt.Sprintf(FortuneImageFmt, "Leo")
	assert.NotContains(t, art, "%!")

	profile := fmt.Sprintf(QuizUserFmt, "ferris wheel", "popcorn", "goldfish")
	assert.NotContains(t, profile, "%!")
	assert.NotContains(t, profile, "(EXTRA")

	assert.NotEmpty(t, FortuneSystemMsg)
	assert.NotEmpty(t, QuizSystemMsg)
	assert.NotEmpty(t, FallbackFortune)
	assert.NotEmpty(t, FallbackProfile)
}
