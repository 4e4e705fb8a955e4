/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package prompts

import (
	_ "embed"
)

//go:embed fortune_system.txt
var FortuneSystemMsg string

//go:embed quiz_system.txt
var QuizSystemMsg string

// FortuneUserFmt turns the visitor's chosen sign into the reading
// request.
const FortuneUserFmt = `A visitor born under %v has approached your booth.
Give them their reading.`

// FortuneImageFmt is the art prompt for the reading's keepsake card.
const FortuneImageFmt = `Vintage carnival tarot card art for the zodiac
sign %v. Rich jewel tones, ornate gold border, no text or lettering.`

// QuizUserFmt carries the visitor's three answers, one per line.
const QuizUserFmt = `The visitor answered:
favorite ride: %v
midway snack: %v
prize they would pick: %v

Write their midway profile.`

// Fallbacks keep a session presentable when generation fails or times
// out.
const FallbackFortune = `The spirits are resting at the moment, but they
left word for you: good luck finds those who ride the big wheel twice.
Come back and ask again before the midway closes.`

const FallbackProfile = `The Midway Wanderer: equal parts curiosity and
cotton candy, happiest drifting from booth to booth until something
sparkles.`
