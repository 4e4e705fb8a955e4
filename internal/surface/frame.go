/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package surface abstracts the render targets a session draws to.
package surface

// Frame is one rendered kiosk frame, expressed as structured content
// rather than pixels so each target can lay it out for its own
// geometry.
type Frame struct {
	Headline string  `json:"headline"`
	Body     string  `json:"body"`
	Ticker   string  `json:"ticker,omitempty"`
	Progress float64 `json:"progress"`
	ArtPNG   []byte  `json:"art_png,omitempty"`
}

// Target is a display surface frames are pushed to once per tick.
type Target interface {
	Name() string
	Size() (w, h int)
	Show(frame Frame)
}
