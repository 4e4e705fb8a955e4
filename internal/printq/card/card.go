/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package card renders souvenir cards. The PNG formatter drives a
// headless Chrome instance via chromedp; the HTML formatter skips
// Chrome entirely for kiosks that spool markup instead of pixels.
package card

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/mikeb26/midway/internal/printq"
)

//go:embed card.html.tmpl
var cardTmplText string

const (
	DefaultWidth  = 600
	DefaultHeight = 900

	renderTimeout = 30 * time.Second
)

type cardData struct {
	Title  string
	Body   string
	Footer string
	ArtURL template.URL
	Width  int
	Height int
}

// Formatter renders each job's card to PNG with a viewport matching
// the card size and a 30 second render timeout.
type Formatter struct {
	width  int
	height int
	tmpl   *template.Template
}

var _ printq.Formatter = (*Formatter)(nil)

func New(width, height int) (*Formatter, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	tmpl, err := template.New("card").Parse(cardTmplText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse card template: %w", err)
	}
	return &Formatter{width: width, height: height, tmpl: tmpl}, nil
}

func (f *Formatter) Format(ctx context.Context,
	job printq.Job) (printq.Artifact, error) {

	html, err := f.buildHTML(job)
	if err != nil {
		return printq.Artifact{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	chromeCtx, cancelChrome := chromedp.NewContext(ctx)
	defer cancelChrome()

	dataURL := "data:text/html;base64," +
		base64.StdEncoding.EncodeToString([]byte(html))

	var shot []byte
	err = chromedp.Run(chromeCtx,
		chromedp.EmulateViewport(int64(f.width), int64(f.height)),
		chromedp.Navigate(dataURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&shot, 90))
	if err != nil {
		return printq.Artifact{}, fmt.Errorf(
			"failed to render card: %w", err)
	}

	return printq.Artifact{MIME: "image/png", Data: shot}, nil
}

func (f *Formatter) buildHTML(job printq.Job) (string, error) {
	data := cardData{
		Title:  job.Title,
		Body:   job.Body,
		Footer: job.Footer,
		Width:  f.width,
		Height: f.height,
	}
	if len(job.ArtPNG) > 0 {
		data.ArtURL = template.URL("data:image/png;base64," +
			base64.StdEncoding.EncodeToString(job.ArtPNG))
	}

	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build card html: %w", err)
	}
	return buf.String(), nil
}

// HTMLFormatter emits the card's markup directly, for spool setups
// where Chrome is unavailable.
type HTMLFormatter struct {
	inner *Formatter
}

var _ printq.Formatter = (*HTMLFormatter)(nil)

func NewHTML(width, height int) (*HTMLFormatter, error) {
	inner, err := New(width, height)
	if err != nil {
		return nil, err
	}
	return &HTMLFormatter{inner: inner}, nil
}

func (f *HTMLFormatter) Format(ctx context.Context,
	job printq.Job) (printq.Artifact, error) {

	html, err := f.inner.buildHTML(job)
	if err != nil {
		return printq.Artifact{}, err
	}
	return printq.Artifact{MIME: "text/html", Data: []byte(html)}, nil
}
