/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package fortune implements the fortune teller kiosk mode. A visitor
// picks their zodiac sign, the model writes a short reading while an
// image backend paints card art, and the session ends with a printable
// keepsake card.
package fortune

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mikeb26/midway/internal/events"
	"github.com/mikeb26/midway/internal/generation"
	"github.com/mikeb26/midway/internal/llmclient"
	"github.com/mikeb26/midway/internal/modes"
	"github.com/mikeb26/midway/internal/prompts"
	"github.com/mikeb26/midway/internal/surface"
	"github.com/mikeb26/midway/internal/types"
	"go.uber.org/zap"
)

const ModeID = "fortune"

const (
	SignKey = "sign"

	taskReading = "fortune.reading"
	taskArt     = "fortune.art"

	animProgress = "progress"
)

var signs = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// Config carries the mode's backends and timings. Zero valued timings
// fall back to production defaults; tests shrink them.
type Config struct {
	Text  types.AIClient
	Image types.ImageClient

	TextTimeout  time.Duration
	ImageTimeout time.Duration
	MaxRetries   int
	RetryDelay   time.Duration

	// AttractWindow bounds how long Intro and Active wait for a
	// visitor before the session quietly ends.
	AttractWindow time.Duration
	ResultDwell   time.Duration
	OutroDwell    time.Duration
}

func (cfg Config) withDefaults() Config {
	if cfg.TextTimeout <= 0 {
		cfg.TextTimeout = 45 * time.Second
	}
	if cfg.ImageTimeout <= 0 {
		cfg.ImageTimeout = 60 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.AttractWindow <= 0 {
		cfg.AttractWindow = 60 * time.Second
	}
	if cfg.ResultDwell <= 0 {
		cfg.ResultDwell = 30 * time.Second
	}
	if cfg.OutroDwell <= 0 {
		cfg.OutroDwell = 8 * time.Second
	}
	return cfg
}

func Descriptor() modes.Descriptor {
	return modes.Descriptor{
		ID:                ModeID,
		Title:             "Madame Zostra",
		Description:       "Pick your sign and hear your fortune",
		RequiresService:   true,
		EstimatedDuration: 3 * time.Minute,
	}
}

// NewFactory returns the session factory the mode manager registers.
func NewFactory(cfg Config) modes.Factory {
	cfg = cfg.withDefaults()
	return func() modes.Session {
		return &session{cfg: cfg}
	}
}

type session struct {
	cfg  Config
	sign string

	orch      *generation.Orchestrator
	genCancel context.CancelFunc
	invID     string
	progCh    chan types.ProgressEvent
	activity  string

	reading string
	artPNG  []byte
}

var _ modes.Renderer = (*session)(nil)
var _ modes.PhaseListener = (*session)(nil)

func (s *session) OnEnter(sc *modes.Context) {
	sc.Log.Info("visitor approaching the fortune booth")
}

func (s *session) OnUpdate(sc *modes.Context, delta time.Duration) {
	switch sc.Phase() {
	case modes.Intro, modes.Active:
		if sc.PhaseElapsed() >= s.cfg.AttractWindow {
			sc.Complete(modes.SessionResult{
				Success: true,
				Summary: "no visitor interaction",
			})
		}
	case modes.Processing:
		s.drainProgress()
		if s.orch.IsComplete() {
			s.collectResults(sc)
			if err := sc.ChangePhase(modes.Result); err != nil {
				sc.Log.Warn("could not advance to result",
					zap.Error(err))
			}
			return
		}
		if sc.Anim != nil {
			sc.Anim.Set(animProgress, s.orch.Progress())
		}
	case modes.Result:
		if sc.PhaseElapsed() >= s.cfg.ResultDwell {
			if err := sc.ChangePhase(modes.Outro); err != nil {
				sc.Log.Warn("could not advance to outro",
					zap.Error(err))
			}
		}
	case modes.Outro:
		if sc.PhaseElapsed() >= s.cfg.OutroDwell {
			s.finish(sc)
		}
	}
}

func (s *session) OnInput(sc *modes.Context, ev events.Event) bool {
	action := modes.Action(ev)
	if action == modes.ActionAbort {
		sc.Complete(modes.SessionResult{
			Success: false,
			Summary: "visitor aborted",
		})
		return true
	}

	switch sc.Phase() {
	case modes.Intro:
		if action == modes.ActionPress {
			s.changePhase(sc, modes.Active)
			return true
		}
	case modes.Active:
		key, value, ok := modes.Answer(ev)
		if ok && key == SignKey && isSign(value) {
			s.sign = value
			s.startGeneration(sc)
			s.changePhase(sc, modes.Processing)
			return true
		}
	case modes.Result:
		if action == modes.ActionPress {
			s.changePhase(sc, modes.Outro)
			return true
		}
	case modes.Outro:
		if action == modes.ActionPress {
			s.finish(sc)
			return true
		}
	}
	return false
}

func (s *session) OnExit(sc *modes.Context) {
	if s.orch != nil {
		s.orch.Cancel()
	}
	if s.genCancel != nil {
		s.genCancel()
	}
	if s.progCh != nil && s.cfg.Text != nil {
		s.cfg.Text.UnsubscribeProgress(s.progCh, s.invID)
		s.progCh = nil
	}
}

func (s *session) OnPhaseChange(sc *modes.Context, prev, next modes.Phase) {
	if sc.Anim == nil {
		return
	}
	switch next {
	case modes.Processing:
		sc.Anim.Snap(animProgress, 0)
	case modes.Result:
		sc.Anim.Snap(animProgress, 1)
	}
}

func (s *session) RenderFrame(sc *modes.Context,
	target surface.Target) surface.Frame {

	frame := surface.Frame{Ticker: s.activity}
	switch sc.Phase() {
	case modes.Intro:
		frame.Headline = "Madame Zostra Sees All"
		frame.Body = "Press the crystal ball to begin"
	case modes.Active:
		frame.Headline = "Choose Your Sign"
		frame.Body = strings.Join(signs, "  ")
	case modes.Processing:
		frame.Headline = "Consulting the Spirits"
		frame.Body = fmt.Sprintf("The stars are aligning for %v", s.sign)
		if sc.Anim != nil {
			frame.Progress = sc.Anim.Value(animProgress)
		}
	case modes.Result:
		frame.Headline = "Your Fortune"
		frame.Body = s.reading
		frame.ArtPNG = s.artPNG
		frame.Progress = 1
	case modes.Outro:
		frame.Headline = "Safe Travels"
		frame.Body = "Collect your card below"
		frame.Progress = 1
	}
	return frame
}

func (s *session) changePhase(sc *modes.Context, next modes.Phase) {
	if err := sc.ChangePhase(next); err != nil {
		sc.Log.Warn("phase change rejected", zap.Error(err))
	}
}

func (s *session) startGeneration(sc *modes.Context) {
	s.invID = uuid.NewString()
	genCtx := llmclient.WithInvocationID(sc.Ctx(), s.invID)
	genCtx, s.genCancel = context.WithCancel(genCtx)
	if s.cfg.Text != nil {
		s.progCh = s.cfg.Text.SubscribeProgress(s.invID)
	}

	specs := []generation.TaskSpec{{
		Kind:       taskReading,
		Invoke:     s.invokeReading,
		Timeout:    s.cfg.TextTimeout,
		MaxRetries: s.cfg.MaxRetries,
		RetryDelay: s.cfg.RetryDelay,
		Fallback:   prompts.FallbackFortune,
	}}
	if s.cfg.Image != nil {
		specs = append(specs, generation.TaskSpec{
			Kind:       taskArt,
			Invoke:     s.invokeArt,
			Timeout:    s.cfg.ImageTimeout,
			MaxRetries: s.cfg.MaxRetries,
			RetryDelay: s.cfg.RetryDelay,
		})
	}

	s.orch = generation.New(sc.Bus, sc.Log)
	if err := s.orch.Start(genCtx, specs); err != nil {
		sc.Log.Error("could not start generation", zap.Error(err))
	}
}

func (s *session) invokeReading(ctx context.Context) (any, error) {
	msgs := []*types.Message{
		{Role: types.RoleSystem, Content: prompts.FortuneSystemMsg},
		{Role: types.RoleUser,
			Content: fmt.Sprintf(prompts.FortuneUserFmt, s.sign)},
	}
	reply, err := s.cfg.Text.CreateChatCompletion(ctx, msgs)
	if err != nil {
		return nil, err
	}
	return reply.Content, nil
}

func (s *session) invokeArt(ctx context.Context) (any, error) {
	return s.cfg.Image.GenerateImage(ctx,
		fmt.Sprintf(prompts.FortuneImageFmt, s.sign))
}

func (s *session) collectResults(sc *modes.Context) {
	s.reading = prompts.FallbackFortune
	if v, ok := s.orch.ResultFor(taskReading); ok {
		if text, ok := v.(string); ok && text != "" {
			s.reading = text
		}
	}
	if v, ok := s.orch.ResultFor(taskArt); ok {
		if png, ok := v.([]byte); ok {
			s.artPNG = png
		}
	}
}

func (s *session) finish(sc *modes.Context) {
	payload := map[string]any{
		"title":  "Your Fortune",
		"body":   s.reading,
		"footer": fmt.Sprintf("Madame Zostra read the stars for %v", s.sign),
	}
	if len(s.artPNG) > 0 {
		payload["art_png"] = s.artPNG
	}
	sc.Complete(modes.SessionResult{
		Success:       true,
		Summary:       fmt.Sprintf("fortune told for %v", s.sign),
		EmitOutput:    true,
		OutputPayload: payload,
	})
}

// drainProgress empties the model activity channel without blocking the
// tick. Only the most recent note is kept for the ticker line.
func (s *session) drainProgress() {
	for {
		select {
		case ev, ok := <-s.progCh:
			if !ok {
				s.progCh = nil
				return
			}
			s.activity = activityNote(ev)
		default:
			return
		}
	}
}

func activityNote(ev types.ProgressEvent) string {
	switch ev.Phase {
	case types.ProgressPhaseStart:
		return fmt.Sprintf("the spirits stir (%v)", ev.DisplayText)
	case types.ProgressPhaseEnd:
		return "the spirits have spoken"
	}
	return ""
}

func isSign(v string) bool {
	for _, s := range signs {
		if s == v {
			return true
		}
	}
	return false
}
