/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package quiz implements the personality quiz kiosk mode. Three quick
// questions, then the model writes the visitor's midway profile.
package quiz

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

const ModeID = "quiz"

const (
	taskProfile  = "quiz.profile"
	animProgress = "progress"
)

type question struct {
	id      string
	text    string
	options []string
}

var questions = []question{
	{
		id:   "ride",
		text: "Which ride do you run to first?",
		options: []string{
			"Coaster", "Ferris Wheel", "Tilt-A-Whirl", "Haunted House",
		},
	},
	{
		id:   "snack",
		text: "Pick your midway snack",
		options: []string{
			"Popcorn", "Cotton Candy", "Corn Dog", "Funnel Cake",
		},
	},
	{
		id:   "prize",
		text: "Which prize are you taking home?",
		options: []string{
			"Goldfish", "Giant Bear", "Kazoo", "Glow Wand",
		},
	},
}

// Config mirrors the fortune mode's shape minus the image backend;
// profiles are text only.
type Config struct {
	Text types.AIClient

	TextTimeout time.Duration
	MaxRetries  int
	RetryDelay  time.Duration

	AttractWindow time.Duration
	ResultDwell   time.Duration
	OutroDwell    time.Duration
}

func (cfg Config) withDefaults() Config {
	if cfg.TextTimeout <= 0 {
		cfg.TextTimeout = 45 * time.Second
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
		Title:             "The Midway Profiler",
		Description:       "Three questions reveal your carnival persona",
		RequiresService:   true,
		EstimatedDuration: 4 * time.Minute,
	}
}

func NewFactory(cfg Config) modes.Factory {
	cfg = cfg.withDefaults()
	return func() modes.Session {
		return &session{cfg: cfg, answers: make(map[string]string)}
	}
}

type session struct {
	cfg     Config
	answers map[string]string
	idx     int

	orch      *generation.Orchestrator
	genCancel context.CancelFunc
	invID     string
	progCh    chan types.ProgressEvent
	activity  string

	profile string
}

var _ modes.Renderer = (*session)(nil)
var _ modes.PhaseListener = (*session)(nil)

func (s *session) OnEnter(sc *modes.Context) {
	sc.Log.Info("visitor at the profiler booth")
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
			s.collectResults()
			s.changePhase(sc, modes.Result)
			return
		}
		if sc.Anim != nil {
			sc.Anim.Set(animProgress, s.orch.Progress())
		}
	case modes.Result:
		if sc.PhaseElapsed() >= s.cfg.ResultDwell {
			s.changePhase(sc, modes.Outro)
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
		if !ok {
			return false
		}
		q := questions[s.idx]
		if key != q.id || !q.accepts(value) {
			return false
		}
		s.answers[key] = value
		s.idx++
		if s.idx == len(questions) {
			s.startGeneration(sc)
			s.changePhase(sc, modes.Processing)
		}
		return true
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
		frame.Headline = "The Midway Profiler"
		frame.Body = "Press to discover your carnival persona"
	case modes.Active:
		q := questions[s.idx]
		frame.Headline = fmt.Sprintf("Question %v of %v", s.idx+1,
			len(questions))
		frame.Body = q.text + "\n" + strings.Join(q.options, "  ")
	case modes.Processing:
		frame.Headline = "Reading Your Answers"
		frame.Body = "The profiler is sizing you up"
		if sc.Anim != nil {
			frame.Progress = sc.Anim.Value(animProgress)
		}
	case modes.Result:
		frame.Headline = "Your Midway Profile"
		frame.Body = s.profile
		frame.Progress = 1
	case modes.Outro:
		frame.Headline = "See You On The Midway"
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

	s.orch = generation.New(sc.Bus, sc.Log)
	err := s.orch.Start(genCtx, []generation.TaskSpec{{
		Kind:       taskProfile,
		Invoke:     s.invokeProfile,
		Timeout:    s.cfg.TextTimeout,
		MaxRetries: s.cfg.MaxRetries,
		RetryDelay: s.cfg.RetryDelay,
		Fallback:   prompts.FallbackProfile,
	}})
	if err != nil {
		sc.Log.Error("could not start generation", zap.Error(err))
	}
}

func (s *session) invokeProfile(ctx context.Context) (any, error) {
	msgs := []*types.Message{
		{Role: types.RoleSystem, Content: prompts.QuizSystemMsg},
		{Role: types.RoleUser, Content: fmt.Sprintf(prompts.QuizUserFmt,
			s.answers["ride"], s.answers["snack"], s.answers["prize"])},
	}
	reply, err := s.cfg.Text.CreateChatCompletion(ctx, msgs)
	if err != nil {
		return nil, err
	}
	return reply.Content, nil
}

func (s *session) collectResults() {
	s.profile = prompts.FallbackProfile
	if v, ok := s.orch.ResultFor(taskProfile); ok {
		if text, ok := v.(string); ok && text != "" {
			s.profile = text
		}
	}
}

func (s *session) finish(sc *modes.Context) {
	sc.Complete(modes.SessionResult{
		Success:    true,
		Summary:    "profile written",
		EmitOutput: true,
		OutputPayload: map[string]any{
			"title": "Your Midway Profile",
			"body":  s.profile,
			"footer": fmt.Sprintf("%v / %v / %v", s.answers["ride"],
				s.answers["snack"], s.answers["prize"]),
		},
	})
}

func (s *session) drainProgress() {
	for {
		select {
		case ev, ok := <-s.progCh:
			if !ok {
				s.progCh = nil
				return
			}
			if ev.Phase == types.ProgressPhaseStart {
				s.activity = "the profiler is thinking"
			} else {
				s.activity = "profile ready"
			}
		default:
			return
		}
	}
}

func (q question) accepts(value string) bool {
	for _, opt := range q.options {
		if opt == value {
			return true
		}
	}
	return false
}
