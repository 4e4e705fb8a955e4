/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/mikeb26/midway/internal/anim"
	"github.com/mikeb26/midway/internal/capture"
	"github.com/mikeb26/midway/internal/config"
	"github.com/mikeb26/midway/internal/events"
	"github.com/mikeb26/midway/internal/fsm"
	"github.com/mikeb26/midway/internal/imggen"
	"github.com/mikeb26/midway/internal/llmclient"
	"github.com/mikeb26/midway/internal/logging"
	"github.com/mikeb26/midway/internal/modes"
	"github.com/mikeb26/midway/internal/modes/fortune"
	"github.com/mikeb26/midway/internal/modes/quiz"
	"github.com/mikeb26/midway/internal/printq"
	"github.com/mikeb26/midway/internal/printq/card"
	"github.com/mikeb26/midway/internal/printq/spool"
	"github.com/mikeb26/midway/internal/stats"
	"github.com/mikeb26/midway/internal/surface"
	"github.com/mikeb26/midway/internal/types"
)

// Dimensions, in pixels, of the kiosk's front panel LCD.
const (
	PanelWidth  = 800
	PanelHeight = 480
)

func runMain(ctx context.Context, args []string) error {
	cfgPath, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	logPath := cfg.Log.Path
	if logPath == "" {
		logPath = filepath.Join(cfgDir, "midway.log")
	}
	log := logging.New(logPath, cfg.Log.Debug)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	vendor := cfg.Vendor
	if vendor == "" {
		vendor = config.DefaultVendor
	}
	info := config.GetVendorInfo(vendor)
	if info.Name == "" {
		return fmt.Errorf("unknown vendor %q in %v", vendor, cfgPath)
	}
	model := cfg.Model
	if model == "" {
		model = info.DefaultModel
	}
	apiKey, err := config.LoadAPIKey(vendor)
	if err != nil {
		return err
	}
	textClient, err := llmclient.NewEINOClient(ctx, llmclient.Config{
		Vendor:       vendor,
		Model:        model,
		APIKey:       apiKey,
		AuditLogPath: cfg.AuditLog,
	})
	if err != nil {
		return err
	}

	// Card art always renders on Gemini regardless of the text vendor.
	// A kiosk without a google key still boots; fortunes just print
	// without art.
	var imageClient types.ImageClient
	geminiKey, keyErr := config.LoadAPIKey("google")
	if keyErr == nil {
		imageClient, err = imggen.New(ctx, geminiKey, cfg.ImageModel)
		if err != nil {
			return err
		}
	} else {
		log.Info("card art disabled; no google key configured")
	}

	mem := surface.NewMemory("panel", PanelWidth, PanelHeight)
	surfaces := []surface.Target{mem}

	var mirrorSrv *http.Server
	if cfg.Mirror.Enabled {
		mirror := surface.NewWSMirror("mirror", PanelWidth, PanelHeight, log)
		surfaces = append(surfaces, mirror)

		mux := http.NewServeMux()
		mux.Handle("/ws", mirror)
		mirrorSrv = &http.Server{Addr: cfg.Mirror.ListenAddr, Handler: mux}
		go func() {
			srvErr := mirrorSrv.ListenAndServe()
			if srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
				log.Error("mirror server failed", zap.Error(srvErr))
			}
		}()
		log.Info("mirror listening", zap.String("addr", cfg.Mirror.ListenAddr))
	}

	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = 30
	}

	bus := events.NewBus(log)
	machine := fsm.NewKioskMachine(log)
	driver := anim.NewDriver(tickRate)
	camera := capture.NewStaticSource()

	mgr := modes.NewManager(ctx, modes.Params{
		Bus:         bus,
		Machine:     machine,
		Log:         log,
		Capture:     camera,
		Anim:        driver,
		Surfaces:    surfaces,
		IdleTimeout: cfg.IdleTimeout(),
		Rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	})

	err = mgr.Register(fortune.Descriptor(), fortune.NewFactory(fortune.Config{
		Text:         textClient,
		Image:        imageClient,
		TextTimeout:  cfg.TextTimeout(),
		ImageTimeout: cfg.ImageTimeout(),
		MaxRetries:   cfg.Generation.MaxRetries,
		RetryDelay:   cfg.RetryDelay(),
	}))
	if err != nil {
		return err
	}
	err = mgr.Register(quiz.Descriptor(), quiz.NewFactory(quiz.Config{
		Text:        textClient,
		TextTimeout: cfg.TextTimeout(),
		MaxRetries:  cfg.Generation.MaxRetries,
		RetryDelay:  cfg.RetryDelay(),
	}))
	if err != nil {
		return err
	}

	var queue *printq.Queue
	var queueCancel context.CancelFunc
	if cfg.Printer.Enabled {
		spoolDir := cfg.Printer.SpoolDir
		if spoolDir == "" {
			spoolDir = filepath.Join(cfgDir, "spool")
		}

		var fmtr printq.Formatter
		if cfg.Printer.Format == "png" {
			fmtr, err = card.New(cfg.Printer.CardWidth, cfg.Printer.CardHeight)
		} else {
			fmtr, err = card.NewHTML(cfg.Printer.CardWidth,
				cfg.Printer.CardHeight)
		}
		if err != nil {
			return err
		}

		queue = printq.New(spool.New(spoolDir, log), fmtr, bus, log)

		var queueCtx context.Context
		queueCtx, queueCancel = context.WithCancel(context.Background())
		defer queueCancel()
		queue.Start(queueCtx)

		bus.Subscribe(events.KindOutputRequested, func(ev events.Event) {
			queue.Enqueue(printq.JobFromEvent(ev))
		})
		log.Info("printer spooling", zap.String("dir", spoolDir),
			zap.String("format", cfg.Printer.Format))
	}

	statsPath := cfg.StatsPath
	if statsPath == "" {
		statsPath = filepath.Join(cfgDir, "stats.json")
	}
	store, err := stats.NewStore(statsPath)
	if err != nil {
		log.Warn("usage counters disabled", zap.Error(err))
	} else {
		store.Bind(bus)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		bindConsole(bus)
		fmt.Printf("midway: up; attract loop starts after %v idle\n",
			cfg.IdleTimeout())
	}
	log.Info("midway up", zap.String("vendor", vendor),
		zap.String("model", model), zap.Int("tick_rate", tickRate))

	ticker := time.NewTicker(cfg.TickInterval())
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			mgr.Shutdown()
			if queue != nil {
				queueCancel()
				queue.Wait()
			}
			if mirrorSrv != nil {
				_ = mirrorSrv.Close()
			}
			log.Info("midway down")

			return nil
		case now := <-ticker.C:
			mgr.Tick(now.Sub(last))
			last = now
		}
	}
}
