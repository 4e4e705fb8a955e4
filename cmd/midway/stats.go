/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mikeb26/midway/internal/config"
	"github.com/mikeb26/midway/internal/stats"
)

const (
	StatsRowFmt    = "│ %-10v │ %8v │ %10v │ %10v │ %8v │ %-10v\n"
	StatsRowSpacer = "──────────────────────────────────────────────────────────────────────\n"
)

func statsMain(ctx context.Context, args []string) error {
	cfgPath, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	statsPath := cfg.StatsPath
	if statsPath == "" {
		cfgDir, dirErr := config.ConfigDir()
		if dirErr != nil {
			return dirErr
		}
		statsPath = filepath.Join(cfgDir, "stats.json")
	}

	store, err := stats.NewStore(statsPath)
	if err != nil {
		return err
	}
	snap := store.Snapshot()
	if len(snap) == 0 {
		fmt.Printf("No sessions recorded yet. Start the kiosk with 'run'.\n")

		return nil
	}

	modeIDs := make([]string, 0, len(snap))
	for id := range snap {
		modeIDs = append(modeIDs, id)
	}
	sort.Strings(modeIDs)

	var sb strings.Builder
	sb.WriteString(StatsRowSpacer)
	sb.WriteString(fmt.Sprintf(StatsRowFmt, "Mode", "Runs", "Completed",
		"Abandoned", "Prints", "PrintErrs"))
	sb.WriteString(StatsRowSpacer)
	for _, id := range modeIDs {
		s := snap[id]
		sb.WriteString(fmt.Sprintf(StatsRowFmt, id, s.Runs, s.Completed,
			s.Abandoned, s.Prints, s.PrintErrors))
	}
	sb.WriteString(StatsRowSpacer)
	fmt.Print(sb.String())

	return nil
}
