/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package main

import (
	"github.com/fatih/color"

	"github.com/mikeb26/midway/internal/events"
)

// bindConsole prints one line per kiosk milestone when stdout is a
// terminal, so an operator at the booth can follow along without
// tailing the log file. Delivery is synchronous on the tick goroutine;
// handlers only format and print.
func bindConsole(bus *events.Bus) {
	bus.Subscribe(events.KindSessionStarted, func(ev events.Event) {
		color.Cyan("midway: %v session started", payloadString(ev, "mode"))
	})

	bus.Subscribe(events.KindSessionCompleted, func(ev events.Event) {
		success, _ := ev.Payload["success"].(bool)
		mode := payloadString(ev, "mode")
		summary := payloadString(ev, "summary")
		if success {
			color.Green("midway: %v session completed: %v", mode, summary)
		} else {
			color.Yellow("midway: %v session ended early: %v", mode, summary)
		}
	})

	bus.Subscribe(events.KindOutputDone, func(ev events.Event) {
		color.Green("midway: card %v spooled for %v",
			payloadString(ev, "job_id"), payloadString(ev, "origin"))
	})

	bus.Subscribe(events.KindOutputFailed, func(ev events.Event) {
		color.Red("midway: print of %v failed during %v: %v",
			payloadString(ev, "job_id"), payloadString(ev, "stage"),
			payloadString(ev, "error"))
	})
}

func payloadString(ev events.Event, key string) string {
	s, _ := ev.Payload[key].(string)

	return s
}
