/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package types

import "time"

type ProgressPhase string

const (
	ProgressPhaseStart ProgressPhase = "start"
	ProgressPhaseEnd   ProgressPhase = "end"
)

type ProgressComponent string

const (
	ProgressComponentModel ProgressComponent = "model"
)

// ProgressEvent describes one model-invocation status change. Events are
// correlated by InvocationID and delivered best-effort; consumers must not
// assume every phase arrives.
type ProgressEvent struct {
	InvocationID string
	Component    ProgressComponent
	Phase        ProgressPhase
	Time         time.Time
	DisplayText  string
}
