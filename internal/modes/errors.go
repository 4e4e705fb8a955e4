/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package modes

import (
	"errors"
)

var (
	ErrModeExists        = errors.New("mode already registered")
	ErrModeNotFound      = errors.New("mode not registered")
	ErrSessionActive     = errors.New("another session is active")
	ErrCameraRequired    = errors.New("mode requires a capture source")
	ErrPhaseOrder        = errors.New("phase may only advance")
	ErrInvalidTransition = errors.New("invalid application state transition")
)
