/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

package main

import (
	"fmt"
)

var (
	ErrCouldNotParseLatestRelease  = fmt.Errorf("Could not parse latest release")
	ErrFailedToDownloadVersion     = fmt.Errorf("Failed to download version")
	ErrFailedToCreateTempFile      = fmt.Errorf("Failed to create temporary file")
	ErrCouldNotDetermineBinaryPath = fmt.Errorf("Could not determine binary path")
	ErrCouldNotReplaceBinary       = fmt.Errorf("Could not replace binary")
)
