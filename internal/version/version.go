// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package version carries build metadata injected via ldflags.
package version

import "fmt"

var (
	// Version is the application version, set with -ldflags at build time.
	Version = "v0.1.0-dev"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the version line printed by -version.
func String() string {
	return fmt.Sprintf("sampleplayer %s (commit %s, built %s)", Version, Commit, Date)
}
