/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package objectgraph

import (
	"fmt"
	"runtime"
)

// Build metadata, overridable through -ldflags at build time.
var (
	// Version is the semantic version of ObjectGraph.
	Version = "0.1.0"

	// GitCommit is the git commit hash the binary was built from.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// VersionInfo bundles the build metadata of the running binary.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

// GetVersionInfo returns the build metadata. The Go version is read from the
// runtime rather than injected at build time.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// String renders the metadata as a single human-readable line.
func (v VersionInfo) String() string {
	return fmt.Sprintf("ObjectGraph %s (commit %s, built %s, %s)",
		v.Version, v.GitCommit, v.BuildDate, v.GoVersion)
}
