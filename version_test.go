/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package objectgraph

import (
	"strings"
	"testing"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	if info.Version != Version {
		t.Errorf("Expected version %q, got %q", Version, info.Version)
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("Expected a runtime Go version, got %q", info.GoVersion)
	}

	line := info.String()
	for _, want := range []string{info.Version, info.GitCommit, info.GoVersion} {
		if !strings.Contains(line, want) {
			t.Errorf("String() output %q missing %q", line, want)
		}
	}
}
