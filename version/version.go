// Package version holds build metadata injected at link time.
package version

import "runtime"

// Set via -ldflags "-X github.com/docuverify/fieldcheck/version.GitRelease=..."
var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
)

// GoInfo reports the Go toolchain used for the build.
var GoInfo = runtime.Version()
