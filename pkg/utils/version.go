// Package utils holds small shared helpers.
package utils

// Build metadata, overridable at build time via
// -ldflags "-X github.com/veridocai/veridoc/pkg/utils.Version=...".
var (
	Version   = "0.1.0-dev"
	Sha       = "unknown"
	Buildtime = "unknown"
)
