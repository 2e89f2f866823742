// Package buildinfo carries the version stamped in at link time.
package buildinfo

import "fmt"

// Set with -ldflags "-X asios/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the version, falling back to the commit.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// Banner is the first console line: build id and system-call ABI.
func Banner(abi string) string {
	s := fmt.Sprintf("asios %s (abi %s)", Short(), abi)
	if Date != "" && Date != "unknown" {
		s += " built " + Date
	}
	return s
}
