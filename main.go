package main

import "github.com/arr-ai/voltgen/cmd"

// Set at link time with -ldflags "-X main.Version=...".
//
//nolint:gochecknoglobals
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	BuildOS   = "unknown"
)

func main() {
	cmd.Main(cmd.VersionTags{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		BuildOS:   BuildOS,
	})
}
