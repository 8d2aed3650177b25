// larkbot CLI - sends templated messages to Lark/Feishu webhook bots.
package main

import (
	"github.com/hugo-setiawan/action-lark-bot/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	cli.Execute()
}
