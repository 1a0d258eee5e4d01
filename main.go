// main.go
package main

import (
	"os"

	"github.com/gewnthar/moviefinder/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(int(cli.Run(cli.BuildInfo{Version: version, Commit: commit, Date: date}, os.Args[1:])))
}
