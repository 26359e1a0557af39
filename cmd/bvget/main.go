package main

import (
	"os"

	"github.com/bvget/bv-downloader/internal/cli"
)

var version = "dev"

// main builds the binary under its command name: go install ./cmd/bvget
func main() {
	os.Exit(cli.Execute(version))
}
