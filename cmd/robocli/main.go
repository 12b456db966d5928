package main

import (
	"github.com/robotalks/pisibot/pkg/cli/sh"

	_ "github.com/robotalks/pisibot/pkg/cli/cmds/radio"
)

//go-build: CGO_ENABLED=0

func init() {
	sh.SetupFlags()
}

func main() {
	sh.Main()
}
