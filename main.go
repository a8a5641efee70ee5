package main

import (
	_ "embed"

	"github.com/Dahie/rbbcode/cmd"
)

//go:embed version
var version string

func main() {
	cmd.Execute(version)
}
