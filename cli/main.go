package main

import (
	"math/rand"
	"os"
	"time"

	tapline "github.com/tapline/tapline"
	"github.com/tapline/tapline/cli/cmd"
)

func main() {
	rand.Seed(time.Now().UnixNano())
	if err := cmd.Execute(); err != nil {
		os.Exit(tapline.ExitCode(err))
	}
}
