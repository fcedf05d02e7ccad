package main

import (
	"os"

	"github.com/khalidw/harfiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
