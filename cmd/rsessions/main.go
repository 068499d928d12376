package main

import (
	"os"

	"github.com/bnema/rsessions/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
