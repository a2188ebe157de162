package main

import (
	"os"

	"github.com/vippsas/snowballc/cmd/snowballc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
