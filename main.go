package main

import (
	"os"

	"github.com/kfenech/ferrywatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
