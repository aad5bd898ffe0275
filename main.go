package main

import (
	"os"

	"github.com/alastorid/ytscribe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
