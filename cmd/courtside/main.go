package main

import (
	"os"

	"github.com/courtsideapp/courtside-go/cmd/courtside/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
