package main

import (
	"os"

	"github.com/solatis/tagkeeper/cmd/tagkeeper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
