package main

import (
	"os"

	"storecheck/pkg/logging"
)

func main() {
	err := Execute()
	logging.CloseLogger()
	if err != nil {
		os.Exit(1)
	}
}
