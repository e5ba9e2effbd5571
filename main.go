package main

import (
	"os"

	"github.com/ecc24clmk/clmk-site/app"
)

func main() {
	// cobra already printed the error
	if err := app.Execute(); err != nil {
		os.Exit(1)
	}
}
