package main

import (
	"os"

	"github.com/dshills/gitrange/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
