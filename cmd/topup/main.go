package main

import (
	"os"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
