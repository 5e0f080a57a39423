package main

import (
	"os"

	"github.com/haulcost/fuelroute/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
