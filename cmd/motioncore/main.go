// Package main is the CLI for fitting trajectories and sampling inverse kinematics.
package main

import (
	"fmt"
	"os"

	"go.viam.com/motioncore/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
