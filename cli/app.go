// Package cli contains all the CLI commands of motioncore.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	debugFlag = "debug"

	trajectoryFlagWaypoints = "waypoints"
	trajectoryFlagDt        = "dt"
	trajectoryFlagOut       = "out"

	sampleIKFlagModel   = "model"
	sampleIKFlagFrame   = "frame"
	sampleIKFlagSamples = "samples"
	sampleIKFlagTrials  = "trials"
	sampleIKFlagSeed    = "seed"
	sampleIKFlagBox     = "box"
)

var waypointsFlag = &cli.StringFlag{
	Name:     trajectoryFlagWaypoints,
	Aliases:  []string{"w"},
	Required: true,
	Usage:    "JSON `FILE` with knot times and one waypoint per knot",
}

var app = &cli.App{
	Name:            "motioncore",
	Usage:           "fit trajectories and sample inverse kinematics for kinematic models",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "fit",
			Usage:     "fit a cubic spline through waypoints and print sampled positions and velocities",
			UsageText: "motioncore fit --waypoints <file> [--dt <seconds>]",
			Flags: []cli.Flag{
				waypointsFlag,
				&cli.Float64Flag{
					Name:  trajectoryFlagDt,
					Value: 0.1,
					Usage: "sample period in seconds",
				},
			},
			Action: FitAction,
		},
		{
			Name:      "plot",
			Usage:     "fit a cubic spline through waypoints and plot every output channel",
			UsageText: "motioncore plot --waypoints <file> --out <png>",
			Flags: []cli.Flag{
				waypointsFlag,
				&cli.StringFlag{
					Name:     trajectoryFlagOut,
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "image `FILE` to write; the extension selects the format",
				},
				&cli.Float64Flag{
					Name:  trajectoryFlagDt,
					Value: 0.01,
					Usage: "sample period in seconds",
				},
			},
			Action: PlotAction,
		},
		{
			Name:      "sample-ik",
			Usage:     "draw configurations of a model with the IK sample generator",
			UsageText: "motioncore sample-ik --model <file> [--frame <name>] [--samples <n>] [--trials <k>]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     sampleIKFlagModel,
					Aliases:  []string{"m"},
					Required: true,
					Usage:    "model `FILE`, either JSON or URDF",
				},
				&cli.StringFlag{
					Name:  sampleIKFlagFrame,
					Usage: "frame to place at the sampled poses, defaults to the last frame of the model",
				},
				&cli.IntFlag{
					Name:  sampleIKFlagSamples,
					Value: 10,
					Usage: "number of samples to draw",
				},
				&cli.IntFlag{
					Name:  sampleIKFlagTrials,
					Value: 10,
					Usage: "maximum IK attempts per sample",
				},
				&cli.Uint64Flag{
					Name:  sampleIKFlagSeed,
					Usage: "seed of the random stream",
				},
				&cli.StringFlag{
					Name: sampleIKFlagBox,
					Usage: "sample poses uniformly in the box \"minX minY minZ maxX maxY maxZ\" (mm) instead of at the " +
						"poses of random configurations",
				},
			},
			Action: SampleIKAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
