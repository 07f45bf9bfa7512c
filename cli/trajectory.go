package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"go.viam.com/motioncore/spline"
)

// waypointsFile is the on-disk form of a set of waypoints to fit.
type waypointsFile struct {
	Times     []float64   `json:"times"`
	Waypoints [][]float64 `json:"waypoints"`
}

func readWaypoints(path string) (*waypointsFile, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read waypoints file")
	}
	var wf waypointsFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, errors.Wrapf(err, "could not parse waypoints file %q", path)
	}
	return &wf, nil
}

func fitWaypoints(c *cli.Context) (*spline.SplineTrajectory, error) {
	wf, err := readWaypoints(c.String(trajectoryFlagWaypoints))
	if err != nil {
		return nil, err
	}
	s, err := spline.FitCubicWaypoints(wf.Times, wf.Waypoints)
	if err != nil {
		return nil, errors.Wrap(err, "could not fit waypoints")
	}
	return spline.NewSplineTrajectory(s), nil
}

// FitAction is the corresponding Action for 'fit'.
func FitAction(c *cli.Context) error {
	logger := newLogger(c)
	traj, err := fitWaypoints(c)
	if err != nil {
		return err
	}
	samples, err := spline.SampleTrajectory(traj, c.Float64(trajectoryFlagDt))
	if err != nil {
		return err
	}
	logger.Debugf("fitted %d outputs over %.3fs, printing %d samples", traj.NumOutputs(), traj.Duration(), len(samples))

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	header := table.Row{"t"}
	for i := 0; i < traj.NumOutputs(); i++ {
		header = append(header, fmt.Sprintf("q%d", i))
	}
	for i := 0; i < traj.NumOutputs(); i++ {
		header = append(header, fmt.Sprintf("dq%d", i))
	}
	t.AppendHeader(header)
	for _, sample := range samples {
		row := table.Row{formatFloat(sample.Time)}
		for _, q := range sample.Position {
			row = append(row, formatFloat(q))
		}
		for _, dq := range sample.Velocity {
			row = append(row, formatFloat(dq))
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}

// PlotAction is the corresponding Action for 'plot'.
func PlotAction(c *cli.Context) error {
	traj, err := fitWaypoints(c)
	if err != nil {
		return err
	}
	samples, err := spline.SampleTrajectory(traj, c.Float64(trajectoryFlagDt))
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Fitted trajectory"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "position"
	p.Add(plotter.NewGrid())
	for i := 0; i < traj.NumOutputs(); i++ {
		xys := make(plotter.XYs, len(samples))
		for j, sample := range samples {
			xys[j].X = sample.Time
			xys[j].Y = sample.Position[i]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("q%d", i), line)
	}

	out := c.String(trajectoryFlagOut)
	if err := p.Save(8*vg.Inch, 5*vg.Inch, out); err != nil {
		return errors.Wrapf(err, "could not save plot to %q", out)
	}
	printf(c.App.Writer, "wrote %d samples of %d outputs to %s", len(samples), traj.NumOutputs(), out)
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
