package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/motioncore/utils"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := NewApp(&out, &errOut)
	err := a.Run(append([]string{"motioncore"}, args...))
	return out.String(), errOut.String(), err
}

func writeWaypoints(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "waypoints.json")
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

const twoJointWaypoints = `{"times": [0, 1, 2], "waypoints": [[0, 0], [1, -1], [0, 2]]}`

func TestFitAction(t *testing.T) {
	path := writeWaypoints(t, twoJointWaypoints)
	out, _, err := runApp(t, "fit", "--waypoints", path, "--dt", "0.5")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "DQ1")
	test.That(t, out, test.ShouldContainSubstring, "2.0000")
	test.That(t, out, test.ShouldContainSubstring, "-1.0000")

	t.Run("bad waypoints", func(t *testing.T) {
		path := writeWaypoints(t, `{"times": [0, 0], "waypoints": [[0], [1]]}`)
		_, _, err := runApp(t, "fit", "--waypoints", path)
		test.That(t, err, test.ShouldNotBeNil)

		path = writeWaypoints(t, `not json`)
		_, _, err = runApp(t, "fit", "--waypoints", path)
		test.That(t, err, test.ShouldNotBeNil)

		_, _, err = runApp(t, "fit", "--waypoints", filepath.Join(t.TempDir(), "missing.json"))
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("bad period", func(t *testing.T) {
		_, _, err := runApp(t, "fit", "--waypoints", path, "--dt", "0")
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestPlotAction(t *testing.T) {
	path := writeWaypoints(t, twoJointWaypoints)
	png := filepath.Join(t.TempDir(), "traj.png")
	out, _, err := runApp(t, "plot", "--waypoints", path, "--out", png)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, png)
	info, err := os.Stat(png)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)

	_, _, err = runApp(t, "plot", "--waypoints", path, "--out", filepath.Join(t.TempDir(), "traj.unknown"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSampleIKAction(t *testing.T) {
	model := utils.ResolveFile("referenceframe/testjson/planar3r.json")
	out, _, err := runApp(t, "sample-ik", "--model", model, "--samples", "3", "--trials", "5", "--seed", "3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "TRIALS")
	test.That(t, out, test.ShouldContainSubstring, `of 3 samples for frame "ee"`)

	t.Run("box", func(t *testing.T) {
		out, errOut, err := runApp(t, "sample-ik", "--model", model, "--samples", "2", "--trials", "3",
			"--box", "1e5 1e5 0 2e5 2e5 0")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "found 0 of 2 samples")
		test.That(t, errOut, test.ShouldContainSubstring, "Warning")
	})

	t.Run("urdf", func(t *testing.T) {
		model := utils.ResolveFile("referenceframe/testjson/gantry_arm.urdf")
		_, _, err := runApp(t, "sample-ik", "--model", model, "--samples", "1")
		test.That(t, err, test.ShouldBeNil)
	})

	t.Run("errors", func(t *testing.T) {
		_, _, err := runApp(t, "sample-ik", "--model", "arm.yaml")
		test.That(t, err, test.ShouldNotBeNil)
		_, _, err = runApp(t, "sample-ik", "--model", model, "--frame", "nope")
		test.That(t, err, test.ShouldNotBeNil)
		_, _, err = runApp(t, "sample-ik", "--model", model, "--samples", "0")
		test.That(t, err, test.ShouldNotBeNil)
		_, _, err = runApp(t, "sample-ik", "--model", model, "--trials", "0")
		test.That(t, err, test.ShouldNotBeNil)
		_, _, err = runApp(t, "sample-ik", "--model", model, "--box", "1 2 3")
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestParseBox(t *testing.T) {
	lo, hi, err := parseBox("-1 -2 -3 1 2 3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lo.Y, test.ShouldEqual, -2.)
	test.That(t, hi.Z, test.ShouldEqual, 3.)

	_, _, err = parseBox("1 2 3 4 5 x")
	test.That(t, err, test.ShouldNotBeNil)
	_, _, err = parseBox("1 2 3 4 5 6 7")
	test.That(t, err, test.ShouldNotBeNil)
}
