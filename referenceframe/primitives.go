package referenceframe

import (
	"math"
	"math/rand/v2"

	"go.viam.com/motioncore/utils"
)

// World is the string "world", the name of the root frame of every skeleton.
const World = "world"

// Input wraps the input to a mutable frame, e.g. a joint angle or a gantry position. Revolute inputs should be in
// radians. Prismatic inputs should be in mm.
type Input struct {
	Value float64
}

// Limit represents the limits of motion for a referenceframe.
type Limit struct {
	Min float64
	Max float64
}

// IsFinite returns whether both ends of the limit are finite.
func (l Limit) IsFinite() bool {
	return !math.IsInf(l.Min, 0) && !math.IsInf(l.Max, 0)
}

// Contains returns whether the value lies within the limit.
func (l Limit) Contains(value float64) bool {
	return value >= l.Min && value <= l.Max
}

func limitsAlmostEqual(a, b []Limit) bool {
	if len(a) != len(b) {
		return false
	}

	const epsilon = 1e-5
	for idx, x := range a {
		if !utils.Float64AlmostEqual(x.Min, b[idx].Min, epsilon) ||
			!utils.Float64AlmostEqual(x.Max, b[idx].Max, epsilon) {
			return false
		}
	}

	return true
}

// FloatsToInputs wraps a slice of floats in Inputs.
func FloatsToInputs(floats []float64) []Input {
	inputs := make([]Input, len(floats))
	for i, f := range floats {
		inputs[i] = Input{f}
	}
	return inputs
}

// InputsToFloats unwraps Inputs to raw floats.
func InputsToFloats(inputs []Input) []float64 {
	floats := make([]float64, len(inputs))
	for i, f := range inputs {
		floats[i] = f.Value
	}
	return floats
}

// InterpolateInputs will return a set of inputs that are the specified percent between the two given sets of
// inputs. For example, setting by to 0.5 will return the inputs halfway between the from/to values, and 0.25 would
// return one quarter of the way from "from" to "to".
func InterpolateInputs(from, to []Input, by float64) []Input {
	var newVals []Input
	for i, j1 := range from {
		newVals = append(newVals, Input{j1.Value + ((to[i].Value - j1.Value) * by)})
	}
	return newVals
}

// InputsL2Distance returns the square of the two-norm between the from and to vectors.
func InputsL2Distance(from, to []Input) float64 {
	diff := 0.
	for i, f := range from {
		diff += utils.Square(to[i].Value - f.Value)
	}
	return diff
}

// InputsWithinLimits reports whether every input lies inside its corresponding limit.
func InputsWithinLimits(inputs []Input, limits []Limit) bool {
	if len(inputs) != len(limits) {
		return false
	}
	for i, lim := range limits {
		if !lim.Contains(inputs[i].Value) {
			return false
		}
	}
	return true
}

// ClampInputs returns a copy of the inputs with each value clamped to its limit.
func ClampInputs(inputs []Input, limits []Limit) []Input {
	clamped := make([]Input, len(inputs))
	for i, in := range inputs {
		clamped[i] = Input{utils.Clamp(in.Value, limits[i].Min, limits[i].Max)}
	}
	return clamped
}

// RandomFrameInputs will produce a list of valid, in-bounds inputs for the given limits.
func RandomFrameInputs(limits []Limit, rSeed *rand.Rand) []Input {
	return RestrictedRandomFrameInputs(limits, rSeed, 1)
}

// RestrictedRandomFrameInputs will produce a list of valid, in-bounds inputs for the limits, restricting the range to
// `lim` percent of the limits around their midpoint.
func RestrictedRandomFrameInputs(limits []Limit, rSeed *rand.Rand, lim float64) []Input {
	if rSeed == nil {
		//nolint:gosec
		rSeed = rand.New(rand.NewPCG(1, 1))
	}
	pos := make([]Input, 0, len(limits))
	for _, limit := range limits {
		l, u := limit.Min, limit.Max

		// Default to [-pi, pi] as range if limits are infinite; continuous joints wrap
		if math.IsInf(l, -1) {
			l = -math.Pi
		}
		if math.IsInf(u, 1) {
			u = math.Pi
		}

		mid := (l + u) / 2
		jRange := math.Abs(u-l) * lim
		pos = append(pos, Input{mid + (rSeed.Float64()-0.5)*jRange})
	}
	return pos
}
