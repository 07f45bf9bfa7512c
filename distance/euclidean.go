package distance

import (
	"gonum.org/v1/gonum/floats"

	"go.viam.com/motioncore/statespace"
	"go.viam.com/motioncore/utils"
)

// EuclideanMetric is the L2 distance of a real vector space.
type EuclideanMetric struct {
	space *statespace.Rn
}

// NewEuclideanMetric returns the euclidean metric of the space.
func NewEuclideanMetric(space *statespace.Rn) *EuclideanMetric {
	return &EuclideanMetric{space: space}
}

// StateSpace returns the real vector space of the metric.
func (m *EuclideanMetric) StateSpace() statespace.StateSpace {
	return m.space
}

func (m *EuclideanMetric) values(a, b statespace.State) ([]float64, []float64, error) {
	va, err := m.space.LogMap(a)
	if err != nil {
		return nil, nil, err
	}
	vb, err := m.space.LogMap(b)
	if err != nil {
		return nil, nil, err
	}
	return va, vb, nil
}

// Distance returns the L2 norm of b - a.
func (m *EuclideanMetric) Distance(a, b statespace.State) (float64, error) {
	va, vb, err := m.values(a, b)
	if err != nil {
		return 0, err
	}
	return floats.Distance(va, vb, 2), nil
}

// Interpolate moves along the straight line from `from` to `to`.
func (m *EuclideanMetric) Interpolate(from, to statespace.State, t float64, out statespace.State) error {
	va, vb, err := m.values(from, to)
	if err != nil {
		return err
	}
	o, ok := out.(*statespace.RnState)
	if !ok {
		return utils.NewUnexpectedTypeError(o, out)
	}
	floats.Scale(1-t, va)
	floats.AddScaled(va, t, vb)
	return o.SetValues(va)
}
