package distance

import (
	"github.com/pkg/errors"

	"go.viam.com/motioncore/statespace"
	"go.viam.com/motioncore/utils"
)

// WeightedMetric sums per-subspace metrics of a product space, each scaled by a weight.
type WeightedMetric struct {
	space   statespace.Product
	metrics []Metric
	weights []float64
}

// NewWeightedMetric returns a metric over the product space with one metric and one non-negative weight per
// subspace. Each metric must be bound to a space of the same kind as its subspace.
func NewWeightedMetric(space statespace.Product, metrics []Metric, weights []float64) (*WeightedMetric, error) {
	if space == nil {
		return nil, errors.New("cannot create a metric for a nil state space")
	}
	n := space.NumSubspaces()
	if len(metrics) != n {
		return nil, utils.NewIncorrectDimensionError(len(metrics), n)
	}
	if len(weights) != n {
		return nil, utils.NewIncorrectDimensionError(len(weights), n)
	}
	for i, m := range metrics {
		if m == nil {
			return nil, errors.Errorf("metric %d is nil", i)
		}
		if m.StateSpace().Kind() != space.Subspace(i).Kind() {
			return nil, errors.Wrapf(statespace.ErrKindMismatch, "metric %d is for %v, subspace is %v",
				i, m.StateSpace().Kind(), space.Subspace(i).Kind())
		}
		if weights[i] < 0 {
			return nil, errors.Errorf("weight %d is negative: %f", i, weights[i])
		}
	}
	return &WeightedMetric{
		space:   space,
		metrics: append([]Metric{}, metrics...),
		weights: append([]float64{}, weights...),
	}, nil
}

// StateSpace returns the product space of the metric.
func (m *WeightedMetric) StateSpace() statespace.StateSpace {
	return m.space
}

// Distance returns the weighted sum of the subspace distances.
func (m *WeightedMetric) Distance(a, b statespace.State) (float64, error) {
	subA, err := m.space.Substates(a)
	if err != nil {
		return 0, err
	}
	subB, err := m.space.Substates(b)
	if err != nil {
		return 0, err
	}
	total := 0.
	for i, metric := range m.metrics {
		d, err := metric.Distance(subA[i], subB[i])
		if err != nil {
			return 0, errors.Wrapf(err, "subspace %d", i)
		}
		total += m.weights[i] * d
	}
	return total, nil
}

// Interpolate interpolates every subspace independently.
func (m *WeightedMetric) Interpolate(from, to statespace.State, t float64, out statespace.State) error {
	subFrom, err := m.space.Substates(from)
	if err != nil {
		return err
	}
	subTo, err := m.space.Substates(to)
	if err != nil {
		return err
	}
	subOut, err := m.space.Substates(out)
	if err != nil {
		return err
	}
	for i, metric := range m.metrics {
		if err := metric.Interpolate(subFrom[i], subTo[i], t, subOut[i]); err != nil {
			return errors.Wrapf(err, "subspace %d", i)
		}
	}
	return nil
}
