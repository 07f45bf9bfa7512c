// Package distance provides metrics and constant speed interpolation over the state spaces of package statespace.
package distance

import (
	"github.com/pkg/errors"

	"go.viam.com/motioncore/statespace"
	"go.viam.com/motioncore/utils"
)

// Metric measures distances between states of the space it is bound to.
type Metric interface {
	StateSpace() statespace.StateSpace

	// Distance is non-negative, symmetric and zero between a state and itself.
	Distance(a, b statespace.State) (float64, error)

	// Interpolate writes the state a fraction t along the path from `from` to `to` into out, so that t=0 gives from
	// and t=1 gives to. out may alias from or to.
	Interpolate(from, to statespace.State, t float64, out statespace.State) error
}

// NewMetricFor returns the default metric of a space: geodesic rotation distance for SO2 and SO3, unit weighted
// translation plus rotation for SE2 and SE3, euclidean distance for Rn, and the unweighted sum of default
// sub-metrics for product spaces.
func NewMetricFor(space statespace.StateSpace) (Metric, error) {
	if space == nil {
		return nil, errors.New("cannot create a metric for a nil state space")
	}
	switch space.Kind() {
	case statespace.KindSO2:
		return asSpace[*statespace.SO2](space, NewAngularMetric)
	case statespace.KindSO3:
		return asSpace[*statespace.SO3](space, NewGeodesicMetric)
	case statespace.KindSE2:
		return asSpace[*statespace.SE2](space, func(s *statespace.SE2) Metric { return NewSE2Metric(s, 1, 1) })
	case statespace.KindSE3:
		return asSpace[*statespace.SE3](space, func(s *statespace.SE3) Metric { return NewSE3Metric(s, 1, 1) })
	case statespace.KindRn:
		return asSpace[*statespace.Rn](space, NewEuclideanMetric)
	case statespace.KindCompound:
		product, ok := space.(statespace.Product)
		if !ok {
			return nil, utils.NewUnimplementedInterfaceError("statespace.Product", space)
		}
		metrics := make([]Metric, product.NumSubspaces())
		weights := make([]float64, product.NumSubspaces())
		for i := range metrics {
			m, err := NewMetricFor(product.Subspace(i))
			if err != nil {
				return nil, errors.Wrapf(err, "subspace %d", i)
			}
			metrics[i] = m
			weights[i] = 1
		}
		weighted, err := NewWeightedMetric(product, metrics, weights)
		if err != nil {
			return nil, err
		}
		return weighted, nil
	default:
		return nil, errors.Errorf("no metric for state space kind %v", space.Kind())
	}
}

func asSpace[T statespace.StateSpace, M Metric](space statespace.StateSpace, newMetric func(T) M) (Metric, error) {
	s, ok := space.(T)
	if !ok {
		var expected T
		return nil, utils.NewUnexpectedTypeError(expected, space)
	}
	return newMetric(s), nil
}
