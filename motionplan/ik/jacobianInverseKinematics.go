package ik

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/motioncore/logging"
	"go.viam.com/motioncore/referenceframe"
	"go.viam.com/motioncore/spatialmath"
)

// How much the seed is nudged, joint by joint, before falling back to random restarts.
const jointMutation = 0.05

// JacobianIK solves for a single frame of a skeleton by damped least squares on the frame's world Jacobian.
// A JacobianIK owns a random stream for its restarts and must not be shared between goroutines.
type JacobianIK struct {
	skeleton referenceframe.Skeleton
	frame    string
	limits   []referenceframe.Limit
	maxSteps []float64
	opts     Options
	rng      *rand.Rand
	logger   logging.Logger
}

// NewJacobianIK creates a solver placing frame of skeleton at the goal pose.
func NewJacobianIK(
	skeleton referenceframe.Skeleton,
	frame string,
	opts Options,
	logger logging.Logger,
) (*JacobianIK, error) {
	if skeleton == nil {
		return nil, errors.New("cannot create an IK solver without a skeleton")
	}
	if !skeleton.HasFrame(frame) {
		return nil, referenceframe.NewFrameMissingError(frame)
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid IK options")
	}
	limits := skeleton.DoF()
	if len(limits) == 0 {
		return nil, errors.Errorf("skeleton %q has no degrees of freedom to solve for", skeleton.Name())
	}
	maxSteps := make([]float64, len(limits))
	for i, lim := range limits {
		span := 2 * math.Pi
		if lim.IsFinite() {
			span = lim.Max - lim.Min
		}
		maxSteps[i] = opts.MaxStepFraction * span
	}
	if logger == nil {
		logger = logging.NewBlankLogger("ik")
	}
	return &JacobianIK{
		skeleton: skeleton,
		frame:    frame,
		limits:   limits,
		maxSteps: maxSteps,
		opts:     opts,
		//nolint:gosec
		rng:    rand.New(rand.NewPCG(opts.RandomSeed, opts.RandomSeed)),
		logger: logger,
	}, nil
}

// Solve runs damped least squares from seed. When an attempt stalls the seed is nudged one joint at a time and,
// once every nudge has been tried, replaced with random positions, up to the configured number of restarts.
func (ik *JacobianIK) Solve(
	ctx context.Context,
	goal spatialmath.Pose,
	seed []referenceframe.Input,
) ([]referenceframe.Input, error) {
	if len(seed) != len(ik.limits) {
		return nil, referenceframe.NewIncorrectInputLengthError(len(seed), len(ik.limits))
	}
	metric := NewScaledSquaredNormMetric(goal, ik.opts.OrientationScaling)
	if ik.opts.PositionOnly {
		metric = NewPositionOnlyMetric(goal)
	}

	start := referenceframe.ClampInputs(seed, ik.limits)
	jointMut := 0
	jointAmt := jointMutation
	for attempt := 0; attempt <= ik.opts.MaxRestarts; attempt++ {
		solution, score, err := ik.descend(ctx, goal, metric, start)
		if err != nil {
			return nil, err
		}
		if solution != nil {
			ik.logger.CDebugf(ctx, "IK converged on attempt %d with score %f", attempt, score)
			return solution, nil
		}
		ik.logger.CDebugf(ctx, "IK attempt %d stalled with score %f", attempt, score)

		if jointMut < len(seed) {
			start = referenceframe.ClampInputs(seed, ik.limits)
			start[jointMut].Value += jointAmt
			start = referenceframe.ClampInputs(start, ik.limits)

			// Test +/- jointAmt
			jointAmt *= -1
			if jointAmt > 0 {
				jointMut++
			}
		} else {
			start = referenceframe.RandomFrameInputs(ik.limits, ik.rng)
		}
	}
	return nil, ErrNoSolution
}

// descend runs one attempt. It returns a nil solution with the last score when the attempt does not converge.
func (ik *JacobianIK) descend(
	ctx context.Context,
	goal spatialmath.Pose,
	metric StateMetric,
	start []referenceframe.Input,
) ([]referenceframe.Input, float64, error) {
	q := start
	score := math.Inf(1)
	for iter := 0; iter < ik.opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, score, err
		}
		snap, err := ik.skeleton.Snapshot(q)
		if err != nil {
			return nil, score, err
		}
		pose, err := snap.Pose(ik.frame)
		if err != nil {
			return nil, score, err
		}
		score = metric(&State{Position: pose, Configuration: q})
		if score < ik.opts.GoalThreshold {
			return q, score, nil
		}
		jac, err := snap.WorldJacobian(ik.frame)
		if err != nil {
			return nil, score, err
		}
		dq, ok := ik.step(jac, spatialmath.PoseDelta(pose, goal))
		if !ok {
			return nil, score, nil
		}
		next := make([]referenceframe.Input, len(q))
		for i := range q {
			next[i] = referenceframe.Input{Value: q[i].Value + dq[i]}
		}
		q = referenceframe.ClampInputs(next, ik.limits)
	}
	return nil, score, nil
}

// step computes dq = J^T (J J^T + damping^2 I)^-1 e for the weighted error, scaled down so that no joint moves more
// than its maximum step. delta is [dx, dy, dz, rx, ry, rz] from the current pose to the goal.
func (ik *JacobianIK) step(jac *mat.Dense, delta []float64) ([]float64, bool) {
	_, dof := jac.Dims()

	var jw *mat.Dense
	var e *mat.VecDense
	if ik.opts.PositionOnly {
		jw = mat.DenseCopyOf(jac.Slice(3, 6, 0, dof))
		e = mat.NewVecDense(3, append([]float64{}, delta[:3]...))
	} else {
		s := ik.opts.OrientationScaling
		jw = mat.DenseCopyOf(jac)
		for r := 0; r < 3; r++ {
			row := jw.RawRowView(r)
			for c := range row {
				row[c] *= s
			}
		}
		e = mat.NewVecDense(6, []float64{s * delta[3], s * delta[4], s * delta[5], delta[0], delta[1], delta[2]})
	}

	rows := e.Len()
	var jjt mat.SymDense
	jjt.SymOuterK(1, jw)
	for i := 0; i < rows; i++ {
		jjt.SetSym(i, i, jjt.At(i, i)+ik.opts.Damping*ik.opts.Damping)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(&jjt); !ok {
		return nil, false
	}
	var y mat.VecDense
	if err := chol.SolveVecTo(&y, e); err != nil {
		return nil, false
	}
	var dqv mat.VecDense
	dqv.MulVec(jw.T(), &y)

	dq := make([]float64, dof)
	scale := 1.
	for i := range dq {
		dq[i] = dqv.AtVec(i)
		if a := math.Abs(dq[i]); a > ik.maxSteps[i] {
			scale = math.Min(scale, ik.maxSteps[i]/a)
		}
	}
	for i := range dq {
		dq[i] *= scale
	}
	return dq, true
}
