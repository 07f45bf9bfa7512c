package statespace

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/motioncore/utils"
)

// SE2State is a planar rigid transform: a rotation angle and a translation.
type SE2State struct {
	angle       float64
	translation r2.Point
}

// NewSE2State returns the planar pose with the given heading and translation.
func NewSE2State(angle float64, translation r2.Point) *SE2State {
	return &SE2State{angle: utils.WrapAngle(angle), translation: translation}
}

// Kind returns KindSE2.
func (s *SE2State) Kind() Kind {
	return KindSE2
}

// Angle returns the heading in radians.
func (s *SE2State) Angle() float64 {
	return s.angle
}

// Translation returns the translation.
func (s *SE2State) Translation() r2.Point {
	return s.translation
}

// Set replaces the heading and translation.
func (s *SE2State) Set(angle float64, translation r2.Point) {
	s.angle = utils.WrapAngle(angle)
	s.translation = translation
}

// Isometry returns the 3x3 homogeneous transform of the state.
func (s *SE2State) Isometry() *mat.Dense {
	sin, cos := math.Sincos(s.angle)
	return mat.NewDense(3, 3, []float64{
		cos, -sin, s.translation.X,
		sin, cos, s.translation.Y,
		0, 0, 1,
	})
}

func rotate2D(theta float64, p r2.Point) r2.Point {
	sin, cos := math.Sincos(theta)
	return r2.Point{X: cos*p.X - sin*p.Y, Y: sin*p.X + cos*p.Y}
}

// se2V returns the coefficients (a, b) of the matrix V = [[a, -b], [b, a]] that maps the linear part of a planar
// twist to the translation it produces.
func se2V(omega float64) (float64, float64) {
	if math.Abs(omega) < 1e-8 {
		return 1 - omega*omega/6, omega / 2
	}
	return math.Sin(omega) / omega, (1 - math.Cos(omega)) / omega
}

// SE2 is the group of planar rigid transforms.
type SE2 struct{}

// NewSE2 returns the planar rigid transform group.
func NewSE2() *SE2 {
	return &SE2{}
}

func asSE2(s State) (*SE2State, error) {
	state, ok := s.(*SE2State)
	if !ok {
		return nil, utils.NewUnexpectedTypeError(state, s)
	}
	return state, nil
}

// Kind returns KindSE2.
func (space *SE2) Kind() Kind {
	return KindSE2
}

// Dimension is 3: [omega, vx, vy].
func (space *SE2) Dimension() int {
	return 3
}

// RepresentationDimension is 6, a 2x2 rotation and a translation.
func (space *SE2) RepresentationDimension() int {
	return 6
}

// NewState returns the identity transform.
func (space *SE2) NewState() State {
	return &SE2State{}
}

// Identity sets out to the identity transform.
func (space *SE2) Identity(out State) error {
	o, err := asSE2(out)
	if err != nil {
		return err
	}
	*o = SE2State{}
	return nil
}

// CopyState copies src into dst.
func (space *SE2) CopyState(src, dst State) error {
	s, err := asSE2(src)
	if err != nil {
		return err
	}
	d, err := asSE2(dst)
	if err != nil {
		return err
	}
	*d = *s
	return nil
}

// Compose writes the transform s1 followed, in its own frame, by s2.
func (space *SE2) Compose(s1, s2, out State) error {
	a, err := asSE2(s1)
	if err != nil {
		return err
	}
	b, err := asSE2(s2)
	if err != nil {
		return err
	}
	o, err := asSE2(out)
	if err != nil {
		return err
	}
	o.Set(a.angle+b.angle, a.translation.Add(rotate2D(a.angle, b.translation)))
	return nil
}

// Inverse writes the inverse transform.
func (space *SE2) Inverse(s, out State) error {
	a, err := asSE2(s)
	if err != nil {
		return err
	}
	o, err := asSE2(out)
	if err != nil {
		return err
	}
	o.Set(-a.angle, rotate2D(-a.angle, a.translation).Mul(-1))
	return nil
}

// ExpMap integrates the constant planar twist [omega, vx, vy] for unit time.
func (space *SE2) ExpMap(tangent []float64, out State) error {
	if err := checkTangent(tangent, 3); err != nil {
		return err
	}
	o, err := asSE2(out)
	if err != nil {
		return err
	}
	a, b := se2V(tangent[0])
	vx, vy := tangent[1], tangent[2]
	o.Set(tangent[0], r2.Point{X: a*vx - b*vy, Y: b*vx + a*vy})
	return nil
}

// LogMap returns the planar twist [omega, vx, vy] whose exponential is s.
func (space *SE2) LogMap(s State) ([]float64, error) {
	st, err := asSE2(s)
	if err != nil {
		return nil, err
	}
	a, b := se2V(st.angle)
	det := a*a + b*b
	t := st.translation
	return []float64{st.angle, (a*t.X + b*t.Y) / det, (-b*t.X + a*t.Y) / det}, nil
}
