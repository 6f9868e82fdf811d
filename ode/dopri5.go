package ode

import (
	"fmt"
	"math"
)

// Func evaluates the right-hand side of y' = f(t, y) into dydt. The
// integrator may call it any number of times with trial states that are
// later discarded, so implementations must be free of side effects. A
// non-nil error aborts the integration and is returned to the caller.
type Func func(t float64, y, dydt []float64) error

// Event is a scalar signal g(t, y) monitored for zero crossings between
// accepted steps. Direction restricts which crossings count: +1 triggers
// only when g increases through zero, -1 only when it decreases, 0 both.
// A Terminal event stops the integration at the located crossing.
type Event struct {
	G         func(t float64, y []float64) float64
	Direction int
	Terminal  bool
}

type Config struct {
	InitialStep float64 // 0 selects (tEnd-t0)/100
	MinStep     float64 // step underflow guard
	MaxStep     float64 // 0 means unbounded
	AbsTol      float64
	RelTol      float64
	MaxSteps    int
	EventTol    float64 // time tolerance for event localization
}

func DefaultConfig() Config {
	return Config{
		MinStep:  1.e-10,
		AbsTol:   1.e-8,
		RelTol:   1.e-6,
		MaxSteps: 100000,
		EventTol: 1.e-9,
	}
}

// Statistics reports the work performed during a call to Integrate.
type Statistics struct {
	Steps        int
	Rejected     int
	Evaluations  int
	LastStepSize float64
}

// Solution holds the trajectory sampled at the requested output times. If
// a terminal event fired, T ends at the located crossing time and
// EventIndex identifies which event; otherwise EventIndex is -1.
type Solution struct {
	T          []float64
	Y          [][]float64
	Terminated bool
	EventIndex int
	Stats      Statistics
}

// Dormand-Prince 5(4) coefficients, FSAL.
var (
	dpC = [7]float64{0, 1. / 5, 3. / 10, 4. / 5, 8. / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1. / 5},
		{3. / 40, 9. / 40},
		{44. / 45, -56. / 15, 32. / 9},
		{19372. / 6561, -25360. / 2187, 64448. / 6561, -212. / 729},
		{9017. / 3168, -355. / 33, 46732. / 5247, 49. / 176, -5103. / 18656},
		{35. / 384, 0, 500. / 1113, 125. / 192, -2187. / 6784, 11. / 84},
	}
	dpB = [7]float64{35. / 384, 0, 500. / 1113, 125. / 192, -2187. / 6784, 11. / 84, 0}
	// B - Bhat, the embedded fourth order error weights
	dpE = [7]float64{
		35./384 - 5179./57600,
		0,
		500./1113 - 7571./16695,
		125./192 - 393./640,
		-2187./6784 + 92097./339200,
		11./84 - 187./2100,
		-1. / 40,
	}
)

// Dopri5 is an adaptive fifth order Runge-Kutta integrator with an
// embedded fourth order error estimate and dense cubic Hermite output for
// event localization and off-step sampling.
type Dopri5 struct {
	cfg Config
}

func NewDopri5(cfg Config) *Dopri5 {
	if cfg.MinStep <= 0 {
		cfg.MinStep = 1.e-10
	}
	if cfg.AbsTol <= 0 {
		cfg.AbsTol = 1.e-8
	}
	if cfg.RelTol <= 0 {
		cfg.RelTol = 1.e-6
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 100000
	}
	if cfg.EventTol <= 0 {
		cfg.EventTol = 1.e-9
	}
	return &Dopri5{cfg: cfg}
}

// Integrate advances y' = f(t, y) from ts[0] to ts[len(ts)-1], recording
// the solution at every requested time. Integration ends early at the
// first terminal event crossing.
func (s *Dopri5) Integrate(f Func, y0 []float64, ts []float64, events ...Event) (sol *Solution, err error) {
	var (
		cfg = s.cfg
		n   = len(y0)
	)
	if n == 0 {
		return nil, fmt.Errorf("ode: empty initial state")
	}
	if len(ts) < 2 {
		return nil, fmt.Errorf("ode: need at least two output times, got %d", len(ts))
	}
	for i := 1; i < len(ts); i++ {
		if ts[i] <= ts[i-1] {
			return nil, fmt.Errorf("ode: output times must be strictly increasing")
		}
	}
	var (
		t    = ts[0]
		tEnd = ts[len(ts)-1]
		y    = append([]float64(nil), y0...)
		k    [7][]float64
		yTry = make([]float64, n)
		yErr = make([]float64, n)
	)
	for i := range k {
		k[i] = make([]float64, n)
	}
	sol = &Solution{EventIndex: -1}

	if err = f(t, y, k[0]); err != nil {
		return nil, fmt.Errorf("ode: initial derivative evaluation: %v", err)
	}
	sol.Stats.Evaluations++

	gPrev := make([]float64, len(events))
	for i, ev := range events {
		gPrev[i] = ev.G(t, y)
	}

	h := cfg.InitialStep
	if h <= 0 {
		h = (tEnd - t) / 100
	}
	if cfg.MaxStep > 0 && h > cfg.MaxStep {
		h = cfg.MaxStep
	}

	nextOut := 0
	record := func(tr float64, yr []float64) {
		sol.T = append(sol.T, tr)
		sol.Y = append(sol.Y, append([]float64(nil), yr...))
	}
	record(t, y)
	nextOut = 1

	for t < tEnd {
		if sol.Stats.Steps >= cfg.MaxSteps {
			return nil, fmt.Errorf("ode: exceeded %d steps at t = %g", cfg.MaxSteps, t)
		}
		if h < cfg.MinStep {
			return nil, fmt.Errorf("ode: step size underflow at t = %g", t)
		}
		if t+h > tEnd {
			h = tEnd - t
		}

		// stages 2..7; stage 1 is FSAL from the previous step
		for i := 1; i < 7; i++ {
			for j := 0; j < n; j++ {
				acc := y[j]
				for m := 0; m < i; m++ {
					acc += h * dpA[i][m] * k[m][j]
				}
				yTry[j] = acc
			}
			if err = f(t+dpC[i]*h, yTry, k[i]); err != nil {
				return nil, err
			}
			sol.Stats.Evaluations++
		}

		// fifth order solution and embedded error estimate
		var errNorm float64
		for j := 0; j < n; j++ {
			var dy, e float64
			for i := 0; i < 7; i++ {
				dy += dpB[i] * k[i][j]
				e += dpE[i] * k[i][j]
			}
			yTry[j] = y[j] + h*dy
			yErr[j] = h * e
			sc := cfg.AbsTol + cfg.RelTol*math.Max(math.Abs(y[j]), math.Abs(yTry[j]))
			r := yErr[j] / sc
			errNorm += r * r
		}
		errNorm = math.Sqrt(errNorm / float64(n))

		if errNorm > 1 {
			sol.Stats.Rejected++
			h *= math.Max(0.2, 0.9*math.Pow(errNorm, -0.2))
			continue
		}

		// accepted: k[6] = f(t+h, yTry) is the FSAL derivative at the new point
		t1 := t + h
		f0, f1 := k[0], k[6]

		interp := func(ti float64, out []float64) {
			theta := (ti - t) / h
			h00 := (1 + 2*theta) * (1 - theta) * (1 - theta)
			h10 := theta * (1 - theta) * (1 - theta)
			h01 := theta * theta * (3 - 2*theta)
			h11 := theta * theta * (theta - 1)
			for j := 0; j < n; j++ {
				out[j] = h00*y[j] + h10*h*f0[j] + h01*yTry[j] + h11*h*f1[j]
			}
		}

		// event detection on the accepted interval
		tStop := t1
		yStop := yTry
		for i, ev := range events {
			g1 := ev.G(t1, yTry)
			crossed := gPrev[i]*g1 < 0
			if crossed {
				switch {
				case ev.Direction > 0 && g1 <= gPrev[i]:
					crossed = false
				case ev.Direction < 0 && g1 >= gPrev[i]:
					crossed = false
				}
			}
			if crossed && ev.Terminal {
				te := s.locate(ev, t, t1, interp, n)
				if te < tStop {
					tStop = te
					ye := make([]float64, n)
					interp(te, ye)
					yStop = ye
					sol.EventIndex = i
					sol.Terminated = true
				}
			}
			gPrev[i] = g1
		}

		// emit requested samples inside the accepted (or truncated) interval
		tmp := make([]float64, n)
		for nextOut < len(ts) && ts[nextOut] <= tStop {
			interp(ts[nextOut], tmp)
			record(ts[nextOut], tmp)
			nextOut++
		}

		sol.Stats.Steps++
		sol.Stats.LastStepSize = h

		if sol.Terminated {
			if len(sol.T) == 0 || sol.T[len(sol.T)-1] < tStop {
				record(tStop, yStop)
			}
			return sol, nil
		}

		copy(y, yTry)
		copy(k[0], k[6])
		t = t1

		h *= math.Min(5, math.Max(0.2, 0.9*math.Pow(math.Max(errNorm, 1.e-10), -0.2)))
		if cfg.MaxStep > 0 && h > cfg.MaxStep {
			h = cfg.MaxStep
		}
	}
	// round-off in the final step must not swallow the last sample
	for nextOut < len(ts) {
		record(ts[nextOut], y)
		nextOut++
	}
	return sol, nil
}

// locate finds the zero of ev.G inside [t0, t1] by bisection on the dense
// output. A sign change over the interval is guaranteed by the caller.
func (s *Dopri5) locate(ev Event, t0, t1 float64, interp func(float64, []float64), n int) float64 {
	var (
		yb = make([]float64, n)
		lo = t0
		hi = t1
	)
	interp(lo, yb)
	gLo := ev.G(lo, yb)
	for hi-lo > s.cfg.EventTol {
		mid := 0.5 * (lo + hi)
		interp(mid, yb)
		g := ev.G(mid, yb)
		if gLo*g <= 0 {
			hi = mid
		} else {
			lo = mid
			gLo = g
		}
	}
	return hi
}
