// ABOUTME: Additive time-series model: linear trend plus Fourier seasonality.
// ABOUTME: Fit by least squares via gonum; residual spread sizes the uncertainty band.

package forecast

import (
	"errors"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// weeklyPeriod is the seasonal cycle the model looks for in sub-daily and
// daily series.
const weeklyPeriod = 7 * 24 * time.Hour

// harmonics is the number of Fourier term pairs used for seasonality.
const harmonics = 3

// z80 is the two-sided 80% normal quantile; the band matches the default
// interval width of common forecasting tools.
const z80 = 1.2815515655446004

var errNoCadence = errors.New("cannot infer series cadence: timestamps do not advance")

type point struct {
	Time  time.Time
	Yhat  float64
	Lower float64
	Upper float64
}

type model struct {
	t0      time.Time
	times   []time.Time
	cadence time.Duration
	coef    []float64
	sigma   float64

	seasonal    bool
	periodSteps float64
}

// fit estimates trend and seasonality coefficients by ordinary least squares.
// times must be non-decreasing and len(times) == len(y) >= minHistory; the
// adapter validates both before calling.
func fit(times []time.Time, y []float64) (*model, error) {
	cadence := inferCadence(times)
	if cadence <= 0 {
		return nil, errNoCadence
	}

	m := &model{
		t0:      times[0],
		times:   times,
		cadence: cadence,
	}

	n := len(times)
	m.periodSteps = float64(weeklyPeriod) / float64(cadence)
	m.seasonal = cadence <= 24*time.Hour &&
		m.periodSteps > 1 &&
		float64(n) >= 2*m.periodSteps &&
		n > 2+2*harmonics

	cols := 2
	if m.seasonal {
		cols += 2 * harmonics
	}

	x := mat.NewDense(n, cols, nil)
	b := mat.NewDense(n, 1, nil)
	for i, t := range times {
		fillRow(x, i, m.step(t), m)
		b.Set(i, 0, y[i])
	}

	var qr mat.QR
	qr.Factorize(x)

	beta := mat.NewDense(cols, 1, nil)
	if err := qr.SolveTo(beta, false, b); err != nil {
		return nil, err
	}

	m.coef = make([]float64, cols)
	for j := range m.coef {
		m.coef[j] = beta.At(j, 0)
	}

	resid := make([]float64, n)
	for i, t := range times {
		resid[i] = y[i] - m.eval(m.step(t))
	}
	m.sigma = stat.StdDev(resid, nil)
	if math.IsNaN(m.sigma) {
		m.sigma = 0
	}

	return m, nil
}

// predict returns fitted values for every historical timestamp followed by
// periods future steps at the model cadence, in chronological order.
func (m *model) predict(periods int) []point {
	out := make([]point, 0, len(m.times)+periods)
	for _, t := range m.times {
		out = append(out, m.at(t))
	}

	last := m.times[len(m.times)-1]
	for i := 1; i <= periods; i++ {
		out = append(out, m.at(last.Add(time.Duration(i)*m.cadence)))
	}
	return out
}

func (m *model) at(t time.Time) point {
	yhat := m.eval(m.step(t))
	band := z80 * m.sigma
	return point{
		Time:  t,
		Yhat:  yhat,
		Lower: yhat - band,
		Upper: yhat + band,
	}
}

// step maps a timestamp onto the model's time axis in cadence units.
func (m *model) step(t time.Time) float64 {
	return float64(t.Sub(m.t0)) / float64(m.cadence)
}

func (m *model) eval(x float64) float64 {
	v := m.coef[0] + m.coef[1]*x
	if m.seasonal {
		for k := 1; k <= harmonics; k++ {
			theta := 2 * math.Pi * float64(k) * x / m.periodSteps
			v += m.coef[2*k]*math.Sin(theta) + m.coef[2*k+1]*math.Cos(theta)
		}
	}
	return v
}

func fillRow(x *mat.Dense, i int, step float64, m *model) {
	x.Set(i, 0, 1)
	x.Set(i, 1, step)
	if m.seasonal {
		for k := 1; k <= harmonics; k++ {
			theta := 2 * math.Pi * float64(k) * step / m.periodSteps
			x.Set(i, 2*k, math.Sin(theta))
			x.Set(i, 2*k+1, math.Cos(theta))
		}
	}
}

// inferCadence returns the median gap between consecutive timestamps.
func inferCadence(times []time.Time) time.Duration {
	diffs := make([]time.Duration, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		diffs = append(diffs, times[i].Sub(times[i-1]))
	}
	sort.Slice(diffs, func(i, j int) bool { return diffs[i] < diffs[j] })

	mid := len(diffs) / 2
	if len(diffs)%2 == 0 {
		return (diffs[mid-1] + diffs[mid]) / 2
	}
	return diffs[mid]
}
