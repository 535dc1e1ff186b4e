// ABOUTME: Forecast adapter wrapping the statistical model behind a narrow contract.
// ABOUTME: Validates aligned date/value series and produces dated forecasts with bands.

package forecast

import (
	"context"
	"fmt"
	"time"
)

// timeFormat is the wire format for every timestamp this package emits.
const timeFormat = "2006-01-02T15:04:05"

// dateLayouts are the accepted input date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// minHistory is the smallest series the model will fit. Below this the trend
// estimate is meaningless.
const minHistory = 3

// InputError reports a precondition violation on the caller's series. The
// Reason is safe to surface to clients.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

func inputErrorf(format string, args ...any) error {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// Row is one dated forecast entry covering either a historical or a future
// timestamp.
type Row struct {
	DS        string  `json:"ds"`
	Yhat      float64 `json:"yhat"`
	YhatLower float64 `json:"yhat_lower"`
	YhatUpper float64 `json:"yhat_upper"`
}

// Meta summarizes the fit. Start and End bound the historical range, not the
// forecast range.
type Meta struct {
	Periods  int    `json:"periods"`
	NHistory int    `json:"n_history"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

// Output is the full forecast result: history plus future rows in
// chronological order.
type Output struct {
	Meta     Meta  `json:"meta"`
	Forecast []Row `json:"forecast"`
}

// Forecaster fits and predicts time series. The zero value is ready to use.
type Forecaster struct{}

// New returns a Forecaster.
func New() *Forecaster {
	return &Forecaster{}
}

// Forecast fits an additive trend+seasonality model on the (ds, y) pairs and
// predicts a point estimate with an uncertainty band for every historical
// timestamp plus periods future steps at the inferred cadence.
//
// Preconditions are validated up front: equal-length non-empty series of at
// least minHistory points, parseable non-decreasing dates, positive periods.
// Violations return an InputError; fitting failures return ordinary errors.
func (f *Forecaster) Forecast(ctx context.Context, ds []string, y []float64, periods int) (*Output, error) {
	times, err := validateSeries(ds, y, periods)
	if err != nil {
		return nil, err
	}

	m, err := fit(times, y)
	if err != nil {
		return nil, fmt.Errorf("fitting model: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	points := m.predict(periods)

	rows := make([]Row, len(points))
	for i, p := range points {
		rows[i] = Row{
			DS:        p.Time.Format(timeFormat),
			Yhat:      p.Yhat,
			YhatLower: p.Lower,
			YhatUpper: p.Upper,
		}
	}

	return &Output{
		Meta: Meta{
			Periods:  periods,
			NHistory: len(times),
			Start:    times[0].Format(timeFormat),
			End:      times[len(times)-1].Format(timeFormat),
		},
		Forecast: rows,
	}, nil
}

// validateSeries checks the adapter preconditions and parses the dates.
func validateSeries(ds []string, y []float64, periods int) ([]time.Time, error) {
	if len(ds) == 0 || len(y) == 0 {
		return nil, inputErrorf("ds and y must be non-empty")
	}
	if len(ds) != len(y) {
		return nil, inputErrorf("ds and y must be the same length (got %d and %d)", len(ds), len(y))
	}
	if len(ds) < minHistory {
		return nil, inputErrorf("at least %d data points are required (got %d)", minHistory, len(ds))
	}
	if periods <= 0 {
		return nil, inputErrorf("periods must be a positive integer (got %d)", periods)
	}

	times := make([]time.Time, len(ds))
	for i, s := range ds {
		t, err := parseDate(s)
		if err != nil {
			return nil, inputErrorf("ds[%d]: cannot parse %q as a date", i, s)
		}
		if i > 0 && t.Before(times[i-1]) {
			return nil, inputErrorf("ds must be in chronological order (ds[%d] precedes ds[%d])", i, i-1)
		}
		times[i] = t
	}

	return times, nil
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
