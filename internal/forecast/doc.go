// Package forecast provides the time-series forecasting tool and its model.
//
// # Overview
//
// The adapter contract is narrow: given aligned date/value pairs and a
// horizon, return dated point forecasts with lower/upper uncertainty bounds,
// or a structured failure. Fitting is delegated to gonum: an additive model
// (linear trend plus Fourier weekly seasonality) estimated by ordinary least
// squares, with the residual spread sizing an 80% band.
//
// # Validation
//
// Preconditions are checked before fitting so callers get a clear failure
// instead of an opaque numerical error: non-empty equal-length series, at
// least three points, parseable chronological dates, a positive horizon.
//
// # Output
//
// Forecast rows cover every historical timestamp plus the requested future
// steps at the inferred cadence, chronologically ordered, with timestamps
// formatted as YYYY-MM-DDTHH:MM:SS. Meta reports the horizon, the history
// length, and the historical date range.
package forecast
