// ABOUTME: MCP tool binding for the forecaster: descriptor, schema, and handler.
// ABOUTME: Decodes and validates tool arguments before delegating to the adapter.

package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/prototypr/forecast-gateway/internal/tools"
)

// ToolName is the registered name of the forecasting tool.
const ToolName = "forecast_time_series"

// DefaultPeriods is the forecast horizon applied when the caller omits periods.
const DefaultPeriods = 10

type callArgs struct {
	DS      []string  `json:"ds"`
	Y       []float64 `json:"y"`
	Periods *int      `json:"periods"`
}

// NewTool builds the forecast_time_series tool backed by the given
// Forecaster. defaultPeriods substitutes for an omitted periods argument;
// values < 1 fall back to DefaultPeriods.
func NewTool(f *Forecaster, defaultPeriods int) *tools.Tool {
	if defaultPeriods < 1 {
		defaultPeriods = DefaultPeriods
	}

	return &tools.Tool{
		Descriptor: tools.Descriptor{
			Name:        ToolName,
			Description: "Runs a time-series forecast on ds/y and returns ds + yhat/yhat_lower/yhat_upper.",
			Annotations: tools.Annotations{ReadOnly: false},
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ds": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "List of dates in ISO format (e.g., YYYY-MM-DD).",
					},
					"y": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "number"},
						"description": "List of numeric values aligned with ds.",
					},
					"periods": map[string]any{
						"type":        "integer",
						"description": "Number of future periods to forecast.",
						"default":     defaultPeriods,
					},
				},
				"required":             []string{"ds", "y"},
				"additionalProperties": false,
			},
		},
		Handler: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			return runForecast(ctx, f, defaultPeriods, args)
		},
	}
}

// runForecast enforces the declared input schema on the decoded arguments and
// invokes the adapter. Schema violations and model failures come back as
// tool-level CallErrors; context expiry propagates unchanged so the transport
// can report it as an internal tool error.
func runForecast(ctx context.Context, f *Forecaster, defaultPeriods int, args json.RawMessage) (json.RawMessage, error) {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()

	var in callArgs
	if err := dec.Decode(&in); err != nil {
		return nil, tools.Failf("Invalid arguments: %v", err)
	}

	if in.DS == nil {
		return nil, tools.Failf("Invalid arguments: ds is required")
	}
	if in.Y == nil {
		return nil, tools.Failf("Invalid arguments: y is required")
	}

	periods := defaultPeriods
	if in.Periods != nil {
		periods = *in.Periods
	}

	out, err := f.Forecast(ctx, in.DS, in.Y, periods)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			return nil, tools.Failf("Invalid arguments: %s", inputErr.Reason)
		}
		return nil, tools.Failf("Forecast failed: %v", err)
	}

	return json.Marshal(out)
}
