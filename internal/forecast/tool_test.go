// ABOUTME: Tests for the forecast tool handler's argument decoding and errors.
// ABOUTME: Verifies schema enforcement, defaults, and CallError classification.

package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/prototypr/forecast-gateway/internal/tools"
)

func callTool(t *testing.T, args string) (json.RawMessage, error) {
	t.Helper()
	tool := NewTool(New(), DefaultPeriods)
	return tool.Handler(context.Background(), json.RawMessage(args))
}

func TestToolRejectsUnknownFields(t *testing.T) {
	_, err := callTool(t, `{"ds":["2021-01-01","2021-01-02","2021-01-03"],"y":[1,2,3],"bogus":true}`)

	var callErr *tools.CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("expected CallError, got %T: %v", err, err)
	}
	if !strings.HasPrefix(callErr.Message, "Invalid arguments:") {
		t.Errorf("message = %q", callErr.Message)
	}
}

func TestToolRejectsWrongTypes(t *testing.T) {
	_, err := callTool(t, `{"ds":["2021-01-01"],"y":"not-an-array"}`)

	var callErr *tools.CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("expected CallError, got %T: %v", err, err)
	}
}

func TestToolRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		args string
		want string
	}{
		{"missing ds", `{"y":[1,2,3]}`, "ds is required"},
		{"missing y", `{"ds":["2021-01-01","2021-01-02","2021-01-03"]}`, "y is required"},
		{"empty args", `{}`, "ds is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := callTool(t, tt.args)
			var callErr *tools.CallError
			if !errors.As(err, &callErr) {
				t.Fatalf("expected CallError, got %T: %v", err, err)
			}
			if !strings.Contains(callErr.Message, tt.want) {
				t.Errorf("message %q does not mention %q", callErr.Message, tt.want)
			}
		})
	}
}

func TestToolLengthMismatchIsToolLevel(t *testing.T) {
	_, err := callTool(t, `{"ds":["2021-01-01","2021-01-02","2021-01-03"],"y":[1,2]}`)

	var callErr *tools.CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("expected CallError, got %T: %v", err, err)
	}
	if !strings.Contains(callErr.Message, "got 3 and 2") {
		t.Errorf("message %q should name the mismatched lengths", callErr.Message)
	}
}

func TestToolDefaultPeriods(t *testing.T) {
	raw, err := callTool(t, `{"ds":["2021-01-01","2021-01-02","2021-01-03"],"y":[1,2,3]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out Output
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if out.Meta.Periods != DefaultPeriods {
		t.Errorf("periods = %d, want default %d", out.Meta.Periods, DefaultPeriods)
	}
	if len(out.Forecast) != 3+DefaultPeriods {
		t.Errorf("rows = %d, want %d", len(out.Forecast), 3+DefaultPeriods)
	}
}

func TestToolExplicitPeriods(t *testing.T) {
	raw, err := callTool(t, `{"ds":["2021-01-01","2021-01-02","2021-01-03"],"y":[1,2,3],"periods":2}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out Output
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if out.Meta.Periods != 2 {
		t.Errorf("periods = %d", out.Meta.Periods)
	}
	if out.Meta.NHistory != 3 {
		t.Errorf("n_history = %d", out.Meta.NHistory)
	}
}

func TestToolDescriptorSchema(t *testing.T) {
	tool := NewTool(New(), DefaultPeriods)

	d := tool.Descriptor
	if d.Name != ToolName {
		t.Errorf("name = %q", d.Name)
	}
	if d.InputSchema["additionalProperties"] != false {
		t.Error("schema must disallow additional properties")
	}
	required, ok := d.InputSchema["required"].([]string)
	if !ok || len(required) != 2 {
		t.Fatalf("required = %v", d.InputSchema["required"])
	}
}
