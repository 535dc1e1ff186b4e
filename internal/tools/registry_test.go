// ABOUTME: Tests for the tool registry including registration and lookup.
// ABOUTME: Verifies collision detection, list ordering, and wire-format marshaling.

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func testTool(name string) *Tool {
	return &Tool{
		Descriptor: Descriptor{
			Name:        name,
			Description: "test tool " + name,
			InputSchema: map[string]any{"type": "object"},
		},
		Handler: func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
			return json.RawMessage(`{}`), nil
		},
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry(slog.Default())

	if err := registry.Register(testTool("alpha")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tool, ok := registry.Get("alpha")
	if !ok {
		t.Fatal("expected tool to be registered")
	}
	if tool.Descriptor.Name != "alpha" {
		t.Errorf("name = %q", tool.Descriptor.Name)
	}

	if _, ok := registry.Get("missing"); ok {
		t.Error("expected lookup miss for unregistered tool")
	}
}

func TestRegistryCollision(t *testing.T) {
	registry := NewRegistry(slog.Default())

	if err := registry.Register(testTool("alpha")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := registry.Register(testTool("alpha"))
	if !errors.Is(err, ErrToolCollision) {
		t.Errorf("expected ErrToolCollision, got %v", err)
	}
}

func TestRegistryListOrder(t *testing.T) {
	registry := NewRegistry(slog.Default())
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		if err := registry.Register(testTool(name)); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	list := registry.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(list))
	}
	want := []string{"charlie", "alpha", "bravo"}
	for i, d := range list {
		if d.Name != want[i] {
			t.Errorf("list[%d] = %q, want %q", i, d.Name, want[i])
		}
	}
}

func TestDescriptorWireFormat(t *testing.T) {
	d := Descriptor{
		Name:        "forecast_time_series",
		Description: "forecasts",
		Annotations: Annotations{ReadOnly: false},
		InputSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
		},
	}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if _, ok := decoded["inputSchema"]; !ok {
		t.Error("expected camelCase inputSchema key")
	}
	ann, ok := decoded["annotations"].(map[string]any)
	if !ok {
		t.Fatalf("annotations = %v", decoded["annotations"])
	}
	if ann["read_only"] != false {
		t.Errorf("read_only = %v", ann["read_only"])
	}
}

func TestFailf(t *testing.T) {
	err := Failf("Tool not found: %s", "nope")

	var callErr *CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("expected CallError, got %T", err)
	}
	if callErr.Message != "Tool not found: nope" {
		t.Errorf("message = %q", callErr.Message)
	}
}
