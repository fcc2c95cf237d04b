package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"shape_identify",
		"shape_recognize",
		"shape_recognize_batch",
		"shape_analyze",
		"shape_connector_cap",
		"shape_render_preview",
		"shape_verify_samples",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("tool count: got %d, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			if tool.InputSchema["properties"] == nil {
				t.Error("InputSchema missing 'properties' field")
			}
			if _, ok := tool.InputSchema["required"].([]string); !ok {
				t.Error("'required' should be a string slice")
			}
		})
	}
}

func TestToolDefinitions_RequiredPoints(t *testing.T) {
	toolsRequiringPoints := []string{
		"shape_identify",
		"shape_recognize",
		"shape_analyze",
		"shape_connector_cap",
		"shape_render_preview",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, name := range toolsRequiringPoints {
		t.Run(name, func(t *testing.T) {
			required := toolMap[name].InputSchema["required"].([]string)

			hasPoints := false
			for _, r := range required {
				if r == "points" {
					hasPoints = true
				}
			}
			if !hasPoints {
				t.Errorf("%s should require 'points'", name)
			}
		})
	}
}
