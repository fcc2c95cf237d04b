package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/smartshape-mcp/internal/config"
)

// rectPoints is a closed 100x80 rectangle drawn clockwise from (10,20)
var rectPoints = []map[string]interface{}{
	{"x": 10, "y": 20},
	{"x": 110, "y": 20},
	{"x": 110, "y": 100},
	{"x": 10, "y": 100},
	{"x": 10, "y": 20},
}

var linePoints = []map[string]interface{}{
	{"x": 0, "y": 0},
	{"x": 300, "y": 0},
}

// callTool sends a tools/call request and returns the response
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeContent unmarshals the text content of a successful tool response into v
func decodeContent(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("unexpected content: %v", result["content"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result %q: %v", text, err)
	}
}

func expectToolError(t *testing.T, resp *MCPResponse, code int) {
	t.Helper()
	if resp.Error == nil {
		t.Fatal("Expected error response")
	}
	if resp.Error.Code != code {
		t.Errorf("Error code: got %d, want %d", resp.Error.Code, code)
	}
}

func TestHandleToolsCall_Identify(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shape_identify", map[string]interface{}{"points": rectPoints})

	var match struct {
		Shape string  `json:"shape"`
		Score float64 `json:"score"`
	}
	decodeContent(t, resp, &match)

	if match.Shape != "rect" {
		t.Errorf("shape: got %s, want rect", match.Shape)
	}
	if match.Score < 0.99 {
		t.Errorf("score: got %v, want 1.0", match.Score)
	}
}

func TestHandleToolsCall_IdentifyEmpty(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shape_identify", map[string]interface{}{"points": []interface{}{}})

	var match map[string]interface{}
	decodeContent(t, resp, &match)
	if match != nil {
		t.Errorf("expected null match, got %v", match)
	}
}

func TestHandleToolsCall_IdentifyConnector(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shape_identify", map[string]interface{}{"points": linePoints})

	var match struct {
		Shape      string `json:"shape"`
		ShapeProps struct {
			Points         []map[string]float64 `json:"points"`
			DestinationCap string               `json:"destination_cap"`
		} `json:"shape_props"`
	}
	decodeContent(t, resp, &match)

	if match.Shape != "connector" {
		t.Fatalf("shape: got %s, want connector", match.Shape)
	}
	if match.ShapeProps.DestinationCap != "empty" {
		t.Errorf("cap: got %s, want empty", match.ShapeProps.DestinationCap)
	}
	if len(match.ShapeProps.Points) != 2 {
		t.Errorf("points: got %d, want 2", len(match.ShapeProps.Points))
	}
}

func TestHandleToolsCall_Recognize(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shape_recognize", map[string]interface{}{"points": rectPoints})

	var result struct {
		Item struct {
			Shape string             `json:"shape"`
			Area  map[string]float64 `json:"area"`
		} `json:"item"`
		Accepted bool `json:"accepted"`
	}
	decodeContent(t, resp, &result)

	if !result.Accepted || result.Item.Shape != "rect" {
		t.Errorf("got shape %s accepted=%v, want accepted rect", result.Item.Shape, result.Accepted)
	}
	want := map[string]float64{"x": 10, "y": 20, "w": 100, "h": 80}
	for k, v := range want {
		if result.Item.Area[k] != v {
			t.Errorf("area.%s: got %v, want %v", k, result.Item.Area[k], v)
		}
	}
}

func TestHandleToolsCall_RecognizeThresholdOverride(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shape_recognize", map[string]interface{}{
		"points":           rectPoints,
		"accept_threshold": 5,
	})

	var result struct {
		Item struct {
			Shape  string        `json:"shape"`
			Points []interface{} `json:"points"`
		} `json:"item"`
		Accepted bool `json:"accepted"`
	}
	decodeContent(t, resp, &result)

	if result.Accepted || result.Item.Shape != "curve" {
		t.Errorf("got shape %s accepted=%v, want curve", result.Item.Shape, result.Accepted)
	}
	if len(result.Item.Points) != 5 {
		t.Errorf("curve points: got %d, want 5", len(result.Item.Points))
	}
}

func TestHandleToolsCall_RecognizeConfiguredThreshold(t *testing.T) {
	cfg := config.Default()
	cfg.Recognition.AcceptThreshold = 5
	s := New(cfg)

	resp := callTool(t, s, "shape_recognize", map[string]interface{}{"points": rectPoints})

	var result struct {
		Accepted bool `json:"accepted"`
	}
	decodeContent(t, resp, &result)
	if result.Accepted {
		t.Error("configured threshold should reject the rect")
	}
}

func TestHandleToolsCall_RecognizeEmpty(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shape_recognize", map[string]interface{}{"points": []interface{}{}})
	expectToolError(t, resp, -32000)
}

func TestHandleToolsCall_RecognizeBatch(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shape_recognize_batch", map[string]interface{}{
		"strokes": []interface{}{rectPoints, []interface{}{}, linePoints},
	})

	var result BatchResponse
	decodeContent(t, resp, &result)

	if len(result.Results) != 3 {
		t.Fatalf("results: got %d, want 3", len(result.Results))
	}
	if result.Accepted != 2 {
		t.Errorf("accepted: got %d, want 2", result.Accepted)
	}
	if result.Failed != 1 || result.Results[1].Error == "" {
		t.Errorf("expected the empty stroke to fail, got %+v", result.Results[1])
	}
	if result.Results[2].Result == nil || result.Results[2].Result.Item.Shape != "connector" {
		t.Errorf("third stroke should be a connector: %+v", result.Results[2])
	}
}

func TestHandleToolsCall_RecognizeBatchEmpty(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shape_recognize_batch", map[string]interface{}{"strokes": []interface{}{}})
	expectToolError(t, resp, -32000)
}

func TestHandleToolsCall_Analyze(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "debug"
	s := New(cfg)

	resp := callTool(t, s, "shape_analyze", map[string]interface{}{"points": rectPoints})

	var analysis struct {
		Curves     []map[string]interface{} `json:"curves"`
		Candidates []map[string]interface{} `json:"candidates"`
		Match      map[string]interface{}   `json:"match"`
	}
	decodeContent(t, resp, &analysis)

	if len(analysis.Curves) != 1 {
		t.Errorf("curves: got %d, want 1", len(analysis.Curves))
	}
	if len(analysis.Candidates) != 4 {
		t.Errorf("candidates: got %d, want 4", len(analysis.Candidates))
	}
	if analysis.Match["shape"] != "rect" {
		t.Errorf("match: got %v, want rect", analysis.Match["shape"])
	}
}

func TestHandleToolsCall_AnalyzeEmpty(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shape_analyze", map[string]interface{}{"points": []interface{}{}})
	expectToolError(t, resp, -32000)
}

func TestHandleToolsCall_ConnectorCap(t *testing.T) {
	s := newTestServer()

	points := make([]map[string]interface{}, 0)
	for x := 0; x <= 1000; x += 100 {
		points = append(points, map[string]interface{}{"x": x, "y": 0})
	}
	points = append(points, map[string]interface{}{"x": 950, "y": -40})

	resp := callTool(t, s, "shape_connector_cap", map[string]interface{}{"points": points})

	var info struct {
		CapStartIndex int    `json:"cap_start_index"`
		CapType       string `json:"cap_type"`
	}
	decodeContent(t, resp, &info)

	if info.CapType != "arrow" {
		t.Errorf("cap_type: got %s, want arrow", info.CapType)
	}
	if info.CapStartIndex != 8 {
		t.Errorf("cap_start_index: got %d, want 8", info.CapStartIndex)
	}
}

func TestHandleToolsCall_ConnectorCapTooShort(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shape_connector_cap", map[string]interface{}{"points": linePoints})

	var info map[string]interface{}
	decodeContent(t, resp, &info)
	if info != nil {
		t.Errorf("expected null, got %v", info)
	}
}

func TestHandleToolsCall_RenderPreview(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shape_render_preview", map[string]interface{}{
		"points":       rectPoints,
		"width":        128,
		"height":       96,
		"grid_spacing": 16,
	})

	var result struct {
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		ImageBase64 string `json:"image_base64"`
		MimeType    string `json:"mime_type"`
		Shape       string `json:"shape"`
	}
	decodeContent(t, resp, &result)

	if result.Width != 128 || result.Height != 96 {
		t.Errorf("dimensions: got %dx%d, want 128x96", result.Width, result.Height)
	}
	if result.MimeType != "image/png" || result.ImageBase64 == "" {
		t.Errorf("expected PNG data, got %s with %d bytes", result.MimeType, len(result.ImageBase64))
	}
	if result.Shape != "rect" {
		t.Errorf("shape: got %s, want rect", result.Shape)
	}
}

func TestHandleToolsCall_RenderPreviewNoOverlay(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shape_render_preview", map[string]interface{}{
		"points":  rectPoints,
		"overlay": false,
	})

	var result map[string]interface{}
	decodeContent(t, resp, &result)
	if _, ok := result["shape"]; ok {
		t.Errorf("no shape expected without overlay, got %v", result["shape"])
	}
}

func TestHandleToolsCall_RenderPreviewBadColor(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "shape_render_preview", map[string]interface{}{
		"points":       rectPoints,
		"stroke_color": "grey",
	})
	expectToolError(t, resp, -32000)
}

func writeSamples(t *testing.T) string {
	t.Helper()

	scheme := map[string]interface{}{
		"name": "samples",
		"items": []interface{}{
			map[string]interface{}{
				"id":         "1",
				"name":       "Drawing",
				"shape":      "curve",
				"shapeProps": map[string]interface{}{"points": rectPoints},
			},
			map[string]interface{}{
				"id":         "2",
				"name":       "Line",
				"shape":      "curve",
				"shapeProps": map[string]interface{}{"points": linePoints},
			},
		},
	}
	data, err := json.Marshal(scheme)
	if err != nil {
		t.Fatalf("failed to marshal scheme: %v", err)
	}

	path := filepath.Join(t.TempDir(), "rect.samples.scheme.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write scheme: %v", err)
	}
	return path
}

func TestHandleToolsCall_VerifySamples(t *testing.T) {
	s := newTestServer()
	path := writeSamples(t)

	resp := callTool(t, s, "shape_verify_samples", map[string]interface{}{
		"path":     path,
		"expected": "rect",
	})

	var report struct {
		Hits   int `json:"hits"`
		Misses int `json:"misses"`
	}
	decodeContent(t, resp, &report)

	if report.Hits != 1 || report.Misses != 1 {
		t.Errorf("got %d hits, %d misses, want 1 and 1", report.Hits, report.Misses)
	}
}

func TestHandleToolsCall_VerifySamplesErrors(t *testing.T) {
	s := newTestServer()
	path := writeSamples(t)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"unknown shape", map[string]interface{}{"path": path, "expected": "circle"}},
		{"missing file", map[string]interface{}{"path": filepath.Join(t.TempDir(), "none.json"), "expected": "rect"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectToolError(t, callTool(t, s, "shape_verify_samples", tt.args), -32000)
		})
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := newTestServer()
	resp := callTool(t, s, "nonexistent_tool", map[string]interface{}{})
	expectToolError(t, resp, -32000)
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	expectToolError(t, resp, -32602)
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := newTestServer()
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if _, err := s.executeTool(tool.Name, json.RawMessage(`{invalid`)); err == nil {
				t.Error("expected error for invalid JSON")
			}
		})
	}
}
