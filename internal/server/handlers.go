package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime"

	"github.com/ironsheep/smartshape-mcp/internal/detection"
	"github.com/ironsheep/smartshape-mcp/internal/render"
	"github.com/ironsheep/smartshape-mcp/internal/stroke"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "shape_identify", "shape_recognize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug() {
			log.Printf("tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Fills optional parameters from the server configuration
//  3. Calls the appropriate detection/stroke/render function
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Classification
	case "shape_identify":
		return s.handleShapeIdentify(args)
	case "shape_recognize":
		return s.handleShapeRecognize(args)
	case "shape_recognize_batch":
		return s.handleShapeRecognizeBatch(args)

	// Diagnostics
	case "shape_analyze":
		return s.handleShapeAnalyze(args)
	case "shape_connector_cap":
		return s.handleShapeConnectorCap(args)

	// Rendering
	case "shape_render_preview":
		return s.handleShapeRenderPreview(args)

	// Samples
	case "shape_verify_samples":
		return s.handleShapeVerifySamples(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// traceAnalysis logs the curve analysis and classifier scores of a stroke.
func (s *Server) traceAnalysis(points []detection.Point) {
	if !s.cfg.Debug() {
		return
	}
	analysis := detection.AnalyzeStroke(points)
	if analysis == nil {
		log.Printf("analysis: empty stroke")
		return
	}
	for i, c := range analysis.Curves {
		log.Printf("analysis: curve %d: %d lines, %d full, angles=%v joined=%v far=%v",
			i, len(c.SimpleLines), c.TotalFullLines, c.Angles, c.IsJoined, c.EndsFarAway)
	}
	for _, m := range analysis.Candidates {
		log.Printf("analysis: candidate %s score %.3f", m.Shape, m.Score)
	}
	log.Printf("analysis: selected %s score %.3f", analysis.Match.Shape, analysis.Match.Score)
}

// recognitionOptions merges per-call overrides into the configured defaults.
func (s *Server) recognitionOptions(epsilon, threshold *float64) stroke.Options {
	opts := s.cfg.Recognition
	if epsilon != nil {
		opts.Epsilon = *epsilon
	}
	if threshold != nil {
		opts.AcceptThreshold = *threshold
	}
	return opts
}

// === Classification Handlers ===

type pointsArgs struct {
	Points []detection.Point `json:"points"`
}

func (s *Server) handleShapeIdentify(args json.RawMessage) (interface{}, error) {
	var a pointsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	s.traceAnalysis(a.Points)
	return detection.IdentifyShape(a.Points), nil
}

type shapeRecognizeArgs struct {
	Points          []detection.Point `json:"points"`
	Epsilon         *float64          `json:"epsilon"`
	AcceptThreshold *float64          `json:"accept_threshold"`
}

func (s *Server) handleShapeRecognize(args json.RawMessage) (interface{}, error) {
	var a shapeRecognizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts := s.recognitionOptions(a.Epsilon, a.AcceptThreshold)

	result, err := stroke.Recognize(a.Points, opts)
	if err != nil {
		return nil, err
	}
	if s.cfg.Debug() {
		log.Printf("recognize: %d -> %d points, %s accepted=%v",
			result.OriginalPoints, result.SimplifiedPoints, result.Item.Shape, result.Accepted)
	}
	return result, nil
}

type shapeRecognizeBatchArgs struct {
	Strokes         [][]detection.Point `json:"strokes"`
	Epsilon         *float64            `json:"epsilon"`
	AcceptThreshold *float64            `json:"accept_threshold"`
}

// BatchResponse is the result of shape_recognize_batch.
type BatchResponse struct {
	Results  []stroke.BatchResult `json:"results"`
	Accepted int                  `json:"accepted"`
	Failed   int                  `json:"failed"`
}

func (s *Server) handleShapeRecognizeBatch(args json.RawMessage) (interface{}, error) {
	var a shapeRecognizeBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Strokes) == 0 {
		return nil, fmt.Errorf("strokes must not be empty")
	}

	workers := s.cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	results, err := stroke.RecognizeBatch(context.Background(), a.Strokes,
		s.recognitionOptions(a.Epsilon, a.AcceptThreshold), workers)
	if err != nil {
		return nil, err
	}

	resp := &BatchResponse{Results: results}
	for _, r := range results {
		switch {
		case r.Result == nil:
			resp.Failed++
		case r.Result.Accepted:
			resp.Accepted++
		}
	}
	return resp, nil
}

// === Diagnostics Handlers ===

func (s *Server) handleShapeAnalyze(args json.RawMessage) (interface{}, error) {
	var a pointsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, stroke.ErrEmptyStroke
	}
	s.traceAnalysis(a.Points)
	return detection.AnalyzeStroke(a.Points), nil
}

func (s *Server) handleShapeConnectorCap(args json.RawMessage) (interface{}, error) {
	var a pointsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return detection.AnalyzeConnectorDestinationCap(a.Points), nil
}

// === Rendering Handlers ===

type shapeRenderPreviewArgs struct {
	Points      []detection.Point `json:"points"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	GridSpacing *int              `json:"grid_spacing"`
	Soft        *bool             `json:"soft"`
	Overlay     *bool             `json:"overlay"`
	StrokeColor string            `json:"stroke_color"`
	ShapeColor  string            `json:"shape_color"`
}

func (s *Server) handleShapeRenderPreview(args json.RawMessage) (interface{}, error) {
	var a shapeRenderPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := s.cfg.Preview
	if a.Width > 0 {
		opts.Width = a.Width
	}
	if a.Height > 0 {
		opts.Height = a.Height
	}
	if a.GridSpacing != nil {
		opts.GridSpacing = *a.GridSpacing
	}
	if a.Soft != nil {
		opts.Soft = *a.Soft
	}
	if a.StrokeColor != "" {
		opts.StrokeColor = a.StrokeColor
	}
	if a.ShapeColor != "" {
		opts.ShapeColor = a.ShapeColor
	}

	var match *detection.ShapeMatch
	if a.Overlay == nil || *a.Overlay {
		match = detection.IdentifyShape(a.Points)
	}
	return render.RenderPreview(a.Points, match, opts)
}

// === Sample Handlers ===

type shapeVerifySamplesArgs struct {
	Path     string `json:"path"`
	Expected string `json:"expected"`
}

var knownShapes = map[detection.ShapeKind]bool{
	detection.ShapeRect:      true,
	detection.ShapeEllipse:   true,
	detection.ShapeDiamond:   true,
	detection.ShapeObject:    true,
	detection.ShapeConnector: true,
}

func (s *Server) handleShapeVerifySamples(args json.RawMessage) (interface{}, error) {
	var a shapeVerifySamplesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	expected := detection.ShapeKind(a.Expected)
	if !knownShapes[expected] {
		return nil, fmt.Errorf("unknown shape: %q", a.Expected)
	}

	scheme, err := s.schemes.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return stroke.VerifySamples(scheme, expected)
}
