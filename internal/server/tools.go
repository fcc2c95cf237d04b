package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pointsSchema describes a stroke: an ordered list of samples where "break"
// starts a new sub-curve.
func pointsSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x":     map[string]interface{}{"type": "number"},
				"y":     map[string]interface{}{"type": "number"},
				"break": map[string]interface{}{"type": "boolean", "description": "Pen was lifted before this point"},
			},
			"required": []string{"x", "y"},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Classification
		{
			Name:        "shape_identify",
			Description: "Classify a stroke as rect, ellipse, basic_diamond, uml_object or connector. Returns the best match and its score, or null for an empty stroke. The points are classified as given, without simplification.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsSchema("Stroke points in drawing order"),
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "shape_recognize",
			Description: "Run a finished stroke through the full drawing pipeline (dedupe, classify, simplify) and return the item the editor would create: a shape, a connector, or a freeform curve when no match is accepted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsSchema("Raw stroke points in drawing order"),
					"epsilon": map[string]interface{}{
						"type":        "number",
						"description": "Simplification tolerance, clamped to 1-1000. Defaults to the server setting (5)",
					},
					"accept_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Minimum score for a shape to replace the curve. Defaults to the server setting (0.2)",
					},
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "shape_recognize_batch",
			Description: "Recognize several independent strokes concurrently. Results are returned in input order; invalid strokes report an error without failing the batch.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"strokes": map[string]interface{}{
						"type":        "array",
						"description": "List of strokes",
						"items":       pointsSchema("Raw stroke points"),
					},
					"epsilon": map[string]interface{}{
						"type":        "number",
						"description": "Simplification tolerance, clamped to 1-1000",
					},
					"accept_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Minimum score for a shape to replace the curve",
					},
				},
				"required": []string{"strokes"},
			},
		},

		// Diagnostics
		{
			Name:        "shape_analyze",
			Description: "Return the intermediate results of classifying a stroke: bounding boxes, per-curve line analysis, turning angles and every classifier's score.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsSchema("Stroke points in drawing order"),
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "shape_connector_cap",
			Description: "Find the destination cap drawn at the end of a single connector stroke. Returns the cap start index, replacement end point and cap type, or null when no cap region exists.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsSchema("Connector stroke points"),
				},
				"required": []string{"points"},
			},
		},

		// Rendering
		{
			Name:        "shape_render_preview",
			Description: "Render a stroke as a PNG with the recognized shape outlined over it. Useful to see what the recognizer made of a drawing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": pointsSchema("Stroke points in drawing order"),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas width in pixels. Default 256",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas height in pixels. Default 256",
					},
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Draw a grid every N pixels. Default none",
					},
					"soft": map[string]interface{}{
						"type":        "boolean",
						"description": "Blur the raw stroke slightly",
					},
					"overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Outline the recognized shape. Default true",
						"default":     true,
					},
					"stroke_color": map[string]interface{}{
						"type":        "string",
						"description": "Raw stroke color as #RRGGBB",
					},
					"shape_color": map[string]interface{}{
						"type":        "string",
						"description": "Overlay color as #RRGGBB. Defaults to a per-shape color",
					},
				},
				"required": []string{"points"},
			},
		},

		// Samples
		{
			Name:        "shape_verify_samples",
			Description: "Classify every curve item of a scheme sample file and count how many match the expected shape.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a *.samples.scheme.json file",
					},
					"expected": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rect", "ellipse", "basic_diamond", "uml_object", "connector"},
						"description": "Shape every sample should be recognized as",
					},
				},
				"required": []string{"path", "expected"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
