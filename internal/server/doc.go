// Package server implements the MCP (Model Context Protocol) server for
// freehand shape recognition.
//
// The server exposes the stroke recognizer used by the diagram editor's
// drawing tool through the MCP protocol, so that clients can classify
// strokes, inspect how a classification came about and render previews.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Classification:
//   - shape_identify: Best match for a stroke as drawn
//   - shape_recognize: Full drawing pipeline, returns the item to create
//   - shape_recognize_batch: Pipeline over many strokes concurrently
//
// Diagnostics:
//   - shape_analyze: Curve analysis and every classifier's score
//   - shape_connector_cap: Destination cap of a connector stroke
//
// Rendering:
//   - shape_render_preview: PNG of the stroke with the recognized outline
//
// Samples:
//   - shape_verify_samples: Classify the curves of a scheme sample file
//
// # Points
//
// Strokes are arrays of {"x", "y", "break"} objects in drawing order.
// "break" marks the first point after the pen was lifted.
//
// # Configuration
//
// Defaults for epsilon, the acceptance threshold, batch workers and previews
// come from the config package. Per-call arguments override them.
// With log_level "debug" every request and the analysis behind each
// classification are logged to stderr.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 (malformed tools/call
//     params) or -32601 (unknown method)
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.LoadFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
