// Package server implements the MCP (Model Context Protocol) server for the
// image vectorizer.
//
// This package provides a JSON-RPC 2.0 server that exposes the
// vectorization pipeline through the MCP protocol, so an MCP client can
// turn a raster file into polylines, inspect the derived thresholds, and
// look at edge masks or rendered previews while tuning.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Pipeline Inspection:
//   - image_thresholds: Tolerances derived from a detail level
//   - image_edge_detect: Edge mask of a single pass
//
// Vectorization:
//   - image_vectorize: Paths, pass reports and stroke width
//   - image_vectorize_preview: Paths rendered as PNG
//
// Vectorization arguments are decoded over the server defaults, so a call
// only names what it changes.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// A changed file is decoded again; image_unload drops an entry explicitly.
//
// # Concurrency
//
// All pipeline tools share one vectorize.Session and its edge workspace.
// Calls are serialised on a mutex, so the workspace is sized for the
// largest image seen so far and reused after that.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.NewWithOptions(server.Options{
//	    Memory: vectorize.NewMemoryBudget(1024),
//	})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
