package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ironsheep/image-vectorize-mcp/internal/imaging"
	"github.com/ironsheep/image-vectorize-mcp/internal/logger"
	"github.com/ironsheep/image-vectorize-mcp/internal/vectorize"
	"github.com/sirupsen/logrus"
)

const (
	serverName    = "image-vectorize-mcp"
	serverVersion = "0.1.0"
)

// Options configures a Server.
type Options struct {
	// Memory admits workspace allocations. Nil admits everything.
	Memory vectorize.MemoryChecker

	// MaxProcessingTimeMs is the budget used when a tool call omits one.
	// Zero selects vectorize.DefaultMaxProcessingTimeMs.
	MaxProcessingTimeMs int64
}

// Server handles MCP protocol communication
type Server struct {
	cache *imaging.ImageCache
	log   *logrus.Entry

	// mu serialises pipeline calls; the session's workspace is single-owner.
	mu      sync.Mutex
	session *vectorize.Session

	defaults vectorize.Config
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server with default options.
func New() *Server {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a server with the given memory admission and
// default processing budget.
func NewWithOptions(opts Options) *Server {
	log := logger.WithField("component", "server")
	defaults := vectorize.DefaultConfig()
	if opts.MaxProcessingTimeMs > 0 {
		defaults.MaxProcessingTimeMs = opts.MaxProcessingTimeMs
	}
	return &Server{
		cache:    imaging.NewImageCache(),
		log:      log,
		session:  vectorize.NewSession(opts.Memory, log),
		defaults: defaults,
	}
}

// Run serves requests from stdin and writes responses to stdout.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads newline-delimited JSON-RPC requests from r until EOF and
// writes one response line per request to w.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.WithError(err).Warn("Failed to parse request")
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.WithError(err).Error("Failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.log.WithField("method", req.Method).Debug("Request")
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    serverName,
				"version": serverVersion,
			},
		},
	}
}
