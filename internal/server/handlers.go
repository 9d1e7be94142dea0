package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/ironsheep/image-vectorize-mcp/internal/edges"
	"github.com/ironsheep/image-vectorize-mcp/internal/imaging"
	"github.com/ironsheep/image-vectorize-mcp/internal/vectorize"
	"github.com/sirupsen/logrus"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_vectorize").
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
		s.log.WithFields(logrus.Fields{
			"tool": params.Name,
		}).WithError(err).Warn("Tool execution failed")
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
//  1. Unmarshals arguments from JSON over the server defaults
//  2. Loads the image through the cache
//  3. Runs the pipeline on the shared session
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_unload":
		return s.handleImageUnload(args)

	// Pipeline Inspection
	case "image_thresholds":
		return s.handleImageThresholds(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)

	// Vectorization
	case "image_vectorize":
		return s.handleImageVectorize(args)
	case "image_vectorize_preview":
		return s.handleImageVectorizePreview(args)

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

// decodeArgs unmarshals args into v. Empty arguments leave v unchanged.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// UnloadResult reports the cache after an image_unload call.
type UnloadResult struct {
	Path         string `json:"path"`
	CachedImages int    `json:"cached_images"`
}

func (s *Server) handleImageUnload(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	s.cache.Evict(a.Path)
	return &UnloadResult{Path: a.Path, CachedImages: s.cache.Len()}, nil
}

// === Pipeline Inspection Handlers ===

type imageThresholdsArgs struct {
	Path            string   `json:"path"`
	Detail          *float64 `json:"detail"`
	MaxImageSize    int      `json:"max_image_size"`
	StrokePxAt1080p float64  `json:"stroke_px_at_1080p"`
}

// ThresholdsResult reports the derived parameters for an image.
type ThresholdsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// ProcessingWidth and ProcessingHeight are the size the thresholds
	// were derived for, after any downscale.
	ProcessingWidth  int `json:"processing_width"`
	ProcessingHeight int `json:"processing_height"`

	Thresholds  vectorize.ThresholdSet `json:"thresholds"`
	StrokeWidth float64                `json:"stroke_width"`
}

func (s *Server) handleImageThresholds(args json.RawMessage) (interface{}, error) {
	var a imageThresholdsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	detail := s.defaults.Detail
	if a.Detail != nil {
		detail = *a.Detail
	}
	if a.MaxImageSize <= 0 {
		a.MaxImageSize = s.defaults.MaxImageSize
	}
	if a.StrokePxAt1080p <= 0 {
		a.StrokePxAt1080p = s.defaults.StrokePxAt1080p
	}

	dims, err := imaging.GetDimensions(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	pw, ph := imaging.FitSize(dims.Width, dims.Height, a.MaxImageSize)
	return &ThresholdsResult{
		Width:            dims.Width,
		Height:           dims.Height,
		ProcessingWidth:  pw,
		ProcessingHeight: ph,
		Thresholds:       vectorize.NewThresholds(detail, pw, ph),
		StrokeWidth:      vectorize.StrokeWidth(dims.Width, dims.Height, a.StrokePxAt1080p),
	}, nil
}

type imageEdgeDetectArgs struct {
	Path      string `json:"path"`
	Direction string `json:"direction"`
	vectorize.Config
}

// EdgeDetectResult is the edge mask of one pass plus the thresholds used.
type EdgeDetectResult struct {
	*imaging.MaskResult
	Direction  string                 `json:"direction"`
	Scale      float64                `json:"scale"`
	Thresholds vectorize.ThresholdSet `json:"thresholds"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	a := imageEdgeDetectArgs{Config: s.defaults}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	order, err := edges.ParseScanOrder(a.Direction)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	mask, err := s.session.EdgeMask(img, a.Config, order)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	rendered, err := imaging.RenderMask(mask.Pixels, mask.Width, mask.Height)
	if err != nil {
		return nil, err
	}
	return &EdgeDetectResult{
		MaskResult: rendered,
		Direction:  order.String(),
		Scale:      mask.Scale,
		Thresholds: mask.Thresholds,
	}, nil
}

// === Vectorization Handlers ===

type imageVectorizeArgs struct {
	Path string `json:"path"`
	vectorize.Config
}

// vectorizeFile decodes args over the server defaults and runs the pipeline
// on the image they name.
func (s *Server) vectorizeFile(args json.RawMessage, extra interface{}) (*vectorize.Result, image.Image, error) {
	a := imageVectorizeArgs{Config: s.defaults}
	if err := decodeArgs(args, &a); err != nil {
		return nil, nil, err
	}
	if extra != nil {
		if err := decodeArgs(args, extra); err != nil {
			return nil, nil, err
		}
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.session.Vectorize(img, s.withDefaults(a.Config))
	if err != nil {
		return nil, nil, err
	}
	return res, img, nil
}

// withDefaults replaces unset budgets in cfg with the server's, so an
// explicit zero behaves like an omitted argument.
func (s *Server) withDefaults(cfg vectorize.Config) vectorize.Config {
	if cfg.MaxProcessingTimeMs <= 0 {
		cfg.MaxProcessingTimeMs = s.defaults.MaxProcessingTimeMs
	}
	return cfg
}

func (s *Server) handleImageVectorize(args json.RawMessage) (interface{}, error) {
	res, _, err := s.vectorizeFile(args, nil)
	return res, err
}

type previewArgs struct {
	Scale       float64 `json:"scale"`
	Underlay    bool    `json:"underlay"`
	StrokeColor string  `json:"stroke_color"`
	HoleColor   string  `json:"hole_color"`
}

// VectorizePreviewResult is a rendered preview plus the run summary.
type VectorizePreviewResult struct {
	Preview     *imaging.PreviewResult `json:"preview"`
	Paths       int                    `json:"paths"`
	Holes       int                    `json:"holes"`
	Mode        string                 `json:"mode"`
	StrokeWidth float64                `json:"stroke_width"`
	Passes      []vectorize.PassReport `json:"passes"`
	ElapsedMs   float64                `json:"elapsed_ms"`
}

func (s *Server) handleImageVectorizePreview(args json.RawMessage) (interface{}, error) {
	var p previewArgs
	res, img, err := s.vectorizeFile(args, &p)
	if err != nil {
		return nil, err
	}

	paths := make([]imaging.PreviewPath, len(res.Paths))
	holes := 0
	for i, path := range res.Paths {
		paths[i] = imaging.PreviewPath{
			Points: path.Points,
			Closed: path.Closed,
			Hole:   path.IsHole,
			Color:  path.Color,
		}
		if path.IsHole {
			holes++
		}
	}

	opts := imaging.PreviewOptions{
		Width:       res.Width,
		Height:      res.Height,
		Scale:       p.Scale,
		StrokeWidth: res.StrokeWidth,
		StrokeHex:   p.StrokeColor,
		HoleHex:     p.HoleColor,
	}
	if p.Underlay {
		opts.Underlay = img
	}
	preview, err := imaging.RenderPreview(paths, opts)
	if err != nil {
		return nil, err
	}
	return &VectorizePreviewResult{
		Preview:     preview,
		Paths:       len(res.Paths),
		Holes:       holes,
		Mode:        res.Mode,
		StrokeWidth: res.StrokeWidth,
		Passes:      res.Passes,
		ElapsedMs:   res.ElapsedMs,
	}, nil
}
