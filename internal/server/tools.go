package server

import (
	"github.com/ironsheep/image-vectorize-mcp/internal/imaging"
	"github.com/ironsheep/image-vectorize-mcp/internal/vectorize"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func detailProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Detail level 0.0-1.0. Higher keeps finer, fainter edges and shorter strokes.",
		"default":     0.5,
		"minimum":     0,
		"maximum":     1,
	}
}

// preprocessProperties are the arguments shared by every tool that runs
// the edge pipeline.
func preprocessProperties() map[string]interface{} {
	return map[string]interface{}{
		"path":   pathProperty(),
		"detail": detailProperty(),
		"background_removal": map[string]interface{}{
			"type":        "boolean",
			"description": "Fade the background to white before edge detection",
			"default":     false,
		},
		"background_algorithm": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"auto", "otsu", "adaptive"},
			"description": "Background removal algorithm. 'auto' picks one from image complexity.",
			"default":     "auto",
		},
		"background_strength": map[string]interface{}{
			"type":        "number",
			"description": "Background removal strength 0.0-1.0",
			"default":     0.5,
		},
		"background_threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Fixed luminance threshold 1-255 for otsu/adaptive. 0 computes one.",
			"default":     0,
		},
		"noise_filtering": map[string]interface{}{
			"type":        "boolean",
			"description": "Apply a median filter before edge detection",
			"default":     false,
		},
		"noise_radius": map[string]interface{}{
			"type":        "number",
			"description": "Median filter radius in pixels",
			"default":     1.0,
		},
		"max_image_size": map[string]interface{}{
			"type":        "integer",
			"description": "Largest side processed at full resolution; larger images are downscaled and paths mapped back",
			"default":     imaging.MaxImageSize,
		},
	}
}

// vectorizeProperties adds the pass and output arguments.
func vectorizeProperties() map[string]interface{} {
	props := preprocessProperties()
	props["mode"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"flat", "hierarchical"},
		"description": "'flat' traces every stroke independently. 'hierarchical' builds an outline tree with holes for even-odd fill.",
		"default":     "flat",
	}
	props["min_area_ratio"] = map[string]interface{}{
		"type":        "number",
		"description": "Hierarchical mode: drop contours smaller than this fraction of the image area",
		"default":     vectorize.DefaultMinAreaRatio,
	}
	props["multipass"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Run several passes at decreasing detail and combine the results",
		"default":     false,
	}
	props["pass_count"] = map[string]interface{}{
		"type":        "integer",
		"description": "Number of passes when multipass is set (1-10)",
		"default":     1,
	}
	props["reverse_pass"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Allow a bottom-to-top pass when image analysis predicts a benefit",
		"default":     false,
	}
	props["diagonal_pass"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Allow diagonal passes when image analysis predicts a benefit",
		"default":     false,
	}
	props["directional_strength_threshold"] = map[string]interface{}{
		"type":        "number",
		"description": "Minimum predicted benefit 0.0-1.0 for a directional pass to run",
		"default":     vectorize.DefaultDirectionalThreshold,
	}
	props["max_processing_time_ms"] = map[string]interface{}{
		"type":        "integer",
		"description": "Wall-clock budget; directional passes that would exceed it are skipped",
		"default":     vectorize.DefaultMaxProcessingTimeMs,
	}
	props["preserve_colors"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Sample a stroke colour from the source image for each path",
		"default":     false,
	}
	props["stroke_px_at_1080p"] = map[string]interface{}{
		"type":        "number",
		"description": "Stroke width for a 1920x1080 image; scaled by the image diagonal",
		"default":     vectorize.DefaultStrokePxAt1080p,
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	thresholds := map[string]interface{}{
		"path":   pathProperty(),
		"detail": detailProperty(),
		"max_image_size": map[string]interface{}{
			"type":        "integer",
			"description": "Largest side processed at full resolution",
			"default":     imaging.MaxImageSize,
		},
		"stroke_px_at_1080p": map[string]interface{}{
			"type":        "number",
			"description": "Stroke width for a 1920x1080 image",
			"default":     vectorize.DefaultStrokePxAt1080p,
		},
	}

	edgeDetect := preprocessProperties()
	edgeDetect["direction"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"standard", "reverse", "diagonal_nw", "diagonal_ne"},
		"description": "Scan order used to seed hysteresis",
		"default":     "standard",
	}

	preview := vectorizeProperties()
	preview["scale"] = map[string]interface{}{
		"type":        "number",
		"description": "Preview size relative to the source image",
		"default":     1.0,
	}
	preview["underlay"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Draw a faded copy of the source image beneath the paths",
		"default":     false,
	}
	preview["stroke_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Hex colour for outlines without a sampled colour",
		"default":     "#141414",
	}
	preview["hole_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Hex colour for holes without a sampled colour",
		"default":     "#D03030",
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, and whether it will be downscaled before vectorization.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_unload",
			Description: "Drop an image from the decode cache. The next call that names the path reads it from disk again.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Pipeline Inspection
		{
			Name:        "image_thresholds",
			Description: "Report the simplification tolerance, minimum stroke length, and Canny thresholds a detail level produces for an image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": thresholds,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_edge_detect",
			Description: "Run one edge detection pass and return the binary edge mask as base64-encoded PNG. Useful for tuning detail before vectorizing.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": edgeDetect,
				"required":   []string{"path"},
			},
		},

		// Vectorization
		{
			Name:        "image_vectorize",
			Description: "Trace the image's edges into simplified polylines. Returns paths in source pixel coordinates with pass reports and the derived stroke width.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": vectorizeProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_vectorize_preview",
			Description: "Vectorize the image and return the paths rendered as base64-encoded PNG, for checking the result visually.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": preview,
				"required":   []string{"path"},
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
