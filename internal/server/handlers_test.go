package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/ironsheep/image-vectorize-mcp/internal/vectorize"
)

// createTestImageFile writes a white PNG with a black square covering
// [inset, size-inset) on both axes and returns its path. inset 0 gives a
// plain white image.
func createTestImageFile(t *testing.T, size, inset int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.Color(color.White)
			if inset > 0 && x >= inset && x < size-inset && y >= inset && y < size-inset {
				c = color.Black
			}
			img.Set(x, y, c)
		}
	}

	tmpFile, err := os.CreateTemp("", "handler-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}

	t.Cleanup(func() { os.Remove(tmpFile.Name()) })
	return tmpFile.Name()
}

// callTool invokes a tool through handleRequest and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	paramsJSON, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("marshal params: %v", err)
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

// decodeContent unmarshals the text content of a successful response into v.
func decodeContent(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v (%v)", resp.Error.Message, resp.Error.Data)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Fatalf("content type: got %v, want text", content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("decode content: %v", err)
	}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 0)

	var info struct {
		Width          int    `json:"width"`
		Height         int    `json:"height"`
		Format         string `json:"format"`
		ExceedsMaxSize bool   `json:"exceeds_max_size"`
	}
	decodeContent(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}), &info)

	if info.Width != 100 || info.Height != 100 {
		t.Errorf("size: got %dx%d, want 100x100", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %q, want png", info.Format)
	}
	if info.ExceedsMaxSize {
		t.Error("small image should not exceed the max size")
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 64, 0)

	var dims struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	decodeContent(t, callTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath}), &dims)

	if dims.Width != 64 || dims.Height != 64 {
		t.Errorf("size: got %dx%d, want 64x64", dims.Width, dims.Height)
	}
}

func TestHandleToolsCall_ImageUnload(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 40, 10)
	other := createTestImageFile(t, 30, 5)

	for _, p := range []string{imgPath, other} {
		if resp := callTool(t, s, "image_load", map[string]interface{}{"path": p}); resp.Error != nil {
			t.Fatalf("image_load: %v", resp.Error.Data)
		}
	}

	var got UnloadResult
	decodeContent(t, callTool(t, s, "image_unload", map[string]interface{}{"path": imgPath}), &got)
	if got.Path != imgPath || got.CachedImages != 1 {
		t.Errorf("got %+v, want %s with 1 cached image", got, imgPath)
	}

	// Unloading an uncached path is not an error.
	decodeContent(t, callTool(t, s, "image_unload", map[string]interface{}{"path": imgPath}), &got)
	if got.CachedImages != 1 {
		t.Errorf("cached images: got %d, want 1", got.CachedImages)
	}

	if resp := callTool(t, s, "image_unload", map[string]interface{}{}); resp.Error == nil {
		t.Error("expected an error without a path")
	}
}

func TestHandleToolsCall_Thresholds(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 0)

	tests := []struct {
		name   string
		args   map[string]interface{}
		detail float64
	}{
		{"default detail", map[string]interface{}{"path": imgPath}, 0.5},
		{"explicit zero", map[string]interface{}{"path": imgPath, "detail": 0.0}, 0},
		{"full detail", map[string]interface{}{"path": imgPath, "detail": 1.0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ThresholdsResult
			decodeContent(t, callTool(t, s, "image_thresholds", tt.args), &got)

			want := vectorize.NewThresholds(tt.detail, 100, 100)
			if got.Thresholds != want {
				t.Errorf("thresholds: got %+v, want %+v", got.Thresholds, want)
			}
			if got.ProcessingWidth != 100 || got.ProcessingHeight != 100 {
				t.Errorf("processing size: got %dx%d", got.ProcessingWidth, got.ProcessingHeight)
			}
			if got.StrokeWidth != 0.5 {
				t.Errorf("stroke width: got %v, want clamped 0.5", got.StrokeWidth)
			}
		})
	}
}

func TestHandleToolsCall_ThresholdsDownscaled(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 100, 0)

	var got ThresholdsResult
	decodeContent(t, callTool(t, s, "image_thresholds", map[string]interface{}{
		"path":           imgPath,
		"max_image_size": 50,
	}), &got)

	if got.Width != 100 || got.ProcessingWidth != 50 {
		t.Errorf("sizes: source %d, processing %d", got.Width, got.ProcessingWidth)
	}
}

func TestHandleToolsCall_EdgeDetect(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 60, 15)

	for _, dir := range []string{"", "standard", "reverse", "diagonal_nw", "diagonal_ne"} {
		t.Run("direction "+dir, func(t *testing.T) {
			var got struct {
				Width       int     `json:"width"`
				Height      int     `json:"height"`
				EdgePixels  int     `json:"edge_pixels"`
				ImageBase64 string  `json:"image_base64"`
				Direction   string  `json:"direction"`
				Scale       float64 `json:"scale"`
			}
			decodeContent(t, callTool(t, s, "image_edge_detect", map[string]interface{}{
				"path":      imgPath,
				"direction": dir,
			}), &got)

			if got.Width != 60 || got.Height != 60 {
				t.Errorf("size: got %dx%d, want 60x60", got.Width, got.Height)
			}
			if got.EdgePixels == 0 {
				t.Error("square should produce edge pixels")
			}
			if got.ImageBase64 == "" {
				t.Error("missing PNG")
			}
			if dir != "" && got.Direction != dir {
				t.Errorf("direction: got %q, want %q", got.Direction, dir)
			}
			if got.Scale != 1 {
				t.Errorf("scale: got %v, want 1", got.Scale)
			}
		})
	}
}

func TestHandleToolsCall_EdgeDetectBadDirection(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 30, 5)

	resp := callTool(t, s, "image_edge_detect", map[string]interface{}{
		"path":      imgPath,
		"direction": "sideways",
	})
	if resp.Error == nil || resp.Error.Code != -32000 {
		t.Errorf("expected tool error, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_Vectorize(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 80, 20)

	tests := []struct {
		name       string
		args       map[string]interface{}
		wantMode   string
		wantPasses int
	}{
		{"defaults", map[string]interface{}{}, "flat", 1},
		{"hierarchical", map[string]interface{}{"mode": "hierarchical"}, "hierarchical", 1},
		{"multipass", map[string]interface{}{"multipass": true, "pass_count": 3}, "flat", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["path"] = imgPath
			var res vectorize.Result
			decodeContent(t, callTool(t, s, "image_vectorize", tt.args), &res)

			if len(res.Paths) == 0 {
				t.Fatal("square should produce paths")
			}
			if res.Mode != tt.wantMode {
				t.Errorf("mode: got %q, want %q", res.Mode, tt.wantMode)
			}
			if len(res.Passes) != tt.wantPasses {
				t.Errorf("passes: got %d, want %d", len(res.Passes), tt.wantPasses)
			}
			if res.Width != 80 || res.Height != 80 {
				t.Errorf("size: got %dx%d, want 80x80", res.Width, res.Height)
			}
			for i, p := range res.Paths {
				for _, pt := range p.Points {
					if pt.X < 0 || pt.Y < 0 || pt.X >= 80 || pt.Y >= 80 {
						t.Fatalf("path %d: point %v outside the image", i, pt)
					}
				}
			}
		})
	}
}

func TestHandleToolsCall_VectorizeBlankImage(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 40, 0)

	var res vectorize.Result
	decodeContent(t, callTool(t, s, "image_vectorize", map[string]interface{}{"path": imgPath}), &res)
	if res.Paths == nil || len(res.Paths) != 0 {
		t.Errorf("paths: got %v, want empty list", res.Paths)
	}
}

func TestHandleToolsCall_VectorizeInvalidArguments(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 40, 10)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"unknown mode", map[string]interface{}{"path": imgPath, "mode": "spiral"}},
		{"unknown background", map[string]interface{}{"path": imgPath, "background_algorithm": "magic"}},
		{"wrong type", map[string]interface{}{"path": imgPath, "detail": "high"}},
		{"missing file", map[string]interface{}{"path": "/nonexistent/image.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "image_vectorize", tt.args)
			if resp.Error == nil {
				t.Fatal("expected an error")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_VectorizeMemoryBudget(t *testing.T) {
	s := NewWithOptions(Options{Memory: vectorize.MemoryBudget{Limit: 1024}})
	imgPath := createTestImageFile(t, 60, 15)

	resp := callTool(t, s, "image_vectorize", map[string]interface{}{"path": imgPath})
	if resp.Error == nil {
		t.Fatal("expected the memory budget to reject the workspace")
	}
}

func TestWithDefaults_ProcessingBudget(t *testing.T) {
	s := NewWithOptions(Options{MaxProcessingTimeMs: 2500})
	tests := []struct {
		name string
		ms   int64
		want int64
	}{
		{"explicit zero uses server default", 0, 2500},
		{"negative uses server default", -1, 2500},
		{"explicit budget kept", 400, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := vectorize.DefaultConfig()
			cfg.MaxProcessingTimeMs = tt.ms
			if got := s.withDefaults(cfg).MaxProcessingTimeMs; got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHandleToolsCall_VectorizeOmittedBudget(t *testing.T) {
	s := NewWithOptions(Options{MaxProcessingTimeMs: 2500})
	var a imageVectorizeArgs
	a.Config = s.defaults
	if err := decodeArgs([]byte(`{"path":"x.png"}`), &a); err != nil {
		t.Fatalf("decodeArgs: %v", err)
	}
	if a.MaxProcessingTimeMs != 2500 {
		t.Errorf("omitted budget: got %d, want 2500", a.MaxProcessingTimeMs)
	}
}

func TestHandleToolsCall_VectorizePreview(t *testing.T) {
	s := New()
	imgPath := createTestImageFile(t, 60, 15)

	var got VectorizePreviewResult
	decodeContent(t, callTool(t, s, "image_vectorize_preview", map[string]interface{}{
		"path":     imgPath,
		"scale":    2.0,
		"underlay": true,
	}), &got)

	if got.Preview == nil {
		t.Fatal("missing preview")
	}
	if got.Preview.Width != 120 || got.Preview.Height != 120 {
		t.Errorf("preview size: got %dx%d, want 120x120", got.Preview.Width, got.Preview.Height)
	}
	if got.Preview.MimeType != "image/png" || got.Preview.ImageBase64 == "" {
		t.Errorf("preview encoding: %q, %d bytes", got.Preview.MimeType, len(got.Preview.ImageBase64))
	}
	if got.Paths == 0 || got.Preview.Paths != got.Paths {
		t.Errorf("paths: summary %d, preview %d", got.Paths, got.Preview.Paths)
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := New()

	resp := callTool(t, s, "nonexistent_tool", map[string]interface{}{})
	if resp.Error == nil {
		t.Fatal("expected an error for unknown tool")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()

	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`"not an object"`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected invalid params error, got %+v", resp.Error)
	}
}

func TestHandleToolsCall_MissingPath(t *testing.T) {
	s := New()

	resp := callTool(t, s, "image_load", map[string]interface{}{})
	if resp.Error == nil {
		t.Error("expected an error when path is missing")
	}
}

func TestMustMarshalJSON(t *testing.T) {
	got := mustMarshalJSON(map[string]int{"a": 1})
	if got != "{\n  \"a\": 1\n}" {
		t.Errorf("got %q", got)
	}
	if mustMarshalJSON(make(chan int)) != "" {
		t.Error("unmarshalable value should yield an empty string")
	}
}
