// Package imaging holds the raster side of the vectorizer: loading and
// caching source files, conversion to RGBA and luminance, downscaling,
// background removal, noise filtering, stroke colour sampling, and PNG
// previews of traced paths.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. ToRGBA shifts any
// non-zero image origin to (0,0) so that every later stage can index Pix
// directly.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The other functions are
// stateless and never modify their input image; those that transform an
// image return a new one.
//
// # Color Representation
//
// Stroke colours are "#RRGGBB" strings. Background comparison and stroke
// sampling work in CIE Lab through go-colorful so that distances follow
// perceived difference rather than raw RGB.
//
// # Performance Considerations
//
// Large sources are cached decoded, so a long-running server should Evict
// or Clear paths it no longer needs. FitWithin bounds the processing size
// at MaxImageSize per side by default.
package imaging
