// Package edges classifies pixels of a grayscale image into a binary edge
// mask using a Canny-style chain:
//
//  1. Gaussian blur (separable kernel, sigma chosen by the caller)
//  2. Sobel gradient magnitude and direction
//  3. Non-maximum suppression with deterministic tie-breaking
//  4. Double-threshold hysteresis with breadth-first propagation
//
// Every stage reads and writes the buffers of a Workspace, so one image size
// costs at most one allocation burst no matter how many passes run over it.
//
// # Buffers
//
// A run uses the Workspace buffers as follows:
//
//	Magnitude  blur scratch (horizontal pass), then gradient magnitude
//	Temp       blurred image, then suppressed magnitude, then the 0/255 mask
//	Direction  gradient direction in radians, atan2(gy, gx)
//	State      none / weak / strong classification during hysteresis
//	Queue      FIFO of pixel indices for hysteresis
//
// The mask returned by Detect aliases Workspace.Temp and stays valid until
// the next call that uses the same Workspace.
//
// # Concurrency
//
// A Workspace belongs to one pipeline run at a time. Internally, Sobel and
// suppression split large images into row bands processed on separate
// goroutines; each band writes only its own rows.
package edges
