package edges

import (
	"runtime"
	"sync"
)

// parallelThreshold is the pixel count above which row-band stages fan out.
const parallelThreshold = 50_000

// forRows runs fn over [0, height) split into contiguous row bands. Small
// images run inline on the calling goroutine.
func forRows(width, height int, fn func(y0, y1 int)) {
	workers := runtime.NumCPU()
	if width*height < parallelThreshold || workers < 2 || height < 2*workers {
		fn(0, height)
		return
	}

	band := (height + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < height; y0 += band {
		y1 := min(y0+band, height)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}
