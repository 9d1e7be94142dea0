package edges

// neighbours8 lists the 8-connected offsets.
var neighbours8 = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// Hysteresis classifies the suppressed magnitudes in ws.Temp against the
// byte thresholds low and high and overwrites ws.Temp with a 0/255 mask.
//
// Pixels >= high are strong and seed a FIFO queue in scan order; weak pixels
// (low <= v < high) reached by 8-connected breadth-first expansion from a
// strong pixel are promoted. Everything else is dropped.
func Hysteresis(ws *Workspace, low, high uint8, order ScanOrder) {
	w, h := ws.Width, ws.Height
	src := ws.Temp
	state := ws.State
	queue := ws.Queue[:0]

	order.Walk(w, h, func(x, y int) bool {
		i := y*w + x
		v := src[i]
		switch {
		case v == 0 || v < low:
			state[i] = StateNone
		case v >= high:
			state[i] = StateStrong
			queue = append(queue, i)
		default:
			state[i] = StateWeak
		}
		return true
	})

	for head := 0; head < len(queue); head++ {
		i := queue[head]
		x, y := i%w, i/w
		for _, d := range neighbours8 {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			j := ny*w + nx
			if state[j] == StateWeak {
				state[j] = StateStrong
				queue = append(queue, j)
			}
		}
	}

	for i, s := range state {
		if s == StateStrong {
			src[i] = 255
		} else {
			src[i] = 0
		}
	}
	ws.Queue = queue[:0]
}
