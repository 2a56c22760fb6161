package bake

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// workerCount resolves a configured worker count against the row count.
// Zero or negative means one worker per CPU.
func workerCount(workers, rows int) int {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > rows {
		workers = rows
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// forEachBand splits rows [0, rows) into contiguous bands and runs fn once
// per band. Bands are disjoint, so fn may write its rows without locking.
// fn receives the band number and its half-open row range.
func forEachBand(rows, workers int, fn func(band, y0, y1 int)) {
	n := workerCount(workers, rows)
	if n == 1 {
		fn(0, 0, rows)
		return
	}

	var g errgroup.Group
	per := (rows + n - 1) / n
	for b := 0; b < n; b++ {
		y0 := b * per
		y1 := min(y0+per, rows)
		if y0 >= y1 {
			break
		}
		g.Go(func() error {
			fn(b, y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}
