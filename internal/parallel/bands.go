package parallel

import (
	"context"
	"sync"
)

// Band is a half-open range of pixel rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// SplitRows splits height rows into bands of rowsPerBand rows.
// The last band is shorter if height is not divisible.
// Returns nil if height or rowsPerBand is not positive.
func SplitRows(height, rowsPerBand int) []Band {
	if height <= 0 || rowsPerBand <= 0 {
		return nil
	}

	bands := make([]Band, 0, (height+rowsPerBand-1)/rowsPerBand)
	for y := 0; y < height; y += rowsPerBand {
		bands = append(bands, Band{Y0: y, Y1: min(y+rowsPerBand, height)})
	}
	return bands
}

// ForEachBand calls fn for every band and returns the first error.
//
// With a nil pool the bands run sequentially on the calling goroutine.
// Once ctx is done the remaining bands are skipped and ctx's error is
// returned.
func ForEachBand(ctx context.Context, pool *WorkerPool, bands []Band, fn func(Band) error) error {
	if pool == nil || pool.Workers() == 1 {
		for _, b := range bands {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(b); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() {
			if ctx.Err() != nil {
				return
			}
			if err := fn(b); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}
	}
	pool.ExecuteAll(work)

	if err := ctx.Err(); err != nil {
		return err
	}
	return firstErr
}
