package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Dispatcher tries its engines one after another, cheapest first. It moves
// on to the next engine when a fetch fails or when the fetched HTML looks
// like an unrendered JavaScript shell.
type Dispatcher struct {
	engines []Engine
}

// NewDispatcher creates a Dispatcher trying engines in the given order.
func NewDispatcher(engines ...Engine) *Dispatcher {
	return &Dispatcher{engines: engines}
}

// Dispatch returns the first usable result. A JS-shell result is kept and
// returned only if every later engine fails. If all engines fail, the
// joined errors are returned so callers can inspect each cause.
func (d *Dispatcher) Dispatch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if len(d.engines) == 0 {
		return nil, errors.New("dispatcher: no engines configured")
	}

	var (
		errs     []error
		fallback *FetchResult
	)
	for i, eng := range d.engines {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		start := time.Now()
		result, err := eng.Fetch(ctx, req)
		if err != nil {
			slog.Debug("engine fetch failed",
				"engine", eng.Name(), "url", req.URL, "duration", time.Since(start), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", eng.Name(), err))
			continue
		}
		result.EngineName = eng.Name()

		if i < len(d.engines)-1 && NeedsBrowser([]byte(result.HTML)) {
			slog.Debug("engine result needs rendering, escalating",
				"engine", eng.Name(), "url", req.URL)
			fallback = result
			continue
		}

		slog.Debug("engine fetch succeeded",
			"engine", eng.Name(), "url", req.URL, "duration", time.Since(start))
		return result, nil
	}

	if fallback != nil {
		return fallback, nil
	}
	return nil, errors.Join(errs...)
}
