package sim

import (
	"context"
	"errors"
	"time"

	"github.com/san-kum/boxsim/internal/dynamo"
)

// LoopStats counts what happened during Run.
type LoopStats struct {
	Rendered int
	Skipped  int
	Failed   int
}

// Run ticks the simulator every interval using wall-clock deltas and hands
// each frame to r. Ticks are skipped while r is not ready; frame and render
// errors are logged and the loop carries on. Run returns when ctx is done.
func (s *Simulator) Run(ctx context.Context, r Renderer, interval time.Duration) (LoopStats, error) {
	var stats LoopStats
	if interval <= 0 {
		interval = time.Second / 60
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("loop stopped", "rendered", stats.Rendered, "skipped", stats.Skipped, "failed", stats.Failed)
			return stats, ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			if r == nil || !r.Ready() {
				stats.Skipped++
				continue
			}

			f, err := s.Tick(dt)
			if err != nil {
				stats.Failed++
				s.logger.Warn("frame dropped", "err", err)
				continue
			}
			if err := r.Render(f); err != nil {
				if errors.Is(err, dynamo.ErrNotReady) {
					stats.Skipped++
					continue
				}
				stats.Failed++
				s.logger.Warn("render failed", "frame", f.Index, "err", err)
				continue
			}
			stats.Rendered++
		}
	}
}
