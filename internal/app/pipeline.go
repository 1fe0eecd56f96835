package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/homecoming/internal/logger"
)

// run is the frame loop. Each tick it reads a frame and feeds the motion
// gate; while the gate is active, frames go through detection and the
// gesture pipeline. Dropping back to idle resets the pipeline.
func (a *App) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	log := logger.L()
	gate := a.config.Gate
	ticker := time.NewTicker(gate.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !a.IsEnabled() {
			continue
		}

		frame, err := a.config.Camera.ReadFrame()
		if err != nil {
			log.Warn("error reading frame", zap.Error(err))
			continue
		}

		now := time.Now()
		motion, changed := a.config.Motion.Detect(frame)

		if gate.Observe(motion, now) {
			a.config.Camera.SetFPS(gate.FPS())
			ticker.Reset(gate.Interval())
			if gate.Active() {
				log.Debug("switched to active mode", zap.Float64("changed_pct", changed))
			} else {
				a.resetPipeline()
				log.Debug("switched to idle mode")
			}
		}

		if !gate.Active() {
			frame.Close()
			continue
		}

		hands, err := a.config.Detector.Detect(frame)
		frame.Close()
		if err != nil {
			log.Warn("error detecting hands", zap.Error(err))
			continue
		}

		a.HandleFrame(hands, now)
	}
}
