// Package app wires frame acquisition, landmark detection, the gesture
// pipeline and action dispatch into the running service.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/homecoming/internal/capture"
	"github.com/ayusman/homecoming/internal/detector"
	"github.com/ayusman/homecoming/internal/gesture"
	"github.com/ayusman/homecoming/internal/logger"
	"github.com/ayusman/homecoming/internal/plugin"
	"github.com/ayusman/homecoming/internal/store"
)

// ErrNoCamera is returned by Start when the app was built without a camera.
var ErrNoCamera = errors.New("no camera configured")

// EventSink receives every confirmed gesture event. Publish must not block.
type EventSink interface {
	Publish(ev gesture.Event)
}

// Config holds the collaborators of an App. Camera, Motion and Detector
// are only needed by Start; Store and Plugins may be nil.
type Config struct {
	Store    *store.Store
	Plugins  *plugin.Manager
	Executor *plugin.Executor
	Camera   capture.Camera
	Motion   *capture.MotionDetector
	Detector detector.Detector
	Gate     *capture.Gate
	Filter   gesture.FilterConfig

	// Swipe turns on swipe recognition when set.
	Swipe *gesture.SwipeConfig
}

// App is the running gesture service.
type App struct {
	config     Config
	pipeline   *gesture.Pipeline
	dispatcher *Dispatcher

	// pipeMu serializes the pipeline between the frame loop and callers
	// of HandleFrame and SetEnabled.
	pipeMu sync.Mutex

	mu      sync.RWMutex
	enabled bool
	sinks   []EventSink
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates an App. Detection starts disabled.
func New(config Config) *App {
	if config.Gate == nil {
		config.Gate = capture.NewGate(capture.DefaultFPS, 15, 2*time.Second)
	}

	a := &App{
		config:   config,
		pipeline: gesture.NewPipeline(gesture.NewClassifier(), gesture.NewFilter(config.Filter)),
	}
	if config.Swipe != nil {
		a.pipeline.EnableSwipes(*config.Swipe)
	}

	if config.Store != nil && config.Plugins != nil && config.Executor != nil {
		a.dispatcher = NewDispatcher(config.Store.Bindings(), config.Plugins, config.Executor)
	}

	return a
}

// AddSink registers s to receive confirmed events.
func (a *App) AddSink(s EventSink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sinks = append(a.sinks, s)
}

// SetEnabled enables or disables detection. Disabling forgets any
// accumulated history and the last confirmation.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	a.mu.Unlock()

	if changed && !enabled {
		a.resetPipeline()
	}
	if changed {
		logger.L().Info("detection toggled", zap.Bool("enabled", enabled))
	}
}

// IsEnabled returns whether detection is enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Pipeline returns the gesture pipeline. Callers outside the frame loop
// must not drive it while the app is running.
func (a *App) Pipeline() *gesture.Pipeline {
	return a.pipeline
}

func (a *App) resetPipeline() {
	a.pipeMu.Lock()
	a.pipeline.Reset()
	a.pipeMu.Unlock()
}

// HandleFrame runs one frame's hands through the pipeline and, when a
// gesture is confirmed, records, publishes and dispatches it.
func (a *App) HandleFrame(hands []detector.HandLandmarks, now time.Time) (gesture.Event, bool) {
	a.pipeMu.Lock()
	ev, ok := a.pipeline.ProcessFrame(hands, now)
	a.pipeMu.Unlock()

	if !ok {
		return ev, false
	}

	logger.L().Info("gesture confirmed",
		zap.String("gesture", string(ev.Name)),
		zap.Float64("confidence", ev.Confidence),
		zap.Bool("is_new", ev.IsNew),
		zap.String("action", ev.Action),
	)

	if a.config.Store != nil {
		if err := a.config.Store.Events().Record(toRecord(ev)); err != nil {
			logger.L().Error("failed to record event", zap.String("gesture", string(ev.Name)), zap.Error(err))
		}
	}

	a.mu.RLock()
	sinks := a.sinks
	a.mu.RUnlock()
	for _, s := range sinks {
		s.Publish(ev)
	}

	if a.dispatcher != nil {
		a.dispatcher.Submit(ev)
	}

	return ev, true
}

func toRecord(ev gesture.Event) *store.Event {
	return &store.Event{
		Gesture:    string(ev.Name),
		Emoji:      ev.Emoji,
		Action:     ev.Action,
		Confidence: ev.Confidence,
		IsNew:      ev.IsNew,
		OccurredAt: ev.Timestamp,
	}
}

// Start opens the camera and runs the frame loop until Stop or ctx ends.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return nil
	}
	if a.config.Camera == nil || a.config.Detector == nil {
		return ErrNoCamera
	}
	if a.config.Motion == nil {
		a.config.Motion = capture.NewMotionDetector(1.0)
	}

	if err := a.config.Camera.Open(); err != nil {
		return err
	}
	a.config.Camera.SetFPS(a.config.Gate.FPS())

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})
	go a.run(ctx, a.done)

	logger.L().Info("detection pipeline started", zap.Int("fps", a.config.Gate.FPS()))
	return nil
}

// Stop halts the frame loop and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	if err := a.config.Camera.Close(); err != nil {
		logger.L().Warn("error closing camera", zap.Error(err))
	}
	a.config.Motion.Close()
	if err := a.config.Detector.Close(); err != nil {
		logger.L().Warn("error closing detector", zap.Error(err))
	}

	logger.L().Info("detection pipeline stopped")
}

// Close stops detection and the dispatcher.
func (a *App) Close() {
	a.Stop()
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
}
