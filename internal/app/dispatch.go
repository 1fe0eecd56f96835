package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ayusman/homecoming/internal/gesture"
	"github.com/ayusman/homecoming/internal/logger"
	"github.com/ayusman/homecoming/internal/plugin"
	"github.com/ayusman/homecoming/internal/store"
)

// dispatchQueueSize bounds the events waiting for a plugin run.
const dispatchQueueSize = 16

// BindingLookup finds the plugin action bound to a gesture.
type BindingLookup interface {
	GetByGesture(gesture string) (*store.Binding, error)
}

// PluginResolver returns a runnable plugin for an action.
type PluginResolver interface {
	Resolve(name, action string) (*plugin.Plugin, error)
}

// PluginRunner executes a plugin request.
type PluginRunner interface {
	Execute(ctx context.Context, p *plugin.Plugin, req *plugin.Request) (*plugin.Response, error)
}

// Dispatcher runs bound plugin actions for confirmed events on its own
// goroutine so the frame loop never waits on a plugin.
type Dispatcher struct {
	bindings BindingLookup
	plugins  PluginResolver
	runner   PluginRunner

	queue  chan gesture.Event
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once

	// done is invoked after each dispatched event, for tests.
	done func(gesture.Event, *plugin.Response, error)
}

// NewDispatcher starts a dispatcher. Close stops it.
func NewDispatcher(bindings BindingLookup, plugins PluginResolver, runner PluginRunner) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		bindings: bindings,
		plugins:  plugins,
		runner:   runner,
		queue:    make(chan gesture.Event, dispatchQueueSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	d.wg.Add(1)
	go d.loop()
	return d
}

// Submit queues ev. It never blocks; when the queue is full the event is
// dropped and Submit returns false.
func (d *Dispatcher) Submit(ev gesture.Event) bool {
	select {
	case <-d.ctx.Done():
		return false
	default:
	}

	select {
	case d.queue <- ev:
		return true
	default:
		logger.L().Warn("dispatch queue full, dropping event", zap.String("gesture", string(ev.Name)))
		return false
	}
}

// Close cancels any running plugin and waits for the loop to exit.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.cancel()
		d.wg.Wait()
	})
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case ev := <-d.queue:
			resp, err := d.dispatch(ev)
			if d.done != nil {
				d.done(ev, resp, err)
			}
		}
	}
}

// dispatch runs the binding for ev. A gesture with no binding, or a
// disabled one, is skipped without error.
func (d *Dispatcher) dispatch(ev gesture.Event) (*plugin.Response, error) {
	log := logger.L().With(zap.String("gesture", string(ev.Name)))

	b, err := d.bindings.GetByGesture(string(ev.Name))
	if err != nil {
		log.Error("binding lookup failed", zap.Error(err))
		return nil, err
	}
	if b == nil || !b.Enabled {
		return nil, nil
	}

	action := b.ActionName
	if action == "" {
		action = ev.Action
	}

	p, err := d.plugins.Resolve(b.PluginName, action)
	if err != nil {
		log.Warn("plugin unavailable", zap.String("plugin", b.PluginName), zap.String("action", action), zap.Error(err))
		return nil, err
	}

	resp, err := d.runner.Execute(d.ctx, p, &plugin.Request{
		Action:     action,
		Gesture:    string(ev.Name),
		Emoji:      ev.Emoji,
		Confidence: ev.Confidence,
		IsNew:      ev.IsNew,
		Timestamp:  ev.Timestamp,
		Config:     b.Config,
	})
	if err != nil {
		log.Error("plugin execution failed", zap.String("plugin", b.PluginName), zap.Error(err))
		return nil, err
	}
	if !resp.Success {
		log.Warn("plugin reported failure", zap.String("plugin", b.PluginName), zap.String("error", resp.Error))
		return resp, nil
	}

	log.Info("action executed", zap.String("plugin", b.PluginName), zap.String("action", action))
	return resp, nil
}
