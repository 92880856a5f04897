package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

type boundRequest struct {
	plugin string
	req    Request
}

// Dispatcher runs the binding of a pressed button in the background.
// Results are logged; a failing plugin never reaches the caller.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	logger   *slog.Logger
	bindings map[int]boundRequest

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher prepares one request per binding. Two bindings on the same
// button or a config that cannot be encoded is an error.
func NewDispatcher(manager *Manager, executor *Executor, bindings []Binding, logger *slog.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	byButton := make(map[int]boundRequest, len(bindings))
	for _, b := range bindings {
		if _, dup := byButton[b.Button]; dup {
			return nil, fmt.Errorf("button %d is bound twice", b.Button)
		}
		config, err := encode(b.Config)
		if err != nil {
			return nil, fmt.Errorf("button %d config: %w", b.Button, err)
		}
		params, err := encode(b.Params)
		if err != nil {
			return nil, fmt.Errorf("button %d params: %w", b.Button, err)
		}
		byButton[b.Button] = boundRequest{
			plugin: b.Plugin,
			req: Request{
				Action: b.Action,
				Button: b.Button,
				Config: config,
				Params: params,
			},
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		manager:  manager,
		executor: executor,
		logger:   logger,
		bindings: byButton,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

func encode(v map[string]any) (json.RawMessage, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return json.Marshal(v)
}

// Bound reports whether button has an action.
func (d *Dispatcher) Bound(button int) bool {
	_, ok := d.bindings[button]
	return ok
}

// Dispatch starts the action bound to button and returns immediately.
// It returns false when the button has no binding or the dispatcher is
// closed.
func (d *Dispatcher) Dispatch(button int, gesture string) bool {
	bound, ok := d.bindings[button]
	if !ok || d.ctx.Err() != nil {
		return false
	}

	req := bound.req
	req.Gesture = gesture

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(bound.plugin, &req)
	}()
	return true
}

func (d *Dispatcher) run(name string, req *Request) {
	logger := d.logger.With("button", req.Button, "plugin", name, "action", req.Action)

	plugin, err := d.manager.Get(name)
	if err != nil {
		logger.Warn("button action skipped", "error", err)
		return
	}
	if !plugin.Manifest.Supports(req.Action) {
		logger.Warn("button action skipped", "error", "action not supported by plugin")
		return
	}

	resp, err := d.executor.Execute(d.ctx, plugin, req)
	if err != nil {
		logger.Error("button action failed", "error", err)
		return
	}
	if !resp.Success {
		logger.Warn("button action reported failure", "error", resp.Error)
		return
	}
	logger.Debug("button action done")
}

// Wait blocks until every dispatched action has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close cancels running actions and waits for them to exit.
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}
