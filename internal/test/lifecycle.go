package test

import (
	"go.uber.org/fx"
)

// LifecycleRecorder collects hooks instead of running them so tests can
// drive OnStart/OnStop directly.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

// Append stores hook for later invocation.
func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// ShutdownerStub signals on Called when the application asks to shut down.
type ShutdownerStub struct {
	Called chan struct{}
}

// Shutdown notifies tests about graceful termination. The send never
// blocks, repeated shutdowns collapse into one signal.
func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called != nil {
		select {
		case s.Called <- struct{}{}:
		default:
		}
	}
	return nil
}
