package qudit

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/theapemachine/errnie"
)

var (
	acquireOnce sync.Once
	shared      *Device
	acquireErr  error
)

/*
Acquire returns the process-wide compute device, creating it on first use.
Later calls return the same device (or the same error) regardless of their
arguments. A failure here is fatal for the caller's process.
*/
func Acquire(ctx context.Context, config *Config) (*Device, error) {
	acquireOnce.Do(func() {
		shared, acquireErr = NewBackend(ctx, config)
	})

	return shared, acquireErr
}

// NewBackend builds a device for config.Backend.
func NewBackend(ctx context.Context, config *Config) (*Device, error) {
	if config == nil {
		config = NewConfig()
	}

	switch config.Backend {
	case BackendSequential:
		errnie.Info("using sequential compute backend")
		return NewSequentialDevice(), nil
	case BackendParallel, "":
		pool, err := NewPool(ctx, config)
		if err != nil {
			return nil, err
		}
		return NewDevice(pool), nil
	default:
		return nil, fmt.Errorf("backend %q: %w", config.Backend, ErrComputeDeviceUnavailable)
	}
}

// Close releases the dispatcher if it holds resources.
func (d *Device) Close() error {
	if closer, ok := d.dispatcher.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// Metrics returns pool metrics, or nil for dispatchers that keep none.
func (d *Device) Metrics() *Metrics {
	if pool, ok := d.dispatcher.(*Pool); ok {
		return pool.Metrics()
	}

	return nil
}
