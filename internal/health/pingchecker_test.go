package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type flakyPinger struct{ fail atomic.Bool }

func (f *flakyPinger) HealthPing(context.Context) error {
	if f.fail.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func TestPingChecker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &flakyPinger{}
	pc := NewPingChecker("optimizer", p, zerolog.Nop(), time.Second)
	if pc.IsHealthy() {
		t.Fatalf("checker must start unhealthy")
	}

	go pc.Start(ctx, 10*time.Millisecond)
	waitTrue(t, pc.IsHealthy)

	p.fail.Store(true)
	waitTrue(t, func() bool { return !pc.IsHealthy() })

	p.fail.Store(false)
	waitTrue(t, pc.IsHealthy)
}
