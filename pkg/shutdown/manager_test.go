package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManager_ShutdownInReverseOrder(t *testing.T) {
	sm := NewManager(zap.NewNop(), time.Second)

	var order []string
	sm.RegisterNoErr("metrics", func() { order = append(order, "metrics") })
	sm.RegisterNoErr("rate_limiter", func() { order = append(order, "rate_limiter") })
	sm.Register("callback_server", func(ctx context.Context) error {
		order = append(order, "callback_server")
		return nil
	})

	require.NoError(t, sm.Shutdown())
	assert.Equal(t, []string{"callback_server", "rate_limiter", "metrics"}, order)
}

func TestManager_JoinsErrors(t *testing.T) {
	sm := NewManager(zap.NewNop(), time.Second)
	boom := errors.New("boom")

	ran := false
	sm.RegisterNoErr("after", func() { ran = true })
	sm.Register("failing", func(ctx context.Context) error { return boom })

	err := sm.Shutdown()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
	assert.True(t, ran)
}

func TestManager_SkipsComponentsAfterTimeout(t *testing.T) {
	sm := NewManager(zap.NewNop(), 20*time.Millisecond)

	ran := false
	sm.RegisterNoErr("skipped", func() { ran = true })
	sm.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	err := sm.Shutdown()
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)
}

type fakeServer struct{ stopped bool }

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.stopped = true
	return nil
}

func TestManager_RegisterHTTPServer(t *testing.T) {
	sm := NewManager(zap.NewNop(), time.Second)
	srv := &fakeServer{}
	sm.RegisterHTTPServer("http", srv)

	require.NoError(t, sm.Shutdown())
	assert.True(t, srv.stopped)
}
