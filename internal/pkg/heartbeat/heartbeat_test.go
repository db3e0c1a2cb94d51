package heartbeat

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEngineSendsPingAfterInterval(t *testing.T) {
	var pings int32
	e := New(20*time.Millisecond, 200*time.Millisecond,
		func() { atomic.AddInt32(&pings, 1) },
		func() {},
	)
	defer e.Stop()
	e.Start()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&pings) >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestEngineEvictsOnMissingPong(t *testing.T) {
	evicted := make(chan struct{})
	e := New(10*time.Millisecond, 20*time.Millisecond,
		func() {},
		func() { close(evicted) },
	)
	defer e.Stop()
	e.Start()

	select {
	case <-evicted:
	case <-time.After(time.Second):
		t.Fatal("engine never evicted a non-responding session")
	}
}

func TestEngineHandlePongClearsAwaiting(t *testing.T) {
	pinged := make(chan struct{}, 1)
	e := New(10*time.Millisecond, 2*time.Second,
		func() {
			select {
			case pinged <- struct{}{}:
			default:
			}
		},
		func() { t.Fatal("should not evict once PONG replies in time") },
	)
	defer e.Stop()
	e.Start()

	select {
	case <-pinged:
	case <-time.After(time.Second):
		t.Fatal("never pinged")
	}
	unexpected := e.HandlePong()
	require.False(t, unexpected)
}

func TestEngineHandlePongWithoutAwaitingIsUnexpected(t *testing.T) {
	e := New(time.Hour, time.Hour, func() {}, func() {})
	defer e.Stop()
	require.True(t, e.HandlePong())
}

func TestEngineStopIsIdempotent(t *testing.T) {
	e := New(time.Millisecond, time.Millisecond, func() {}, func() {})
	e.Start()
	e.Stop()
	e.Stop()
}
