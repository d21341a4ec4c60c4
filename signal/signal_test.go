package signal_test

import (
	"testing"

	"github.com/fib-lab/citytrafficsim/signal"
	"github.com/stretchr/testify/assert"
)

func TestConnectDisconnectRoundTrip(t *testing.T) {
	var s signal.Signal[int]
	h := s.Connect(func(int) {})
	assert.True(t, s.Disconnect(h))
	assert.False(t, s.Disconnect(h))
}

func TestEmitInvokesAllConnections(t *testing.T) {
	var s signal.Signal[int]
	var got []int
	s.Connect(func(v int) { got = append(got, v) })
	s.Connect(func(v int) { got = append(got, v*2) })
	s.Emit(3)
	assert.ElementsMatch(t, []int{3, 6}, got)
}

func TestReceiverDisconnectsAllTrackedSignals(t *testing.T) {
	var a, b signal.Signal[struct{}]
	var r signal.Receiver
	signal.Track(&r, &a, func(struct{}) {})
	signal.Track(&r, &b, func(struct{}) {})
	assert.Equal(t, 1, a.NumConnections())
	assert.Equal(t, 1, b.NumConnections())

	r.DisconnectAll()
	assert.Equal(t, 0, a.NumConnections())
	assert.Equal(t, 0, b.NumConnections())
}
