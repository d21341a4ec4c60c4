package vehicle_test

import (
	"testing"

	"github.com/fib-lab/citytrafficsim/geometry"
	"github.com/fib-lab/citytrafficsim/network"
	"github.com/fib-lab/citytrafficsim/vehicle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func straightRoad(t *testing.T, length float64) (*network.Network, *network.Node, *network.Node) {
	t.Helper()
	n := network.New()
	a := n.AddNode(geometry.Vec2{X: 0, Y: 0})
	b := n.AddNode(geometry.Vec2{X: length, Y: 0})
	c, ok := n.AddConnection(a, b)
	require.True(t, ok)
	c.SetPriority(1)
	c.SetTargetVelocity(20)
	return n, a, b
}

func TestStraightRoadSingleVehicleReachesDestination(t *testing.T) {
	_, a, b := straightRoad(t, 10000)

	v := vehicle.New(vehicle.DefaultModel(), 20, 40)
	v.Place(a, []*network.Node{b})
	require.NotNil(t, v.CurrentConnection())

	const tick = 1.0 / 15.0
	for i := 0; i < 15*60 && !v.HasArrived(); i++ {
		v.Think()
		v.Move(tick)
	}

	assert.True(t, v.HasArrived())
}

func TestFollowingVehicleNeverPassesLeader(t *testing.T) {
	_, a, b := straightRoad(t, 100000)

	leader := vehicle.New(vehicle.DefaultModel(), 20, 40)
	leader.Place(a, []*network.Node{b})

	// The follower starts behind the leader by letting the leader run
	// ahead first, then placing the follower at the road's start - there
	// is deliberately no "spawn at offset" entry point to reach for.
	const tick = 1.0 / 15.0
	for i := 0; i < 15*10; i++ {
		leader.Think()
		leader.Move(tick)
	}

	follower := vehicle.New(vehicle.DefaultModel(), 20, 40)
	follower.Place(a, []*network.Node{b})

	for i := 0; i < 15*30; i++ {
		leader.Think()
		follower.Think()
		leader.Move(tick)
		follower.Move(tick)
		if follower.CurrentConnection() == nil || leader.CurrentConnection() == nil {
			break
		}
		assert.LessOrEqual(t, follower.ArcPosition(), leader.ArcPosition())
	}

	// The pair has settled into stable following: the gap exceeds the
	// desired gap at the follower's current speed and the follower tracks
	// the leader's speed.
	gap := leader.ArcPosition() - follower.ArcPosition()
	assert.Greater(t, gap, follower.Model.DesiredGap(follower.CurrentVelocity(), 0))
	assert.InDelta(t, leader.CurrentVelocity(), follower.CurrentVelocity(), 3.0)
}
