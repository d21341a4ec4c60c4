package vehicle_test

import (
	"testing"

	"github.com/fib-lab/citytrafficsim/geometry"
	"github.com/fib-lab/citytrafficsim/network"
	"github.com/fib-lab/citytrafficsim/vehicle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 1.0 / 15.0

// crossingRoads builds two straight roads crossing at right angles, both
// 1000 arc units long with the crossing roughly 300 units from either
// start, and returns the connections plus the detected intersection.
func crossingRoads(t *testing.T) (*network.Network, *network.Connection, *network.Connection, *network.Intersection) {
	t.Helper()
	n := network.New()
	h0 := n.AddNode(geometry.Vec2{X: -300, Y: 0})
	h1 := n.AddNode(geometry.Vec2{X: 700, Y: 0})
	v0 := n.AddNode(geometry.Vec2{X: 0, Y: -300})
	v1 := n.AddNode(geometry.Vec2{X: 0, Y: 700})

	major, ok := n.AddConnection(h0, h1)
	require.True(t, ok)
	minor, ok := n.AddConnection(v0, v1)
	require.True(t, ok)
	major.SetTargetVelocity(20)
	minor.SetTargetVelocity(20)

	n.ComputeIntersections()
	require.Len(t, n.Intersections(), 1)
	return n, major, minor, n.Intersections()[0]
}

func TestMinorRoadYieldsToMajorRoad(t *testing.T) {
	_, major, minor, crossing := crossingRoads(t)
	major.SetPriority(5)
	minor.SetPriority(1)

	onMajor := vehicle.New(vehicle.DefaultModel(), 20, 40)
	onMajor.Place(major.Start(), []*network.Node{major.End()})
	onMinor := vehicle.New(vehicle.DefaultModel(), 20, 40)
	onMinor.Place(minor.Start(), []*network.Node{minor.End()})

	onMajor.Prepare(0)
	onMinor.Prepare(0)

	majorInfo := crossing.CrossingInfoFor(major, onMajor)
	minorInfo := crossing.CrossingInfoFor(minor, onMinor)
	require.NotNil(t, majorInfo)
	require.NotNil(t, minorInfo)

	// Both just spawned at the same distance from the crossing, so their
	// blocking intervals overlap and each side sees the other approaching.
	interferers := crossing.InterferingVehicles(onMinor, minor,
		minorInfo.BlockingInterval[0], minorInfo.BlockingInterval[1])
	require.Len(t, interferers, 1)
	_, sawMajor := interferers[network.VehicleRef(onMajor)]
	assert.True(t, sawMajor)

	onMajor.Think()
	onMinor.Think()
	assert.False(t, majorInfo.WillWaitInFront)
	assert.True(t, minorInfo.WillWaitInFront)
	assert.Less(t, onMinor.CurrentAcceleration(), onMajor.CurrentAcceleration())

	// Drive both through the crossing: the major road's vehicle reaches it
	// strictly first, and both eventually pass.
	crossingArcMajor := crossingArc(crossing, major)
	crossingArcMinor := crossingArc(crossing, minor)
	majorReached, minorReached := -1, -1
	for i := 1; i < 15*8; i++ {
		now := float64(i) * tick
		onMajor.Prepare(now)
		onMinor.Prepare(now)
		onMajor.Think()
		onMinor.Think()
		onMajor.Move(tick)
		onMinor.Move(tick)
		if majorReached < 0 && onMajor.ArcPosition() >= crossingArcMajor {
			majorReached = i
		}
		if minorReached < 0 && onMinor.ArcPosition() >= crossingArcMinor {
			minorReached = i
		}
	}
	require.Greater(t, majorReached, 0)
	require.Greater(t, minorReached, 0)
	assert.Less(t, majorReached, minorReached)
}

func crossingArc(i *network.Intersection, c *network.Connection) float64 {
	if i.First() == c {
		return i.FirstArcPosition()
	}
	return i.SecondArcPosition()
}

// TestDoNotBlockChainMovesStopLineBack drives a vehicle toward two close
// crossings where waiting in front of the second would leave it straddling
// the first: the stop line must move back to the first crossing and both
// registrations must be flagged as waiting.
func TestDoNotBlockChainMovesStopLineBack(t *testing.T) {
	n := network.New()
	a := n.AddNode(geometry.Vec2{X: 0, Y: 0})
	b := n.AddNode(geometry.Vec2{X: 2000, Y: 0})
	main, ok := n.AddConnection(a, b)
	require.True(t, ok)
	main.SetTargetVelocity(20)

	// Two vertical roads cross the main road 500 and 540 arc units down
	// it - closer together than a stopped vehicle's length plus minimum
	// distance, so waiting at the second straddles the first.
	x10 := n.AddNode(geometry.Vec2{X: 500, Y: -300})
	x11 := n.AddNode(geometry.Vec2{X: 500, Y: 700})
	first, ok := n.AddConnection(x10, x11)
	require.True(t, ok)
	first.SetTargetVelocity(20)

	x20 := n.AddNode(geometry.Vec2{X: 540, Y: -20})
	x21 := n.AddNode(geometry.Vec2{X: 540, Y: 980})
	second, ok := n.AddConnection(x20, x21)
	require.True(t, ok)
	second.SetTargetVelocity(20)

	n.ComputeIntersections()
	require.Len(t, n.Intersections(), 2)

	var i1, i2 *network.Intersection
	for _, i := range n.Intersections() {
		switch i.Other(main) {
		case first:
			i1 = i
		case second:
			i2 = i
		}
	}
	require.NotNil(t, i1)
	require.NotNil(t, i2)
	require.True(t, i1.AvoidBlocking())

	driver := vehicle.New(vehicle.DefaultModel(), 20, 40)
	driver.Place(a, []*network.Node{b})

	// A second vehicle sits at the start of the second vertical road, just
	// short of its crossing, and is prepared but never moved: its earlier
	// arrival estimate keeps the main-road driver yielding at the second
	// crossing indefinitely.
	blocker := vehicle.New(vehicle.DefaultModel(), 20, 40)
	blocker.Place(x20, []*network.Node{x21})

	for i := 0; i < 15*20; i++ {
		now := float64(i) * tick
		driver.Prepare(now)
		blocker.Prepare(now)
		driver.Think()
		driver.Move(tick)
	}

	info1 := i1.CrossingInfoFor(main, driver)
	info2 := i2.CrossingInfoFor(main, driver)
	require.NotNil(t, info1)
	require.NotNil(t, info2)
	assert.True(t, info1.WillWaitInFront)
	assert.True(t, info2.WillWaitInFront)

	// The driver came to rest in front of the first crossing, not between
	// the two.
	assert.Less(t, driver.ArcPosition(), crossingArc(i1, main))
	assert.InDelta(t, 0, driver.CurrentVelocity(), 0.5)
}

// TestRouteRecomputedOnHandoff moves a vehicle across the A->B boundary and
// checks the route's head tracks the connection it is physically on; if the
// next leg was removed underneath it, the vehicle retires without error.
func TestRouteRecomputedOnHandoff(t *testing.T) {
	n := network.New()
	a := n.AddNode(geometry.Vec2{X: 0, Y: 0})
	b := n.AddNode(geometry.Vec2{X: 400, Y: 0})
	c := n.AddNode(geometry.Vec2{X: 800, Y: 0})
	ab, ok := n.AddConnection(a, b)
	require.True(t, ok)
	bc, ok := n.AddConnection(b, c)
	require.True(t, ok)
	ab.SetTargetVelocity(20)
	bc.SetTargetVelocity(20)

	v := vehicle.New(vehicle.DefaultModel(), 20, 40)
	v.Place(a, []*network.Node{c})
	require.Len(t, v.Route(), 2)

	for i := 0; i < 15*10 && v.CurrentConnection() == ab; i++ {
		v.Prepare(float64(i) * tick)
		v.Think()
		v.Move(tick)
	}
	require.Equal(t, bc, v.CurrentConnection())
	require.Equal(t, bc, v.Route()[0].Connection)
	assert.Equal(t, b, v.Route()[0].Start)

	// Same crossing, but the next leg disappears mid-trip.
	n2 := network.New()
	a2 := n2.AddNode(geometry.Vec2{X: 0, Y: 0})
	b2 := n2.AddNode(geometry.Vec2{X: 400, Y: 0})
	c2 := n2.AddNode(geometry.Vec2{X: 800, Y: 0})
	ab2, ok := n2.AddConnection(a2, b2)
	require.True(t, ok)
	bc2, ok := n2.AddConnection(b2, c2)
	require.True(t, ok)
	ab2.SetTargetVelocity(20)
	bc2.SetTargetVelocity(20)

	v2 := vehicle.New(vehicle.DefaultModel(), 20, 40)
	v2.Place(a2, []*network.Node{c2})
	n2.RemoveConnection(bc2)

	for i := 0; i < 15*10 && !v2.HasArrived(); i++ {
		v2.Prepare(float64(i) * tick)
		v2.Think()
		v2.Move(tick)
	}
	assert.True(t, v2.HasArrived())
}
