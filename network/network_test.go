package network_test

import (
	"testing"

	"github.com/fib-lab/citytrafficsim/geometry"
	"github.com/fib-lab/citytrafficsim/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddConnectionRejectsDuplicate(t *testing.T) {
	n := network.New()
	a := n.AddNode(geometry.Vec2{X: 0, Y: 0})
	b := n.AddNode(geometry.Vec2{X: 10, Y: 0})

	c1, ok := n.AddConnection(a, b)
	require.True(t, ok)
	require.NotNil(t, c1)

	c2, ok := n.AddConnection(a, b)
	assert.False(t, ok)
	assert.Nil(t, c2)

	assert.Len(t, a.OutgoingConnections(), 1)
	assert.Len(t, b.IncomingConnections(), 1)
}

func TestRemoveNodeCascadesConnections(t *testing.T) {
	n := network.New()
	a := n.AddNode(geometry.Vec2{X: 0, Y: 0})
	b := n.AddNode(geometry.Vec2{X: 10, Y: 0})
	c := n.AddNode(geometry.Vec2{X: 20, Y: 0})

	_, _ = n.AddConnection(a, b)
	_, _ = n.AddConnection(b, c)
	require.Len(t, n.Connections(), 2)

	n.RemoveNode(b)
	assert.Len(t, n.Connections(), 0)
	assert.Len(t, n.Nodes(), 2)
}

func TestComputeIntersectionsFindsXCrossing(t *testing.T) {
	n := network.New()
	// Horizontal segment through the origin.
	h0 := n.AddNode(geometry.Vec2{X: -100, Y: 0})
	h1 := n.AddNode(geometry.Vec2{X: 100, Y: 0})
	// Vertical segment through the origin.
	v0 := n.AddNode(geometry.Vec2{X: 0, Y: -100})
	v1 := n.AddNode(geometry.Vec2{X: 0, Y: 100})

	_, _ = n.AddConnection(h0, h1)
	_, _ = n.AddConnection(v0, v1)

	n.ComputeIntersections()

	require.Len(t, n.Intersections(), 1)
	crossing := n.Intersections()[0]
	assert.InDelta(t, 0, crossing.FirstCoordinate().X, 5.0)
	assert.InDelta(t, 0, crossing.FirstCoordinate().Y, 5.0)
	assert.InDelta(t, 0, crossing.SecondCoordinate().X, 5.0)
	assert.InDelta(t, 0, crossing.SecondCoordinate().Y, 5.0)
	assert.True(t, crossing.AvoidBlocking())
}
