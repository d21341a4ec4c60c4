package traffic_test

import (
	"testing"

	"github.com/fib-lab/citytrafficsim/geometry"
	"github.com/fib-lab/citytrafficsim/network"
	"github.com/fib-lab/citytrafficsim/randengine"
	"github.com/fib-lab/citytrafficsim/traffic"
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
	c.SetTargetVelocity(30)
	return n, a, b
}

func TestTickSpawnsVehiclesOverTime(t *testing.T) {
	n, a, b := straightRoad(t, 100000)
	m := traffic.NewManager(n, randengine.New(1))
	m.AddVolume(&traffic.Volume{
		Title:       "A-to-B",
		Origin:      traffic.Location{Nodes: []*network.Node{a}},
		Destination: traffic.Location{Nodes: []*network.Node{b}},
		CarsPerHour: 3600,
	})

	spawned := 0
	m.VehicleSpawned.Connect(func(*vehicle.Vehicle) { spawned++ })

	const tick = 1.0 / 15.0
	for i := 0; i < 15*30; i++ {
		m.Tick(float64(i)*tick, tick)
	}

	assert.NotEmpty(t, m.Vehicles())
	assert.Equal(t, len(m.Vehicles()), spawned)
}

func TestInactiveVolumeNeverSpawns(t *testing.T) {
	n, a, b := straightRoad(t, 10000)
	m := traffic.NewManager(n, randengine.New(1))
	m.AddVolume(&traffic.Volume{
		Title:       "empty-rate",
		Origin:      traffic.Location{Nodes: []*network.Node{a}},
		Destination: traffic.Location{Nodes: []*network.Node{b}},
		CarsPerHour: 0,
	})

	const tick = 1.0 / 15.0
	for i := 0; i < 15*10; i++ {
		m.Tick(float64(i)*tick, tick)
	}

	assert.Empty(t, m.Vehicles())
}

func TestRetireRemovesArrivedVehicles(t *testing.T) {
	n, a, b := straightRoad(t, 500)
	m := traffic.NewManager(n, randengine.New(7))
	m.AddVolume(&traffic.Volume{
		Title:       "short-road",
		Origin:      traffic.Location{Nodes: []*network.Node{a}},
		Destination: traffic.Location{Nodes: []*network.Node{b}},
		CarsPerHour: 3600,
	})

	const tick = 1.0 / 15.0
	for i := 0; i < 15*60; i++ {
		m.Tick(float64(i)*tick, tick)
	}

	for _, v := range m.Vehicles() {
		assert.False(t, v.HasArrived())
	}
}
