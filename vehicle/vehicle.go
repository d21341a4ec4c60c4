package vehicle

import (
	"math"

	"github.com/fib-lab/citytrafficsim/container"
	"github.com/fib-lab/citytrafficsim/network"
	"github.com/fib-lab/citytrafficsim/routing"
)

// lookaheadDistance is the fixed arc distance ahead of a vehicle within
// which it searches for leaders and intersections.
const lookaheadDistance = 768.0

// arcUnitsPerMeter converts meters to the network's internal decimeter
// arc units.
const arcUnitsPerMeter = 10.0

// Vehicle is one car moving through the network under the IDM car-following
// law plus intersection priority arbitration.
type Vehicle struct {
	container.IncrementalItemBase

	Model Model

	targetVelocity      float64
	velocityMultiplier  float64
	currentVelocity     float64
	currentAcceleration float64

	currentConnection *network.Connection
	vehicleListNode   *container.ListNode[network.VehicleRef, struct{}]
	currentArcPos     float64
	length            float64

	route              []routing.Segment
	visitedConnections map[*network.Connection]bool
	destinations       []*network.Node

	// registered is the vehicle's registered-intersection list, ordered by
	// arc distance ahead of the vehicle's nose. A plain
	// slice suffices here - unlike Connection.Vehicles/Intersections, this
	// list has a single owner and is always rebuilt front-to-back from the
	// route, never randomly inserted into.
	registered []*registration
}

// registration is one entry in a vehicle's registered-intersection list:
// the intersection itself, the connection it sits on (so the vehicle knows
// which side it registered on), and its own CrossingInfo (a pointer shared
// with the intersection's per-side map).
type registration struct {
	intersection *network.Intersection
	connection   *network.Connection
	info         *network.CrossingInfo
}

// New creates a vehicle with the given IDM model, target velocity (m/s),
// and length (arc units), not yet placed on any connection.
func New(model Model, targetVelocity, length float64) *Vehicle {
	return &Vehicle{
		Model:              model,
		targetVelocity:     targetVelocity,
		velocityMultiplier: 1,
		length:             length,
	}
}

// ArcPosition returns the vehicle's current arc position on its current
// connection. Satisfies network.VehicleRef.
func (v *Vehicle) ArcPosition() float64 { return v.currentArcPos }

// CurrentConnection returns the connection the vehicle currently occupies,
// or nil if it has arrived (and is awaiting retirement).
func (v *Vehicle) CurrentConnection() *network.Connection { return v.currentConnection }

// TargetVelocity returns the vehicle's own target velocity in m/s, before
// the connection's target velocity or the vehicle's multiplier are
// applied. Satisfies routing.Vehicle.
func (v *Vehicle) TargetVelocity() float64 { return v.targetVelocity }

// SetVelocityMultiplier scales the vehicle's target velocity. Values below
// 1 are logged and clamped to 1 rather than silently accepted.
func (v *Vehicle) SetVelocityMultiplier(value float64) {
	if value < 1 {
		log.Warnf("vehicle: velocity multiplier %f below 1, clamping", value)
		value = 1
	}
	v.velocityMultiplier = value
}

// CurrentVelocity returns the vehicle's current velocity in m/s.
func (v *Vehicle) CurrentVelocity() float64 { return v.currentVelocity }

// CurrentAcceleration returns the vehicle's last computed acceleration.
func (v *Vehicle) CurrentAcceleration() float64 { return v.currentAcceleration }

// Length returns the vehicle's length in arc units.
func (v *Vehicle) Length() float64 { return v.length }

// Route returns the vehicle's remaining planned segments.
func (v *Vehicle) Route() []routing.Segment { return v.route }

// effectiveTargetVelocity is min(vehicle.target * multiplier,
// connection.target) - GLOSSARY "Effective target velocity".
func (v *Vehicle) effectiveTargetVelocity(c *network.Connection) float64 {
	return math.Min(v.targetVelocity*v.velocityMultiplier, c.TargetVelocity())
}

// Place puts the vehicle at the start of its route's first connection,
// computing a route from startNode to destinations via routing.Compute.
// Construction is two-step: New builds the vehicle with empty routing,
// Place routes it once it is fully constructed and owned by the manager.
func (v *Vehicle) Place(startNode *network.Node, destinations []*network.Node) {
	v.destinations = destinations
	v.updateRouting(startNode)
	if len(v.route) == 0 {
		return
	}
	v.setCurrentConnection(v.route[0].Connection, 0)
}

// updateRouting recomputes the vehicle's route from fromNode to its
// destination set.
func (v *Vehicle) updateRouting(fromNode *network.Node) {
	v.route = routing.Compute(fromNode, v.destinations, v)
}

// setCurrentConnection moves the vehicle onto connection at arcPosition,
// removing it from the old connection's vehicle list (if any) and
// inserting it into the new one at the position preserving sort order.
func (v *Vehicle) setCurrentConnection(c *network.Connection, arcPosition float64) {
	if v.currentConnection != nil && v.vehicleListNode != nil {
		v.currentConnection.RemoveVehicle(v.vehicleListNode)
	}
	v.currentConnection = c
	v.currentArcPos = arcPosition
	if c == nil {
		v.vehicleListNode = nil
		return
	}
	v.vehicleListNode = c.AddVehicle(v)

	if v.visitedConnections == nil {
		v.visitedConnections = make(map[*network.Connection]bool)
	}
	v.visitedConnections[c] = true
}

// HasArrived reports whether the vehicle's route is complete (current
// connection is none); the traffic manager retires vehicles in this state.
func (v *Vehicle) HasArrived() bool { return v.currentConnection == nil }

// HasVisited reports whether the vehicle has ever occupied c.
func (v *Vehicle) HasVisited(c *network.Connection) bool { return v.visitedConnections[c] }
