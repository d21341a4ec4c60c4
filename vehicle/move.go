package vehicle

import "math"

// Move advances v's state over one tick of tickLength seconds, applying
// the acceleration Think computed.
func (v *Vehicle) Move(tickLength float64) {
	if v.currentConnection == nil {
		return
	}

	v.currentVelocity = math.Max(0, v.currentVelocity+v.currentAcceleration)
	advance := v.currentVelocity * tickLength * arcUnitsPerMeter

	newPos := v.currentArcPos + advance
	connLength := v.currentConnection.Curve().ArcLength()

	if newPos <= connLength {
		v.currentArcPos = newPos
		v.reinsertAtCurrentPosition()
		return
	}

	overshoot := newPos - connLength
	v.advanceToNextConnection(overshoot)
}

// reinsertAtCurrentPosition keeps the vehicle's node in its connection's
// position-sorted vehicle list accurate after its arc position changed.
// The list only needs reordering relative to neighbors, so this removes
// and reinserts rather than mutating S in place (ListNode.S is otherwise
// immutable once inserted).
func (v *Vehicle) reinsertAtCurrentPosition() {
	c := v.currentConnection
	if v.vehicleListNode != nil {
		c.RemoveVehicle(v.vehicleListNode)
	}
	v.vehicleListNode = c.AddVehicle(v)
}

// advanceToNextConnection hands the vehicle off to the next route segment
// when it has more than one remaining, recomputing the route from there;
// otherwise it marks the vehicle as arrived (currentConnection = none),
// which the traffic manager retires at the end of the same tick.
func (v *Vehicle) advanceToNextConnection(overshoot float64) {
	if len(v.route) <= 1 {
		v.setCurrentConnection(nil, 0)
		return
	}

	next := v.route[1]
	v.route = v.route[1:]
	v.setCurrentConnection(next.Connection, overshoot)
	v.updateRouting(next.Connection.Start())

	if len(v.route) == 0 {
		// Route recomputation found no path from here; the vehicle retires
		// at the end of this tick without error.
		v.setCurrentConnection(nil, 0)
		return
	}
	// updateRouting recomputed from next.Connection.Start(), so the first
	// segment must again be the connection the vehicle is physically on.
	if v.route[0].Connection != next.Connection {
		v.setCurrentConnection(nil, 0)
	}
}
