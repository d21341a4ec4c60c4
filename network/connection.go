package network

import (
	"github.com/fib-lab/citytrafficsim/container"
	"github.com/fib-lab/citytrafficsim/curve"
)

// VehicleRef is the narrow view a Connection needs of whatever is sitting
// on it, so this package never imports the vehicle package (which in turn
// needs to refer back to the connection it is on). The vehicle package's
// *vehicle.Vehicle satisfies this with its ArcPosition method.
type VehicleRef interface {
	ArcPosition() float64
}

// Connection is a directed road segment between two nodes, carrying a
// cubic curve derived from their positions and slopes.
type Connection struct {
	start, end *Node
	curve      *curve.Cubic

	priority       int
	targetVelocity float64

	vehicles      container.List[VehicleRef, struct{}]
	intersections container.List[*Intersection, struct{}]
}

func newConnection(start, end *Node) *Connection {
	c := &Connection{start: start, end: end, priority: 1, targetVelocity: 10.0}
	c.updateCurve()
	return c
}

// Start returns the connection's start node.
func (c *Connection) Start() *Node { return c.start }

// End returns the connection's end node.
func (c *Connection) End() *Node { return c.end }

// Curve returns the connection's cubic curve.
func (c *Connection) Curve() *curve.Cubic { return c.curve }

// Priority returns the connection's right-of-way priority (higher wins).
func (c *Connection) Priority() int { return c.priority }

// SetPriority sets the connection's priority.
func (c *Connection) SetPriority(p int) { c.priority = p }

// TargetVelocity returns the connection's target velocity in m/s.
func (c *Connection) TargetVelocity() float64 { return c.targetVelocity }

// SetTargetVelocity sets the connection's target velocity in m/s.
func (c *Connection) SetTargetVelocity(v float64) { c.targetVelocity = v }

// Vehicles returns the position-sorted list of vehicles currently on this
// connection.
func (c *Connection) Vehicles() *container.List[VehicleRef, struct{}] { return &c.vehicles }

// Intersections returns the position-sorted list of intersections on this
// connection.
func (c *Connection) Intersections() *container.List[*Intersection, struct{}] {
	return &c.intersections
}

// AddVehicle inserts v into the vehicle list at the position preserving
// arc-position order, and returns the node so the caller can later Remove
// it (e.g. on handoff to the next connection).
func (c *Connection) AddVehicle(v VehicleRef) *container.ListNode[VehicleRef, struct{}] {
	return c.vehicles.InsertSorted(v, struct{}{}, v.ArcPosition())
}

// RemoveVehicle splices node out of this connection's vehicle list.
func (c *Connection) RemoveVehicle(node *container.ListNode[VehicleRef, struct{}]) {
	c.vehicles.Remove(node)
}

func (c *Connection) addIntersection(i *Intersection, arcPosition float64) *container.ListNode[*Intersection, struct{}] {
	return c.intersections.InsertSorted(i, struct{}{}, arcPosition)
}

func (c *Connection) removeIntersection(node *container.ListNode[*Intersection, struct{}]) {
	c.intersections.Remove(node)
}

// updateCurve recomputes the connection's Bézier curve (and with it the
// cached arc-length table) from its endpoints' current positions and
// slopes. Called whenever either endpoint moves or its slopes change.
func (c *Connection) updateCurve() {
	p0 := c.start.position
	p1 := c.start.position.Add(c.start.outSlope)
	p2 := c.end.position.Sub(c.end.inSlope)
	p3 := c.end.position
	c.curve = curve.New(p0, p1, p2, p3)
}

// FindVehicleAhead returns the first vehicle (head to tail) whose arc
// position is strictly greater than arcPosition - the immediate leader
// ahead of that position, if any.
func (c *Connection) FindVehicleAhead(arcPosition float64) VehicleRef {
	for n := c.vehicles.First(); n != nil; n = n.Next() {
		if n.S > arcPosition {
			return n.Value
		}
	}
	return nil
}

// FindVehicleBehind returns the last vehicle (tail to head) whose arc
// position is strictly less than arcPosition - the immediate follower
// behind that position, if any.
func (c *Connection) FindVehicleBehind(arcPosition float64) VehicleRef {
	for n := c.vehicles.Last(); n != nil; n = n.Prev() {
		if n.S < arcPosition {
			return n.Value
		}
	}
	return nil
}
