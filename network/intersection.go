package network

import "github.com/fib-lab/citytrafficsim/geometry"

const (
	waitingDistanceStep      = 8.0
	waitingDistanceThreshold = 22.0
)

// Intersection is a logical crossing between connections A and B at curve
// times tA, tB. It is shared: pushed into the owning Network's intersection
// list and also referenced from both A's and B's position-sorted
// intersection lists.
type Intersection struct {
	a, b            *Connection
	timeA           float64
	timeB           float64
	arcA            float64
	arcB            float64
	waitingDistance float64

	crossingA map[VehicleRef]*CrossingInfo
	crossingB map[VehicleRef]*CrossingInfo
}

// CrossingInfo is the per-vehicle record of how and when a registered
// vehicle will interact with an intersection.
type CrossingInfo struct {
	OriginalArrivalTime float64
	RemainingDistance   float64
	BlockingInterval    [2]float64 // [tEnter, tLeave]
	WillWaitInFront     bool
}

// newIntersection builds an intersection between a at timeA and b at timeB,
// computing its arc positions and waiting distance by walking outward from
// the crossing point on both curves in lockstep until they separate by
// more than waitingDistanceThreshold, or a curve end is reached.
func newIntersection(a *Connection, timeA float64, b *Connection, timeB float64) *Intersection {
	i := &Intersection{
		a: a, b: b, timeA: timeA, timeB: timeB,
		arcA: a.curve.TimeToArcPosition(timeA),
		arcB: b.curve.TimeToArcPosition(timeB),
		crossingA: make(map[VehicleRef]*CrossingInfo),
		crossingB: make(map[VehicleRef]*CrossingInfo),
	}
	i.waitingDistance = i.computeWaitingDistance()
	return i
}

func (i *Intersection) computeWaitingDistance() float64 {
	arcA, arcB := i.arcA, i.arcB
	front := 0.0
	for closeEnough(i.a, arcA, i.b, arcB) && arcA > 0 && arcB > 0 {
		arcA -= waitingDistanceStep
		arcB -= waitingDistanceStep
		front += waitingDistanceStep
	}

	arcA, arcB = i.arcA, i.arcB
	rear := 0.0
	for closeEnough(i.a, arcA, i.b, arcB) && arcA < i.a.curve.ArcLength() && arcB < i.b.curve.ArcLength() {
		arcA += waitingDistanceStep
		arcB += waitingDistanceStep
		rear += waitingDistanceStep
	}

	if front > rear {
		return front
	}
	return rear
}

func closeEnough(a *Connection, arcA float64, b *Connection, arcB float64) bool {
	return geometry.Distance(a.curve.ArcPositionToCoordinate(arcA), b.curve.ArcPositionToCoordinate(arcB)) < waitingDistanceThreshold
}

// AvoidBlocking reports whether a vehicle stopped elsewhere that would
// straddle this intersection must move its stop line back: true iff the
// two connections neither share a start node nor share an end node.
func (i *Intersection) AvoidBlocking() bool {
	return i.a.start != i.b.start && i.a.end != i.b.end
}

// First returns the connection referred to as "A".
func (i *Intersection) First() *Connection { return i.a }

// Second returns the connection referred to as "B".
func (i *Intersection) Second() *Connection { return i.b }

// FirstTime returns the crossing's curve time on the first connection.
func (i *Intersection) FirstTime() float64 { return i.timeA }

// SecondTime returns the crossing's curve time on the second connection.
func (i *Intersection) SecondTime() float64 { return i.timeB }

// FirstArcPosition returns the crossing's arc position on the first
// connection.
func (i *Intersection) FirstArcPosition() float64 { return i.arcA }

// SecondArcPosition returns the crossing's arc position on the second
// connection.
func (i *Intersection) SecondArcPosition() float64 { return i.arcB }

// FirstCoordinate returns the crossing's world coordinate as seen from the
// first connection's curve.
func (i *Intersection) FirstCoordinate() geometry.Vec2 { return i.a.curve.TimeToCoordinate(i.timeA) }

// SecondCoordinate returns the crossing's world coordinate as seen from the
// second connection's curve.
func (i *Intersection) SecondCoordinate() geometry.Vec2 { return i.b.curve.TimeToCoordinate(i.timeB) }

// WaitingDistance returns the arc distance on either connection within
// which a stopped vehicle would physically obstruct the other curve.
func (i *Intersection) WaitingDistance() float64 { return i.waitingDistance }

// Other returns the connection on the opposite side of c from this
// intersection. c must be one of the pair's two sides; anything else is an
// invariant violation and panics.
func (i *Intersection) Other(c *Connection) *Connection {
	switch c {
	case i.a:
		return i.b
	case i.b:
		return i.a
	default:
		log.Panicf("network: Intersection.Other called with a connection that is neither side of the pair")
		return nil
	}
}

// CrossingInfoFor returns the registration record for v on the side of the
// intersection reached via c, or nil if v is not registered there.
func (i *Intersection) CrossingInfoFor(c *Connection, v VehicleRef) *CrossingInfo {
	return i.sideMap(c)[v]
}

// Register installs info as v's crossing record on the side reached via c.
func (i *Intersection) Register(c *Connection, v VehicleRef, info *CrossingInfo) {
	i.sideMap(c)[v] = info
}

// Unregister removes v's crossing record on the side reached via c.
func (i *Intersection) Unregister(c *Connection, v VehicleRef) {
	delete(i.sideMap(c), v)
}

// InterferingVehicles returns the other side's registrations whose
// blocking interval overlaps [tEnter, tLeave] and that are not already
// waiting in front of the intersection, excluding me.
func (i *Intersection) InterferingVehicles(me VehicleRef, myConn *Connection, tEnter, tLeave float64) map[VehicleRef]*CrossingInfo {
	other := i.Other(myConn)
	result := make(map[VehicleRef]*CrossingInfo)
	for v, info := range i.sideMap(other) {
		if v == me || info.WillWaitInFront {
			continue
		}
		if info.BlockingInterval[0] <= tLeave && info.BlockingInterval[1] >= tEnter {
			result[v] = info
		}
	}
	return result
}

func (i *Intersection) sideMap(c *Connection) map[VehicleRef]*CrossingInfo {
	if c == i.a {
		return i.crossingA
	}
	return i.crossingB
}
