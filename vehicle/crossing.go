package vehicle

import (
	"math"

	"github.com/fib-lab/citytrafficsim/network"
)

// arrivalTime estimates how long, from now, it will take v to cover
// distance (arc units) under its own free-flow acceleration, by
// integrating forward in 1-second slices and linearly interpolating the
// final partial second. Internal arc units are decimeters; the integration
// runs in meters. A non-positive distance takes no time.
func arrivalTime(v *Vehicle, distance float64) float64 {
	if distance <= 0 {
		return 0
	}
	if v.currentConnection == nil {
		return math.Inf(1)
	}

	targetMeters := distance / arcUnitsPerMeter
	vdes := v.effectiveTargetVelocity(v.currentConnection)
	velocity := v.currentVelocity
	traveled := 0.0
	elapsed := 0.0

	for step := 0; step < 10000; step++ {
		a := v.Model.AccelerationFree(velocity, vdes)
		next := math.Max(0, velocity+a)
		stepDistance := math.Max(0, (velocity+next)/2)

		if traveled+stepDistance >= targetMeters {
			remaining := targetMeters - traveled
			if stepDistance <= 0 {
				return elapsed + 1
			}
			return elapsed + remaining/stepDistance
		}

		traveled += stepDistance
		elapsed++
		velocity = next
		if velocity <= 0 && a <= 0 {
			return math.Inf(1) // stalled: never reaches distance under free-flow alone
		}
	}
	return elapsed
}

// Prepare re-aligns v's registered-intersection list with what it actually
// expects to encounter in the next lookaheadDistance arc units along its
// route, ahead of the think phase. Called once per tick by the traffic
// manager, before Think.
func (v *Vehicle) Prepare(now float64) {
	if v.currentConnection == nil {
		return
	}

	v.dropBehindTail(now)
	v.reconcileUpcoming(now)
	v.refreshLiveEntries(now)
}

// crossingArcOn returns the intersection's arc position on the given side.
func crossingArcOn(i *network.Intersection, c *network.Connection) float64 {
	if i.First() == c {
		return i.FirstArcPosition()
	}
	return i.SecondArcPosition()
}

// crossingDistanceAhead returns the arc distance from v's nose to the
// registration's crossing point, accumulated along the route when the
// crossing sits on a later segment. Crossings on connections the route no
// longer reaches are infinitely far away; reconcileUpcoming drops them.
func (v *Vehicle) crossingDistanceAhead(r *registration) float64 {
	crossingArc := crossingArcOn(r.intersection, r.connection)
	if r.connection == v.currentConnection {
		return crossingArc - v.currentArcPos
	}
	if v.currentConnection == nil {
		return math.Inf(1)
	}

	dist := v.currentConnection.Curve().ArcLength() - v.currentArcPos
	for i := 1; i < len(v.route); i++ {
		seg := v.route[i]
		if seg.Connection == r.connection {
			return dist + crossingArc
		}
		dist += seg.Connection.Curve().ArcLength()
	}
	return math.Inf(1)
}

// dropBehindTail removes registrations that have fallen more than
// waitingDistance behind the vehicle's tail (length+waitingDistance behind
// its nose), and marks registrations
// currently straddled by the vehicle's body as actively blocked
// (remainingDistance=0, blocked until the tail clears the crossing).
func (v *Vehicle) dropBehindTail(now float64) {
	kept := v.registered[:0]
	for _, r := range v.registered {
		dist := v.crossingDistanceAhead(r)
		if dist < -v.length-r.intersection.WaitingDistance() {
			r.intersection.Unregister(r.connection, v)
			continue
		}
		if dist < 0 {
			r.info.RemainingDistance = 0
			r.info.BlockingInterval = [2]float64{0, now + arrivalTime(v, v.length+dist)}
		}
		kept = append(kept, r)
	}
	v.registered = kept
}

// reconcileUpcoming slices each upcoming route segment's sorted
// intersection list by the arc-position window
// [currentPos, currentPos+remainingBudget] and matches it positionally
// against the current registration list. On the first mismatch (the route
// changed under the vehicle) every entry from that point onward is dropped
// and the tail rebuilt from the expected list, registering each new entry
// with its intersection. A new entry's OriginalArrivalTime is fixed here,
// once; later refreshes deliberately leave it alone so that first-come
// arbitration compares the estimates the vehicles committed to when they
// first saw the crossing.
func (v *Vehicle) reconcileUpcoming(now float64) {
	expected := v.upcomingIntersections()

	mismatchAt := len(v.registered)
	for i, r := range v.registered {
		if i >= len(expected) || r.intersection != expected[i].intersection || r.connection != expected[i].connection {
			mismatchAt = i
			break
		}
	}

	for i := mismatchAt; i < len(v.registered); i++ {
		r := v.registered[i]
		r.intersection.Unregister(r.connection, v)
	}
	v.registered = v.registered[:mismatchAt]

	for i := mismatchAt; i < len(expected); i++ {
		r := expected[i]
		dist := v.crossingDistanceAhead(r)
		r.info = &network.CrossingInfo{
			OriginalArrivalTime: now + arrivalTime(v, dist),
			RemainingDistance:   dist,
		}
		r.intersection.Register(r.connection, v, r.info)
		v.registered = append(v.registered, r)
	}
}

// upcomingIntersections walks the vehicle's route, collecting the
// intersections on each segment whose arc position falls within the
// remaining lookahead budget, starting from the vehicle's current position
// on its current connection. Entries come out ordered by arc distance
// ahead of the nose.
func (v *Vehicle) upcomingIntersections() []*registration {
	var expected []*registration
	budget := lookaheadDistance
	pos := v.currentArcPos

	for _, seg := range v.route {
		if budget <= 0 {
			break
		}
		for n := seg.Connection.Intersections().First(); n != nil; n = n.Next() {
			if n.S < pos || n.S > pos+budget {
				continue
			}
			expected = append(expected, &registration{intersection: n.Value, connection: seg.Connection})
		}
		segLen := seg.Connection.Curve().ArcLength()
		budget -= segLen - pos
		pos = 0
	}
	return expected
}

// refreshLiveEntries recomputes remainingDistance and blockingInterval for
// every live registration. WillWaitInFront is cleared here and re-decided
// by the think phase each tick, so a vehicle that waited last tick does not
// stay invisible to the other side's interference checks once it is free to
// go again.
func (v *Vehicle) refreshLiveEntries(now float64) {
	for _, r := range v.registered {
		r.info.WillWaitInFront = false
		dist := v.crossingDistanceAhead(r)
		if r.info.RemainingDistance == 0 && dist < 0 {
			continue // already marked actively blocked by dropBehindTail
		}
		r.info.RemainingDistance = dist
		enter := now + arrivalTime(v, dist-r.intersection.WaitingDistance())
		leave := now + arrivalTime(v, dist+v.length+r.intersection.WaitingDistance())
		r.info.BlockingInterval = [2]float64{enter, leave}
	}
}
