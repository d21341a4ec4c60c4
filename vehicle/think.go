package vehicle

import (
	"math"

	"github.com/fib-lab/citytrafficsim/network"
)

// Think computes v's candidate acceleration for this tick from its
// current state, without mutating any other vehicle. The result is stored
// on v and applied by Move.
func (v *Vehicle) Think() {
	if v.currentConnection == nil {
		return
	}
	vdes := v.effectiveTargetVelocity(v.currentConnection)

	leaderAccel := v.thinkLeader(vdes)
	intersectionAccel := v.thinkIntersections(vdes)

	v.currentAcceleration = math.Min(leaderAccel, intersectionAccel)
}

// thinkLeader handles car following: walk forward on the current
// connection for a leader; if none is within lookaheadDistance, recurse
// into the outgoing connections of the end node.
func (v *Vehicle) thinkLeader(vdes float64) float64 {
	dist, relVelocity, found := leaderAhead(v.currentConnection, v.currentArcPos, v, lookaheadDistance)
	if !found {
		return v.Model.AccelerationFree(v.currentVelocity, vdes)
	}
	return v.Model.AccelerationFollow(v.currentVelocity, vdes, dist, relVelocity)
}

// leaderAhead searches for the nearest vehicle ahead of position on c
// within budget arc units, recursing into outgoing connections when c has
// no leader within range. It returns the minimum distance found among all
// recursion branches; "nothing found" merges as an infinite distance.
func leaderAhead(c *network.Connection, position float64, me *Vehicle, budget float64) (distance, relVelocity float64, found bool) {
	if budget <= 0 {
		return 0, 0, false
	}

	if leader := c.FindVehicleAhead(position); leader != nil {
		if lv, ok := leader.(*Vehicle); ok && lv != me {
			d := lv.ArcPosition() - position
			if d >= 0 && d <= budget {
				return d, me.currentVelocity - lv.currentVelocity, true
			}
		}
	}

	remainingOnConnection := c.Curve().ArcLength() - position
	remainingBudget := budget - remainingOnConnection
	if remainingBudget <= 0 {
		return 0, 0, false
	}

	best := math.Inf(1)
	bestRel := 0.0
	anyFound := false
	for _, next := range c.End().OutgoingConnections() {
		d, rel, ok := leaderAhead(next, 0, me, remainingBudget)
		if !ok {
			continue
		}
		total := remainingOnConnection + d
		if total < best {
			best = total
			bestRel = rel
			anyFound = true
		}
	}
	return best, bestRel, anyFound
}

// thinkIntersections iterates the vehicle's registered intersections in
// order and returns the acceleration implied by the nearest one it must
// wait for, or the free-road acceleration when nothing constrains it.
func (v *Vehicle) thinkIntersections(vdes float64) float64 {
	stopDistance, mustWait := v.decideIntersections()
	if !mustWait {
		return v.Model.AccelerationFree(v.currentVelocity, vdes)
	}
	return v.Model.AccelerationFollow(v.currentVelocity, vdes, stopDistance, v.currentVelocity)
}

// decideIntersections walks the registered intersections in order,
// applying right-of-way arbitration per intersection, and returns
// the distance to the chosen stop line plus whether a wait is required at
// all. It also performs the do-not-block back-propagation and sets
// WillWaitInFront on the affected registrations.
func (v *Vehicle) decideIntersections() (stopDistance float64, mustWait bool) {
	myConn := v.currentConnection
	stopIndex := -1

	for idx, r := range v.registered {
		if r.info.RemainingDistance <= 0 {
			continue // already blocking this one; no new wait decision to make
		}

		interferers := r.intersection.InterferingVehicles(v, myConn, r.info.BlockingInterval[0], r.info.BlockingInterval[1])
		wait := intersectionRequiresWait(r, myConn, interferers)
		if wait {
			stopIndex = idx
			break
		}
	}

	if stopIndex == -1 {
		return 0, false
	}

	stopIndex = v.pushStopLineBack(stopIndex)
	for i := stopIndex; i < len(v.registered); i++ {
		v.registered[i].info.WillWaitInFront = true
	}

	r := v.registered[stopIndex]
	return r.info.RemainingDistance - r.intersection.WaitingDistance(), true
}

// intersectionRequiresWait decides whether the vehicle has to yield at
// this crossing, by comparing the two connections' priorities.
func intersectionRequiresWait(r *registration, myConn *network.Connection, interferers map[network.VehicleRef]*network.CrossingInfo) bool {
	other := r.intersection.Other(myConn)

	switch {
	case other.Priority() > myConn.Priority():
		if len(interferers) > 0 {
			return true
		}
		return straddlesWaiting(r)
	case other.Priority() == myConn.Priority():
		for _, info := range interferers {
			if info.OriginalArrivalTime < r.info.OriginalArrivalTime || info.RemainingDistance <= 0 {
				return true
			}
		}
		return straddlesWaiting(r)
	default: // myConn has strictly higher priority
		for _, info := range interferers {
			if info.RemainingDistance <= 0 {
				return true
			}
		}
		return false
	}
}

// straddlesWaiting reports whether stopping at this intersection's own
// follow-distance stop point would leave the vehicle straddling the
// crossing, when avoidBlocking applies.
func straddlesWaiting(r *registration) bool {
	return r.intersection.AvoidBlocking() && r.info.RemainingDistance < r.intersection.WaitingDistance()
}

// pushStopLineBack is the do-not-block back-propagation: walking
// backward from stopIndex through earlier
// registered intersections, move the virtual stop line back whenever
// stopping at the current choice would straddle an avoid-blocking
// intersection that isn't already blocked.
func (v *Vehicle) pushStopLineBack(stopIndex int) int {
	minStraddle := v.Model.DesiredGap(0, 0) + v.length
	for i := stopIndex - 1; i >= 0; i-- {
		prev := v.registered[i]
		if prev.info.RemainingDistance <= 0 {
			break // already blocking this one
		}
		gapToChosen := v.registered[stopIndex].info.RemainingDistance - prev.info.RemainingDistance
		if gapToChosen >= minStraddle {
			break // stopping at the current choice would not straddle prev
		}
		if !prev.intersection.AvoidBlocking() {
			break
		}
		stopIndex = i
	}
	return stopIndex
}
