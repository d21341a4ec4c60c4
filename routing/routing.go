// Package routing implements the A*-like shortest-cost routing engine:
// cost is arc length plus a near-the-front congestion
// penalty plus an inverse-effective-velocity factor, with a straight-line
// distance-to-nearest-destination heuristic.
package routing

import (
	"math"

	"github.com/fib-lab/citytrafficsim/container"
	"github.com/fib-lab/citytrafficsim/geometry"
	"github.com/fib-lab/citytrafficsim/network"
	"github.com/samber/lo"
)

// VehicleOnRoutePenalty is the per-vehicle congestion cost added to a
// connection's cost near the front of the tentative path.
const VehicleOnRoutePenalty = 48.0

// congestionPenaltyDepth is the numParents threshold below which the
// per-vehicle congestion penalty applies; deeper into the tentative path
// the penalty is dropped, deliberately biasing only the first few hops
// away from congestion.
const congestionPenaltyDepth = 3

// costFactor converts arc length / effective velocity into the A* cost
// unit.
const costFactor = 14.0

// Vehicle is the narrow view the routing cost function needs of a
// vehicle - just enough to avoid this package importing `vehicle` (which
// in turn needs to call into `routing`).
type Vehicle interface {
	TargetVelocity() float64
}

// Segment is one planned step of a vehicle's route: the connection to
// traverse, and the nodes it starts and ends at.
type Segment struct {
	Connection *network.Connection
	Start      *network.Node
	End        *network.Node
}

// Compute returns the lowest-cost ordered route from start to the nearest
// reachable node in destinations, for vehicle's cost parameters. Returns
// an empty slice when destinations is empty or no node in it is
// reachable from start.
func Compute(start *network.Node, destinations []*network.Node, vehicle Vehicle) []Segment {
	if len(destinations) == 0 {
		return nil
	}

	type state struct {
		gScore     float64
		numParents int
		via        *network.Connection
		from       *network.Node
	}

	best := map[*network.Node]state{start: {gScore: 0, numParents: 0}}
	openF := map[*network.Node]float64{start: heuristic(start, destinations)}
	closed := map[*network.Node]bool{}

	open := container.NewPriorityQueue[*network.Node]()
	open.HeapPush(start, openF[start])

	destSet := make(map[*network.Node]bool, len(destinations))
	for _, d := range destinations {
		destSet[d] = true
	}

	var arrived *network.Node
	for open.Len() > 0 {
		node, f := open.HeapPop()
		if f != openF[node] {
			continue // stale lazy-deleted entry: superseded by a better path
		}
		if closed[node] {
			continue
		}
		closed[node] = true

		if destSet[node] {
			arrived = node
			break
		}

		current := best[node]
		for _, c := range node.OutgoingConnections() {
			end := c.End()
			if closed[end] {
				continue
			}

			newG := current.gScore + cost(c, vehicle, current.numParents)
			newF := newG + heuristic(end, destinations)

			if existingF, ok := openF[end]; ok && existingF <= newF {
				continue // another open entry already reaches end more cheaply
			}

			openF[end] = newF
			best[end] = state{gScore: newG, numParents: current.numParents + 1, via: c, from: node}
			open.HeapPush(end, newF)
		}
	}

	if arrived == nil {
		return nil
	}

	var segments []Segment
	for n := arrived; n != start; {
		s := best[n]
		segments = append(segments, Segment{Connection: s.via, Start: s.from, End: n})
		n = s.from
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return segments
}

// cost is the cost of traversing c when the tentative path so far has
// reached numParents predecessors.
func cost(c *network.Connection, vehicle Vehicle, numParents int) float64 {
	base := c.Curve().ArcLength()
	if numParents < congestionPenaltyDepth {
		base += float64(c.Vehicles().Len()) * VehicleOnRoutePenalty
	}
	effectiveVelocity := math.Min(vehicle.TargetVelocity(), c.TargetVelocity())
	if effectiveVelocity <= 0 {
		log.Warnf("routing: non-positive effective velocity on connection, treating cost as infinite")
		return math.Inf(1)
	}
	return base * costFactor / effectiveVelocity
}

// heuristic is the minimum straight-line distance from node to any
// destination. It never overestimates the remaining cost while every
// effective velocity is at most costFactor (cost >= arc length >= chord);
// on faster connections the cost falls below the straight-line distance
// and the heuristic can overestimate it.
func heuristic(node *network.Node, destinations []*network.Node) float64 {
	distances := lo.Map(destinations, func(d *network.Node, _ int) float64 {
		return geometry.Distance(node.Position(), d.Position())
	})
	return lo.Min(distances)
}
