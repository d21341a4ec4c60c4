package network

import (
	"sort"

	"github.com/fib-lab/citytrafficsim/curve"
)

const intersectionMergeDistance = 42.0

// curvePiece is one leaf of a recursive curve bisection: a sub-curve plus
// the [tStart,tEnd] interval of the original curve it covers.
type curvePiece struct {
	curve        *curve.Cubic
	tStart, tEnd float64
}

// bisect repeatedly subdivides c's curve until every piece's bounding box
// has a diagonal no larger than tolerance.
func bisect(c *curve.Cubic, tolerance float64) []curvePiece {
	big := []curvePiece{{curve: c, tStart: 0, tEnd: 1}}
	var small []curvePiece
	for len(big) > 0 {
		part := big[len(big)-1]
		big = big[:len(big)-1]

		b := part.curve.Bounds()
		d := b.URB().Sub(b.LLF())
		if d.X > tolerance || d.Y > tolerance {
			mid := part.tStart + (part.tEnd-part.tStart)/2
			big = append(big,
				curvePiece{curve: part.curve.SubdividedFirst(), tStart: part.tStart, tEnd: mid},
				curvePiece{curve: part.curve.SubdividedSecond(), tStart: mid, tEnd: part.tEnd},
			)
		} else {
			small = append(small, part)
		}
	}
	return small
}

type timePair struct {
	tA, tB float64
}

// detectIntersections finds all intersections between connection c and the
// candidates in others, skipping candidates that share an endpoint with c
// on its natural side (incoming to c.start, outgoing from c.end).
func detectIntersections(c *Connection, others []*Connection, tolerance float64) []*Intersection {
	leftPieces := bisect(c.curve, tolerance)

	var result []*Intersection
	for _, other := range others {
		if other == c {
			continue
		}
		if sharesEndpoint(c, other) {
			continue
		}

		var pairs []timePair
		for _, lp := range leftPieces {
			recurseRight(lp, other.curve, 0, 1, tolerance, &pairs)
		}
		if len(pairs) == 0 {
			continue
		}
		if len(pairs) == 1 {
			pairs = append(pairs, pairs[0])
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].tA < pairs[j].tA })

		result = append(result, mergeRuns(c, other, pairs)...)
	}
	return result
}

// sharesEndpoint reports whether other is incoming to c.start or outgoing
// from c.end - connections that already meet c at a node are excluded
// from crossing detection on that side.
func sharesEndpoint(c, other *Connection) bool {
	for _, in := range c.start.incoming {
		if in == other {
			return true
		}
	}
	for _, out := range c.end.outgoing {
		if out == other {
			return true
		}
	}
	return false
}

// recurseRight bisects rhs (curve times [tStart,tEnd]) against the fixed
// left piece, only descending into halves whose bounding box still
// overlaps the left piece's box, and emits a (tA, tB) pair once the right
// box's diagonal drops under tolerance. The diagonal test (not the box
// volume) keeps degenerate axis-aligned boxes - straight roads have
// zero-height bounds - subdividing until tB is actually localized. tA is
// the left piece's end time, tB the right interval's midpoint.
func recurseRight(left curvePiece, rhs *curve.Cubic, tStart, tEnd, tolerance float64, out *[]timePair) {
	if !left.curve.Bounds().Intersects(rhs.Bounds()) {
		return
	}
	center := tStart + (tEnd-tStart)/2

	b := rhs.Bounds()
	if d := b.URB().Sub(b.LLF()); d.X > tolerance || d.Y > tolerance {
		recurseRight(left, rhs.SubdividedFirst(), tStart, center, tolerance, out)
		recurseRight(left, rhs.SubdividedSecond(), center, tEnd, tolerance, out)
	} else {
		*out = append(*out, timePair{tA: left.tEnd, tB: center})
	}
}

// mergeRuns groups consecutive pairs (sorted by tA) whose arc-position gap
// on c is within intersectionMergeDistance into a single Intersection
// placed at the midpoint of the run. A run is closed with the pair before
// the one that broke it, so the far pair that opens the next run never
// drags the merged crossing into the gap; callers guarantee len(pairs) >= 2
// (a single hit is duplicated) so i-1 is always a valid run end.
func mergeRuns(c, other *Connection, pairs []timePair) []*Intersection {
	var result []*Intersection

	startIndex := 0
	lastArc := c.curve.TimeToArcPosition(pairs[0].tA)
	for i := range pairs {
		currentArc := c.curve.TimeToArcPosition(pairs[i].tA)
		if currentArc-lastArc > intersectionMergeDistance || i+1 == len(pairs) {
			tA := pairs[startIndex].tA + (pairs[i-1].tA-pairs[startIndex].tA)/2
			tB := pairs[startIndex+(i-1-startIndex)/2].tB
			result = append(result, newIntersection(c, tA, other, tB))

			startIndex = i
		}
		lastArc = currentArc
	}
	return result
}
