package geometry

import (
	"math"
	"sort"
)

// Orientation returns twice the signed area of the triangle (a, b, c):
// positive for a left turn, zero for collinear points, negative for a
// right turn.
func Orientation(a, b, c Vec2) float64 {
	return a.X*b.Y + a.Y*c.X + b.X*c.Y - c.X*b.Y - c.Y*a.X - b.X*a.Y
}

// Collinear reports whether the three points lie on one line.
func Collinear(a, b, c Vec2) bool {
	return Orientation(a, b, c) == 0
}

// LeftTurn reports whether a, b, c form a left (counter-clockwise) turn.
func LeftTurn(a, b, c Vec2) bool {
	return Orientation(a, b, c) > 0
}

// ConvexHull computes the convex hull of points via a Graham scan. Fewer
// than three points are returned unchanged.
func ConvexHull(points []Vec2) []Vec2 {
	if len(points) < 3 {
		out := make([]Vec2, len(points))
		copy(out, points)
		return out
	}

	yMin := points[0]
	for _, p := range points {
		if p.Y < yMin.Y {
			yMin = p
		}
	}

	type pointAngle struct {
		p     Vec2
		angle float64
	}
	pa := make([]pointAngle, len(points))
	for i, p := range points {
		offset := p.Sub(yMin)
		pa[i] = pointAngle{p, math.Atan2(offset.Y, offset.X)}
	}
	sort.Slice(pa, func(i, j int) bool { return pa[i].angle < pa[j].angle })

	hull := make([]Vec2, 0, len(pa))
	hull = append(hull, pa[0].p, pa[1].p, pa[2].p)
	for i := 3; i < len(pa); i++ {
		for len(hull) >= 2 && !LeftTurn(hull[len(hull)-2], hull[len(hull)-1], pa[i].p) {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pa[i].p)
	}
	return hull
}
