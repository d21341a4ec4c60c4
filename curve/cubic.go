// Package curve implements the cubic parameterized curve every network
// connection carries: time/arc-length conversion via a cached table, and
// lazy de Casteljau subdivision.
package curve

import (
	"github.com/fib-lab/citytrafficsim/geometry"
	"github.com/samber/lo"
)

// arcLengthTableSize is the number of uniform time samples the arc-length
// table is built from. 32 is plenty for vehicle-sized (decimeter) steps and
// is cheap to rebuild whenever a connection's endpoints move.
const arcLengthTableSize = 32

// Cubic is a cubic Bézier curve given by four control points, with a cached
// bounding box and arc-length table. Subdivided halves are computed lazily
// and cached on first use; they do not inherit the parent's arc-length
// table, each builds its own.
type Cubic struct {
	p0, p1, p2, p3 geometry.Vec2
	bounds         geometry.Bounds
	arcLengthTable [arcLengthTableSize]float64

	subdividedFirst  *Cubic
	subdividedSecond *Cubic
}

// New builds a cubic curve from its four Bézier control points.
func New(p0, p1, p2, p3 geometry.Vec2) *Cubic {
	c := &Cubic{p0: p0, p1: p1, p2: p2, p3: p3}
	c.bounds = geometry.NewBoundsFromPoints([]geometry.Vec2{p0, p1, p2, p3})
	c.computeArcLengthTable()
	return c
}

// ControlPoints returns the four Bézier support points.
func (c *Cubic) ControlPoints() (p0, p1, p2, p3 geometry.Vec2) {
	return c.p0, c.p1, c.p2, c.p3
}

// Bounds returns the axis-aligned bounding box of the control points.
func (c *Cubic) Bounds() geometry.Bounds { return c.bounds }

// ArcLength returns the total arc length of the curve (the table's last
// entry).
func (c *Cubic) ArcLength() float64 { return c.arcLengthTable[arcLengthTableSize-1] }

// TimeToCoordinate evaluates the curve at time t (clamped to [0,1]) using
// the direct Bernstein-basis expansion of the cubic - no recursive
// de Casteljau evaluation on this hot path.
func (c *Cubic) TimeToCoordinate(t float64) geometry.Vec2 {
	t = lo.Clamp(t, 0.0, 1.0)
	tt := t - 1
	tt2 := tt * tt
	tt3 := tt2 * tt

	term0 := c.p0.Scale(-tt3)
	term1 := c.p1.Scale(3.0 * tt2)
	inner := c.p2.Scale(3.0).Sub(c.p2.Scale(3.0 * t)).Add(c.p3.Scale(t))
	return term0.Add(term1.Scale(t)).Add(inner.Scale(t * t))
}

// DerivativeAtTime returns the tangent vector of the curve at time t, the
// quadratic Bernstein form of the cubic's derivative.
func (c *Cubic) DerivativeAtTime(t float64) geometry.Vec2 {
	p0, p1, p2, p3 := c.p0, c.p1, c.p2, c.p3
	a := p1.Sub(p0)
	b := p0.Sub(p1.Scale(2)).Add(p2)
	d := p1.Scale(3).Sub(p0).Sub(p2.Scale(3)).Add(p3).Scale(-1)
	// 3 * (-p0 + p1 + 2*(p0 - 2p1 + p2)*t + (-p0 + 3p1 - 3p2 + p3)*t^2)
	return a.Add(b.Scale(2 * t)).Add(d.Scale(-1 * t * t)).Scale(3)
}

// ArcPositionToCoordinate evaluates the curve at the given arc-length
// position.
func (c *Cubic) ArcPositionToCoordinate(position float64) geometry.Vec2 {
	return c.TimeToCoordinate(c.ArcPositionToTime(position))
}

// ArcPositionToTime binary-searches the arc-length table for the first
// entry at or above position and linearly interpolates.
func (c *Cubic) ArcPositionToTime(position float64) float64 {
	table := c.arcLengthTable
	if position <= table[0] {
		return 0.0
	}
	if position >= table[arcLengthTableSize-1] {
		return 1.0
	}

	lo, hi := 0, arcLengthTableSize-1
	for lo < hi {
		mid := (lo + hi) / 2
		if table[mid] < position {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	// table[lo] is the first entry >= position; lo > 0 since position > table[0].
	diff := table[lo] - table[lo-1]
	frac := 0.0
	if diff > 0 {
		frac = (position - table[lo-1]) / diff
	}
	return (float64(lo-1) + frac) / float64(arcLengthTableSize-1)
}

// TimeToArcPosition maps a clamped curve time to cumulative arc length via
// linear interpolation inside the cached table. Constant-time; the table is
// only ever rebuilt when the control points change.
func (c *Cubic) TimeToArcPosition(t float64) float64 {
	if t <= 0.0 {
		return 0.0
	}
	if t >= 1.0 {
		return c.arcLengthTable[arcLengthTableSize-1]
	}

	scaled := t * float64(arcLengthTableSize-1)
	index := int(scaled)
	frac := scaled - float64(index)
	return c.arcLengthTable[index] + frac*(c.arcLengthTable[index+1]-c.arcLengthTable[index])
}

// SubdividedFirst returns the [0, 0.5] half of the curve, computing and
// caching it on first access.
func (c *Cubic) SubdividedFirst() *Cubic {
	if c.subdividedFirst == nil {
		c.subdivide()
	}
	return c.subdividedFirst
}

// SubdividedSecond returns the [0.5, 1] half of the curve, computing and
// caching it on first access.
func (c *Cubic) SubdividedSecond() *Cubic {
	if c.subdividedSecond == nil {
		c.subdivide()
	}
	return c.subdividedSecond
}

func (c *Cubic) subdivide() {
	p01 := c.p0.Add(c.p1.Sub(c.p0).Scale(0.5))
	p11 := c.p1.Add(c.p2.Sub(c.p1).Scale(0.5))
	p21 := c.p2.Add(c.p3.Sub(c.p2).Scale(0.5))

	p02 := p01.Add(p11.Sub(p01).Scale(0.5))
	p12 := p11.Add(p21.Sub(p11).Scale(0.5))

	p03 := p02.Add(p12.Sub(p02).Scale(0.5))

	c.subdividedFirst = New(c.p0, p01, p02, p03)
	c.subdividedSecond = New(p03, p12, p21, c.p3)
}

func (c *Cubic) computeArcLengthTable() {
	lastPoint := c.p0
	sum := 0.0
	for i := 0; i < arcLengthTableSize; i++ {
		t := float64(i) / float64(arcLengthTableSize-1)
		current := c.TimeToCoordinate(t)
		sum += geometry.Distance(current, lastPoint)
		lastPoint = current
		c.arcLengthTable[i] = sum
	}
}
