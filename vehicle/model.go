package vehicle

import "math"

// Model is the set of IDM (Intelligent Driver Model) parameters governing
// one vehicle's longitudinal acceleration.
type Model struct {
	SafeTimeHeadway     float64 // T
	MaxAcceleration     float64 // aMax
	ComfortDeceleration float64 // bComf
	MaxDeceleration     float64 // bMax
	MinDistance         float64 // minDist
}

// DefaultModel returns the stock IDM parameter set.
func DefaultModel() Model {
	return Model{
		SafeTimeHeadway:     1.4,
		MaxAcceleration:     1.2,
		ComfortDeceleration: 1.5,
		MaxDeceleration:     3.0,
		MinDistance:         20,
	}
}

// DesiredGap is the IDM desired dynamic gap to a leader: at least
// MinDistance, growing with speed and with the closing rate deltaV (my
// velocity minus the leader's).
func (m Model) DesiredGap(v, deltaV float64) float64 {
	dynamic := m.MinDistance + m.SafeTimeHeadway*v + (v*deltaV)/(2*math.Sqrt(m.MaxAcceleration*m.ComfortDeceleration))
	return math.Max(m.MinDistance, dynamic)
}

// AccelerationFree is the IDM free-road acceleration toward vdes with no
// leader constraint.
func (m Model) AccelerationFree(v, vdes float64) float64 {
	if vdes <= 0 {
		return -m.MaxDeceleration
	}
	ratio := v / vdes
	return m.MaxAcceleration * (1 - ratio*ratio)
}

// AccelerationFollow is the IDM car-following acceleration given a leader
// at distance d ahead and relative velocity deltaV.
func (m Model) AccelerationFollow(v, vdes, d, deltaV float64) float64 {
	if d <= 0 || vdes <= 0 {
		return -m.MaxDeceleration
	}
	ratio := v / vdes
	gapRatio := m.DesiredGap(v, deltaV) / d
	return m.MaxAcceleration * (1 - ratio*ratio - math.Sqrt(gapRatio))
}
