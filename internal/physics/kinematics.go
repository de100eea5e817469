// Package physics holds the fixed-timestep motion rules and the collision
// probes that sample the player box against a board.
// Units are tiles and seconds; y grows downward.
package physics

import "math"

// Integrate applies acceleration a for one tick at the given rate and returns
// the new velocity and the displacement over the tick:
//
//	v' = v + a/F
//	d  = v'/F + a/(2F²)
//
// The correction term carries the sign of a, so speeding up in the negative
// direction and slowing down from a positive velocity both subtract it.
func Integrate(v, a float64, rate int) (float64, float64) {
	f := float64(rate)
	nv := v + a/f
	return nv, nv/f + 0.5*a/(f*f)
}

// Displace returns the displacement for one tick at velocity v without
// changing the velocity, with the same second-order correction as Integrate.
func Displace(v, a float64, rate int) float64 {
	f := float64(rate)
	return v/f + 0.5*a/(f*f)
}

// Cruise returns the displacement for one tick at constant velocity.
func Cruise(v float64, rate int) float64 {
	return v / float64(rate)
}

// Accelerate speeds v up by a toward the speed limit in the direction of a.
// At or beyond the limit the velocity is held and the tick cruises. A step
// that would overshoot lands exactly on the limit, so |v'| never exceeds it.
func Accelerate(v, a, limit float64, rate int) (float64, float64) {
	if a >= 0 {
		if v >= limit {
			return v, Cruise(v, rate)
		}
		nv, d := Integrate(v, a, rate)
		if nv > limit {
			return limit, Cruise(limit, rate)
		}
		return nv, d
	}

	if v <= -limit {
		return v, Cruise(v, rate)
	}
	nv, d := Integrate(v, a, rate)
	if nv < -limit {
		return -limit, Cruise(-limit, rate)
	}
	return nv, d
}

// JumpVelocity returns the upward launch velocity that peaks at height h
// under gravity g.
func JumpVelocity(g, h float64) float64 {
	return -math.Sqrt(2 * g * h)
}

// Frac returns the fractional part of x with the sign of x.
func Frac(x float64) float64 {
	return math.Mod(x, 1)
}

// SnapUp moves a coordinate overlapping the next cell by more than half
// into that cell, and leaves it alone otherwise.
func SnapUp(x float64) float64 {
	if Frac(x) > 0.5 {
		return float64(int(x) + 1)
	}
	return x
}

// SnapDown truncates a coordinate that is less than half into its cell.
func SnapDown(x float64) float64 {
	if Frac(x) < 0.5 {
		return float64(int(x))
	}
	return x
}

// SnapNearest aligns a coordinate to a whole cell by the 0.5 rule.
func SnapNearest(x float64) float64 {
	if Frac(x) > 0.5 {
		return float64(int(x) + 1)
	}
	return float64(int(x))
}
