package world

import "github.com/chewxy/math32"

// Lerp interpolates linearly between x and y.
func Lerp(x, y, t float32) float32 {
	return (1-t)*x + t*y
}

// Damp moves x towards y with exponential decay lambda over dt seconds.
// It is frame-rate independent, unlike a fixed Lerp factor.
func Damp(x, y, lambda, dt float32) float32 {
	return Lerp(x, y, 1-math32.Exp(-lambda*dt))
}

// Clamp limits v to [lo, hi].
func Clamp(lo, v, hi float32) float32 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
