package main

import "math"

// bisectionSteps halves a diameter-scale interval past float64 resolution.
const bisectionSteps = 60

// WaveSpec holds the constants of one sinusoid.
type WaveSpec struct {
	Wavelength  float64
	Amplitude   float64
	Cycles      float64 // full periods across the diameter
	BasePhase   float64
	Shift       float64 // horizontal offset dx in px
	Diameter    float64
	OuterRadius float64
}

// newWaveSpecs derives both waves from validated parameters. Wave 1 crests at
// x=0 when unshifted; wave 2 is the same curve half a cycle out of phase.
func newWaveSpecs(p LogoParameters) [2]WaveSpec {
	wavelength := p.Diameter * p.WavelengthFrac
	cycles := p.Diameter / wavelength
	base := WaveSpec{
		Wavelength:  wavelength,
		Amplitude:   p.Diameter * p.AmplitudeFrac,
		Cycles:      cycles,
		BasePhase:   math.Pi/2 - math.Pi*cycles,
		Diameter:    p.Diameter,
		OuterRadius: p.Diameter / 2,
	}

	first, second := base, base
	first.Shift = p.WaveShift1 * p.Diameter
	second.Shift = p.WaveShift2 * p.Diameter
	second.BasePhase += math.Pi
	return [2]WaveSpec{first, second}
}

// Y evaluates the wave at x.
func (w WaveSpec) Y(x float64) float64 {
	theta := 2*math.Pi*w.Cycles*((x-w.Shift+w.OuterRadius)/w.Diameter) + w.BasePhase
	return w.Amplitude * math.Sin(theta)
}

// circleResidual is g(x) = x² + y(x)² - r², positive outside the circle.
func circleResidual(wave func(float64) float64, r, x float64) float64 {
	y := wave(x)
	return x*x + y*y - r*r
}

// FindRoots locates where the wave meets the circle of radius r, searching
// [0, R] for the right crossing and [-R, 0] for the left one. It assumes a
// single sign change per half; otherwise it settles on one of the crossings
// without saying which.
func FindRoots(wave func(float64) float64, R, r float64) IntersectionPair {
	lo, hi := 0.0, R
	for i := 0; i < bisectionSteps; i++ {
		mid := 0.5 * (lo + hi)
		if circleResidual(wave, r, mid) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	xRight := 0.5 * (lo + hi)

	lo, hi = -R, 0.0
	for i := 0; i < bisectionSteps; i++ {
		mid := 0.5 * (lo + hi)
		if circleResidual(wave, r, mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	xLeft := 0.5 * (lo + hi)

	return IntersectionPair{XLeft: xLeft, XRight: xRight}
}

// CountCrossings scans g on both halves of [-R, R] with the given number of
// steps per half and counts sign changes. More than one on a side means
// FindRoots may not have returned the outermost crossing.
func CountCrossings(wave func(float64) float64, R, r float64, steps int) CrossingCount {
	if steps < 1 {
		steps = 1
	}
	count := func(from, to float64) int {
		n := 0
		prev := circleResidual(wave, r, from)
		for i := 1; i <= steps; i++ {
			x := from + (to-from)*float64(i)/float64(steps)
			cur := circleResidual(wave, r, x)
			if (prev > 0) != (cur > 0) {
				n++
			}
			prev = cur
		}
		return n
	}
	return CrossingCount{
		Left:  count(0, -R),
		Right: count(0, R),
	}
}
