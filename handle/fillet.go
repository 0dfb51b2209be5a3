package handle

import "math"

const (
	// filletEpsilon is the radius below which the fillet is disabled.
	filletEpsilon = 1e-6
	// filletZoneStretch is the blend-smoothing margin: the zone extends
	// 1.2 times the fillet radius along the path.
	filletZoneStretch = 1.2
	// filletZoneMaxFraction caps each zone so a large radius on a short
	// handle can never make the zones overlap.
	filletZoneMaxFraction = 0.15
)

// FilletZones are the normalized path sub-ranges near each attachment
// where the cross-section scale tapers. The bottom zone is
// [0, BottomEnd], the top zone [TopStart, 1]. BottomEnd == 0 and
// TopStart == 1 signal a disabled fillet.
type FilletZones struct {
	BottomEnd float64
	TopStart  float64
}

func filletZones(pathLength, filletRadius float64) FilletZones {
	if filletRadius <= filletEpsilon || pathLength <= filletEpsilon {
		return FilletZones{BottomEnd: 0, TopStart: 1}
	}
	frac := filletZoneStretch * filletRadius / pathLength
	if frac > filletZoneMaxFraction {
		frac = filletZoneMaxFraction
	}
	return FilletZones{BottomEnd: frac, TopStart: 1 - frac}
}

// scale returns the cross-section scale factor at normalized path
// position t. The circular-arc blend eases from 1+maxAdd exactly at the
// attachment to exactly 1 at the zone's far edge, with a sine law so
// the slope vanishes at the boundary.
func (z FilletZones) scale(t, maxAdd float64) float64 {
	switch {
	case maxAdd == 0:
		return 1
	case z.BottomEnd > 0 && t < z.BottomEnd:
		u := t / z.BottomEnd
		return 1 + maxAdd*(1-math.Sin(u*math.Pi/2))
	case z.TopStart < 1 && t > z.TopStart:
		// Measured from the top attachment so sin(0) lands the scale on
		// exactly 1+maxAdd at t == 1, same as the bottom zone at t == 0.
		u := (1 - t) / (1 - z.TopStart)
		return 1 + maxAdd*(1-math.Sin(u*math.Pi/2))
	}
	return 1
}
