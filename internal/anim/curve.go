package anim

import (
	"math"
	"strings"
)

// Curve maps normalized progress in [0,1] to eased progress. Outputs
// may leave [0,1] for overshooting curves; keyframe evaluation clamps
// at the ends.
type Curve func(t float64) float64

// Named curves. OutCubic is the default wherever no curve is given.
var (
	Linear Curve = func(t float64) float64 { return t }

	InQuad  Curve = func(t float64) float64 { return t * t }
	OutQuad Curve = func(t float64) float64 { return t * (2 - t) }
	InOutQuad Curve = func(t float64) float64 {
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - math.Pow(-2*t+2, 2)/2
	}

	InCubic  Curve = func(t float64) float64 { return t * t * t }
	OutCubic Curve = func(t float64) float64 { return 1 - math.Pow(1-t, 3) }
	InOutCubic Curve = func(t float64) float64 {
		if t < 0.5 {
			return 4 * t * t * t
		}
		return 1 - math.Pow(-2*t+2, 3)/2
	}

	InSine    Curve = func(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) }
	OutSine   Curve = func(t float64) float64 { return math.Sin(t * math.Pi / 2) }
	InOutSine Curve = func(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 }

	InElastic    Curve = elasticIn
	OutElastic   Curve = elasticOut
	InOutElastic Curve = elasticInOut

	InBounce  Curve = func(t float64) float64 { return 1 - bounceOut(1-t) }
	OutBounce Curve = bounceOut
	InOutBounce Curve = func(t float64) float64 {
		if t < 0.5 {
			return (1 - bounceOut(1-2*t)) / 2
		}
		return (1 + bounceOut(2*t-1)) / 2
	}
)

func elasticIn(t float64) float64 {
	const c4 = 2 * math.Pi / 3
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	return -math.Pow(2, 10*t-10) * math.Sin((10*t-10.75)*c4)
}

func elasticOut(t float64) float64 {
	const c4 = 2 * math.Pi / 3
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	return math.Pow(2, -10*t)*math.Sin((10*t-0.75)*c4) + 1
}

func elasticInOut(t float64) float64 {
	const c5 = 2 * math.Pi / 4.5
	switch {
	case t == 0:
		return 0
	case t == 1:
		return 1
	case t < 0.5:
		return -math.Pow(2, 20*t-10) * math.Sin((20*t-11.125)*c5) / 2
	}
	return math.Pow(2, -20*t+10)*math.Sin((20*t-11.125)*c5)/2 + 1
}

func bounceOut(t float64) float64 {
	const n1, d1 = 7.5625, 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// ParseCurve resolves an easing name such as "out-cubic" or "linear".
// Dashes and underscores are ignored; unknown names fall back to
// OutCubic.
func ParseCurve(name string) Curve {
	v := strings.ToLower(strings.TrimSpace(name))
	v = strings.ReplaceAll(v, "-", "")
	v = strings.ReplaceAll(v, "_", "")

	switch v {
	case "linear":
		return Linear
	case "inquad", "easeinquad":
		return InQuad
	case "outquad", "easeoutquad":
		return OutQuad
	case "inoutquad", "easeinoutquad":
		return InOutQuad
	case "incubic", "easeincubic", "easein":
		return InCubic
	case "outcubic", "easeoutcubic", "easeout", "":
		return OutCubic
	case "inoutcubic", "easeinoutcubic", "easeinout", "ease":
		return InOutCubic
	case "insine":
		return InSine
	case "outsine":
		return OutSine
	case "inoutsine":
		return InOutSine
	case "inelastic":
		return InElastic
	case "outelastic":
		return OutElastic
	case "inoutelastic":
		return InOutElastic
	case "inbounce":
		return InBounce
	case "outbounce":
		return OutBounce
	case "inoutbounce":
		return InOutBounce
	default:
		return OutCubic
	}
}
