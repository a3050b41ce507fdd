package srs

import (
	"math"

	"github.com/phrazzld/scry-srs/internal/domain"
)

// Stability floor and ceiling, in days.
const (
	minStability = 0.001
	maxStability = 36500.0
)

// curve holds the weights together with the constants derived from them.
//
// Formulas work on the grade G = rating + 1, so Again..Easy map to 1..4.
type curve struct {
	w      [WeightCount]float64
	decay  float64 // -w[20]
	factor float64 // 0.9^(1/decay) - 1

	// intervalFactor converts stability into the interval at which
	// retrievability reaches the desired retention.
	intervalFactor float64
	maxInterval    float64
}

func newCurve(p *Params) curve {
	decay := -p.Weights[20]
	factor := math.Pow(0.9, 1/decay) - 1
	return curve{
		w:              p.Weights,
		decay:          decay,
		factor:         factor,
		intervalFactor: (math.Pow(p.DesiredRetention, 1/decay) - 1) / factor,
		maxInterval:    p.MaximumIntervalDays,
	}
}

// grade maps a rating to G in 1..4. Ratings outside the valid set behave as Good.
func grade(r domain.Rating) float64 {
	return float64(r.Normalize()) + 1
}

// retrievability computes R(t, S) = (1 + factor*t/S)^decay.
func (c curve) retrievability(elapsedDays, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	return math.Pow(1+c.factor*elapsedDays/stability, c.decay)
}

// initStability is S0(G) = w[G-1].
func (c curve) initStability(g float64) float64 {
	return clampStability(c.w[int(g)-1])
}

// initDifficulty is D0(G) = w4 - e^(w5*(G-1)) + 1.
func (c curve) initDifficulty(g float64) float64 {
	return c.w[4] - math.Exp(c.w[5]*(g-1)) + 1
}

// interval returns the scheduled interval in days for stability s.
// Strictly increasing in s until it reaches maxInterval.
func (c curve) interval(s float64) float64 {
	return math.Min(s*c.intervalFactor, c.maxInterval)
}

// shortTermStability handles reviews less than a day apart.
func (c curve) shortTermStability(s, g float64) float64 {
	inc := math.Exp(c.w[17]*(g-3+c.w[18])) * math.Pow(s, -c.w[19])
	if g >= 3 {
		inc = math.Max(inc, 1)
	}
	return clampStability(s * inc)
}

// nextDifficulty applies linear damping towards 10 and mean reversion
// towards D0(Easy).
func (c curve) nextDifficulty(d, g float64) float64 {
	delta := -c.w[6] * (g - 3)
	damped := d + (10-d)*delta/9
	target := c.initDifficulty(4)
	return clampDifficulty(c.w[7]*target + (1-c.w[7])*damped)
}

func (c curve) nextStability(d, s, r, g float64) float64 {
	if g == 1 {
		return clampStability(c.forgetStability(d, s, r))
	}
	return clampStability(c.recallStability(d, s, r, g))
}

func (c curve) recallStability(d, s, r, g float64) float64 {
	hardPenalty := 1.0
	if g == 2 {
		hardPenalty = c.w[15]
	}
	easyBonus := 1.0
	if g == 4 {
		easyBonus = c.w[16]
	}
	return s * (1 + math.Exp(c.w[8])*
		(11-d)*
		math.Pow(s, -c.w[9])*
		(math.Exp((1-r)*c.w[10])-1)*
		hardPenalty*easyBonus)
}

// forgetStability is the post-lapse stability. It never exceeds the
// short-term shrink of the previous stability.
func (c curve) forgetStability(d, s, r float64) float64 {
	long := c.w[11] *
		math.Pow(d, -c.w[12]) *
		(math.Pow(s+1, c.w[13]) - 1) *
		math.Exp((1-r)*c.w[14])
	short := s / math.Exp(c.w[17]*c.w[18])
	return math.Min(long, short)
}

func clampStability(s float64) float64 {
	if math.IsNaN(s) {
		return minStability
	}
	return math.Min(math.Max(s, minStability), maxStability)
}

func clampDifficulty(d float64) float64 {
	if math.IsNaN(d) {
		return domain.MaxDifficulty
	}
	return math.Min(math.Max(d, domain.MinDifficulty), domain.MaxDifficulty)
}
