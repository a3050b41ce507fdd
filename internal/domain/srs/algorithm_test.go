package srs

import (
	"math"
	"testing"

	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCurveRetrievability(t *testing.T) {
	t.Parallel()
	c := newCurve(NewDefaultParams())

	assert.InDelta(t, 1.0, c.retrievability(0, 5), 1e-12, "no elapsed time means certain recall")
	assert.InDelta(t, 0.9, c.retrievability(5, 5), 1e-9, "R equals 0.9 after exactly S days")
	assert.Less(t, c.retrievability(10, 5), c.retrievability(5, 5))
	assert.Equal(t, 0.0, c.retrievability(3, 0))
}

func TestCurveIntervalMonotonic(t *testing.T) {
	t.Parallel()
	c := newCurve(NewDefaultParams())

	prev := c.interval(minStability)
	for s := 0.01; s < 1000; s *= 1.5 {
		ivl := c.interval(s)
		assert.Greater(t, ivl, prev, "interval must grow with stability (s=%g)", s)
		prev = ivl
	}

	assert.Equal(t, DefaultMaximumIntervalDays, c.interval(maxStability*2))
}

func TestCurveIntervalHonoursRetention(t *testing.T) {
	t.Parallel()
	strict, err := NewParams(ParamsConfig{DesiredRetention: 0.95})
	assert.NoError(t, err)
	loose, err := NewParams(ParamsConfig{DesiredRetention: 0.8})
	assert.NoError(t, err)

	cs := newCurve(strict)
	cl := newCurve(loose)
	cd := newCurve(NewDefaultParams())
	assert.Less(t, cs.interval(10), cl.interval(10))
	assert.InDelta(t, 10, cd.interval(10), 1e-9)
}

func TestCurveInitialValues(t *testing.T) {
	t.Parallel()
	c := newCurve(NewDefaultParams())

	for i, rating := range domain.AllRatings {
		g := grade(rating)
		assert.Equal(t, DefaultWeights[i], c.initStability(g))
	}

	// Harder first ratings yield higher difficulty.
	dAgain := clampDifficulty(c.initDifficulty(grade(domain.RatingAgain)))
	dEasy := clampDifficulty(c.initDifficulty(grade(domain.RatingEasy)))
	assert.Greater(t, dAgain, dEasy)
}

func TestCurveStabilityUpdates(t *testing.T) {
	t.Parallel()
	c := newCurve(NewDefaultParams())
	const s, d = 10.0, 5.0
	r := c.retrievability(12, s)

	again := c.nextStability(d, s, r, grade(domain.RatingAgain))
	hard := c.nextStability(d, s, r, grade(domain.RatingHard))
	good := c.nextStability(d, s, r, grade(domain.RatingGood))
	easy := c.nextStability(d, s, r, grade(domain.RatingEasy))

	assert.Less(t, again, s, "a lapse shrinks stability")
	assert.Greater(t, good, s)
	assert.Greater(t, easy, good)
	assert.Less(t, hard, good)
}

func TestCurveDifficultyBounds(t *testing.T) {
	t.Parallel()
	c := newCurve(NewDefaultParams())

	d := 5.0
	for i := 0; i < 100; i++ {
		d = c.nextDifficulty(d, grade(domain.RatingAgain))
		assert.LessOrEqual(t, d, domain.MaxDifficulty)
	}
	for i := 0; i < 100; i++ {
		d = c.nextDifficulty(d, grade(domain.RatingEasy))
		assert.GreaterOrEqual(t, d, domain.MinDifficulty)
	}
}

func TestClamps(t *testing.T) {
	t.Parallel()
	assert.Equal(t, minStability, clampStability(-4))
	assert.Equal(t, minStability, clampStability(math.NaN()))
	assert.Equal(t, maxStability, clampStability(math.Inf(1)))
	assert.Equal(t, domain.MinDifficulty, clampDifficulty(-1))
	assert.Equal(t, domain.MaxDifficulty, clampDifficulty(42))
}
