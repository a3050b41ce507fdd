package srs

import (
	"errors"
	"fmt"
)

// WeightCount is the number of forgetting-curve weights.
const WeightCount = 21

// ErrInvalidParams is returned when a parameter falls outside its allowed range.
var ErrInvalidParams = errors.New("invalid SRS parameters")

// DefaultWeights are the published FSRS-6 defaults.
var DefaultWeights = [WeightCount]float64{
	0.212, 1.2931, 2.3065, 8.2956, // initial stability per grade
	6.4133, 0.8334, 3.0194, 0.001, // difficulty
	1.8722, 0.1666, 0.796, 1.4835, // recall stability
	0.0614, 0.2629, 1.6483, 0.6014, // forget stability, hard penalty
	1.8729, 0.5425, 0.0912, 0.0658, // easy bonus, short-term
	0.1542, // decay
}

// weightLowerBounds and weightUpperBounds bound each weight.
var (
	weightLowerBounds = [WeightCount]float64{
		0.001, 0.001, 0.001, 0.001,
		1.0, 0.001, 0.001, 0.001,
		0.0, 0.0, 0.001, 0.001,
		0.001, 0.001, 0.0, 0.0,
		1.0, 0.0, 0.0, 0.0,
		0.1,
	}
	weightUpperBounds = [WeightCount]float64{
		100.0, 100.0, 100.0, 100.0,
		10.0, 4.0, 4.0, 0.75,
		4.5, 0.8, 3.5, 5.0,
		0.25, 0.9, 4.0, 1.0,
		6.0, 2.0, 2.0, 0.8,
		0.8,
	}
)

// Defaults for the scheduling targets.
const (
	DefaultDesiredRetention    = 0.9
	DefaultMaximumIntervalDays = 36500.0
)

// Params defines all configurable parameters for the forgetting-curve engine
type Params struct {
	Weights [WeightCount]float64

	// DesiredRetention is the recall probability at which a card falls due.
	DesiredRetention float64

	// MaximumIntervalDays caps the scheduled interval.
	MaximumIntervalDays float64
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the default.
type ParamsConfig struct {
	Weights             []float64
	DesiredRetention    float64
	MaximumIntervalDays float64
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		Weights:             DefaultWeights,
		DesiredRetention:    DefaultDesiredRetention,
		MaximumIntervalDays: DefaultMaximumIntervalDays,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if len(config.Weights) > 0 {
		if len(config.Weights) != WeightCount {
			return nil, fmt.Errorf("%w: expected %d weights, got %d",
				ErrInvalidParams, WeightCount, len(config.Weights))
		}
		copy(params.Weights[:], config.Weights)
	}
	if config.DesiredRetention != 0 {
		params.DesiredRetention = config.DesiredRetention
	}
	if config.MaximumIntervalDays != 0 {
		params.MaximumIntervalDays = config.MaximumIntervalDays
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Validate checks every parameter against its bounds.
func (p *Params) Validate() error {
	for i, w := range p.Weights {
		if w < weightLowerBounds[i] || w > weightUpperBounds[i] {
			return fmt.Errorf("%w: w[%d] = %g, bounds [%g, %g]",
				ErrInvalidParams, i, w, weightLowerBounds[i], weightUpperBounds[i])
		}
	}
	if p.DesiredRetention <= 0 || p.DesiredRetention >= 1 {
		return fmt.Errorf("%w: desired retention %g must be in (0, 1)",
			ErrInvalidParams, p.DesiredRetention)
	}
	if p.MaximumIntervalDays < 1 || p.MaximumIntervalDays > maxStability {
		return fmt.Errorf("%w: maximum interval %g days must be in [1, %g]",
			ErrInvalidParams, p.MaximumIntervalDays, maxStability)
	}
	return nil
}
