package verification

import (
	"RelayBot/internal/core/domain"
	"errors"
	"math/rand/v2"
)

// Sampler returns a number in [0, 1).
type Sampler func() float64

// RandomSampler draws from the process-wide generator.
func RandomSampler() float64 {
	return rand.Float64()
}

// Weights are the relative chances of each outcome.
type Weights struct {
	Success float64
	Warning float64
	Failure float64
}

// DefaultWeights gives 90% success, 5% warning, 5% failure.
var DefaultWeights = Weights{Success: 0.90, Warning: 0.05, Failure: 0.05}

// Validate rejects negative weights and an all-zero set.
func (w Weights) Validate() error {
	if w.Success < 0 || w.Warning < 0 || w.Failure < 0 {
		return errors.New("outcome weights must not be negative")
	}
	if w.Success+w.Warning+w.Failure <= 0 {
		return errors.New("outcome weights must sum to a positive value")
	}
	return nil
}

// Pick maps r in [0, 1) onto an outcome: below the success share is
// Success, from 1 minus the failure share upwards is Failure, the gap is
// Warning. The failure edge comes from the complement because summing
// success+warning drifts (0.9+0.05 is 0.9500000000000001).
func (w Weights) Pick(r float64) domain.Outcome {
	total := w.Success + w.Warning + w.Failure
	switch {
	case w.Failure > 0 && r >= 1-w.Failure/total:
		return domain.OutcomeFailure
	case r < w.Success/total:
		return domain.OutcomeSuccess
	case w.Warning > 0:
		return domain.OutcomeWarning
	default:
		return domain.OutcomeSuccess
	}
}

// templateKey is the notification sent for an outcome.
func templateKey(o domain.Outcome) string {
	switch o {
	case domain.OutcomeSuccess:
		return "check_success"
	case domain.OutcomeWarning:
		return "check_warning"
	default:
		return "check_failed"
	}
}
