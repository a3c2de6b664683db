package rehearse

import "fmt"

// Parameters configures the scheduling engine. Zero values are filled with
// defaults by NewEngine; out-of-bounds values return ErrInvalidParameters.
type Parameters struct {
	// DesiredRetention is the target recall probability at review time.
	// Zero means 0.9.
	DesiredRetention float64 `json:"desired_retention"`

	// MinStability and MaxStability bound the stability estimate in days.
	// Zero means 0.1 and 36500.
	MinStability float64 `json:"min_stability"`
	MaxStability float64 `json:"max_stability"`

	// MinInterval and MaxInterval bound the scheduled interval in days.
	// Zero means 1 and 36500.
	MinInterval int `json:"min_interval"`
	MaxInterval int `json:"max_interval"`

	// GraduationStability is the stability (days) at which a Learning or
	// Relearning card graduates to Review on a successful rating.
	// Zero means 2.0.
	GraduationStability float64 `json:"graduation_stability"`

	// FuzzFactor is the relative width of the randomized interval
	// perturbation applied to Review intervals. Zero means 0.05.
	FuzzFactor float64 `json:"fuzz_factor"`

	// MeanReversion is the exponential smoothing weight pulling difficulty
	// back toward the neutral default after each update. Zero means 0.07.
	MeanReversion float64 `json:"mean_reversion"`

	// DisableFuzzing turns off interval fuzz, producing deterministic
	// schedules. Used by tests and replays.
	DisableFuzzing bool `json:"disable_fuzzing"`
}

// DefaultParameters returns the stock engine configuration.
func DefaultParameters() Parameters {
	return Parameters{
		DesiredRetention:    0.9,
		MinStability:        0.1,
		MaxStability:        36500,
		MinInterval:         1,
		MaxInterval:         36500,
		GraduationStability: 2.0,
		FuzzFactor:          0.05,
		MeanReversion:       0.07,
	}
}

// withDefaults fills zero-valued fields from DefaultParameters.
func (p Parameters) withDefaults() Parameters {
	d := DefaultParameters()
	if p.DesiredRetention == 0 {
		p.DesiredRetention = d.DesiredRetention
	}
	if p.MinStability == 0 {
		p.MinStability = d.MinStability
	}
	if p.MaxStability == 0 {
		p.MaxStability = d.MaxStability
	}
	if p.MinInterval == 0 {
		p.MinInterval = d.MinInterval
	}
	if p.MaxInterval == 0 {
		p.MaxInterval = d.MaxInterval
	}
	if p.GraduationStability == 0 {
		p.GraduationStability = d.GraduationStability
	}
	if p.FuzzFactor == 0 {
		p.FuzzFactor = d.FuzzFactor
	}
	if p.MeanReversion == 0 {
		p.MeanReversion = d.MeanReversion
	}
	return p
}

// Validate checks that all parameters are within their allowed bounds.
func (p Parameters) Validate() error {
	if p.DesiredRetention <= 0 || p.DesiredRetention >= 1 {
		return fmt.Errorf("%w: desired retention %g outside (0, 1)", ErrInvalidParameters, p.DesiredRetention)
	}
	if p.MinStability <= 0 {
		return fmt.Errorf("%w: min stability %g must be positive", ErrInvalidParameters, p.MinStability)
	}
	if p.MaxStability < p.MinStability {
		return fmt.Errorf("%w: max stability %g below min stability %g", ErrInvalidParameters, p.MaxStability, p.MinStability)
	}
	if p.MinInterval < 1 {
		return fmt.Errorf("%w: min interval %d must be at least 1 day", ErrInvalidParameters, p.MinInterval)
	}
	if p.MaxInterval < p.MinInterval {
		return fmt.Errorf("%w: max interval %d below min interval %d", ErrInvalidParameters, p.MaxInterval, p.MinInterval)
	}
	if p.GraduationStability <= 0 {
		return fmt.Errorf("%w: graduation stability %g must be positive", ErrInvalidParameters, p.GraduationStability)
	}
	if p.FuzzFactor < 0 || p.FuzzFactor > 0.5 {
		return fmt.Errorf("%w: fuzz factor %g outside [0, 0.5]", ErrInvalidParameters, p.FuzzFactor)
	}
	if p.MeanReversion < 0 || p.MeanReversion > 1 {
		return fmt.Errorf("%w: mean reversion %g outside [0, 1]", ErrInvalidParameters, p.MeanReversion)
	}
	return nil
}
