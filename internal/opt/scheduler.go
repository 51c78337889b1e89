package opt

import "math"

// Scheduler yields the learning rate to use for a given epoch (0-based).
type Scheduler interface {
	LearningRate(epoch int) float64
}

// Constant keeps the same learning rate for every epoch.
type Constant float64

// LearningRate returns the constant rate.
func (c Constant) LearningRate(epoch int) float64 {
	return float64(c)
}

// StepLR decays the learning rate by Gamma every StepSize epochs.
type StepLR struct {
	Initial  float64
	StepSize int
	Gamma    float64
}

// NewStepLR creates a StepLR scheduler.
func NewStepLR(initial float64, stepSize int, gamma float64) *StepLR {
	return &StepLR{
		Initial:  initial,
		StepSize: stepSize,
		Gamma:    gamma,
	}
}

// LearningRate returns Initial * Gamma^(epoch / StepSize).
func (s *StepLR) LearningRate(epoch int) float64 {
	if s.StepSize <= 0 {
		return s.Initial
	}
	return s.Initial * math.Pow(s.Gamma, float64(epoch/s.StepSize))
}

// ExponentialLR decays the learning rate by Gamma every epoch.
type ExponentialLR struct {
	Initial float64
	Gamma   float64
}

// LearningRate returns Initial * Gamma^epoch.
func (s ExponentialLR) LearningRate(epoch int) float64 {
	return s.Initial * math.Pow(s.Gamma, float64(epoch))
}
