// Package opt provides the gradient-descent update rule and learning-rate schedules.
package opt

// Optimizer updates network parameters based on gradients.
type Optimizer interface {
	// Step computes updated parameters: params - lr * gradients
	// Returns a new slice with updated values
	Step(params, gradients []float64) []float64

	// StepInPlace updates params in-place: params = params - lr * gradients
	StepInPlace(params, gradients []float64)
}

var _ Optimizer = SGD{}

// SGD (Stochastic Gradient Descent) optimizer.
type SGD struct {
	LearningRate float64
}

// ForBatch returns the SGD step that averages gradients summed over
// batchSize examples: the effective rate is learningRate / batchSize.
func ForBatch(learningRate float64, batchSize int) SGD {
	return SGD{LearningRate: learningRate / float64(batchSize)}
}

// Step computes updated parameters: params - lr * gradients
func (s SGD) Step(params, gradients []float64) []float64 {
	result := make([]float64, len(params))
	for i := range params {
		result[i] = params[i] - s.LearningRate*gradients[i]
	}
	return result
}

// StepInPlace updates params in-place: params = params - lr * gradients
func (s SGD) StepInPlace(params, gradients []float64) {
	if len(params) != len(gradients) {
		panic("SGD: params and gradients must have same length")
	}
	for i := range params {
		params[i] -= s.LearningRate * gradients[i]
	}
}
