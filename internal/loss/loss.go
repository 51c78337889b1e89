// Package loss provides the quadratic cost used to train and monitor networks.
package loss

// BackwardInPlacer is an optional interface for loss functions that support
// in-place gradient computation to avoid allocations.
type BackwardInPlacer interface {
	BackwardInPlace(yPred, yTrue, grad []float64)
}

// Loss is a loss function with derivative.
type Loss interface {
	// Forward computes the loss between predicted and true values.
	Forward(yPred, yTrue []float64) float64

	// Backward computes the gradient of the loss w.r.t. prediction.
	// This creates a new slice and should be avoided in hot loops.
	Backward(yPred, yTrue []float64) []float64
}

// Cost computes 0.5 * sum((target_i - output_i)^2).
func Cost(target, output []float64) float64 {
	n := len(output)
	if n != len(target) {
		panic("Cost: target and output must have same length")
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := target[i] - output[i]
		sum += diff * diff
	}
	return 0.5 * sum
}

// CostPrime returns output - target, the derivative of Cost w.r.t. output.
func CostPrime(target, output []float64) []float64 {
	grad := make([]float64, len(output))
	Quadratic{}.BackwardInPlace(output, target, grad)
	return grad
}

// Quadratic is the summed half squared error. Unlike a mean squared error it
// is not divided by the output width, so its gradient is exactly yPred - yTrue.
type Quadratic struct{}

// Forward computes 0.5 * sum((y_pred - y_true)^2)
func (q Quadratic) Forward(yPred, yTrue []float64) float64 {
	return Cost(yTrue, yPred)
}

// Backward computes gradient: dL/dy_pred = y_pred - y_true
// Note: Returned slice is newly allocated for safety.
func (q Quadratic) Backward(yPred, yTrue []float64) []float64 {
	return CostPrime(yTrue, yPred)
}

// BackwardInPlace computes gradient and stores it in the grad slice.
func (q Quadratic) BackwardInPlace(yPred, yTrue, grad []float64) {
	n := len(yPred)
	if n != len(yTrue) || n != len(grad) {
		panic("Quadratic: slices must have same length")
	}

	for i := 0; i < n; i++ {
		grad[i] = yPred[i] - yTrue[i]
	}
}
