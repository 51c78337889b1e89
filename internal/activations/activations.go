// Package activations provides the sigmoid activation and its derivative.
package activations

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Activation is an activation function with derivative.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x) from the pre-activation x
	Derivative(x float64) float64
}

// Sigmoid activation function.
type Sigmoid struct{}

// sigmoid computes the logistic function
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Activate computes sigmoid(x)
func (s Sigmoid) Activate(x float64) float64 {
	return sigmoid(x)
}

// Derivative computes sigmoid(x) * (1 - sigmoid(x))
func (s Sigmoid) Derivative(x float64) float64 {
	sigma := sigmoid(x)
	return sigma * (1 - sigma)
}

// ActivateVec writes act(z[i]) into dst[i]. dst and z must have the same length;
// they may be the same vector.
func ActivateVec(act Activation, dst, z *mat.VecDense) {
	n := z.Len()
	if dst.Len() != n {
		panic("activations: length mismatch")
	}
	for i := 0; i < n; i++ {
		dst.SetVec(i, act.Activate(z.AtVec(i)))
	}
}

// MulDerivativeVec multiplies delta elementwise by act'(z), in place.
func MulDerivativeVec(act Activation, delta, z *mat.VecDense) {
	n := z.Len()
	if delta.Len() != n {
		panic("activations: length mismatch")
	}
	for i := 0; i < n; i++ {
		delta.SetVec(i, delta.AtVec(i)*act.Derivative(z.AtVec(i)))
	}
}
