// Package activations provides benchmarks for activation functions.
package activations

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// fillRandom fills a slice with random values.
func fillRandom(slice []float64) {
	for i := range slice {
		slice[i] = rand.Float64()*8 - 4
	}
}

// BenchmarkSigmoidActivate benchmarks the Sigmoid activation function.
func BenchmarkSigmoidActivate(b *testing.B) {
	sigmoid := Sigmoid{}
	inputs := make([]float64, 1000)
	fillRandom(inputs)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, x := range inputs {
			sigmoid.Activate(x)
		}
	}
}

// BenchmarkSigmoidDerivative benchmarks the Sigmoid derivative function.
func BenchmarkSigmoidDerivative(b *testing.B) {
	sigmoid := Sigmoid{}
	inputs := make([]float64, 1000)
	fillRandom(inputs)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, x := range inputs {
			sigmoid.Derivative(x)
		}
	}
}

// BenchmarkActivateVec benchmarks activation of a hidden-layer sized vector.
func BenchmarkActivateVec(b *testing.B) {
	data := make([]float64, 784)
	fillRandom(data)
	z := mat.NewVecDense(len(data), data)
	dst := mat.NewVecDense(len(data), nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ActivateVec(Sigmoid{}, dst, z)
	}
}
